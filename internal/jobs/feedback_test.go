package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

type fakeProcessor struct {
	err      error
	userID   string
	feedback domain.Feedback
	calls    int
}

func (f *fakeProcessor) ProcessFeedback(ctx context.Context, userID string, fb domain.Feedback) error {
	f.calls++
	f.userID = userID
	f.feedback = fb
	return f.err
}

func TestNewProcessFeedbackTask(t *testing.T) {
	r := 4
	task, err := NewProcessFeedbackTask("u1", domain.Feedback{InteractionType: "chat", Rating: &r, FeedbackText: "good"})
	require.NoError(t, err)
	assert.Equal(t, TaskProcessFeedback, task.Type())

	var p ProcessFeedbackPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "chat", p.Feedback.InteractionType)
	assert.Equal(t, 4, *p.Feedback.Rating)
	assert.NotEmpty(t, p.Feedback.ID)
	assert.False(t, p.Feedback.CreatedAt.IsZero())
}

func TestNewProcessFeedbackTask_KeepsIdentity(t *testing.T) {
	at := time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)
	task, err := NewProcessFeedbackTask("u1", domain.Feedback{ID: "01HX", InteractionType: "chat", CreatedAt: at})
	require.NoError(t, err)

	var p ProcessFeedbackPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "01HX", p.Feedback.ID)
	assert.True(t, at.Equal(p.Feedback.CreatedAt))
}

func TestNewProcessFeedbackTask_StampsEachRecord(t *testing.T) {
	decode := func() domain.Feedback {
		task, err := NewProcessFeedbackTask("u1", domain.Feedback{InteractionType: "chat"})
		require.NoError(t, err)
		var p ProcessFeedbackPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &p))
		return p.Feedback
	}
	assert.NotEqual(t, decode().ID, decode().ID)
}

func TestHandleProcessFeedback(t *testing.T) {
	tests := []struct {
		name       string
		procErr    error
		wantErr    bool
		wantCalled int
	}{
		{name: "success", wantCalled: 1},
		{name: "retryable store error", procErr: errors.New("append feedback: connection reset by peer"), wantErr: true, wantCalled: 1},
		{name: "invalid feedback dropped", procErr: fmt.Errorf("%w: rating 9 outside 1-5", coach.ErrInvalidFeedback), wantCalled: 1},
		{name: "constraint violation dropped", procErr: errors.New("append feedback: duplicate key value"), wantCalled: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{err: tt.procErr}
			task, err := NewProcessFeedbackTask("u1", domain.Feedback{InteractionType: "chat"})
			require.NoError(t, err)

			err = HandleProcessFeedback(proc, zerolog.Nop())(context.Background(), task)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalled, proc.calls)
			assert.Equal(t, "u1", proc.userID)
		})
	}
}

func TestHandleProcessFeedback_BadPayload(t *testing.T) {
	proc := &fakeProcessor{}
	task := asynq.NewTask(TaskProcessFeedback, []byte("not json"))

	err := HandleProcessFeedback(proc, zerolog.Nop())(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, proc.calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("dial tcp 10.0.0.1:5432: i/o timeout"), true},
		{errors.New("connection refused"), true},
		{errors.New("FATAL: sorry, too many clients already"), true},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), true},
		{coach.ErrInvalidFeedback, false},
		{errors.New("violates check constraint"), false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
