// Package jobs defines the background tasks processed by cmd/worker.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

const (
	TaskProcessFeedback = "coach:process_feedback"
	QueueFeedback       = "feedback"
)

type ProcessFeedbackPayload struct {
	UserID   string          `json:"user_id"`
	Feedback domain.Feedback `json:"feedback"`
}

// NewProcessFeedbackTask builds the task that runs the feedback loop for one
// record. The record gets its id and timestamp here, so a retried or delayed
// task keeps its place in the feedback history and a replayed insert is a no-op.
func NewProcessFeedbackTask(userID string, f domain.Feedback) (*asynq.Task, error) {
	if f.ID == "" {
		f.ID = ulid.Make().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ProcessFeedbackPayload{UserID: userID, Feedback: f})
	if err != nil {
		return nil, fmt.Errorf("marshal feedback payload: %w", err)
	}
	return asynq.NewTask(TaskProcessFeedback, payload), nil
}

// FeedbackProcessor is implemented by *coach.Engine.
type FeedbackProcessor interface {
	ProcessFeedback(ctx context.Context, userID string, f domain.Feedback) error
}

// HandleProcessFeedback runs the feedback loop for a queued record. Transient
// store failures are retried by asynq; anything else is dropped.
func HandleProcessFeedback(p FeedbackProcessor, logger zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ProcessFeedbackPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error().Err(err).Msg("bad feedback payload")
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}

		log := logger.With().Str("user_id", payload.UserID).Str("interaction_type", payload.Feedback.InteractionType).Logger()
		start := time.Now()
		err := p.ProcessFeedback(ctx, payload.UserID, payload.Feedback)
		duration := time.Since(start)

		if err != nil {
			if IsRetryable(err) {
				log.Warn().Err(err).Dur("duration", duration).Msg("retryable feedback error")
				return err
			}
			log.Error().Err(err).Dur("duration", duration).Msg("permanent feedback error, dropping job")
			return nil
		}
		log.Info().Dur("duration", duration).Msg("feedback processed")
		return nil
	}
}

// IsRetryable determines if a feedback processing error should trigger a job retry
func IsRetryable(err error) bool {
	if errors.Is(err, coach.ErrInvalidFeedback) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network/connectivity issues
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dns") {
		return true
	}

	// Postgres is shutting down or out of connections
	if strings.Contains(errStr, "too many clients") ||
		strings.Contains(errStr, "shutting down") ||
		strings.Contains(errStr, "deadlock") {
		return true
	}

	// Constraint violations, bad data
	return false
}

// Enqueuer submits feedback to the background queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(redisAddr string) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueFeedback validates f and queues it for processing.
func (e *Enqueuer) EnqueueFeedback(ctx context.Context, userID string, f domain.Feedback) (string, error) {
	f.UserID = userID
	if err := coach.ValidateFeedback(f); err != nil {
		return "", err
	}
	task, err := NewProcessFeedbackTask(userID, f)
	if err != nil {
		return "", err
	}
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueFeedback),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue feedback: %w", err)
	}
	return info.ID, nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}
