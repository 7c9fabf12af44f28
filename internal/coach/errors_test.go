package coach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

func TestStrictGenerationError_Message(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	tests := []struct {
		reason  string
		summary string
	}{
		{ReasonProfileUnavailable, "profile could not be loaded"},
		{ReasonTimeout, "generation timed out"},
		{ReasonInvalidOutput, "model returned invalid output"},
		{ReasonGenerationFailed, "generation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			err := &StrictGenerationError{UserID: "u1", Reason: tt.reason, Err: cause}
			assert.Equal(t, tt.summary, err.Summary())
			assert.NotContains(t, err.Summary(), "10.0.0.5")
			assert.Equal(t, "coach: "+tt.summary+" for user u1: "+cause.Error(), err.Error())
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestGeneratePersonalizedResponse_StrictProfileUnavailable(t *testing.T) {
	store := newFakeStore()
	store.profileErr = errors.New("pool closed")
	e := New(store, &fakeGenerator{out: goodResponse()})

	_, err := e.GeneratePersonalizedResponse(context.Background(), "u1", "q", domain.UserContext{}, Options{ThrowOnError: true})
	var strict *StrictGenerationError
	require.ErrorAs(t, err, &strict)
	assert.Equal(t, ReasonProfileUnavailable, strict.Reason)
	assert.NotContains(t, err.Error(), "generation")
}
