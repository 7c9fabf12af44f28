package coach

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound is returned by a Store when the user has no profile yet.
	ErrProfileNotFound = errors.New("coach: profile not found")

	// ErrInvalidOutput means the model answered with data that failed validation.
	ErrInvalidOutput = errors.New("coach: invalid model output")

	// ErrInvalidFeedback is returned when a feedback record is rejected before storage.
	ErrInvalidFeedback = errors.New("coach: invalid feedback")

	ErrInvalidProfile = errors.New("coach: invalid profile")
)

// StrictGenerationError is returned instead of a fallback response when the
// caller asked for failures to be surfaced.
type StrictGenerationError struct {
	UserID string
	Reason string
	Err    error
}

func (e *StrictGenerationError) Error() string {
	return fmt.Sprintf("coach: %s for user %s: %v", e.Summary(), e.UserID, e.Err)
}

// Summary describes the failure from Reason alone, without the wrapped error.
func (e *StrictGenerationError) Summary() string {
	switch e.Reason {
	case ReasonProfileUnavailable:
		return "profile could not be loaded"
	case ReasonTimeout:
		return "generation timed out"
	case ReasonInvalidOutput:
		return "model returned invalid output"
	default:
		return "generation failed"
	}
}

func (e *StrictGenerationError) Unwrap() error {
	return e.Err
}
