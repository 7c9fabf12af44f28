package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
)

const (
	responseTemperature = 0.7
	responseMaxTokens   = 1000

	weeklyFeedbackRate  = 0.3
	monthlyFeedbackRate = 0.1
)

// Fallback reasons reported on degraded responses.
const (
	ReasonGenerationFailed   = "generation_failed"
	ReasonInvalidOutput      = "invalid_output"
	ReasonTimeout            = "timeout"
	ReasonProfileUnavailable = "profile_unavailable"
)

const fallbackText = "I couldn't put together a personalized answer just now. " +
	"If you planned to train today, keep it easy and conversational, listen to your body, and ask me again in a little while."

// Options control a single GeneratePersonalizedResponse call.
type Options struct {
	// ThrowOnError returns a *StrictGenerationError instead of a fallback
	// response when generation fails.
	ThrowOnError bool
}

// GeneratePersonalizedResponse answers query for userID, adapted to the
// user's profile and the supplied context. Unless opts.ThrowOnError is set
// the error is always nil: failures produce a fallback response.
func (e *Engine) GeneratePersonalizedResponse(ctx context.Context, userID, query string, uc domain.UserContext, opts Options) (*domain.CoachingResponse, error) {
	profile, err := e.lookupProfile(ctx, userID)
	if err != nil {
		return e.fail(userID, ReasonProfileUnavailable, fmt.Errorf("load profile: %w", err), opts)
	}

	promptText := e.adapter.Adapt(query, profile, uc)
	raw, err := e.gen.GenerateStructured(ctx, generation.Request{
		Model:       e.model,
		Schema:      responseSchema,
		Prompt:      promptText,
		Temperature: responseTemperature,
		MaxTokens:   responseMaxTokens,
	})
	if err != nil {
		reason := ReasonGenerationFailed
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return e.fail(userID, reason, err, opts)
	}

	out, err := parseResponseOutput(raw)
	if err != nil {
		return e.fail(userID, ReasonInvalidOutput, err, opts)
	}

	resp := &domain.CoachingResponse{
		Response:         out.Response,
		Confidence:       *out.Confidence,
		KeyPoints:        out.KeyPoints,
		Adaptations:      Adaptations(profile),
		RequestFeedback:  e.shouldRequestFeedback(profile),
		InteractionID:    e.newID(),
		ContextUsed:      uc.Fields(),
		SuggestedActions: out.ActionableAdvice,
	}

	e.recordInteraction(ctx, userID, promptText, resp, uc)
	return resp, nil
}

// Adaptations summarizes which profile facets shaped a response. A nil
// profile yields an empty list.
func Adaptations(p *domain.Profile) []string {
	if p == nil {
		return []string{}
	}
	cs := p.CommunicationStyle
	return []string{
		fmt.Sprintf("Communication style: %s motivation, %s detail", cs.MotivationLevel, cs.DetailPreference),
		fmt.Sprintf("Personality: %s", cs.PersonalityType),
		fmt.Sprintf("Coaching effectiveness: %.0f/100", p.EffectivenessScore),
	}
}

func (e *Engine) shouldRequestFeedback(p *domain.Profile) bool {
	if p == nil {
		return true
	}
	switch p.FeedbackPatterns.PreferredFeedbackFrequency {
	case domain.FeedbackAfterEveryWorkout:
		return true
	case domain.FeedbackWeekly:
		return e.rand.Float64() < weeklyFeedbackRate
	case domain.FeedbackMonthly:
		return e.rand.Float64() < monthlyFeedbackRate
	default:
		return false
	}
}

func (e *Engine) fail(userID, reason string, err error, opts Options) (*domain.CoachingResponse, error) {
	if opts.ThrowOnError {
		return nil, &StrictGenerationError{UserID: userID, Reason: reason, Err: err}
	}
	e.logger.Error().Err(err).Str("user_id", userID).Str("reason", reason).Msg("serving fallback response")
	return e.fallback(reason), nil
}

func (e *Engine) fallback(reason string) *domain.CoachingResponse {
	return &domain.CoachingResponse{
		Response:         fallbackText,
		Confidence:       0,
		KeyPoints:        []string{},
		Adaptations:      []string{},
		RequestFeedback:  false,
		InteractionID:    e.newID(),
		ContextUsed:      []string{},
		SuggestedActions: []string{},
		Fallback:         true,
		FallbackReason:   reason,
	}
}
