package coach

import (
	"context"
	"fmt"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

// recordInteraction stores telemetry for a generated response. Failures are
// logged and never reach the caller.
func (e *Engine) recordInteraction(ctx context.Context, userID, promptText string, resp *domain.CoachingResponse, uc domain.UserContext) {
	rec := domain.InteractionRecord{
		UserID:             userID,
		InteractionID:      resp.InteractionID,
		InteractionType:    domain.InteractionChat,
		PromptUsed:         promptText,
		ResponseGenerated:  resp.Response,
		UserContext:        recordedContext(uc),
		AdaptationsApplied: resp.Adaptations,
		UserEngagement:     domain.UserEngagement{},
		CreatedAt:          e.now().UTC(),
	}
	if err := e.store.RecordInteraction(ctx, rec); err != nil {
		e.logger.Warn().Err(err).
			Str("user_id", userID).
			Str("interaction_id", resp.InteractionID).
			Msg("failed to record interaction")
	}
}

func recordedContext(uc domain.UserContext) domain.RecordedContext {
	rc := domain.RecordedContext{
		Goals:       uc.CurrentGoals,
		Activity:    uc.RecentActivity,
		Mood:        uc.Mood,
		Environment: uc.Environment,
	}
	if s := uc.Schedule; s != nil {
		switch {
		case s.AvailableMinutes > 0 && s.Flexibility != "":
			rc.TimeConstraints = fmt.Sprintf("%d minutes available, %s flexibility", s.AvailableMinutes, s.Flexibility)
		case s.AvailableMinutes > 0:
			rc.TimeConstraints = fmt.Sprintf("%d minutes available", s.AvailableMinutes)
		case s.Flexibility != "":
			rc.TimeConstraints = s.Flexibility + " flexibility"
		}
	}
	return rc
}
