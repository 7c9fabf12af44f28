package coach

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
)

const (
	recommendationTemperature = 0.6
	recommendationMaxTokens   = 1500
	recommendationFeedback    = 10
)

// GenerateAdaptiveRecommendations returns up to four recommendations for
// userID. Any failure is logged and produces an empty list.
func (e *Engine) GenerateAdaptiveRecommendations(ctx context.Context, userID string, uc domain.UserContext) []domain.AdaptiveRecommendation {
	recs, err := e.recommend(ctx, userID, uc)
	if err != nil {
		e.logger.Error().Err(err).Str("user_id", userID).Msg("recommendation generation failed")
		return []domain.AdaptiveRecommendation{}
	}
	return recs
}

func (e *Engine) recommend(ctx context.Context, userID string, uc domain.UserContext) ([]domain.AdaptiveRecommendation, error) {
	var (
		profile  *domain.Profile
		patterns []domain.BehaviorPattern
		feedback []domain.Feedback
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.lookupProfile(gctx, userID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		bp, err := e.store.GetBehaviorPatterns(gctx, userID)
		if err != nil {
			return fmt.Errorf("load behavior patterns: %w", err)
		}
		patterns = bp
		return nil
	})
	g.Go(func() error {
		fb, err := e.store.GetFeedback(gctx, userID, recommendationFeedback)
		if err != nil {
			return fmt.Errorf("load feedback: %w", err)
		}
		feedback = fb
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw, err := e.gen.GenerateStructured(ctx, generation.Request{
		Model:       e.model,
		Schema:      recommendationSchema(),
		Prompt:      e.adapter.Recommendations(profile, patterns, feedback, uc),
		Temperature: recommendationTemperature,
		MaxTokens:   recommendationMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	out, err := parseRecommendationOutput(raw)
	if err != nil {
		return nil, err
	}

	factors := nonEmpty(out.ContextualInsights.PrimaryFactors)
	recs := make([]domain.AdaptiveRecommendation, 0, maxRecommendations)
	for i, it := range out.Recommendations {
		if len(recs) == maxRecommendations {
			break
		}
		if err := it.validate(); err != nil {
			e.logger.Warn().Err(err).Int("index", i).Str("user_id", userID).Msg("dropping invalid recommendation")
			continue
		}
		steps := nonEmpty(it.ActionSteps)
		recs = append(recs, domain.AdaptiveRecommendation{
			Type:              domain.RecommendationType(it.Type),
			Title:             it.Title,
			Description:       it.Description,
			Confidence:        *it.Confidence,
			Reasoning:         it.Reasoning,
			Actionable:        len(steps) > 0,
			ActionSteps:       steps,
			Priority:          domain.Priority(it.Priority),
			ContextualFactors: append(make([]string, 0, len(factors)), factors...),
		})
	}
	return recs, nil
}
