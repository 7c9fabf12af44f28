package coach

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

const (
	// Pattern detection looks further back than the effectiveness score.
	patternWindow       = 20
	effectivenessWindow = 10

	minPatternEvidence   = 3
	improvementThreshold = 3.5
	maxPatternConfidence = 90
	confidencePerRecord  = 4
)

// ValidateFeedback checks a record before it is stored.
func ValidateFeedback(f domain.Feedback) error {
	if strings.TrimSpace(f.InteractionType) == "" {
		return fmt.Errorf("%w: interaction type is required", ErrInvalidFeedback)
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return fmt.Errorf("%w: rating %d outside 1-5", ErrInvalidFeedback, *f.Rating)
	}
	return nil
}

// ProcessFeedback stores a feedback record, then looks for underperforming
// interaction types and refreshes the profile's effectiveness score. Only a
// failure to store the record is returned; the analysis steps are logged.
func (e *Engine) ProcessFeedback(ctx context.Context, userID string, f domain.Feedback) error {
	f.UserID = userID
	if err := ValidateFeedback(f); err != nil {
		return err
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = e.now().UTC()
	}
	if err := e.store.AppendFeedback(ctx, &f); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}

	log := e.logger.With().Str("user_id", userID).Str("feedback_id", f.ID).Logger()
	if err := e.detectPatterns(ctx, userID); err != nil {
		log.Warn().Err(err).Msg("pattern detection failed")
	}
	if err := e.refreshEffectiveness(ctx, userID); err != nil {
		log.Warn().Err(err).Msg("effectiveness update failed")
	}
	return nil
}

func (e *Engine) detectPatterns(ctx context.Context, userID string) error {
	records, err := e.store.GetFeedback(ctx, userID, patternWindow)
	if err != nil {
		return fmt.Errorf("load feedback: %w", err)
	}
	if len(records) < minPatternEvidence {
		return nil
	}

	analysis := AnalyzeFeedback(records)
	if len(analysis.ImprovementAreas) == 0 {
		return nil
	}

	bp := &domain.BehaviorPattern{
		UserID:      userID,
		PatternType: domain.PatternFeedbackStyle,
		PatternData: domain.PatternData{
			Description: "Lower ratings for " + strings.Join(analysis.ImprovementAreas, ", "),
			Conditions:  []string{fmt.Sprintf("mean rating below %.1f over the last %d feedback records", improvementThreshold, len(records))},
			Outcomes: domain.PatternOutcomes{
				AverageRating:    analysis.AverageRating,
				ImprovementAreas: analysis.ImprovementAreas,
			},
		},
		ConfidenceScore:  min(maxPatternConfidence, len(records)*confidencePerRecord),
		ObservationCount: len(records),
		LastObserved:     e.now().UTC(),
	}
	if err := e.store.AppendBehaviorPattern(ctx, bp); err != nil {
		return fmt.Errorf("append behavior pattern: %w", err)
	}
	return nil
}

func (e *Engine) refreshEffectiveness(ctx context.Context, userID string) error {
	profile, err := e.lookupProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil
	}

	records, err := e.store.GetFeedback(ctx, userID, effectivenessWindow)
	if err != nil {
		return fmt.Errorf("load feedback: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	return e.store.UpdateEffectiveness(ctx, userID, EffectivenessScore(records))
}

// FeedbackAnalysis is the per-interaction-type view of recent ratings.
type FeedbackAnalysis struct {
	AverageRating    float64            `json:"average_rating"`
	TypeAverages     map[string]float64 `json:"type_averages"`
	ImprovementAreas []string           `json:"improvement_areas"` // lowest-rated first
}

// AnalyzeFeedback averages ratings overall and per interaction type. Records
// without a rating are left out of the averages, and a type whose mean falls
// below 3.5 is reported as an improvement area.
func AnalyzeFeedback(records []domain.Feedback) FeedbackAnalysis {
	sums := make(map[string]int)
	counts := make(map[string]int)
	total, rated := 0, 0
	for _, f := range records {
		if f.Rating == nil {
			continue
		}
		sums[f.InteractionType] += *f.Rating
		counts[f.InteractionType]++
		total += *f.Rating
		rated++
	}

	a := FeedbackAnalysis{TypeAverages: make(map[string]float64, len(sums))}
	if rated > 0 {
		a.AverageRating = float64(total) / float64(rated)
	}
	for t, sum := range sums {
		mean := float64(sum) / float64(counts[t])
		a.TypeAverages[t] = mean
		if mean < improvementThreshold {
			a.ImprovementAreas = append(a.ImprovementAreas, t)
		}
	}
	sort.Slice(a.ImprovementAreas, func(i, j int) bool {
		ti, tj := a.ImprovementAreas[i], a.ImprovementAreas[j]
		if a.TypeAverages[ti] != a.TypeAverages[tj] {
			return a.TypeAverages[ti] < a.TypeAverages[tj]
		}
		return ti < tj
	})
	return a
}

// EffectivenessScore maps the mean rating of records onto 0-100, rating 1
// being 0 and rating 5 being 100. Missing ratings count as 3.
func EffectivenessScore(records []domain.Feedback) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, f := range records {
		sum += f.RatingOrDefault()
	}
	mean := float64(sum) / float64(len(records))
	return (mean - 1) * 25
}
