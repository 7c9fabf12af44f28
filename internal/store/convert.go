package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/briangreenhill/adaptivecoach/internal/db"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

func profileFromRow(row db.CoachingProfile) (*domain.Profile, error) {
	p := &domain.Profile{
		UserID:             row.UserID,
		EffectivenessScore: row.CoachingEffectivenessScore,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
	}
	if err := json.Unmarshal(row.CommunicationStyle, &p.CommunicationStyle); err != nil {
		return nil, fmt.Errorf("store: decode communication style: %w", err)
	}
	if err := json.Unmarshal(row.BehavioralPatterns, &p.BehavioralPatterns); err != nil {
		return nil, fmt.Errorf("store: decode behavioral patterns: %w", err)
	}
	if err := json.Unmarshal(row.FeedbackPatterns, &p.FeedbackPatterns); err != nil {
		return nil, fmt.Errorf("store: decode feedback patterns: %w", err)
	}
	return p, nil
}

func profileParams(p *domain.Profile) (db.UpsertProfileParams, error) {
	cs, err := json.Marshal(p.CommunicationStyle)
	if err != nil {
		return db.UpsertProfileParams{}, fmt.Errorf("store: encode communication style: %w", err)
	}
	bp, err := json.Marshal(p.BehavioralPatterns)
	if err != nil {
		return db.UpsertProfileParams{}, fmt.Errorf("store: encode behavioral patterns: %w", err)
	}
	fp, err := json.Marshal(p.FeedbackPatterns)
	if err != nil {
		return db.UpsertProfileParams{}, fmt.Errorf("store: encode feedback patterns: %w", err)
	}
	created, updated := p.CreatedAt, p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	if created.IsZero() {
		created = updated
	}
	return db.UpsertProfileParams{
		UserID:                     p.UserID,
		CommunicationStyle:         cs,
		BehavioralPatterns:         bp,
		FeedbackPatterns:           fp,
		CoachingEffectivenessScore: p.EffectivenessScore,
		CreatedAt:                  pgtype.Timestamptz{Time: created, Valid: true},
		UpdatedAt:                  pgtype.Timestamptz{Time: updated, Valid: true},
	}, nil
}

func feedbackFromRow(r db.CoachingFeedback) domain.Feedback {
	f := domain.Feedback{
		ID:              r.ID,
		UserID:          r.UserID,
		InteractionID:   r.InteractionID.String,
		InteractionType: r.InteractionType,
		FeedbackText:    r.FeedbackText.String,
		CreatedAt:       r.CreatedAt.Time,
	}
	if r.Rating.Valid {
		rating := int(r.Rating.Int32)
		f.Rating = &rating
	}
	return f
}

func patternFromRow(r db.BehaviorPattern) (domain.BehaviorPattern, error) {
	bp := domain.BehaviorPattern{
		ID:               r.ID,
		UserID:           r.UserID,
		PatternType:      r.PatternType,
		ConfidenceScore:  int(r.ConfidenceScore),
		ObservationCount: int(r.ObservationCount),
		LastObserved:     r.LastObserved.Time,
	}
	if err := json.Unmarshal(r.PatternData, &bp.PatternData); err != nil {
		return domain.BehaviorPattern{}, fmt.Errorf("store: decode pattern %s: %w", r.ID, err)
	}
	return bp, nil
}

func interactionParams(rec domain.InteractionRecord) (db.InsertInteractionParams, error) {
	uc, err := json.Marshal(rec.UserContext)
	if err != nil {
		return db.InsertInteractionParams{}, fmt.Errorf("store: encode user context: %w", err)
	}
	adaptations := rec.AdaptationsApplied
	if adaptations == nil {
		adaptations = []string{}
	}
	ad, err := json.Marshal(adaptations)
	if err != nil {
		return db.InsertInteractionParams{}, fmt.Errorf("store: encode adaptations: %w", err)
	}
	ue, err := json.Marshal(rec.UserEngagement)
	if err != nil {
		return db.InsertInteractionParams{}, fmt.Errorf("store: encode engagement: %w", err)
	}
	return db.InsertInteractionParams{
		InteractionID:      rec.InteractionID,
		UserID:             rec.UserID,
		InteractionType:    rec.InteractionType,
		PromptUsed:         rec.PromptUsed,
		ResponseGenerated:  rec.ResponseGenerated,
		UserContext:        uc,
		AdaptationsApplied: ad,
		UserEngagement:     ue,
		CreatedAt:          pgtype.Timestamptz{Time: rec.CreatedAt, Valid: true},
	}, nil
}
