// Package store implements coach.Store on Postgres and in memory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/db"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

// Postgres stores coaching state through the sqlc-style queries in db.
type Postgres struct {
	q *db.Queries
}

func NewPostgres(q *db.Queries) *Postgres {
	return &Postgres{q: q}
}

var _ coach.Store = (*Postgres)(nil)

func (s *Postgres) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row, err := s.q.GetProfile(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, coach.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get profile: %w", err)
	}
	return profileFromRow(row)
}

func (s *Postgres) SaveProfile(ctx context.Context, p *domain.Profile) error {
	arg, err := profileParams(p)
	if err != nil {
		return err
	}
	if err := s.q.UpsertProfile(ctx, arg); err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}
	return nil
}

// UpdateEffectiveness writes the score in a single statement; concurrent
// writers for the same user resolve as last writer wins.
func (s *Postgres) UpdateEffectiveness(ctx context.Context, userID string, score float64) error {
	n, err := s.q.UpdateEffectiveness(ctx, db.UpdateEffectivenessParams{UserID: userID, Score: score})
	if err != nil {
		return fmt.Errorf("store: update effectiveness: %w", err)
	}
	if n == 0 {
		return coach.ErrProfileNotFound
	}
	return nil
}

func (s *Postgres) GetBehaviorPatterns(ctx context.Context, userID string) ([]domain.BehaviorPattern, error) {
	rows, err := s.q.ListBehaviorPatterns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list behavior patterns: %w", err)
	}
	out := make([]domain.BehaviorPattern, 0, len(rows))
	for _, r := range rows {
		bp, err := patternFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

func (s *Postgres) GetFeedback(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	rows, err := s.q.ListRecentFeedback(ctx, db.ListRecentFeedbackParams{UserID: userID, Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("store: list feedback: %w", err)
	}
	out := make([]domain.Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, feedbackFromRow(r))
	}
	return out, nil
}

func (s *Postgres) AppendFeedback(ctx context.Context, f *domain.Feedback) error {
	if f.ID == "" {
		f.ID = ulid.Make().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	arg := db.InsertFeedbackParams{
		ID:              f.ID,
		UserID:          f.UserID,
		InteractionID:   pgtype.Text{String: f.InteractionID, Valid: f.InteractionID != ""},
		InteractionType: f.InteractionType,
		FeedbackText:    pgtype.Text{String: f.FeedbackText, Valid: f.FeedbackText != ""},
		CreatedAt:       pgtype.Timestamptz{Time: f.CreatedAt, Valid: true},
	}
	if f.Rating != nil {
		arg.Rating = pgtype.Int4{Int32: int32(*f.Rating), Valid: true}
	}
	if err := s.q.InsertFeedback(ctx, arg); err != nil {
		return fmt.Errorf("store: insert feedback: %w", err)
	}
	return nil
}

func (s *Postgres) AppendBehaviorPattern(ctx context.Context, bp *domain.BehaviorPattern) error {
	if bp.ID == "" {
		bp.ID = ulid.Make().String()
	}
	data, err := json.Marshal(bp.PatternData)
	if err != nil {
		return fmt.Errorf("store: encode pattern data: %w", err)
	}
	err = s.q.InsertBehaviorPattern(ctx, db.InsertBehaviorPatternParams{
		ID:               bp.ID,
		UserID:           bp.UserID,
		PatternType:      bp.PatternType,
		PatternData:      data,
		ConfidenceScore:  int32(bp.ConfidenceScore),
		ObservationCount: int32(bp.ObservationCount),
		LastObserved:     pgtype.Timestamptz{Time: bp.LastObserved, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("store: insert behavior pattern: %w", err)
	}
	return nil
}

func (s *Postgres) RecordInteraction(ctx context.Context, rec domain.InteractionRecord) error {
	arg, err := interactionParams(rec)
	if err != nil {
		return err
	}
	if err := s.q.InsertInteraction(ctx, arg); err != nil {
		return fmt.Errorf("store: insert interaction: %w", err)
	}
	return nil
}
