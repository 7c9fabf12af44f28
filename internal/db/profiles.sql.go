package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getProfile = `
SELECT user_id, communication_style, behavioral_patterns, feedback_patterns,
       coaching_effectiveness_score, created_at, updated_at
FROM coaching_profiles
WHERE user_id = $1
`

func (q *Queries) GetProfile(ctx context.Context, userID string) (CoachingProfile, error) {
	row := q.db.QueryRow(ctx, getProfile, userID)
	var i CoachingProfile
	err := row.Scan(
		&i.UserID,
		&i.CommunicationStyle,
		&i.BehavioralPatterns,
		&i.FeedbackPatterns,
		&i.CoachingEffectivenessScore,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertProfile = `
INSERT INTO coaching_profiles (
    user_id, communication_style, behavioral_patterns, feedback_patterns,
    coaching_effectiveness_score, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
    communication_style = EXCLUDED.communication_style,
    behavioral_patterns = EXCLUDED.behavioral_patterns,
    feedback_patterns   = EXCLUDED.feedback_patterns,
    updated_at          = EXCLUDED.updated_at
`

type UpsertProfileParams struct {
	UserID                     string
	CommunicationStyle         []byte
	BehavioralPatterns         []byte
	FeedbackPatterns           []byte
	CoachingEffectivenessScore float64
	CreatedAt                  pgtype.Timestamptz
	UpdatedAt                  pgtype.Timestamptz
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) error {
	_, err := q.db.Exec(ctx, upsertProfile,
		arg.UserID,
		arg.CommunicationStyle,
		arg.BehavioralPatterns,
		arg.FeedbackPatterns,
		arg.CoachingEffectivenessScore,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateEffectiveness = `
UPDATE coaching_profiles
SET coaching_effectiveness_score = $2, updated_at = now()
WHERE user_id = $1
`

type UpdateEffectivenessParams struct {
	UserID string
	Score  float64
}

func (q *Queries) UpdateEffectiveness(ctx context.Context, arg UpdateEffectivenessParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEffectiveness, arg.UserID, arg.Score)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
