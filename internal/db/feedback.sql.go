package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertFeedback = `
INSERT INTO coaching_feedback (id, user_id, interaction_id, interaction_type, rating, feedback_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`

type InsertFeedbackParams struct {
	ID              string
	UserID          string
	InteractionID   pgtype.Text
	InteractionType string
	Rating          pgtype.Int4
	FeedbackText    pgtype.Text
	CreatedAt       pgtype.Timestamptz
}

func (q *Queries) InsertFeedback(ctx context.Context, arg InsertFeedbackParams) error {
	_, err := q.db.Exec(ctx, insertFeedback,
		arg.ID,
		arg.UserID,
		arg.InteractionID,
		arg.InteractionType,
		arg.Rating,
		arg.FeedbackText,
		arg.CreatedAt,
	)
	return err
}

const listRecentFeedback = `
SELECT id, user_id, interaction_id, interaction_type, rating, feedback_text, created_at
FROM coaching_feedback
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListRecentFeedbackParams struct {
	UserID string
	Limit  int32
}

func (q *Queries) ListRecentFeedback(ctx context.Context, arg ListRecentFeedbackParams) ([]CoachingFeedback, error) {
	rows, err := q.db.Query(ctx, listRecentFeedback, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CoachingFeedback
	for rows.Next() {
		var i CoachingFeedback
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.InteractionID,
			&i.InteractionType,
			&i.Rating,
			&i.FeedbackText,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
