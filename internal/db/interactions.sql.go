package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertInteraction = `
INSERT INTO coaching_interactions (
    interaction_id, user_id, interaction_type, prompt_used, response_generated,
    user_context, adaptations_applied, user_engagement, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertInteractionParams struct {
	InteractionID      string
	UserID             string
	InteractionType    string
	PromptUsed         string
	ResponseGenerated  string
	UserContext        []byte
	AdaptationsApplied []byte
	UserEngagement     []byte
	CreatedAt          pgtype.Timestamptz
}

func (q *Queries) InsertInteraction(ctx context.Context, arg InsertInteractionParams) error {
	_, err := q.db.Exec(ctx, insertInteraction,
		arg.InteractionID,
		arg.UserID,
		arg.InteractionType,
		arg.PromptUsed,
		arg.ResponseGenerated,
		arg.UserContext,
		arg.AdaptationsApplied,
		arg.UserEngagement,
		arg.CreatedAt,
	)
	return err
}
