package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertBehaviorPattern = `
INSERT INTO behavior_patterns (id, user_id, pattern_type, pattern_data, confidence_score, observation_count, last_observed)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertBehaviorPatternParams struct {
	ID               string
	UserID           string
	PatternType      string
	PatternData      []byte
	ConfidenceScore  int32
	ObservationCount int32
	LastObserved     pgtype.Timestamptz
}

func (q *Queries) InsertBehaviorPattern(ctx context.Context, arg InsertBehaviorPatternParams) error {
	_, err := q.db.Exec(ctx, insertBehaviorPattern,
		arg.ID,
		arg.UserID,
		arg.PatternType,
		arg.PatternData,
		arg.ConfidenceScore,
		arg.ObservationCount,
		arg.LastObserved,
	)
	return err
}

const listBehaviorPatterns = `
SELECT id, user_id, pattern_type, pattern_data, confidence_score, observation_count, last_observed
FROM behavior_patterns
WHERE user_id = $1
ORDER BY last_observed DESC, id DESC
`

func (q *Queries) ListBehaviorPatterns(ctx context.Context, userID string) ([]BehaviorPattern, error) {
	rows, err := q.db.Query(ctx, listBehaviorPatterns, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BehaviorPattern
	for rows.Next() {
		var i BehaviorPattern
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.PatternType,
			&i.PatternData,
			&i.ConfidenceScore,
			&i.ObservationCount,
			&i.LastObserved,
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
