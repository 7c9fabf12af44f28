package db

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/adaptivecoach/internal/db/migrations"
)

var tableRef = regexp.MustCompile(`(?i)\b(?:FROM|INTO|UPDATE)\s+([a-z_]+)`)

// Every query must target a table the migrations create.
func TestQueriesMatchSchema(t *testing.T) {
	schema, err := fs.ReadFile(migrations.FS, "00001_coaching.sql")
	require.NoError(t, err)

	queries := map[string]string{
		"getProfile":            getProfile,
		"upsertProfile":         upsertProfile,
		"updateEffectiveness":   updateEffectiveness,
		"insertFeedback":        insertFeedback,
		"listRecentFeedback":    listRecentFeedback,
		"insertBehaviorPattern": insertBehaviorPattern,
		"listBehaviorPatterns":  listBehaviorPatterns,
		"insertInteraction":     insertInteraction,
		"upsertUserByEmail":     upsertUserByEmail,
		"getUserByEmail":        getUserByEmail,
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			assert.NotContains(t, q, "-- name:")
			refs := tableRef.FindAllStringSubmatch(q, -1)
			require.NotEmpty(t, refs)
			for _, m := range refs {
				table := strings.ToLower(m[1])
				if table == "set" {
					continue
				}
				assert.Contains(t, string(schema), "CREATE TABLE "+table+" (", "table %s", table)
			}
		})
	}
}

func TestInsertFeedbackIsIdempotent(t *testing.T) {
	assert.Contains(t, insertFeedback, "ON CONFLICT (id) DO NOTHING")
}
