package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
)

func rating(r int) *int { return &r }

func TestMemory_Profile(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, coach.ErrProfileNotFound)
	assert.ErrorIs(t, m.UpdateEffectiveness(ctx, "u1", 50), coach.ErrProfileNotFound)

	require.NoError(t, m.SaveProfile(ctx, &domain.Profile{UserID: "u1"}))
	require.NoError(t, m.UpdateEffectiveness(ctx, "u1", 87.5))

	p, err := m.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 87.5, p.EffectivenessScore)

	p.EffectivenessScore = 1
	again, _ := m.GetProfile(ctx, "u1")
	assert.Equal(t, 87.5, again.EffectivenessScore)
}

func TestMemory_ProfileIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	saved := &domain.Profile{UserID: "u1"}
	saved.BehavioralPatterns.WorkoutPreferences.WorkoutTypeAffinities = map[string]int{"easy": 40}
	saved.BehavioralPatterns.WorkoutPreferences.PreferredDays = []time.Weekday{time.Monday}
	require.NoError(t, m.SaveProfile(ctx, saved))

	saved.BehavioralPatterns.WorkoutPreferences.WorkoutTypeAffinities["easy"] = 10
	saved.BehavioralPatterns.WorkoutPreferences.PreferredDays[0] = time.Friday

	got, err := m.GetProfile(ctx, "u1")
	require.NoError(t, err)
	got.BehavioralPatterns.WorkoutPreferences.WorkoutTypeAffinities["easy"] = 99
	got.BehavioralPatterns.WorkoutPreferences.PreferredDays[0] = time.Sunday

	again, err := m.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 40, again.BehavioralPatterns.WorkoutPreferences.WorkoutTypeAffinities["easy"])
	assert.Equal(t, []time.Weekday{time.Monday}, again.BehavioralPatterns.WorkoutPreferences.PreferredDays)
}

func TestMemory_AppendFeedbackReplay(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	f := domain.Feedback{ID: "01HXREPLAY", UserID: "u1", InteractionType: "chat", Rating: rating(4)}
	require.NoError(t, m.AppendFeedback(ctx, &f))
	replay := f
	require.NoError(t, m.AppendFeedback(ctx, &replay))

	fb, err := m.GetFeedback(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, fb, 1)
}

func TestMemory_FeedbackNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.AppendFeedback(ctx, &domain.Feedback{
			UserID:          "u1",
			InteractionType: "chat",
			Rating:          rating(i + 1),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, m.AppendFeedback(ctx, &domain.Feedback{UserID: "u2", InteractionType: "chat", CreatedAt: base}))

	got, err := m.GetFeedback(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 5, *got[0].Rating)
	assert.Equal(t, 4, *got[1].Rating)
	assert.Equal(t, 3, *got[2].Rating)
	for _, f := range got {
		assert.NotEmpty(t, f.ID)
	}

	all, err := m.GetFeedback(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMemory_FeedbackSameTimestampOrderedByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, m.AppendFeedback(ctx, &domain.Feedback{UserID: "u1", InteractionType: "first", CreatedAt: at}))
	require.NoError(t, m.AppendFeedback(ctx, &domain.Feedback{UserID: "u1", InteractionType: "second", CreatedAt: at}))

	got, err := m.GetFeedback(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, "second", got[0].InteractionType)
}

func TestMemory_PatternsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AppendBehaviorPattern(ctx, &domain.BehaviorPattern{UserID: "u1", PatternType: "a"}))
	require.NoError(t, m.AppendBehaviorPattern(ctx, &domain.BehaviorPattern{UserID: "u1", PatternType: "b"}))

	got, err := m.GetBehaviorPatterns(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].PatternType)
	assert.NotEmpty(t, got[0].ID)
}

// The engine and the memory store together: chat, feedback and
// recommendations for one user.
func TestMemory_EngineRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	gen := generation.ClientFunc(func(ctx context.Context, req generation.Request) (json.RawMessage, error) {
		if _, ok := req.Schema.Properties["recommendations"]; ok {
			return json.RawMessage(`{
				"recommendations": [{"type":"recovery","title":"Rest","description":"Take a rest day","confidence":0.8,
					"reasoning":"Low ratings on hard sessions","action_steps":["Sleep 8 hours"],"priority":"high"}],
				"contextual_insights": {"primary_factors": ["fatigue"]}
			}`), nil
		}
		return json.RawMessage(`{"response":"Run easy today.","confidence":0.7,"key_points":["easy"],
			"actionable_advice":["30 min zone 2"],"motivational_elements":["nice work"]}`), nil
	})
	e := coach.New(m, gen)

	require.NoError(t, e.SaveProfile(ctx, &domain.Profile{
		UserID:           "u1",
		FeedbackPatterns: domain.FeedbackPatterns{PreferredFeedbackFrequency: domain.FeedbackAfterEveryWorkout},
	}))

	resp, err := e.GeneratePersonalizedResponse(ctx, "u1", "Should I run?", domain.UserContext{Mood: "tired"}, coach.Options{})
	require.NoError(t, err)
	assert.False(t, resp.Fallback)
	assert.True(t, resp.RequestFeedback)
	require.Len(t, m.Interactions("u1"), 1)
	assert.Equal(t, resp.InteractionID, m.Interactions("u1")[0].InteractionID)

	for _, r := range []int{2, 2, 3} {
		require.NoError(t, e.ProcessFeedback(ctx, "u1", domain.Feedback{
			InteractionID:   resp.InteractionID,
			InteractionType: "workout",
			Rating:          rating(r),
		}))
	}

	p, err := m.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, (7.0/3.0-1)*25, p.EffectivenessScore, 1e-9)

	patterns, err := m.GetBehaviorPatterns(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, []string{"workout"}, patterns[0].PatternData.Outcomes.ImprovementAreas)
	assert.Equal(t, 12, patterns[0].ConfidenceScore)

	recs := e.GenerateAdaptiveRecommendations(ctx, "u1", domain.UserContext{})
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"fatigue"}, recs[0].ContextualFactors)
}
