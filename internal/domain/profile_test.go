package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfileValidate(t *testing.T) {
	valid := func() Profile {
		return Profile{
			UserID: "u1",
			CommunicationStyle: CommunicationStyle{
				MotivationLevel:  MotivationHigh,
				DetailPreference: DetailMinimal,
				PersonalityType:  PersonalitySupportive,
			},
			BehavioralPatterns: BehavioralPatterns{
				WorkoutPreferences: WorkoutPreferences{
					PreferredDays:         []time.Weekday{time.Sunday, time.Saturday},
					WorkoutTypeAffinities: map[string]int{"easy": 100, "hills": 0},
					DifficultyPreference:  10,
				},
				ContextualPatterns: ContextualPatterns{WeatherSensitivity: 10, StressResponse: StressReduceIntensity},
			},
			FeedbackPatterns: FeedbackPatterns{PreferredFeedbackFrequency: FeedbackMonthly},
		}
	}

	assert.NoError(t, valid().Validate())
	assert.NoError(t, Profile{UserID: "new"}.Validate())

	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"missing user", func(p *Profile) { p.UserID = "" }},
		{"motivation", func(p *Profile) { p.CommunicationStyle.MotivationLevel = "extreme" }},
		{"detail", func(p *Profile) { p.CommunicationStyle.DetailPreference = "verbose" }},
		{"personality", func(p *Profile) { p.CommunicationStyle.PersonalityType = "sarcastic" }},
		{"difficulty", func(p *Profile) { p.BehavioralPatterns.WorkoutPreferences.DifficultyPreference = 11 }},
		{"affinity", func(p *Profile) { p.BehavioralPatterns.WorkoutPreferences.WorkoutTypeAffinities["tempo"] = 120 }},
		{"weekday", func(p *Profile) { p.BehavioralPatterns.WorkoutPreferences.PreferredDays = []time.Weekday{7} }},
		{"weather", func(p *Profile) { p.BehavioralPatterns.ContextualPatterns.WeatherSensitivity = -1 }},
		{"stress", func(p *Profile) { p.BehavioralPatterns.ContextualPatterns.StressResponse = "panic" }},
		{"frequency", func(p *Profile) { p.FeedbackPatterns.PreferredFeedbackFrequency = "daily" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestUserContextFields(t *testing.T) {
	uc := UserContext{
		CurrentGoals:   []string{"5k PR", "stay healthy"},
		RecentActivity: "rested 2 days",
		Weather:        &Weather{Condition: "Light Rain", Temperature: 9.6},
		Schedule:       &Schedule{AvailableMinutes: 40},
	}

	assert.Equal(t, []string{
		"currentGoals: 5k PR, stay healthy",
		"recentActivity: rested 2 days",
		"weather: Light Rain, 10°C",
		"availableMinutes: 40",
	}, uc.Fields())
	assert.True(t, uc.IsRaining())
	assert.False(t, uc.IsFatigued())
	assert.Empty(t, UserContext{}.Fields())
}

func TestUserContextIsRaining(t *testing.T) {
	for condition, want := range map[string]bool{
		"rain":                     true,
		" Heavy  Rain ":            true,
		"showers":                  true,
		"Drizzle":                  true,
		"clear, no rain expected":  false,
		"dry after overnight rain": false,
		"Terrain: trail":           false,
		"sunny":                    false,
		"":                         false,
	} {
		assert.Equal(t, want, UserContext{Weather: &Weather{Condition: condition}}.IsRaining(), condition)
	}
	assert.False(t, UserContext{}.IsRaining())
}

func TestUserContextIsFatigued(t *testing.T) {
	for mood, want := range map[string]bool{"tired": true, " Stressed ": true, "great": false, "": false} {
		assert.Equal(t, want, UserContext{Mood: mood}.IsFatigued(), mood)
	}
}

func TestFeedbackRatingOrDefault(t *testing.T) {
	r := 5
	assert.Equal(t, 5, Feedback{Rating: &r}.RatingOrDefault())
	assert.Equal(t, DefaultRating, Feedback{}.RatingOrDefault())
}
