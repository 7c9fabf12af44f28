// Package domain holds the coaching personalization types shared by the
// engine, the prompt builder and the stores.
package domain

import (
	"fmt"
	"time"
)

type MotivationLevel string

const (
	MotivationLow    MotivationLevel = "low"
	MotivationMedium MotivationLevel = "medium"
	MotivationHigh   MotivationLevel = "high"
)

type DetailPreference string

const (
	DetailMinimal  DetailPreference = "minimal"
	DetailModerate DetailPreference = "moderate"
	DetailDetailed DetailPreference = "detailed"
)

type PersonalityType string

const (
	PersonalityAnalytical  PersonalityType = "analytical"
	PersonalityEncouraging PersonalityType = "encouraging"
	PersonalityDirect      PersonalityType = "direct"
	PersonalitySupportive  PersonalityType = "supportive"
)

type StressResponse string

const (
	StressReduceIntensity   StressResponse = "reduce_intensity"
	StressMaintain          StressResponse = "maintain"
	StressIncreaseIntensity StressResponse = "increase_intensity"
)

type FeedbackFrequency string

const (
	FeedbackAfterEveryWorkout FeedbackFrequency = "after_every_workout"
	FeedbackWeekly            FeedbackFrequency = "weekly"
	FeedbackMonthly           FeedbackFrequency = "monthly"
)

// Profile is the persisted per-user personalization state.
// EffectivenessScore is a cached value derived from the feedback history and
// is only written by the feedback loop.
type Profile struct {
	UserID             string             `json:"user_id"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	BehavioralPatterns BehavioralPatterns `json:"behavioral_patterns"`
	FeedbackPatterns   FeedbackPatterns   `json:"feedback_patterns"`
	EffectivenessScore float64            `json:"coaching_effectiveness_score"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type CommunicationStyle struct {
	MotivationLevel  MotivationLevel  `json:"motivation_level"`
	DetailPreference DetailPreference `json:"detail_preference"`
	PersonalityType  PersonalityType  `json:"personality_type"`
	PreferredTone    string           `json:"preferred_tone"`
}

type BehavioralPatterns struct {
	WorkoutPreferences WorkoutPreferences `json:"workout_preferences"`
	ContextualPatterns ContextualPatterns `json:"contextual_patterns"`
}

type WorkoutPreferences struct {
	PreferredDays         []time.Weekday `json:"preferred_days"`
	WorkoutTypeAffinities map[string]int `json:"workout_type_affinities"` // workout type -> 0-100
	DifficultyPreference  int            `json:"difficulty_preference"`   // 1-10
}

type ContextualPatterns struct {
	WeatherSensitivity int            `json:"weather_sensitivity"` // 0-10
	StressResponse     StressResponse `json:"stress_response"`
}

type FeedbackPatterns struct {
	PreferredFeedbackFrequency FeedbackFrequency `json:"preferred_feedback_frequency"`
}

// Validate checks enumerations and ranges of a profile supplied by a caller.
// Empty enumerations are allowed and mean "not yet known".
func (p Profile) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	cs := p.CommunicationStyle
	if !oneOf(cs.MotivationLevel, MotivationLow, MotivationMedium, MotivationHigh) {
		return fmt.Errorf("unknown motivation level %q", cs.MotivationLevel)
	}
	if !oneOf(cs.DetailPreference, DetailMinimal, DetailModerate, DetailDetailed) {
		return fmt.Errorf("unknown detail preference %q", cs.DetailPreference)
	}
	if !oneOf(cs.PersonalityType, PersonalityAnalytical, PersonalityEncouraging, PersonalityDirect, PersonalitySupportive) {
		return fmt.Errorf("unknown personality type %q", cs.PersonalityType)
	}

	wp := p.BehavioralPatterns.WorkoutPreferences
	if wp.DifficultyPreference != 0 && (wp.DifficultyPreference < 1 || wp.DifficultyPreference > 10) {
		return fmt.Errorf("difficulty preference %d outside 1-10", wp.DifficultyPreference)
	}
	for workout, score := range wp.WorkoutTypeAffinities {
		if score < 0 || score > 100 {
			return fmt.Errorf("affinity for %s is %d, outside 0-100", workout, score)
		}
	}
	for _, d := range wp.PreferredDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}

	cp := p.BehavioralPatterns.ContextualPatterns
	if cp.WeatherSensitivity < 0 || cp.WeatherSensitivity > 10 {
		return fmt.Errorf("weather sensitivity %d outside 0-10", cp.WeatherSensitivity)
	}
	if !oneOf(cp.StressResponse, StressReduceIntensity, StressMaintain, StressIncreaseIntensity) {
		return fmt.Errorf("unknown stress response %q", cp.StressResponse)
	}
	if !oneOf(p.FeedbackPatterns.PreferredFeedbackFrequency, FeedbackAfterEveryWorkout, FeedbackWeekly, FeedbackMonthly) {
		return fmt.Errorf("unknown feedback frequency %q", p.FeedbackPatterns.PreferredFeedbackFrequency)
	}
	return nil
}

func oneOf[T ~string](v T, allowed ...T) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
