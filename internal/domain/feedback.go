package domain

import "time"

// DefaultRating is used in place of a missing rating when averaging.
const DefaultRating = 3

// Feedback is a single append-only feedback record.
type Feedback struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	InteractionID   string    `json:"interaction_id,omitempty"`
	InteractionType string    `json:"interaction_type"`
	Rating          *int      `json:"rating,omitempty"` // 1-5
	FeedbackText    string    `json:"feedback_text,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// RatingOrDefault returns the rating, or DefaultRating when none was given.
func (f Feedback) RatingOrDefault() int {
	if f.Rating == nil {
		return DefaultRating
	}
	return *f.Rating
}

const PatternFeedbackStyle = "feedback_style"

// BehaviorPattern is an inferred, confidence-scored fact about a user.
// Patterns are appended, never updated or deleted.
type BehaviorPattern struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	PatternType      string      `json:"pattern_type"`
	PatternData      PatternData `json:"pattern_data"`
	ConfidenceScore  int         `json:"confidence_score"` // 0-100
	ObservationCount int         `json:"observation_count"`
	LastObserved     time.Time   `json:"last_observed"`
}

type PatternData struct {
	Description string          `json:"description"`
	Conditions  []string        `json:"conditions,omitempty"`
	Outcomes    PatternOutcomes `json:"outcomes"`
}

type PatternOutcomes struct {
	AverageRating    float64  `json:"average_rating"`
	ImprovementAreas []string `json:"improvement_areas,omitempty"`
}
