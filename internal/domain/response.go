package domain

import "time"

// CoachingResponse is returned to the caller for a single chat turn.
type CoachingResponse struct {
	Response         string   `json:"response"`
	Confidence       float64  `json:"confidence"` // 0-1
	KeyPoints        []string `json:"key_points"`
	Adaptations      []string `json:"adaptations"`
	RequestFeedback  bool     `json:"request_feedback"`
	InteractionID    string   `json:"interaction_id"`
	ContextUsed      []string `json:"context_used"`
	SuggestedActions []string `json:"suggested_actions"`
	Fallback         bool     `json:"fallback,omitempty"`
	FallbackReason   string   `json:"fallback_reason,omitempty"`
}

type RecommendationType string

const (
	RecommendationWorkout    RecommendationType = "workout"
	RecommendationRecovery   RecommendationType = "recovery"
	RecommendationNutrition  RecommendationType = "nutrition"
	RecommendationMotivation RecommendationType = "motivation"
)

// Valid reports whether t is one of the four recommendation categories.
func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationWorkout, RecommendationRecovery, RecommendationNutrition, RecommendationMotivation:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type AdaptiveRecommendation struct {
	Type              RecommendationType `json:"type"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Confidence        float64            `json:"confidence"`
	Reasoning         string             `json:"reasoning"`
	Actionable        bool               `json:"actionable"`
	ActionSteps       []string           `json:"action_steps,omitempty"`
	Priority          Priority           `json:"priority"`
	ContextualFactors []string           `json:"contextual_factors"`
}

const InteractionChat = "chat"

// InteractionRecord is the telemetry row written for every generated response.
type InteractionRecord struct {
	UserID             string          `json:"user_id"`
	InteractionID      string          `json:"interaction_id"`
	InteractionType    string          `json:"interaction_type"`
	PromptUsed         string          `json:"prompt_used"`
	ResponseGenerated  string          `json:"response_generated"`
	UserContext        RecordedContext `json:"user_context"`
	AdaptationsApplied []string        `json:"adaptations_applied"`
	UserEngagement     UserEngagement  `json:"user_engagement"`
	CreatedAt          time.Time       `json:"created_at"`
}

// RecordedContext is the subset of UserContext kept with an interaction.
type RecordedContext struct {
	Goals           []string `json:"goals,omitempty"`
	Activity        string   `json:"activity,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Environment     string   `json:"environment,omitempty"`
	TimeConstraints string   `json:"time_constraints,omitempty"`
}

type UserEngagement struct {
	FollowUpQuestions int  `json:"follow_up_questions"`
	ActionTaken       bool `json:"action_taken"`
}
