package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt pgtype.Timestamptz
}

type CoachingProfile struct {
	UserID                     string
	CommunicationStyle         []byte
	BehavioralPatterns         []byte
	FeedbackPatterns           []byte
	CoachingEffectivenessScore float64
	CreatedAt                  pgtype.Timestamptz
	UpdatedAt                  pgtype.Timestamptz
}

type CoachingFeedback struct {
	ID              string
	UserID          string
	InteractionID   pgtype.Text
	InteractionType string
	Rating          pgtype.Int4
	FeedbackText    pgtype.Text
	CreatedAt       pgtype.Timestamptz
}

type BehaviorPattern struct {
	ID               string
	UserID           string
	PatternType      string
	PatternData      []byte
	ConfidenceScore  int32
	ObservationCount int32
	LastObserved     pgtype.Timestamptz
}

type CoachingInteraction struct {
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
