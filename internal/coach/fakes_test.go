package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
)

type fakeStore struct {
	mu           sync.Mutex
	profiles     map[string]*domain.Profile
	feedback     []domain.Feedback
	patterns     []domain.BehaviorPattern
	interactions []domain.InteractionRecord

	profileErr    error
	appendErr     error
	feedbackErr   error
	recordErr     error
	patternErr    error
	updateErr     error
	effectiveness []float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[string]*domain.Profile)}
}

func (s *fakeStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) SaveProfile(ctx context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.UserID] = &cp
	return nil
}

func (s *fakeStore) UpdateEffectiveness(ctx context.Context, userID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.EffectivenessScore = score
	s.effectiveness = append(s.effectiveness, score)
	return nil
}

func (s *fakeStore) GetBehaviorPatterns(ctx context.Context, userID string) ([]domain.BehaviorPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.BehaviorPattern
	for _, bp := range s.patterns {
		if bp.UserID == userID {
			out = append(out, bp)
		}
	}
	return out, nil
}

func (s *fakeStore) GetFeedback(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedbackErr != nil {
		return nil, s.feedbackErr
	}
	var out []domain.Feedback
	for i := len(s.feedback) - 1; i >= 0 && len(out) < limit; i-- {
		if s.feedback[i].UserID == userID {
			out = append(out, s.feedback[i])
		}
	}
	return out, nil
}

func (s *fakeStore) AppendFeedback(ctx context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	f.ID = fmt.Sprintf("fb-%d", len(s.feedback)+1)
	s.feedback = append(s.feedback, *f)
	return nil
}

func (s *fakeStore) AppendBehaviorPattern(ctx context.Context, bp *domain.BehaviorPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patternErr != nil {
		return s.patternErr
	}
	bp.ID = fmt.Sprintf("bp-%d", len(s.patterns)+1)
	s.patterns = append(s.patterns, *bp)
	return nil
}

func (s *fakeStore) RecordInteraction(ctx context.Context, rec domain.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.interactions = append(s.interactions, rec)
	return nil
}

// fakeGenerator returns canned output and remembers the last request.
type fakeGenerator struct {
	mu      sync.Mutex
	out     any
	err     error
	calls   int
	lastReq generation.Request
}

func (g *fakeGenerator) GenerateStructured(ctx context.Context, req generation.Request) (json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	if raw, ok := g.out.(string); ok {
		return json.RawMessage(raw), nil
	}
	return json.Marshal(g.out)
}

var errModelDown = errors.New("503 model unavailable")

func ratingPtr(r int) *int { return &r }

func goodResponse() map[string]any {
	return map[string]any{
		"response":              "Yes! Go for an easy 30 minute run today.",
		"confidence":            0.82,
		"key_points":            []string{"You are rested", "Keep it easy"},
		"actionable_advice":     []string{"Run 30 minutes in zone 2", "Finish with 4 strides"},
		"motivational_elements": []string{"Your 5k PR is within reach"},
	}
}

func profileFor(userID string, freq domain.FeedbackFrequency) *domain.Profile {
	return &domain.Profile{
		UserID: userID,
		CommunicationStyle: domain.CommunicationStyle{
			MotivationLevel:  domain.MotivationHigh,
			DetailPreference: domain.DetailModerate,
			PersonalityType:  domain.PersonalityEncouraging,
			PreferredTone:    "upbeat",
		},
		BehavioralPatterns: domain.BehavioralPatterns{
			WorkoutPreferences: domain.WorkoutPreferences{DifficultyPreference: 6},
			ContextualPatterns: domain.ContextualPatterns{WeatherSensitivity: 4, StressResponse: domain.StressMaintain},
		},
		FeedbackPatterns:   domain.FeedbackPatterns{PreferredFeedbackFrequency: freq},
		EffectivenessScore: 75,
	}
}
