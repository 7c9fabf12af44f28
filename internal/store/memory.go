package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

// Memory is an in-process coach.Store used by the CLI and tests.
type Memory struct {
	mu           sync.RWMutex
	profiles     map[string]domain.Profile
	feedback     map[string][]domain.Feedback
	patterns     map[string][]domain.BehaviorPattern
	interactions []domain.InteractionRecord
}

func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]domain.Profile),
		feedback: make(map[string][]domain.Feedback),
		patterns: make(map[string][]domain.BehaviorPattern),
	}
}

var _ coach.Store = (*Memory)(nil)

func (m *Memory) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, coach.ErrProfileNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (m *Memory) SaveProfile(ctx context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = cloneProfile(*p)
	return nil
}

// cloneProfile copies the reference-typed facets so callers never share them
// with the store.
func cloneProfile(p domain.Profile) domain.Profile {
	wp := &p.BehavioralPatterns.WorkoutPreferences
	wp.PreferredDays = slices.Clone(wp.PreferredDays)
	wp.WorkoutTypeAffinities = maps.Clone(wp.WorkoutTypeAffinities)
	return p
}

func (m *Memory) UpdateEffectiveness(ctx context.Context, userID string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return coach.ErrProfileNotFound
	}
	p.EffectivenessScore = score
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = p
	return nil
}

func (m *Memory) GetBehaviorPatterns(ctx context.Context, userID string) ([]domain.BehaviorPattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.patterns[userID]
	out := make([]domain.BehaviorPattern, len(src))
	for i := range src {
		out[i] = src[len(src)-1-i]
	}
	return out, nil
}

// GetFeedback returns up to limit records, newest first.
func (m *Memory) GetFeedback(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.feedback[userID]
	sorted := make([]domain.Feedback, len(src))
	copy(sorted, src)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *Memory) AppendFeedback(ctx context.Context, f *domain.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == "" {
		f.ID = ulid.Make().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	for _, existing := range m.feedback[f.UserID] {
		if existing.ID == f.ID {
			return nil
		}
	}
	m.feedback[f.UserID] = append(m.feedback[f.UserID], *f)
	return nil
}

func (m *Memory) AppendBehaviorPattern(ctx context.Context, bp *domain.BehaviorPattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bp.ID == "" {
		bp.ID = ulid.Make().String()
	}
	m.patterns[bp.UserID] = append(m.patterns[bp.UserID], *bp)
	return nil
}

func (m *Memory) RecordInteraction(ctx context.Context, rec domain.InteractionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, rec)
	return nil
}

// Interactions returns the recorded interactions of userID, oldest first.
func (m *Memory) Interactions(userID string) []domain.InteractionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.InteractionRecord
	for _, rec := range m.interactions {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}
