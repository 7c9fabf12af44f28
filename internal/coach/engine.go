// Package coach is the adaptive coaching personalization engine. It adapts
// prompts to a user's profile, assembles coaching responses and
// recommendations from structured model output, and learns from feedback.
package coach

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
	"github.com/briangreenhill/adaptivecoach/internal/prompt"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Store is the persistence capability the engine needs. GetProfile returns
// ErrProfileNotFound when the user has no profile. GetFeedback returns the
// most recent records first.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, p *domain.Profile) error
	UpdateEffectiveness(ctx context.Context, userID string, score float64) error
	GetBehaviorPatterns(ctx context.Context, userID string) ([]domain.BehaviorPattern, error)
	GetFeedback(ctx context.Context, userID string, limit int) ([]domain.Feedback, error)
	AppendFeedback(ctx context.Context, f *domain.Feedback) error
	AppendBehaviorPattern(ctx context.Context, bp *domain.BehaviorPattern) error
	RecordInteraction(ctx context.Context, rec domain.InteractionRecord) error
}

// RandSource supplies the randomness behind the feedback sampling policy.
// *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Engine wires the prompt adapter, the generation client and the store.
// It keeps no per-user state and is safe for concurrent use as long as the
// configured RandSource is.
type Engine struct {
	store   Store
	gen     generation.Client
	adapter *prompt.Adapter
	model   string
	rand    RandSource
	newID   func() string
	now     func() time.Time
	logger  zerolog.Logger
}

type Option func(*Engine)

// WithRand sets the random source used to sample feedback requests.
func WithRand(r RandSource) Option {
	return func(e *Engine) { e.rand = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithModel sets the generative model name sent with every request.
func WithModel(model string) Option {
	return func(e *Engine) {
		if model != "" {
			e.model = model
		}
	}
}

// WithIDGenerator overrides how interaction ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// WithKnowledgeBase replaces the embedded knowledge base.
func WithKnowledgeBase(kb *prompt.KnowledgeBase) Option {
	return func(e *Engine) { e.adapter = prompt.NewAdapter(kb) }
}

// New creates an Engine backed by store and gen.
func New(store Store, gen generation.Client, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		gen:     gen,
		adapter: prompt.NewAdapter(prompt.DefaultKnowledgeBase()),
		model:   DefaultModel,
		rand:    globalRand{},
		newID:   uuid.NewString,
		now:     time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile returns the stored profile for userID, or nil if there is none.
func (e *Engine) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	return e.lookupProfile(ctx, userID)
}

// SaveProfile creates or replaces the onboarding profile of a user. The
// effectiveness score of an existing profile is preserved.
func (e *Engine) SaveProfile(ctx context.Context, p *domain.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	existing, err := e.lookupProfile(ctx, p.UserID)
	if err != nil {
		return err
	}
	now := e.now().UTC()
	p.UpdatedAt = now
	if existing != nil {
		p.EffectivenessScore = existing.EffectivenessScore
		p.CreatedAt = existing.CreatedAt
	} else {
		p.EffectivenessScore = 0
		p.CreatedAt = now
	}
	return e.store.SaveProfile(ctx, p)
}

// lookupProfile maps ErrProfileNotFound to a nil profile so callers branch
// on absence once.
func (e *Engine) lookupProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := e.store.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
