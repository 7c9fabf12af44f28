package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/briangreenhill/adaptivecoach/internal/db"
)

// ErrUserNotFound is returned when no user is registered for an email.
var ErrUserNotFound = errors.New("store: user not found")

// Users maps sign-in emails to stable user ids in Postgres.
type Users struct {
	q *db.Queries
}

func NewUsers(q *db.Queries) *Users {
	return &Users{q: q}
}

// EnsureUser returns the id registered for email, creating one if needed.
func (u *Users) EnsureUser(ctx context.Context, email string) (string, error) {
	row, err := u.q.UpsertUserByEmail(ctx, db.UpsertUserByEmailParams{ID: uuid.New(), Email: normalizeEmail(email)})
	if err != nil {
		return "", fmt.Errorf("store: upsert user: %w", err)
	}
	return row.ID.String(), nil
}

func (u *Users) LookupUser(ctx context.Context, email string) (string, error) {
	row, err := u.q.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get user: %w", err)
	}
	return row.ID.String(), nil
}

// MemoryUsers is the in-process counterpart of Users.
type MemoryUsers struct {
	mu    sync.Mutex
	byKey map[string]string
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byKey: make(map[string]string)}
}

func (u *MemoryUsers) EnsureUser(ctx context.Context, email string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	key := normalizeEmail(email)
	if id, ok := u.byKey[key]; ok {
		return id, nil
	}
	id := uuid.NewString()
	u.byKey[key] = id
	return id, nil
}

func (u *MemoryUsers) LookupUser(ctx context.Context, email string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id, ok := u.byKey[normalizeEmail(email)]
	if !ok {
		return "", ErrUserNotFound
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
