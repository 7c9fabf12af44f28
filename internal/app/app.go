// Package app wires configuration into the coaching engine for the binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/config"
	"github.com/briangreenhill/adaptivecoach/internal/db"
	"github.com/briangreenhill/adaptivecoach/internal/email"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
	"github.com/briangreenhill/adaptivecoach/internal/prompt"
	"github.com/briangreenhill/adaptivecoach/internal/store"
)

// NewLogger returns a timestamped JSON logger at the given level. Unknown
// levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Connect opens a pool and checks the database is reachable.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Open connects to Postgres and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewEngine builds the engine on top of st using the configured model
// provider and knowledge base.
func NewEngine(ctx context.Context, cfg config.Config, st coach.Store, logger zerolog.Logger) (*coach.Engine, error) {
	gen, err := generation.FromConfig(ctx, cfg.Generation, logger)
	if err != nil {
		return nil, fmt.Errorf("generation: %w", err)
	}
	return NewEngineWith(cfg, st, gen, logger)
}

// NewEngineWith is NewEngine with an explicit generation client.
func NewEngineWith(cfg config.Config, st coach.Store, gen generation.Client, logger zerolog.Logger) (*coach.Engine, error) {
	kb, err := prompt.LoadKnowledgeBase(cfg.KnowledgeBasePath)
	if err != nil {
		return nil, err
	}
	return coach.New(st, gen,
		coach.WithModel(cfg.Generation.Model),
		coach.WithKnowledgeBase(kb),
		coach.WithLogger(logger.With().Str("component", "coach").Logger()),
	), nil
}

// PostgresStores returns the engine and user stores backed by pool.
func PostgresStores(pool *pgxpool.Pool) (*store.Postgres, *store.Users) {
	q := db.New(pool)
	return store.NewPostgres(q), store.NewUsers(q)
}

// Mailer picks SMTP delivery when an address is configured and logs the
// messages otherwise.
func Mailer(cfg config.MailConfig, logger zerolog.Logger) email.Sender {
	if cfg.SMTPAddr == "" {
		return email.StdoutSender{Logger: logger}
	}
	return email.NewSMTPSender(cfg.SMTPAddr, cfg.From)
}

// Fatal logs err and exits.
func Fatal(logger zerolog.Logger, err error, msg string) {
	logger.Error().Err(err).Msg(msg)
	os.Exit(1)
}
