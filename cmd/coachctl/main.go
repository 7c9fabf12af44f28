package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/adaptivecoach/internal/app"
	"github.com/briangreenhill/adaptivecoach/internal/cli"
	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/config"
	"github.com/briangreenhill/adaptivecoach/internal/db"
	"github.com/briangreenhill/adaptivecoach/internal/store"
)

func main() {
	root := cli.NewRootCmd(load)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(ctx context.Context, memory bool) (*cli.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(os.Stderr, cfg.LogLevel)

	if memory {
		st := store.NewMemory()
		engine, err := newEngine(ctx, cfg, st, logger)
		if err != nil {
			return nil, err
		}
		return &cli.App{Coach: engine, Store: st}, nil
	}

	pool, err := app.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	profiles, _ := app.PostgresStores(pool)
	a := &cli.App{
		Store:   profiles,
		Migrate: func(ctx context.Context) error { return db.Migrate(ctx, pool) },
		Close:   pool.Close,
	}
	// migrate must work without model credentials.
	engine, err := newEngine(ctx, cfg, profiles, logger)
	if err != nil {
		a.CoachErr = err
		return a, nil
	}
	a.Coach = engine
	return a, nil
}

func newEngine(ctx context.Context, cfg config.Config, st coach.Store, logger zerolog.Logger) (*coach.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewEngine(ctx, cfg, st, logger)
}
