package main

import (
	"context"
	"errors"
	"os"

	"github.com/hibiken/asynq"

	"github.com/briangreenhill/adaptivecoach/internal/app"
	"github.com/briangreenhill/adaptivecoach/internal/config"
	"github.com/briangreenhill/adaptivecoach/internal/jobs"
)

func main() {
	bootLog := app.NewLogger(os.Stderr, "info")
	cfg, err := config.Load()
	if err != nil {
		app.Fatal(bootLog, err, "load config")
	}
	if !cfg.HasQueue() {
		app.Fatal(bootLog, errors.New("REDIS_ADDR is not set"), "worker needs a queue")
	}
	if err := cfg.Validate(); err != nil {
		app.Fatal(bootLog, err, "invalid config")
	}
	logger := app.NewLogger(os.Stdout, cfg.LogLevel)

	ctx := context.Background()
	pool, err := app.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		app.Fatal(logger, err, "database")
	}
	defer pool.Close()
	profiles, _ := app.PostgresStores(pool)

	engine, err := app.NewEngine(ctx, cfg, profiles, logger)
	if err != nil {
		app.Fatal(logger, err, "coach engine")
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 8,
		Queues: map[string]int{
			jobs.QueueFeedback: 10,
			"default":          1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TaskProcessFeedback, jobs.HandleProcessFeedback(engine, logger.With().Str("task", jobs.TaskProcessFeedback).Logger()))

	logger.Info().Str("redis", cfg.RedisAddr).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		app.Fatal(logger, err, "worker")
	}
}
