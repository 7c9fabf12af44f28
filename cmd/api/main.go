// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	scs "github.com/alexedwards/scs/v2"

	"github.com/briangreenhill/adaptivecoach/internal/app"
	"github.com/briangreenhill/adaptivecoach/internal/auth"
	"github.com/briangreenhill/adaptivecoach/internal/config"
	"github.com/briangreenhill/adaptivecoach/internal/http/routes"
	"github.com/briangreenhill/adaptivecoach/internal/jobs"
)

func main() {
	bootLog := app.NewLogger(os.Stderr, "info")
	cfg, err := config.Load()
	if err != nil {
		app.Fatal(bootLog, err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		app.Fatal(bootLog, err, "invalid config")
	}

	// Logger
	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	logger.Info().Str("port", cfg.Port).Str("provider", cfg.Generation.Provider).Msg("starting api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	pool, err := app.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		app.Fatal(logger, err, "database")
	}
	defer pool.Close()
	profiles, users := app.PostgresStores(pool)

	engine, err := app.NewEngine(ctx, cfg, profiles, logger)
	if err != nil {
		app.Fatal(logger, err, "coach engine")
	}

	// Sessions
	sess := scs.New()
	sess.Lifetime = 12 * time.Hour
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = false

	opts := routes.ServerOptions{
		Sess:   sess,
		Coach:  engine,
		Users:  users,
		Magic:  auth.MagicLink{Secret: []byte(cfg.JWTSecret), BaseURL: cfg.BaseURL},
		Email:  app.Mailer(cfg.Mail, logger),
		Logger: logger,
	}
	if cfg.HasQueue() {
		enq := jobs.NewEnqueuer(cfg.RedisAddr)
		defer enq.Close() //nolint:errcheck
		opts.Queue = enq
		logger.Info().Str("redis", cfg.RedisAddr).Msg("feedback processing deferred to worker")
	}

	s := routes.New(opts)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           sess.LoadAndSave(s.Router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.Fatal(logger, err, "http server")
	}
	logger.Info().Msg("api stopped")
}
