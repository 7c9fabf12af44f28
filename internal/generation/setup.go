package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/adaptivecoach/internal/config"
)

// Setup creates a registry with every provider the configuration allows.
func Setup(ctx context.Context, cfg config.GenerationConfig) (*Registry, error) {
	registry := NewRegistry()

	if cfg.GeminiAPIKey != "" {
		gemini, err := NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register("gemini", gemini)
	}

	if cfg.OllamaURL != "" {
		ollama, err := NewOllamaClient(cfg.OllamaURL, &http.Client{})
		if err != nil {
			return nil, err
		}
		registry.Register("ollama", ollama)
	}

	return registry, nil
}

// FromConfig returns the configured provider wrapped with the retry policy.
func FromConfig(ctx context.Context, cfg config.GenerationConfig, logger zerolog.Logger) (Client, error) {
	registry, err := Setup(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Select(registry, cfg, logger)
}

// Select picks cfg.Provider from registry and wraps it with the retry policy.
func Select(registry *Registry, cfg config.GenerationConfig, logger zerolog.Logger) (Client, error) {
	client, ok := registry.Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("generation provider %q is not configured (available: %v)", cfg.Provider, registry.List())
	}

	rc := DefaultRetryConfig()
	rc.MaxRetries = cfg.MaxRetries
	if cfg.Timeout > 0 {
		rc.Timeout = cfg.Timeout
	}
	return WithRetry(client, rc, logger.With().Str("provider", cfg.Provider).Logger()), nil
}
