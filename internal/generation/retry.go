package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// RetryConfig controls the timeout and retry policy around a Client.
type RetryConfig struct {
	MaxRetries uint64        // retries after the first attempt
	BaseDelay  time.Duration // first backoff delay, doubled per retry
	MaxDelay   time.Duration
	Timeout    time.Duration // per attempt; zero means no timeout
}

// DefaultRetryConfig returns the policy used when none is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Timeout:    30 * time.Second,
	}
}

type retryingClient struct {
	next   Client
	cfg    RetryConfig
	logger zerolog.Logger
}

// WithRetry wraps next with a per-attempt timeout and exponential backoff on
// transient failures.
func WithRetry(next Client, cfg RetryConfig, logger zerolog.Logger) Client {
	return &retryingClient{next: next, cfg: cfg, logger: logger}
}

func (c *retryingClient) GenerateStructured(ctx context.Context, req Request) (json.RawMessage, error) {
	backoff := retry.NewExponential(c.cfg.BaseDelay)
	if c.cfg.MaxDelay > 0 {
		backoff = retry.WithCappedDuration(c.cfg.MaxDelay, backoff)
	}
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithMaxRetries(c.cfg.MaxRetries, backoff)

	var (
		out     json.RawMessage
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		actx := ctx
		if c.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()
		}

		res, err := c.next.GenerateStructured(actx, req)
		if err == nil {
			out = res
			return nil
		}
		if ctx.Err() == nil && isRetryable(err) {
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("model", req.Model).Msg("generation failed, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// isRetryable determines whether a generation error is worth another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrInvalidJSON) {
		return true
	}

	msg := strings.ToLower(err.Error())

	// Network/connectivity issues
	if strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "eof") {
		return true
	}

	// Rate limiting and overloaded backends
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "overloaded") {
		return true
	}

	// Temporary server errors
	if strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "504") {
		return true
	}

	// Auth failures, unknown models, bad requests
	return false
}
