package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/config"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/email"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
	"github.com/briangreenhill/adaptivecoach/internal/store"
)

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, zerolog.InfoLevel, NewLogger(&buf, "loud").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger(&buf, "").GetLevel())
}

func TestMailer(t *testing.T) {
	_, ok := Mailer(config.MailConfig{}, zerolog.Nop()).(email.StdoutSender)
	assert.True(t, ok)

	smtp, ok := Mailer(config.MailConfig{SMTPAddr: "mail:25", From: "coach@example.com"}, zerolog.Nop()).(*email.SMTPSender)
	require.True(t, ok)
	assert.Equal(t, "mail:25", smtp.Addr)
}

func TestNewEngineWith(t *testing.T) {
	var gotModel string
	gen := generation.ClientFunc(func(ctx context.Context, req generation.Request) (json.RawMessage, error) {
		gotModel = req.Model
		return json.RawMessage(`{"response":"ok","confidence":0.5,"key_points":[],"actionable_advice":[]}`), nil
	})

	cfg := config.Config{Generation: config.GenerationConfig{Model: "llama3.1"}}
	engine, err := NewEngineWith(cfg, store.NewMemory(), gen, zerolog.Nop())
	require.NoError(t, err)

	resp, err := engine.GeneratePersonalizedResponse(context.Background(), "u1", "hi", domain.UserContext{}, coach.Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Response)
	assert.Equal(t, "llama3.1", gotModel)
}

func TestNewEngineWith_BadKnowledgeBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: []\n"), 0o600))

	_, err := NewEngineWith(config.Config{KnowledgeBasePath: path}, store.NewMemory(), nil, zerolog.Nop())
	assert.Error(t, err)
}
