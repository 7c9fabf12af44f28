package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("GENERATION_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, uint64(2), cfg.Generation.MaxRetries)
	assert.Equal(t, "no-reply@coachgpt.local", cfg.Mail.From)
	assert.False(t, cfg.HasQueue())
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("GENERATION_PROVIDER", "ollama")
	t.Setenv("GENERATION_MODEL", "llama3.2")
	t.Setenv("GENERATION_OLLAMA_URL", "http://ollama:11434")
	t.Setenv("GENERATION_TIMEOUT", "5s")
	t.Setenv("GENERATION_MAX_RETRIES", "4")
	t.Setenv("MAIL_SMTP_ADDR", "localhost:1025")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.HasQueue())
	assert.Equal(t, "ollama", cfg.Generation.Provider)
	assert.Equal(t, "llama3.2", cfg.Generation.Model)
	assert.Equal(t, "http://ollama:11434", cfg.Generation.OllamaURL)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, uint64(4), cfg.Generation.MaxRetries)
	assert.Equal(t, "localhost:1025", cfg.Mail.SMTPAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		gen     GenerationConfig
		wantErr bool
	}{
		{"gemini with key", GenerationConfig{Provider: "gemini", Model: "m", GeminiAPIKey: "k"}, false},
		{"gemini without key", GenerationConfig{Provider: "gemini", Model: "m"}, true},
		{"ollama", GenerationConfig{Provider: "ollama", Model: "m", OllamaURL: "http://localhost:11434"}, false},
		{"ollama without url", GenerationConfig{Provider: "ollama", Model: "m"}, true},
		{"unknown provider", GenerationConfig{Provider: "gpt", Model: "m"}, true},
		{"missing model", GenerationConfig{Provider: "gemini", GeminiAPIKey: "k"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{Generation: tt.gen}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
