// Package generation executes structured-output requests against a
// generative model. Callers describe the expected JSON with a Schema and get
// back the raw JSON object the model produced.
package generation

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrEmptyResponse is returned when the model produced no content.
	ErrEmptyResponse = errors.New("generation: empty response")

	// ErrInvalidJSON is returned when the model output is not a JSON object.
	ErrInvalidJSON = errors.New("generation: response is not valid JSON")
)

// Request describes a single structured generation call.
type Request struct {
	Model       string
	Schema      *Schema
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

// Client executes structured generation requests.
type Client interface {
	GenerateStructured(ctx context.Context, req Request) (json.RawMessage, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (json.RawMessage, error)

func (f ClientFunc) GenerateStructured(ctx context.Context, req Request) (json.RawMessage, error) {
	return f(ctx, req)
}
