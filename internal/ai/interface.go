// README: Completion providers behind a single-prompt, single-reply contract.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Provider sends one prompt to a hosted model and returns its text reply.
// Implementations request a single candidate and keep no conversation history.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ErrMissingAPIKey is returned at call time when no credential was configured.
var ErrMissingAPIKey = errors.New("ai: missing api key")

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("ai: empty response")

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Keys carries the per-provider credentials.
type Keys struct {
	Gemini string
	OpenAI string
}

// New returns the provider registered under name.
func New(ctx context.Context, name string, keys Keys) (Provider, error) {
	switch name {
	case "", ProviderGemini:
		return NewGeminiProvider(ctx, keys.Gemini)
	case ProviderOpenAI:
		return NewOpenAIProvider(OpenAIConfig{APIKey: keys.OpenAI}), nil
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", name)
	}
}
