package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	// OpenAIModel is the model used when the OpenAI provider is selected.
	OpenAIModel = "gpt-4o-mini"
)

// OpenAIConfig configures the chat completions endpoint. Zero values use defaults.
type OpenAIConfig struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

// OpenAIProvider implements Provider against the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewOpenAIProvider builds a provider. The default client's 60s timeout guards
// against stalled connections; context cancellation still applies.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = openAIEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAIProvider{apiKey: cfg.APIKey, endpoint: cfg.Endpoint, client: cfg.HTTPClient}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	N        int           `json:"n"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Close is a no-op; the HTTP client holds no dedicated resources.
func (p *OpenAIProvider) Close() error { return nil }

// Complete sends prompt as a single user message and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:    OpenAIModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		N:        1,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		if resp.StatusCode/100 != 2 {
			return "", &StatusError{Code: resp.StatusCode}
		}
		return "", fmt.Errorf("openai: unmarshal response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		se := &StatusError{Code: resp.StatusCode}
		if cr.Error != nil {
			se.Message = cr.Error.Message
		}
		return "", se
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return cr.Choices[0].Message.Content, nil
}

// StatusError is a non-2xx reply from a provider's HTTP API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: api status %d", e.Code)
	}
	return fmt.Sprintf("openai: api status %d: %s", e.Code, e.Message)
}
