// Package ai sends chat completions to the configured AI vendor and
// normalizes the three wire formats into one Completion.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vibepm/internal/settings"
)

// DefaultTemperature is used when a request leaves Temperature at zero.
const DefaultTemperature = 0.7

// ErrNotConfigured means no API key could be resolved.
var ErrNotConfigured = errors.New("AI provider not configured")

type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

func (r CompletionRequest) temperature() float64 {
	if r.Temperature == 0 {
		return DefaultTemperature
	}
	return r.Temperature
}

// Completion is the normalized result of one upstream call. Usage is the
// vendor's raw usage object, or nil when the vendor reports none. Empty is
// set when the vendor returned no text; Content then holds a placeholder.
type Completion struct {
	Content string
	Usage   json.RawMessage
	Empty   bool
}

func newCompletion(text string, usage json.RawMessage) *Completion {
	if text == "" {
		return &Completion{Content: fallbackContent, Usage: usage, Empty: true}
	}
	return &Completion{Content: text, Usage: usage}
}

// Text returns the content, or fallback when the vendor sent nothing.
func (c *Completion) Text(fallback string) string {
	if c.Empty {
		return fallback
	}
	return c.Content
}

// ChatProvider performs exactly one completion call.
type ChatProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// APIError is a non-2xx upstream response.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type options struct {
	baseURL string
	client  *http.Client
}

type Option func(*options)

// WithBaseURL points the provider at another host, e.g. a proxy or a test server.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// New returns the provider implementation for cfg.
func New(cfg *settings.AIConfig, opts ...Option) (ChatProvider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	o := &options{client: http.DefaultClient}
	switch cfg.Provider {
	case settings.ProviderAnthropic:
		o.baseURL = anthropicBaseURL
	case settings.ProviderGoogle:
		o.baseURL = geminiBaseURL
	default:
		o.baseURL = openAIBaseURL
	}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Provider {
	case settings.ProviderAnthropic:
		return &anthropicProvider{opts: o, apiKey: cfg.APIKey, model: AnthropicModel(cfg.Model)}, nil
	case settings.ProviderGoogle:
		return &geminiProvider{opts: o, apiKey: cfg.APIKey, model: GeminiModel(cfg.Model)}, nil
	default:
		return &openAIProvider{opts: o, apiKey: cfg.APIKey, model: OpenAIModel(cfg.Model)}, nil
	}
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// postJSON sends body and decodes a 2xx response into out.
func postJSON(ctx context.Context, o *options, provider, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    provider + " API error",
		}
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}
