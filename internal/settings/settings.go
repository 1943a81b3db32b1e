// Package settings resolves application settings stored as JSON values in
// the app_settings table, with environment fallbacks for AI provider keys.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"vibepm/internal/model"
	"vibepm/internal/repository"
)

// Provider identifies an upstream AI vendor.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// DefaultModel is used when no defaultAiModel setting is stored.
const DefaultModel = "gpt-4o"

var modelProviders = map[string]Provider{
	"gpt-5.2":          ProviderOpenAI,
	"gpt-4":            ProviderOpenAI,
	"gpt-4-turbo":      ProviderOpenAI,
	"gpt-4o":           ProviderOpenAI,
	"gpt-3.5-turbo":    ProviderOpenAI,
	"claude-3-opus":    ProviderAnthropic,
	"claude-3-sonnet":  ProviderAnthropic,
	"claude-3-haiku":   ProviderAnthropic,
	"gemini-pro":       ProviderGoogle,
	"gemini-2.5-pro":   ProviderGoogle,
	"gemini-2.5-flash": ProviderGoogle,
	"gemini-1.5-pro":   ProviderGoogle,
	"gemini-1.5-flash": ProviderGoogle,
}

// ProviderForModel maps a model name to its vendor. Unknown models go to OpenAI.
func ProviderForModel(model string) Provider {
	if p, ok := modelProviders[model]; ok {
		return p
	}
	return ProviderOpenAI
}

type keySource struct {
	setting string
	env     string
}

var apiKeySources = map[Provider]keySource{
	ProviderOpenAI:    {setting: "openaiApiKey", env: "OPENAI_API_KEY"},
	ProviderAnthropic: {setting: "anthropicApiKey", env: "ANTHROPIC_API_KEY"},
	ProviderGoogle:    {setting: "googleApiKey", env: "GOOGLE_API_KEY"},
}

// AIConfig is everything needed to call a provider.
type AIConfig struct {
	Provider Provider
	Model    string
	APIKey   string
}

// Store reads raw setting rows.
type Store interface {
	Get(ctx context.Context, key string) (*model.AppSetting, error)
	List(ctx context.Context) ([]model.AppSetting, error)
}

type Resolver struct {
	store  Store
	getenv func(string) string
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, getenv: os.Getenv}
}

// WithEnv replaces the environment lookup, mainly for tests.
func (r *Resolver) WithEnv(getenv func(string) string) *Resolver {
	r.getenv = getenv
	return r
}

// Decode parses a stored value as JSON, falling back to the raw string.
func Decode(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// GetSetting returns the decoded value of key, or nil when it is absent or
// cannot be read. Read failures are logged, never returned.
func (r *Resolver) GetSetting(ctx context.Context, key string) any {
	setting, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrSettingNotFound) {
			log.Printf("⚠️  Failed to read setting %q: %v", key, err)
		}
		return nil
	}
	return Decode(setting.Value)
}

func (r *Resolver) getString(ctx context.Context, key string) string {
	s, _ := r.GetSetting(ctx, key).(string)
	return s
}

// GetAPIKey returns the key stored in settings, else the environment
// variable, else "".
func (r *Resolver) GetAPIKey(ctx context.Context, provider Provider) string {
	src, ok := apiKeySources[provider]
	if !ok {
		return ""
	}
	if key := r.getString(ctx, src.setting); key != "" {
		return key
	}
	return r.getenv(src.env)
}

// GetAIConfig resolves the default model, its provider and key. It returns
// nil when no key is available, meaning AI features are unavailable.
func (r *Resolver) GetAIConfig(ctx context.Context) *AIConfig {
	modelName := r.getString(ctx, "defaultAiModel")
	if modelName == "" {
		modelName = DefaultModel
	}
	provider := ProviderForModel(modelName)
	key := r.GetAPIKey(ctx, provider)
	if key == "" {
		return nil
	}
	return &AIConfig{Provider: provider, Model: modelName, APIKey: key}
}
