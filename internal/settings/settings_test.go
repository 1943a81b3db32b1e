package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibepm/internal/model"
	"vibepm/internal/repository"
)

type fakeStore struct {
	rows map[string]string
	err  error
	gets int
}

func (f *fakeStore) Get(_ context.Context, key string) (*model.AppSetting, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.rows[key]
	if !ok {
		return nil, repository.ErrSettingNotFound
	}
	return &model.AppSetting{Key: key, Value: v}, nil
}

func (f *fakeStore) List(_ context.Context) ([]model.AppSetting, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.AppSetting
	for k, v := range f.rows {
		out = append(out, model.AppSetting{Key: k, Value: v})
	}
	return out, nil
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestGetSetting(t *testing.T) {
	store := &fakeStore{rows: map[string]string{
		"theme":   `"dark"`,
		"count":   `3`,
		"legacy":  `not json`,
		"enabled": `true`,
	}}
	r := NewResolver(store)
	ctx := context.Background()

	assert.Equal(t, "dark", r.GetSetting(ctx, "theme"))
	assert.Equal(t, float64(3), r.GetSetting(ctx, "count"))
	assert.Equal(t, "not json", r.GetSetting(ctx, "legacy"))
	assert.Equal(t, true, r.GetSetting(ctx, "enabled"))
	assert.Nil(t, r.GetSetting(ctx, "missing"))
}

func TestGetSetting_SwallowsStoreErrors(t *testing.T) {
	r := NewResolver(&fakeStore{err: assert.AnError})

	assert.Nil(t, r.GetSetting(context.Background(), "theme"))
}

func TestGetAPIKey_SettingBeatsEnv(t *testing.T) {
	store := &fakeStore{rows: map[string]string{"openaiApiKey": `"sk-setting"`}}
	r := NewResolver(store).WithEnv(env(map[string]string{"OPENAI_API_KEY": "sk-env"}))

	assert.Equal(t, "sk-setting", r.GetAPIKey(context.Background(), ProviderOpenAI))
}

func TestGetAPIKey_EmptySettingFallsBackToEnv(t *testing.T) {
	store := &fakeStore{rows: map[string]string{"anthropicApiKey": `""`}}
	r := NewResolver(store).WithEnv(env(map[string]string{"ANTHROPIC_API_KEY": "ant-env"}))

	assert.Equal(t, "ant-env", r.GetAPIKey(context.Background(), ProviderAnthropic))
	assert.Equal(t, "", r.GetAPIKey(context.Background(), ProviderGoogle))
	assert.Equal(t, "", r.GetAPIKey(context.Background(), Provider("other")))
}

func TestGetAIConfig(t *testing.T) {
	tests := []struct {
		name     string
		rows     map[string]string
		env      map[string]string
		expected *AIConfig
	}{
		{
			name:     "no key anywhere",
			rows:     map[string]string{},
			expected: nil,
		},
		{
			name:     "default model uses openai env key",
			rows:     map[string]string{},
			env:      map[string]string{"OPENAI_API_KEY": "sk-env"},
			expected: &AIConfig{Provider: ProviderOpenAI, Model: "gpt-4o", APIKey: "sk-env"},
		},
		{
			name: "claude model picks anthropic",
			rows: map[string]string{
				"defaultAiModel":  `"claude-3-haiku"`,
				"anthropicApiKey": `"ant-key"`,
				"openaiApiKey":    `"sk-key"`,
			},
			expected: &AIConfig{Provider: ProviderAnthropic, Model: "claude-3-haiku", APIKey: "ant-key"},
		},
		{
			name:     "gemini without google key is unavailable",
			rows:     map[string]string{"defaultAiModel": `"gemini-2.5-pro"`, "openaiApiKey": `"sk-key"`},
			expected: nil,
		},
		{
			name:     "unknown model routes to openai",
			rows:     map[string]string{"defaultAiModel": `"mystery-model"`, "openaiApiKey": `"sk-key"`},
			expected: &AIConfig{Provider: ProviderOpenAI, Model: "mystery-model", APIKey: "sk-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&fakeStore{rows: tt.rows}).WithEnv(env(tt.env))

			got := r.GetAIConfig(context.Background())

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoad_AppliesDefaultsAndIgnoresWrongTypes(t *testing.T) {
	store := &fakeStore{rows: map[string]string{
		"theme":                   `"dark"`,
		"compactMode":             `"yes"`,
		"softDeleteRetentionDays": `7`,
		"autoGeneratePrompts":     `true`,
	}}
	r := NewResolver(store)

	got := r.Load(context.Background())

	require.Equal(t, "dark", got.Theme)
	assert.False(t, got.CompactMode)
	assert.Equal(t, 7, got.SoftDeleteRetentionDays)
	assert.True(t, got.AutoGeneratePrompts)
	assert.Equal(t, "kanban", got.DefaultProjectView)
	assert.Equal(t, "MEDIUM", got.DefaultTaskComplexity)
	assert.Equal(t, DefaultModel, got.DefaultAIModel)
}

func TestLoad_StoreErrorReturnsDefaults(t *testing.T) {
	r := NewResolver(&fakeStore{err: assert.AnError})

	assert.Equal(t, Defaults(), r.Load(context.Background()))
}
