package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibepm/internal/settings"
)

type captured struct {
	path    string
	query   string
	headers http.Header
	body    map[string]any
}

func stubServer(t *testing.T, status int, response string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		c.headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &c.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newProvider(t *testing.T, cfg settings.AIConfig, baseURL string) ChatProvider {
	t.Helper()
	p, err := New(&cfg, WithBaseURL(baseURL))
	require.NoError(t, err)
	return p
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(&settings.AIConfig{Provider: settings.ProviderOpenAI, Model: "gpt-4o"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenAI_Complete(t *testing.T) {
	srv, c := stubServer(t, http.StatusOK, `{"choices":[{"message":{"content":"hello"}}],"usage":{"total_tokens":12}}`)
	p := newProvider(t, settings.AIConfig{Provider: settings.ProviderOpenAI, Model: "gpt-4-turbo", APIKey: "sk-test"}, srv.URL)

	got, err := p.Complete(context.Background(), CompletionRequest{System: "sys", User: "usr", MaxTokens: 2000})

	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.JSONEq(t, `{"total_tokens":12}`, string(got.Usage))
	assert.Equal(t, "/v1/chat/completions", c.path)
	assert.Equal(t, "Bearer sk-test", c.headers.Get("Authorization"))
	assert.Equal(t, "gpt-4-turbo", c.body["model"])
	assert.Equal(t, 0.7, c.body["temperature"])
	assert.Equal(t, float64(2000), c.body["max_tokens"])
	messages := c.body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "usr", messages[1].(map[string]any)["content"])
}

func TestOpenAI_UnknownModelAndEmptyChoices(t *testing.T) {
	srv, c := stubServer(t, http.StatusOK, `{"choices":[]}`)
	p := newProvider(t, settings.AIConfig{Provider: settings.ProviderOpenAI, Model: "mystery", APIKey: "k"}, srv.URL)

	got, err := p.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})

	require.NoError(t, err)
	assert.Equal(t, "No response generated", got.Content)
	assert.True(t, got.Empty)
	assert.Equal(t, NoAnalysis, got.Text(NoAnalysis))
	assert.Nil(t, got.Usage)
	assert.Equal(t, "gpt-4o", c.body["model"])
}

func TestAnthropic_Complete(t *testing.T) {
	srv, c := stubServer(t, http.StatusOK, `{"content":[{"type":"text","text":"bonjour"}],"usage":{"input_tokens":3}}`)
	p := newProvider(t, settings.AIConfig{Provider: settings.ProviderAnthropic, Model: "claude-3-sonnet", APIKey: "ant"}, srv.URL)

	got, err := p.Complete(context.Background(), CompletionRequest{System: "sys", User: "usr", MaxTokens: 1500})

	require.NoError(t, err)
	assert.Equal(t, "bonjour", got.Content)
	assert.Equal(t, "/v1/messages", c.path)
	assert.Equal(t, "ant", c.headers.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", c.headers.Get("anthropic-version"))
	assert.Equal(t, "claude-3-5-sonnet-20241022", c.body["model"])
	assert.Equal(t, "sys", c.body["system"])
	messages := c.body["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestGemini_Complete(t *testing.T) {
	srv, c := stubServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"hola"}]}}],"usageMetadata":{"totalTokenCount":9}}`)
	p := newProvider(t, settings.AIConfig{Provider: settings.ProviderGoogle, Model: "gemini-pro", APIKey: "g-key"}, srv.URL)

	got, err := p.Complete(context.Background(), CompletionRequest{System: "sys", User: "usr", MaxTokens: 1000})

	require.NoError(t, err)
	assert.Equal(t, "hola", got.Content)
	assert.Nil(t, got.Usage)
	assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", c.path)
	assert.Equal(t, "key=g-key", c.query)
	contents := c.body["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "sys\n\nusr", parts[0].(map[string]any)["text"])
	genCfg := c.body["generationConfig"].(map[string]any)
	assert.Equal(t, float64(1000), genCfg["maxOutputTokens"])
}

func TestComplete_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider settings.Provider
		status   int
		body     string
		message  string
	}{
		{"openai message", settings.ProviderOpenAI, http.StatusUnauthorized, `{"error":{"message":"Incorrect API key"}}`, "Incorrect API key"},
		{"anthropic message", settings.ProviderAnthropic, http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens too large"}}`, "max_tokens too large"},
		{"gemini generic", settings.ProviderGoogle, http.StatusInternalServerError, `oops`, "Gemini API error"},
		{"openai generic", settings.ProviderOpenAI, http.StatusBadGateway, `{}`, "OpenAI API error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := stubServer(t, tt.status, tt.body)
			p := newProvider(t, settings.AIConfig{Provider: tt.provider, Model: "x", APIKey: "k"}, srv.URL)

			_, err := p.Complete(context.Background(), CompletionRequest{System: "s", User: "u"})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestComplete_HonoursContext(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{}`)
	p := newProvider(t, settings.AIConfig{Provider: settings.ProviderOpenAI, Model: "gpt-4o", APIKey: "k"}, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Complete(ctx, CompletionRequest{System: "s", User: "u"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelAliases(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", OpenAIModel("gpt-4o-mini"))
	assert.Equal(t, "gpt-4o", OpenAIModel(""))
	assert.Equal(t, "claude-3-opus-20240229", AnthropicModel("claude-3-opus"))
	assert.Equal(t, "claude-3-5-sonnet-20241022", AnthropicModel("unknown"))
	assert.Equal(t, "gemini-2.5-flash", GeminiModel("gemini-2.5-flash"))
	assert.Equal(t, "gemini-1.5-flash", GeminiModel("unknown"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "SkyForge", CleanName(`"SkyForge"`, "old"))
	assert.Equal(t, "Its Ember", CleanName(`It's Ember`, "old"))
	assert.Equal(t, "old", CleanName("   ", "old"))
}

func TestTaskPromptRequest_OmitsMissingFields(t *testing.T) {
	goal := "Track habits"
	req := TaskPromptRequest(TaskContext{
		ProjectName:    "Habits",
		ProjectProblem: &goal,
		TaskTitle:      "Build login",
		Complexity:     "MEDIUM",
	})

	assert.Contains(t, req.User, "PROJECT: Habits\nPROJECT GOAL: Track habits\n")
	assert.Contains(t, req.User, "TASK TITLE: Build login\n")
	assert.NotContains(t, req.User, "TASK DESCRIPTION")
	assert.Equal(t, PromptMaxTokens, req.MaxTokens)
}

func TestAnalyzeRequest_NumbersIdeas(t *testing.T) {
	req := AnalyzeRequest([]string{"first", "second"})

	assert.Contains(t, req.User, "1. first\n2. second")
	assert.Equal(t, AnalyzeMaxTokens, req.MaxTokens)
}
