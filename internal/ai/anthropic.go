package ai

import (
	"context"
	"encoding/json"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

type anthropicProvider struct {
	opts   *options
	apiKey string
	model  string
}

type anthropicRequest struct {
	Model       string          `json:"model"`
	System      string          `json:"system"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage json.RawMessage `json:"usage"`
}

func (p *anthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		// the messages API rejects requests without max_tokens
		maxTokens = 1024
	}
	body := anthropicRequest{
		Model:       p.model,
		System:      req.System,
		Messages:    []openAIMessage{{Role: "user", Content: req.User}},
		MaxTokens:   maxTokens,
		Temperature: req.temperature(),
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := postJSON(ctx, p.opts, "Anthropic", p.opts.baseURL+"/v1/messages", headers, body, &resp); err != nil {
		return nil, err
	}

	var text string
	if len(resp.Content) > 0 {
		text = resp.Content[0].Text
	}
	return newCompletion(text, nullable(resp.Usage)), nil
}
