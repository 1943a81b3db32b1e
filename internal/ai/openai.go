package ai

import (
	"context"
	"encoding/json"
)

const openAIBaseURL = "https://api.openai.com"

// fallbackContent is the placeholder content of an empty completion.
const fallbackContent = "No response generated"

// NoAnalysis stands in for an empty analysis reply.
const NoAnalysis = "No analysis generated"

type openAIProvider struct {
	opts   *options
	apiKey string
	model  string
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage json.RawMessage `json:"usage"`
}

func (p *openAIProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	body := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.temperature(),
		MaxTokens:   req.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var resp openAIResponse
	if err := postJSON(ctx, p.opts, "OpenAI", p.opts.baseURL+"/v1/chat/completions", headers, body, &resp); err != nil {
		return nil, err
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return newCompletion(text, nullable(resp.Usage)), nil
}

// nullable turns an absent or JSON null usage object into nil.
func nullable(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
