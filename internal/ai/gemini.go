package ai

import (
	"context"
	"net/url"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiProvider struct {
	opts   *options
	apiKey string
	model  string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete folds the system prompt into the single user part; usage is
// never reported for Gemini.
func (p *geminiProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: req.System + "\n\n" + req.User}}}}
	body.GenerationConfig.Temperature = req.temperature()
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens

	endpoint := p.opts.baseURL + "/v1beta/models/" + url.PathEscape(p.model) + ":generateContent?key=" + url.QueryEscape(p.apiKey)

	var resp geminiResponse
	if err := postJSON(ctx, p.opts, "Gemini", endpoint, nil, body, &resp); err != nil {
		return nil, err
	}

	var text string
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}
	return newCompletion(text, nil), nil
}
