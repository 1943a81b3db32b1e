// Package client is a typed HTTP client for the VibePM JSON API. It backs
// the board executor and the promotion flow when they run outside the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vibepm/internal/board"
	"vibepm/internal/model"
	"vibepm/internal/promotion"
)

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL   string
	token     string
	http      *http.Client
	onRefresh func(ctx context.Context) error
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRefresh sets what Refresh does after a board mutation.
func WithRefresh(fn func(ctx context.Context) error) Option {
	return func(c *Client) { c.onRefresh = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ board.Mutator     = (*Client)(nil)
	_ promotion.Backend = (*Client)(nil)
)

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			apiErr.Message = env.Error
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, status model.TaskStatus) error {
	return c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(taskID), map[string]any{"status": status}, nil)
}

func (c *Client) DeletePrompt(ctx context.Context, promptID string) error {
	return c.do(ctx, http.MethodDelete, "/api/prompts/"+url.PathEscape(promptID), nil, nil)
}

func (c *Client) GeneratePrompt(ctx context.Context, taskID, projectID string) error {
	return c.do(ctx, http.MethodPost, "/api/prompts/generate", map[string]string{
		"taskId":    taskID,
		"projectId": projectID,
	}, nil)
}

func (c *Client) Refresh(ctx context.Context) error {
	if c.onRefresh == nil {
		return nil
	}
	return c.onRefresh(ctx)
}

// BoardView is the response of the board route.
type BoardView struct {
	ProjectID string      `json:"projectId"`
	Slug      string      `json:"slug"`
	Lanes     board.Board `json:"lanes"`
}

func (c *Client) GetBoard(ctx context.Context, slug string) (*BoardView, error) {
	var view BoardView
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(slug)+"/board", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) GetCapture(ctx context.Context, id string) (*model.QuickCapture, error) {
	var capture model.QuickCapture
	if err := c.do(ctx, http.MethodGet, "/api/quick-capture/"+url.PathEscape(id), nil, &capture); err != nil {
		return nil, err
	}
	return &capture, nil
}

func (c *Client) Analyze(ctx context.Context, captureID, content string) (string, error) {
	req := map[string]any{
		"items": []map[string]string{{"id": captureID, "content": content}},
	}
	var resp struct {
		Analysis string `json:"analysis"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/analyze", req, &resp); err != nil {
		return "", err
	}
	return resp.Analysis, nil
}

func (c *Client) SaveAnalysis(ctx context.Context, captureID, analysis string) error {
	return c.do(ctx, http.MethodPatch, "/api/quick-capture/"+url.PathEscape(captureID), map[string]string{"analysis": analysis}, nil)
}

func (c *Client) GenerateSuggestions(ctx context.Context, req promotion.SuggestionRequest) (*promotion.Suggestions, error) {
	var s promotion.Suggestions
	if err := c.do(ctx, http.MethodPost, "/api/promote-to-project/generate", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateProject(ctx context.Context, d promotion.Draft) (*promotion.CreatedProject, error) {
	var p promotion.CreatedProject
	if err := c.do(ctx, http.MethodPost, "/api/projects", d, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) LinkCapture(ctx context.Context, captureID, projectID string) error {
	return c.do(ctx, http.MethodPatch, "/api/quick-capture/"+url.PathEscape(captureID), map[string]string{"projectId": projectID}, nil)
}
