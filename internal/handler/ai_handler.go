package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibepm/internal/activity"
	"vibepm/internal/ai"
	"vibepm/internal/model"
	"vibepm/internal/promotion"
	"vibepm/internal/repository"
	"vibepm/internal/settings"
)

// FallbackHeader marks a suggestions response built from the fixed fallback
// because the model reply could not be parsed.
const FallbackHeader = "X-VibePM-Fallback"

// nameModel is used for project names when the default provider is OpenAI.
const nameModel = "gpt-4o-mini"

// ProviderFactory builds a chat provider for a resolved configuration.
type ProviderFactory func(cfg *settings.AIConfig) (ai.ChatProvider, error)

// Assistant resolves the configured provider per call and bounds each call
// with a timeout.
type Assistant struct {
	settings    SettingsSource
	newProvider ProviderFactory
	timeout     time.Duration
}

func NewAssistant(src SettingsSource, factory ProviderFactory, timeout time.Duration) *Assistant {
	if factory == nil {
		factory = func(cfg *settings.AIConfig) (ai.ChatProvider, error) { return ai.New(cfg) }
	}
	return &Assistant{settings: src, newProvider: factory, timeout: timeout}
}

// Complete runs one completion. adjust, when non-nil, may change the
// resolved configuration before the provider is built.
func (a *Assistant) Complete(ctx context.Context, reqID, label string, req ai.CompletionRequest, adjust func(*settings.AIConfig)) (*ai.Completion, error) {
	cfg := a.settings.GetAIConfig(ctx)
	if cfg == nil {
		return nil, ai.ErrNotConfigured
	}
	if adjust != nil {
		adjust(cfg)
	}
	provider, err := a.newProvider(cfg)
	if err != nil {
		return nil, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	log.Printf("[%s] %s started (provider=%s model=%s)", reqID, label, cfg.Provider, cfg.Model)
	out, err := provider.Complete(ctx, req)
	if err != nil {
		log.Printf("[%s] %s failed after %s: %v", reqID, label, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	log.Printf("[%s] %s completed in %s, %d chars", reqID, label, time.Since(start).Round(time.Millisecond), len(out.Content))
	if len(out.Usage) > 0 {
		log.Printf("[%s] token usage: %s", reqID, out.Usage)
	}
	return out, nil
}

func requestID() string {
	return uuid.NewString()[:8]
}

type AIHandler struct {
	assistant *Assistant
	projects  ProjectStore
	tasks     TaskStore
	prompts   PromptStore
}

func NewAIHandler(assistant *Assistant, projects ProjectStore, tasks TaskStore, prompts PromptStore) *AIHandler {
	return &AIHandler{
		assistant: assistant,
		projects:  projects,
		tasks:     tasks,
		prompts:   prompts,
	}
}

// BrainstormItem is one idea sent for analysis.
type BrainstormItem struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

type AnalyzeRequest struct {
	Items []BrainstormItem `json:"items"`
}

type AnalyzeResponse struct {
	OriginalItems []BrainstormItem `json:"originalItems"`
	Analysis      string           `json:"analysis"`
}

type GenerateNameRequest struct {
	CurrentName string  `json:"currentName"`
	Problem     *string `json:"problem"`
}

type GeneratePromptRequest struct {
	TaskID    string `json:"taskId"`
	ProjectID string `json:"projectId"`
}

// Analyze godoc
// @Summary      Analyze brainstormed ideas
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request  body  AnalyzeRequest  true  "ideas"
// @Success      200  {object}  AnalyzeResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/analyze [post]
func (h *AIHandler) Analyze(c *gin.Context) {
	reqID := requestID()
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		log.Printf("[%s] analysis rejected: no items", reqID)
		badRequest(c, "No items provided for analysis")
		return
	}

	ideas := make([]string, len(req.Items))
	for i, item := range req.Items {
		ideas[i] = item.Content
	}
	out, err := h.assistant.Complete(c.Request.Context(), reqID, "analysis", ai.AnalyzeRequest(ideas), nil)
	if err != nil {
		aiError(c, "analyze ideas", err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{OriginalItems: req.Items, Analysis: out.Text(ai.NoAnalysis)})
}

// GenerateName suggests a new project name, keeping the current one when the
// model returns nothing usable.
func (h *AIHandler) GenerateName(c *gin.Context) {
	var req GenerateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	useSmallModel := func(cfg *settings.AIConfig) {
		if cfg.Provider == settings.ProviderOpenAI {
			cfg.Model = nameModel
		}
	}
	out, err := h.assistant.Complete(c.Request.Context(), requestID(), "name generation", ai.NameRequest(req.CurrentName, req.Problem), useSmallModel)
	if err != nil {
		aiError(c, "generate name", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": ai.CleanName(out.Text(""), req.CurrentName)})
}

// PromoteGenerate godoc
// @Summary      Suggest a project definition for a captured idea
// @Description  Sets the X-VibePM-Fallback header when the model reply could not be parsed.
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request  body  promotion.SuggestionRequest  true  "capture"
// @Success      200  {object}  promotion.Suggestions
// @Failure      400  {object}  map[string]string
// @Router       /api/promote-to-project/generate [post]
func (h *AIHandler) PromoteGenerate(c *gin.Context) {
	reqID := requestID()
	var req promotion.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.CaptureID == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(c, "captureId and content are required")
		return
	}

	out, err := h.assistant.Complete(c.Request.Context(), reqID, "project suggestions", req.CompletionRequest(), nil)
	if err != nil {
		aiError(c, "generate project suggestions", err)
		return
	}
	suggestions, fellBack := promotion.ParseSuggestions(out.Content, req.Content)
	if fellBack {
		log.Printf("[%s] ⚠️  could not parse suggestions for capture %s, using fallback", reqID, req.CaptureID)
		c.Header(FallbackHeader, "true")
	}
	c.JSON(http.StatusOK, suggestions)
}

// GeneratePrompt godoc
// @Summary      Generate a coding-assistant prompt for a task
// @Description  Returns the task's existing prompt with 200 instead of generating a second one.
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request  body  GeneratePromptRequest  true  "task"
// @Success      200  {object}  model.Prompt
// @Success      201  {object}  model.Prompt
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/prompts/generate [post]
func (h *AIHandler) GeneratePrompt(c *gin.Context) {
	var req GeneratePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.TaskID == "" || req.ProjectID == "" {
		badRequest(c, "Task ID and Project ID are required")
		return
	}

	ctx := c.Request.Context()
	task, err := h.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "generate prompt", err)
		return
	}
	if task.ProjectID != req.ProjectID {
		badRequest(c, "Task does not belong to project")
		return
	}
	existing, err := h.prompts.FindByTask(ctx, task.ID)
	if err != nil {
		internalError(c, "generate prompt", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	project, err := h.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			notFound(c, "Project not found")
			return
		}
		internalError(c, "generate prompt", err)
		return
	}

	tc := ai.TaskContext{
		ProjectName:     project.Name,
		ProjectProblem:  project.Problem,
		MvpDefinition:   project.MvpDefinition,
		TaskTitle:       task.Title,
		TaskDescription: task.Description,
		Complexity:      string(task.Complexity),
	}
	out, err := h.assistant.Complete(ctx, requestID(), "prompt generation", ai.TaskPromptRequest(tc), nil)
	if err != nil {
		aiError(c, "generate prompt", err)
		return
	}
	content := strings.TrimSpace(out.Text(""))
	if content == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate prompt content"})
		return
	}

	prompt := &model.Prompt{
		ProjectID: task.ProjectID,
		TaskID:    &task.ID,
		Title:     activity.PromptTitle(task.Title),
		Content:   content,
	}
	saved, created, err := h.prompts.CreateForTask(ctx, prompt, activity.PromptGenerated(task.ProjectID, task))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "generate prompt", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, saved)
}
