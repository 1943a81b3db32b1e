package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibepm/internal/model"
	"vibepm/internal/repository"
)

type PromptHandler struct {
	prompts PromptStore
}

func NewPromptHandler(prompts PromptStore) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

type PromptRequest struct {
	ProjectID string  `json:"projectId"`
	TaskID    *string `json:"taskId"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Outcome   *string `json:"outcome"`
	Notes     *string `json:"notes"`
}

func parseOutcome(s *string) (*model.PromptOutcome, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	o := model.PromptOutcome(*s)
	if !o.Valid() {
		return nil, false
	}
	return &o, true
}

func (h *PromptHandler) Create(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.ProjectID == "" {
		badRequest(c, "Project ID is required")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		badRequest(c, "Title is required")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		badRequest(c, "Content is required")
		return
	}
	outcome, ok := parseOutcome(req.Outcome)
	if !ok {
		badRequest(c, "Invalid outcome")
		return
	}

	prompt := &model.Prompt{
		ProjectID: req.ProjectID,
		TaskID:    trimmedOrNil(req.TaskID),
		Title:     title,
		Content:   content,
		Outcome:   outcome,
		Notes:     trimmedOrNil(req.Notes),
	}
	if err := h.prompts.Create(c.Request.Context(), prompt); err != nil {
		internalError(c, "create prompt", err)
		return
	}
	c.JSON(http.StatusCreated, prompt)
}

// GetByID returns the prompt together with its task, if any.
func (h *PromptHandler) GetByID(c *gin.Context) {
	prompt, err := h.prompts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPromptNotFound) {
			notFound(c, "Prompt not found")
			return
		}
		internalError(c, "fetch prompt", err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *PromptHandler) Update(c *gin.Context) {
	body, ok := bindPatch(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	prompt, err := h.prompts.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPromptNotFound) {
			notFound(c, "Prompt not found")
			return
		}
		internalError(c, "update prompt", err)
		return
	}

	if v, present, err := body.String("title"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		prompt.Title = strings.TrimSpace(v)
	}
	if v, present, err := body.String("content"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		prompt.Content = strings.TrimSpace(v)
	}
	if v, present, err := body.NullableString("outcome"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		outcome, ok := parseOutcome(v)
		if !ok {
			badRequest(c, "Invalid outcome")
			return
		}
		prompt.Outcome = outcome
	}
	if v, present, err := body.NullableString("notes"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		prompt.Notes = v
	}

	if err := h.prompts.Update(ctx, prompt); err != nil {
		internalError(c, "update prompt", err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *PromptHandler) Delete(c *gin.Context) {
	if err := h.prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPromptNotFound) {
			notFound(c, "Prompt not found")
			return
		}
		internalError(c, "delete prompt", err)
		return
	}
	success(c)
}
