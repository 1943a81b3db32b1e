package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibepm/internal/model"
	"vibepm/internal/repository"
)

type StepHandler struct {
	steps StepStore
}

func NewStepHandler(steps StepStore) *StepHandler {
	return &StepHandler{steps: steps}
}

type StepRequest struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

func (h *StepHandler) Create(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.TaskID == "" {
		badRequest(c, "Task ID is required")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		badRequest(c, "Title is required")
		return
	}

	step := &model.Step{TaskID: req.TaskID, Title: title}
	if err := h.steps.Create(c.Request.Context(), step); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "create step", err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

func (h *StepHandler) GetByID(c *gin.Context) {
	step, err := h.steps.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrStepNotFound) {
			notFound(c, "Step not found")
			return
		}
		internalError(c, "fetch step", err)
		return
	}
	c.JSON(http.StatusOK, step)
}

func (h *StepHandler) Update(c *gin.Context) {
	body, ok := bindPatch(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	step, err := h.steps.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrStepNotFound) {
			notFound(c, "Step not found")
			return
		}
		internalError(c, "update step", err)
		return
	}

	if title, present, err := body.String("title"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		if title = strings.TrimSpace(title); title == "" {
			badRequest(c, "Title cannot be empty")
			return
		}
		step.Title = title
	}
	if v, present, err := body.Bool("completed"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		step.Completed = v
	}
	if v, present, err := body.Int("order"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		step.Order = v
	}

	if err := h.steps.Update(ctx, step); err != nil {
		internalError(c, "update step", err)
		return
	}
	c.JSON(http.StatusOK, step)
}

func (h *StepHandler) Delete(c *gin.Context) {
	if err := h.steps.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrStepNotFound) {
			notFound(c, "Step not found")
			return
		}
		internalError(c, "delete step", err)
		return
	}
	success(c)
}
