package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibepm/internal/activity"
	"vibepm/internal/model"
	"vibepm/internal/repository"
)

type TaskHandler struct {
	tasks TaskStore
}

func NewTaskHandler(tasks TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TaskRequest is the body of POST /api/tasks.
type TaskRequest struct {
	ProjectID   string  `json:"projectId"`
	PhaseID     *string `json:"phaseId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Complexity  string  `json:"complexity"`
	Status      string  `json:"status"`
}

// Create godoc
// @Summary      Create a task at the end of its project
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        task  body  TaskRequest  true  "task"
// @Success      201  {object}  model.Task
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
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

	complexity := model.ComplexityMedium
	if req.Complexity != "" {
		complexity = model.TaskComplexity(req.Complexity)
		if !complexity.Valid() {
			badRequest(c, "Invalid complexity")
			return
		}
	}
	status := model.TaskTodo
	if req.Status != "" {
		status = model.TaskStatus(req.Status)
		if !status.Valid() {
			badRequest(c, "Invalid status")
			return
		}
	}

	task := &model.Task{
		ProjectID:   req.ProjectID,
		PhaseID:     trimmedOrNil(req.PhaseID),
		Title:       title,
		Description: trimmedOrNil(req.Description),
		Complexity:  complexity,
		Status:      status,
	}
	// Order is assigned by the repository; the activity gets the task ID there too.
	if err := h.tasks.Create(c.Request.Context(), task, activity.TaskCreated(task)); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			notFound(c, "Project not found")
			return
		}
		internalError(c, "create task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetByID returns the task with its prompts and ordered steps.
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.tasks.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "fetch task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary      Partially update a task
// @Description  A status change is recorded in the project's activity feed.
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "task id"
// @Success      200  {object}  model.Task
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	body, ok := bindPatch(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	task, err := h.tasks.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "update task", err)
		return
	}
	oldTitle, oldStatus := task.Title, task.Status

	if title, present, err := body.String("title"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		if title = strings.TrimSpace(title); title == "" {
			badRequest(c, "Title cannot be empty")
			return
		}
		task.Title = title
	}
	if v, present, err := body.NullableString("description"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		task.Description = v
	}
	if v, present, err := body.String("complexity"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		if !model.TaskComplexity(v).Valid() {
			badRequest(c, "Invalid complexity")
			return
		}
		task.Complexity = model.TaskComplexity(v)
	}
	if v, present, err := body.String("status"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		if !model.TaskStatus(v).Valid() {
			badRequest(c, "Invalid status")
			return
		}
		task.Status = model.TaskStatus(v)
	}
	if v, present, err := body.Int("order"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		task.Order = v
	}

	change := activity.StatusChanged(task.ProjectID, task.ID, oldTitle, oldStatus, task.Status)
	if err := h.tasks.Update(ctx, task, change); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "update task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			notFound(c, "Task not found")
			return
		}
		internalError(c, "delete task", err)
		return
	}
	success(c)
}
