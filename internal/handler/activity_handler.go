package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"vibepm/internal/model"
)

type ActivityHandler struct {
	activities ActivityStore
}

func NewActivityHandler(activities ActivityStore) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

type ActivityRequest struct {
	ProjectID   string          `json:"projectId"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	TaskID      *string         `json:"taskId"`
	PromptID    *string         `json:"promptId"`
	Metadata    json.RawMessage `json:"metadata" swaggertype:"object"`
}

// Create appends a client-reported entry to a project's feed.
func (h *ActivityHandler) Create(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.ProjectID == "" {
		badRequest(c, "Project ID is required")
		return
	}
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Title) == "" {
		badRequest(c, "Type and title are required")
		return
	}

	a := &model.Activity{
		ProjectID:   req.ProjectID,
		Type:        req.Type,
		Title:       req.Title,
		Description: trimmedOrNil(req.Description),
		TaskID:      trimmedOrNil(req.TaskID),
		PromptID:    trimmedOrNil(req.PromptID),
	}
	if len(req.Metadata) > 0 && string(req.Metadata) != "null" {
		a.Metadata = datatypes.JSON(req.Metadata)
	}
	if err := h.activities.Create(c.Request.Context(), a); err != nil {
		internalError(c, "create activity", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
