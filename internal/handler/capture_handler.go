package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibepm/internal/capture"
	"vibepm/internal/model"
	"vibepm/internal/repository"
)

type CaptureHandler struct {
	captures CaptureStore
}

func NewCaptureHandler(captures CaptureStore) *CaptureHandler {
	return &CaptureHandler{captures: captures}
}

type CaptureRequest struct {
	Content   string  `json:"content"`
	Analysis  *string `json:"analysis"`
	ProjectID *string `json:"projectId"`
}

func (h *CaptureHandler) captureError(c *gin.Context, action string, err error) {
	if errors.Is(err, repository.ErrCaptureNotFound) {
		notFound(c, "Capture not found")
		return
	}
	internalError(c, action, err)
}

func (h *CaptureHandler) List(c *gin.Context) {
	captures, err := h.captures.List(c.Request.Context(), queryBool(c, "deleted"))
	if err != nil {
		internalError(c, "fetch captures", err)
		return
	}
	c.JSON(http.StatusOK, captures)
}

// Create stores a new idea. Content carrying an inline analysis is split.
func (h *CaptureHandler) Create(c *gin.Context) {
	var req CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		badRequest(c, "Content is required")
		return
	}

	qc := &model.QuickCapture{ProjectID: trimmedOrNil(req.ProjectID)}
	qc.Content, qc.Analysis = capture.Normalize(content, trimmedOrNil(req.Analysis))
	if err := h.captures.Create(c.Request.Context(), qc); err != nil {
		internalError(c, "create capture", err)
		return
	}
	c.JSON(http.StatusCreated, qc)
}

func (h *CaptureHandler) GetByID(c *gin.Context) {
	qc, err := h.captures.GetWithProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.captureError(c, "fetch capture", err)
		return
	}
	c.JSON(http.StatusOK, qc)
}

// Update accepts any of content, analysis and projectId.
func (h *CaptureHandler) Update(c *gin.Context) {
	body, ok := bindPatch(c)
	if !ok {
		return
	}
	if !body.has("content") && !body.has("analysis") && !body.has("projectId") {
		badRequest(c, "Content is required")
		return
	}

	ctx := c.Request.Context()
	qc, err := h.captures.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.captureError(c, "update capture", err)
		return
	}

	content := qc.Content
	if v, present, err := body.String("content"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		if content = strings.TrimSpace(v); content == "" {
			badRequest(c, "Content is required")
			return
		}
	}
	analysis, analysisPresent, err := body.NullableString("analysis")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if analysisPresent {
		qc.Content, _ = capture.Normalize(content, nil)
		qc.Analysis = analysis
	} else {
		var inline *string
		qc.Content, inline = capture.Normalize(content, nil)
		if inline != nil {
			qc.Analysis = inline
		}
	}
	if v, present, err := body.NullableString("projectId"); err != nil {
		badRequest(c, err.Error())
		return
	} else if present {
		qc.ProjectID = v
	}

	if err := h.captures.Update(ctx, qc); err != nil {
		h.captureError(c, "update capture", err)
		return
	}
	c.JSON(http.StatusOK, qc)
}

// Delete soft-deletes the capture, or removes it for good with ?permanent=true.
func (h *CaptureHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	var err error
	if queryBool(c, "permanent") {
		err = h.captures.Delete(ctx, id)
	} else {
		err = h.captures.SoftDelete(ctx, id)
	}
	if err != nil {
		h.captureError(c, "delete capture", err)
		return
	}
	success(c)
}

func (h *CaptureHandler) Restore(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	qc, err := h.captures.GetByID(ctx, id)
	if err != nil {
		h.captureError(c, "restore capture", err)
		return
	}
	if qc.DeletedAt == nil {
		badRequest(c, "Capture is not deleted")
		return
	}
	if err := h.captures.Restore(ctx, id); err != nil {
		h.captureError(c, "restore capture", err)
		return
	}
	restored, err := h.captures.GetWithProject(ctx, id)
	if err != nil {
		h.captureError(c, "restore capture", err)
		return
	}
	c.JSON(http.StatusOK, restored)
}
