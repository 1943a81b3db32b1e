package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vibepm/internal/repository"
)

const exportVersion = "1.0"

type DataHandler struct {
	data     DataStore
	settings SettingsSource
	now      func() time.Time
}

func NewDataHandler(data DataStore, src SettingsSource) *DataHandler {
	return &DataHandler{data: data, settings: src, now: time.Now}
}

// ExportEnvelope is the document written by GET /api/export.
type ExportEnvelope struct {
	ExportedAt time.Time            `json:"exportedAt"`
	Version    string               `json:"version"`
	Data       *repository.Snapshot `json:"data"`
}

// PurgeResponse reports what POST /api/purge removed.
type PurgeResponse struct {
	Before   time.Time `json:"before"`
	Projects int64     `json:"projects"`
	Captures int64     `json:"captures"`
}

// Export godoc
// @Summary      Export every collection as one JSON document
// @Tags         Data
// @Produce      json
// @Success      200  {object}  ExportEnvelope
// @Router       /api/export [get]
func (h *DataHandler) Export(c *gin.Context) {
	snap, err := h.data.Export(c.Request.Context())
	if err != nil {
		internalError(c, "export data", err)
		return
	}
	c.JSON(http.StatusOK, ExportEnvelope{
		ExportedAt: h.now().UTC(),
		Version:    exportVersion,
		Data:       snap,
	})
}

// ClearAll deletes all user data. Settings are kept.
func (h *DataHandler) ClearAll(c *gin.Context) {
	if err := h.data.ClearAll(c.Request.Context()); err != nil {
		internalError(c, "clear data", err)
		return
	}
	log.Println("🧹 All project data cleared")
	success(c)
}

// Purge hard-deletes projects and captures soft-deleted longer ago than the
// configured retention.
func (h *DataHandler) Purge(c *gin.Context) {
	ctx := c.Request.Context()
	days := h.settings.Load(ctx).SoftDeleteRetentionDays
	before := h.now().AddDate(0, 0, -days)

	res, err := h.data.PurgeDeleted(ctx, before)
	if err != nil {
		internalError(c, "purge deleted items", err)
		return
	}
	log.Printf("🧹 Purged %d projects and %d captures deleted before %s", res.Projects, res.Captures, before.Format(time.RFC3339))
	c.JSON(http.StatusOK, PurgeResponse{
		Before:   before,
		Projects: res.Projects,
		Captures: res.Captures,
	})
}
