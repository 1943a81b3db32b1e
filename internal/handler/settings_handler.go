package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibepm/internal/settings"
)

type SettingsHandler struct {
	settings SettingStore
}

func NewSettingsHandler(store SettingStore) *SettingsHandler {
	return &SettingsHandler{settings: store}
}

// Get godoc
// @Summary      Read all settings as one object
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	rows, err := h.settings.List(c.Request.Context())
	if err != nil {
		internalError(c, "fetch settings", err)
		return
	}
	out := make(map[string]any, len(rows))
	for _, row := range rows {
		out[row.Key] = settings.Decode(row.Value)
	}
	c.JSON(http.StatusOK, out)
}

// Put godoc
// @Summary      Upsert settings
// @Description  Each key of the body is stored with its JSON-encoded value.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body  map[string]interface{}  true  "settings"
// @Success      200  {object}  map[string]bool
// @Router       /api/settings [put]
func (h *SettingsHandler) Put(c *gin.Context) {
	var updates map[string]json.RawMessage
	if err := c.ShouldBindJSON(&updates); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	values := make(map[string]string, len(updates))
	for key, raw := range updates {
		// Re-encode so the stored text is compact.
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			badRequest(c, "Invalid value for "+key)
			return
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			internalError(c, "update settings", err)
			return
		}
		values[key] = string(encoded)
	}
	if len(values) > 0 {
		if err := h.settings.UpsertMany(c.Request.Context(), values); err != nil {
			internalError(c, "update settings", err)
			return
		}
	}
	success(c)
}
