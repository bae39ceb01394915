package handler

import (
	"net/http"

	"dukapos/internal/dto"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @Summary Fetch store settings
// @Tags settings
// @Produce json
// @Success 200 {object} model.Settings
// @Router /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	cfg, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Update godoc
// @Summary Update store settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.SettingsUpdateRequest true "Fields to update"
// @Success 200 {object} model.Settings
// @Router /v1/settings [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cfg, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
