package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// SettingsHandler serves the event and manual settings of the admin area
type SettingsHandler struct {
	svc *services.SettingsService
	log *log.Logger
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: logger.Handler("settings")}
}

// GetEvent handles GET /api/admin/settings/event
func (h *SettingsHandler) GetEvent(c *gin.Context) {
	event, err := h.svc.Event(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to load event settings")
		return
	}
	response.OK(c, event)
}

// SaveEvent handles PUT /api/admin/settings/event
func (h *SettingsHandler) SaveEvent(c *gin.Context) {
	var req services.EventRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	event, err := h.svc.SaveEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to save event settings")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event settings saved", event)
}

// GetManual handles GET /api/admin/settings/manual
func (h *SettingsHandler) GetManual(c *gin.Context) {
	manual, err := h.svc.Manual(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to load manual settings")
		return
	}
	response.OK(c, manual)
}

// SaveManual handles PUT /api/admin/settings/manual
func (h *SettingsHandler) SaveManual(c *gin.Context) {
	var req services.ManualRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	manual, err := h.svc.SaveManual(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to save manual settings")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Manual settings saved", manual)
}

// ListImages handles GET /api/admin/manual/images
func (h *SettingsHandler) ListImages(c *gin.Context) {
	images, err := h.svc.Images(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to list manual images")
		return
	}
	response.OK(c, images)
}

// UploadImage handles POST /api/admin/manual/images
func (h *SettingsHandler) UploadImage(c *gin.Context) {
	up, file, ok := imageUpload(c, h.log)
	if !ok {
		return
	}
	defer file.Close()

	img, err := h.svc.UploadImage(c.Request.Context(), c.PostForm("type"), up)
	if err != nil {
		respondError(c, h.log, err, "Failed to upload manual image")
		return
	}
	response.Created(c, "Image uploaded", img)
}

// DeleteImage handles DELETE /api/admin/manual/images/:id
func (h *SettingsHandler) DeleteImage(c *gin.Context) {
	if err := h.svc.DeleteImage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "Failed to delete manual image")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Image deleted", nil)
}
