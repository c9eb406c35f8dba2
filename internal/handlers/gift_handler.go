package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// GiftHandler serves the gift registry of the admin area
type GiftHandler struct {
	svc *services.GiftService
	log *log.Logger
}

func NewGiftHandler(svc *services.GiftService) *GiftHandler {
	return &GiftHandler{svc: svc, log: logger.Handler("gift")}
}

// List handles GET /api/admin/gifts
func (h *GiftHandler) List(c *gin.Context) {
	gifts, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to list gifts")
		return
	}
	response.OK(c, gifts)
}

// Create handles POST /api/admin/gifts
func (h *GiftHandler) Create(c *gin.Context) {
	var req services.GiftRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	g, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to create gift")
		return
	}
	response.Created(c, "Gift created", g)
}

// Update handles PUT /api/admin/gifts/:id
func (h *GiftHandler) Update(c *gin.Context) {
	var req services.GiftRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	g, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to update gift")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Gift updated", g)
}

// Delete handles DELETE /api/admin/gifts/:id
func (h *GiftHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "Failed to delete gift")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Gift deleted", nil)
}

// UploadImage handles POST /api/admin/gifts/:id/image
func (h *GiftHandler) UploadImage(c *gin.Context) {
	up, file, ok := imageUpload(c, h.log)
	if !ok {
		return
	}
	defer file.Close()

	g, err := h.svc.UploadImage(c.Request.Context(), c.Param("id"), up)
	if err != nil {
		respondError(c, h.log, err, "Failed to upload gift image")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Image uploaded", g)
}
