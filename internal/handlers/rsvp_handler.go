package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// RSVPHandler serves the RSVP ledger of the admin area
type RSVPHandler struct {
	svc *services.RSVPService
	log *log.Logger
}

func NewRSVPHandler(svc *services.RSVPService) *RSVPHandler {
	return &RSVPHandler{svc: svc, log: logger.Handler("rsvp")}
}

// List handles GET /api/admin/rsvps
func (h *RSVPHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to list RSVPs")
		return
	}
	response.OK(c, list)
}

// Get handles GET /api/admin/rsvps/:id
func (h *RSVPHandler) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "Failed to load RSVP")
		return
	}
	response.OK(c, rec)
}

// Create handles POST /api/admin/rsvps
func (h *RSVPHandler) Create(c *gin.Context) {
	var req services.AdminRSVPRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to create RSVP")
		return
	}
	response.Created(c, "RSVP created", rec)
}

// Update handles PUT /api/admin/rsvps/:id
func (h *RSVPHandler) Update(c *gin.Context) {
	var req services.AdminRSVPRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to update RSVP")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "RSVP updated", rec)
}

// Delete handles DELETE /api/admin/rsvps/:id
func (h *RSVPHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "Failed to delete RSVP")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "RSVP deleted", nil)
}

// Import handles POST /api/admin/rsvps/import
func (h *RSVPHandler) Import(c *gin.Context) {
	header, override, ok := importUpload(c, h.log)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err, "Failed to read upload")
		return
	}
	defer file.Close()

	summary, err := h.svc.Import(c.Request.Context(), header.Filename, file, override)
	if err != nil {
		respondError(c, h.log, err, "Failed to import RSVPs")
		return
	}

	h.log.Info("rsvps imported", "file", header.Filename, "imported", summary.Imported, "skipped", len(summary.Skipped))
	response.OK(c, summary)
}
