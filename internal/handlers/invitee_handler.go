package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// InviteeHandler serves the guest list of the admin area
type InviteeHandler struct {
	svc *services.InviteeService
	log *log.Logger
}

func NewInviteeHandler(svc *services.InviteeService) *InviteeHandler {
	return &InviteeHandler{svc: svc, log: logger.Handler("invitee")}
}

// List handles GET /api/admin/invitees
func (h *InviteeHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to list invitees")
		return
	}
	response.OK(c, list)
}

// Get handles GET /api/admin/invitees/:id
func (h *InviteeHandler) Get(c *gin.Context) {
	inv, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "Failed to load invitee")
		return
	}
	response.OK(c, inv)
}

// Create handles POST /api/admin/invitees
func (h *InviteeHandler) Create(c *gin.Context) {
	var req services.InviteeRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	inv, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to create invitee")
		return
	}
	response.Created(c, "Invitee created", inv)
}

// Update handles PUT /api/admin/invitees/:id
func (h *InviteeHandler) Update(c *gin.Context) {
	var req services.InviteeRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	inv, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to update invitee")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Invitee updated", inv)
}

// Delete handles DELETE /api/admin/invitees/:id
func (h *InviteeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "Failed to delete invitee")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Invitee deleted", nil)
}

// Import handles POST /api/admin/invitees/import
func (h *InviteeHandler) Import(c *gin.Context) {
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
		respondError(c, h.log, err, "Failed to import guest list")
		return
	}

	h.log.Info("guest list imported", "file", header.Filename, "imported", summary.Imported, "skipped", len(summary.Skipped))
	response.OK(c, summary)
}

// Status handles GET /api/admin/invitees/status
func (h *InviteeHandler) Status(c *gin.Context) {
	report, err := h.svc.Status(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to build guest status")
		return
	}
	response.OK(c, report)
}
