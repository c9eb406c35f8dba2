package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// PublicHandler serves the guest-facing pages and the admin sign-in
type PublicHandler struct {
	svc *services.Services
	log *log.Logger
}

func NewPublicHandler(svc *services.Services) *PublicHandler {
	return &PublicHandler{svc: svc, log: logger.Handler("public")}
}

// GetInvitation handles GET /api/invitation
func (h *PublicHandler) GetInvitation(c *gin.Context) {
	inv, err := h.svc.Settings.Invitation(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to load invitation")
		return
	}
	response.OK(c, inv)
}

type lookupRequest struct {
	Name string `json:"name" binding:"required"`
}

// LookupRSVP handles POST /api/rsvp/lookup
func (h *PublicHandler) LookupRSVP(c *gin.Context) {
	var req lookupRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	res, err := h.svc.RSVPs.Lookup(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.log, err, "Failed to check name")
		return
	}
	response.OK(c, res)
}

// SubmitRSVP handles POST /api/rsvp
func (h *PublicHandler) SubmitRSVP(c *gin.Context) {
	var req services.SubmitRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	record, err := h.svc.RSVPs.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to save RSVP, please try again")
		return
	}

	h.log.Info("rsvp received", "id", record.ID, "attending", record.IsAttending)
	response.Created(c, "RSVP received", record)
}

type unlockRequest struct {
	Password string `json:"password"`
}

// UnlockManual handles POST /api/manual/unlock
func (h *PublicHandler) UnlockManual(c *gin.Context) {
	var req unlockRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	res, err := h.svc.Settings.Unlock(c.Request.Context(), req.Password)
	if err != nil {
		respondError(c, h.log, err, "Failed to unlock manual")
		return
	}
	response.OK(c, res)
}

// GetManual handles GET /api/manual
func (h *PublicHandler) GetManual(c *gin.Context) {
	page, err := h.svc.Settings.PublicManual(c.Request.Context(), auth.BearerToken(c))
	if err != nil {
		respondError(c, h.log, err, "Failed to load manual")
		return
	}
	response.OK(c, page)
}

// Login handles POST /api/auth/login
func (h *PublicHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	res, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to sign in")
		return
	}
	response.OK(c, res)
}
