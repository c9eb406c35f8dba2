package handlers

import (
	"bytes"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/response"
	"github.com/gravadigital/convite-api/internal/services"
)

// AdminHandler serves the reports, the message assistant and the dashboard
type AdminHandler struct {
	reports   *services.ReportService
	messages  *services.MessageService
	dashboard *services.DashboardService
	log       *log.Logger
}

func NewAdminHandler(reports *services.ReportService, messages *services.MessageService, dashboard *services.DashboardService) *AdminHandler {
	return &AdminHandler{
		reports:   reports,
		messages:  messages,
		dashboard: dashboard,
		log:       logger.Handler("admin"),
	}
}

// Report handles GET /api/admin/reports/:kind?format=csv|pdf
func (h *AdminHandler) Report(c *gin.Context) {
	var buf bytes.Buffer
	out, err := h.reports.Render(c.Request.Context(), &buf, services.ReportOptions{
		Kind:   c.Param("kind"),
		Format: c.Query("format"),
	})
	if err != nil {
		respondError(c, h.log, err, "Failed to build report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	c.Data(http.StatusOK, out.ContentType, buf.Bytes())
}

// GenerateMessage handles POST /api/admin/messages/generate
func (h *AdminHandler) GenerateMessage(c *gin.Context) {
	var req services.GenerateRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	msg, err := h.messages.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to generate message")
		return
	}
	response.OK(c, msg)
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.dashboard.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to load dashboard")
		return
	}
	response.OK(c, d)
}
