package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

// SOSHandler handles the SOS Alerts page.
type SOSHandler struct {
	service *application.SOSService
}

// NewSOSHandler creates a new SOSHandler.
func NewSOSHandler(service *application.SOSService) *SOSHandler {
	return &SOSHandler{service: service}
}

// RegisterRoutes registers the SOS alert routes.
func (h *SOSHandler) RegisterRoutes(r *gin.RouterGroup, authenticator middleware.Authenticator) {
	alerts := r.Group("/api/v1/sos-alerts")
	alerts.Use(middleware.AuthMiddleware(authenticator))
	{
		alerts.GET("", h.ListAlerts)
		alerts.GET("/:id", h.GetAlert)
		alerts.POST("/:id/acknowledge", h.AcknowledgeAlert)
		alerts.POST("/:id/resolve", h.ResolveAlert)
	}
}

// ListAlerts handles GET /api/v1/sos-alerts[?status=&priority=].
func (h *SOSHandler) ListAlerts(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := sosDomain.ListFilter{
		Status:   sosDomain.AlertStatus(c.Query("status")),
		Priority: sosDomain.Priority(c.Query("priority")),
	}

	result, err := h.service.ListAlerts(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetAlert handles GET /api/v1/sos-alerts/:id.
func (h *SOSHandler) GetAlert(c *gin.Context) {
	id, ok := parseID(c, "sos alert")
	if !ok {
		return
	}

	result, err := h.service.GetAlert(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AcknowledgeAlert handles POST /api/v1/sos-alerts/:id/acknowledge.
func (h *SOSHandler) AcknowledgeAlert(c *gin.Context) {
	id, ok := parseID(c, "sos alert")
	if !ok {
		return
	}

	result, err := h.service.AcknowledgeAlert(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ResolveAlert handles POST /api/v1/sos-alerts/:id/resolve.
func (h *SOSHandler) ResolveAlert(c *gin.Context) {
	id, ok := parseID(c, "sos alert")
	if !ok {
		return
	}

	var req application.ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.ResolveAlert(c.Request.Context(), id, actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
