package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	"github.com/FleetPro/service-dashboard/internal/platform/auth"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

// AdminHandler serves the Analytics page.
type AdminHandler struct {
	analytics *application.AnalyticsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(analytics *application.AnalyticsService) *AdminHandler {
	return &AdminHandler{analytics: analytics}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, authenticator middleware.Authenticator) {
	admin := r.Group("/api/v1/admin")
	admin.Use(
		middleware.AuthMiddleware(authenticator),
		middleware.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin),
	)
	{
		admin.GET("/stats/overview", h.OverviewStats)
	}
}

// OverviewStats handles GET /api/v1/admin/stats/overview.
func (h *AdminHandler) OverviewStats(c *gin.Context) {
	stats, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
