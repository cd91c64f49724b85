package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

// RouteHandler serves the route catalog.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers the route catalog routes.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup, authenticator middleware.Authenticator) {
	routes := r.Group("/api/v1/routes")
	routes.Use(middleware.AuthMiddleware(authenticator))
	{
		routes.GET("", h.ListRoutes)
		routes.GET("/search", h.SearchRoutes)
		routes.GET("/:id", h.GetRoute)
	}
}

// ListRoutes handles GET /api/v1/routes.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	response.Success(c, h.service.ListRoutes())
}

// GetRoute handles GET /api/v1/routes/:id.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid route ID")
		return
	}

	result, err := h.service.GetRoute(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SearchRoutes handles GET /api/v1/routes/search?q=.
func (h *RouteHandler) SearchRoutes(c *gin.Context) {
	response.Success(c, h.service.Search(c.Query("q")))
}
