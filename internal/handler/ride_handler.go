package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

// RideHandler handles the Ride Requests and Cancellations pages.
type RideHandler struct {
	service *application.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(service *application.RideService) *RideHandler {
	return &RideHandler{service: service}
}

// RegisterRoutes registers the ride request routes.
func (h *RideHandler) RegisterRoutes(r *gin.RouterGroup, authenticator middleware.Authenticator) {
	authMW := middleware.AuthMiddleware(authenticator)

	rides := r.Group("/api/v1/ride-requests")
	rides.Use(authMW)
	{
		rides.GET("", h.ListRequests)
		rides.GET("/:id", h.GetRequest)
		rides.POST("/:id/approve", h.ApproveRequest)
		rides.POST("/:id/reject", h.RejectRequest)
		rides.POST("/:id/complete", h.CompleteRequest)
		rides.POST("/:id/cancel", h.CancelRequest)
	}

	r.GET("/api/v1/cancellations", authMW, h.ListCancellations)
}

// ListRequests handles GET /api/v1/ride-requests[?status=].
func (h *RideHandler) ListRequests(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := rideDomain.ListFilter{Status: rideDomain.RequestStatus(c.Query("status"))}

	result, err := h.service.ListRequests(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListCancellations handles GET /api/v1/cancellations.
func (h *RideHandler) ListCancellations(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListCancellations(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRequest handles GET /api/v1/ride-requests/:id.
func (h *RideHandler) GetRequest(c *gin.Context) {
	id, ok := parseID(c, "ride request")
	if !ok {
		return
	}

	result, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ApproveRequest handles POST /api/v1/ride-requests/:id/approve.
func (h *RideHandler) ApproveRequest(c *gin.Context) {
	id, ok := parseID(c, "ride request")
	if !ok {
		return
	}
	req, ok := bindOptionalAction(c)
	if !ok {
		return
	}

	result, err := h.service.ApproveRequest(c.Request.Context(), id, actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RejectRequest handles POST /api/v1/ride-requests/:id/reject.
func (h *RideHandler) RejectRequest(c *gin.Context) {
	id, ok := parseID(c, "ride request")
	if !ok {
		return
	}
	req, ok := bindOptionalAction(c)
	if !ok {
		return
	}

	result, err := h.service.RejectRequest(c.Request.Context(), id, actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CompleteRequest handles POST /api/v1/ride-requests/:id/complete.
func (h *RideHandler) CompleteRequest(c *gin.Context) {
	id, ok := parseID(c, "ride request")
	if !ok {
		return
	}

	result, err := h.service.CompleteRequest(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelRequest handles POST /api/v1/ride-requests/:id/cancel.
func (h *RideHandler) CancelRequest(c *gin.Context) {
	id, ok := parseID(c, "ride request")
	if !ok {
		return
	}
	req, ok := bindOptionalAction(c)
	if !ok {
		return
	}

	result, err := h.service.CancelRequest(c.Request.Context(), id, actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// bindOptionalAction binds an action body; an empty body is allowed.
func bindOptionalAction(c *gin.Context) (application.RideActionRequest, bool) {
	var req application.RideActionRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return req, false
	}
	return req, true
}
