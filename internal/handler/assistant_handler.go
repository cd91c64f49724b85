package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

const maxQueryWait = 10 * time.Second

// AssistantHandler serves the smart route assistant and AI assistant chat.
type AssistantHandler struct {
	service *application.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(service *application.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// RegisterRoutes registers the assistant routes.
func (h *AssistantHandler) RegisterRoutes(r *gin.RouterGroup, authenticator middleware.Authenticator) {
	assistant := r.Group("/api/v1/assistant")
	assistant.Use(middleware.AuthMiddleware(authenticator))
	{
		assistant.POST("/route-queries", h.SubmitRouteQuery)
		assistant.GET("/route-queries/current", h.CurrentRouteQuery)
		assistant.POST("/chat", h.Chat)
		assistant.GET("/chat/history", h.ChatHistory)
	}
}

// SubmitRouteQuery handles POST /api/v1/assistant/route-queries.
func (h *AssistantHandler) SubmitRouteQuery(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req application.RouteQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	snap := h.service.SubmitRouteQuery(sid, req)
	if snap.Loading {
		response.Accepted(c, snap)
		return
	}
	response.Success(c, snap)
}

// CurrentRouteQuery handles GET /api/v1/assistant/route-queries/current[?wait=true].
// A wait that times out returns the still-loading snapshot.
func (h *AssistantHandler) CurrentRouteQuery(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	wait := c.Query("wait") == "true"
	ctx, cancel := context.WithTimeout(c.Request.Context(), maxQueryWait)
	defer cancel()

	snap, err := h.service.CurrentRouteQuery(ctx, sid, wait)
	if err != nil && c.Request.Context().Err() != nil {
		return
	}
	response.Success(c, snap)
}

// Chat handles POST /api/v1/assistant/chat.
func (h *AssistantHandler) Chat(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req application.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), sid, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reply)
}

// ChatHistory handles GET /api/v1/assistant/chat/history.
func (h *AssistantHandler) ChatHistory(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	response.Success(c, h.service.ChatHistory(sid))
}
