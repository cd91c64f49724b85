package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

// AuthHandler handles login, logout and session lookups.
type AuthHandler struct {
	provider application.SessionProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider application.SessionProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// RegisterRoutes registers the auth routes. Login is public.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	authMW := middleware.AuthMiddleware(h.provider)

	group := r.Group("/api/v1/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", authMW, h.Logout)
		group.GET("/session", authMW, h.Session)
	}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds application.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.provider.Login(c.Request.Context(), creds)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := middleware.GetToken(c)
	if err := h.provider.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"logged_out": true})
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	token, _ := middleware.GetToken(c)
	sess, err := h.provider.CurrentSession(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, sess)
}
