// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler serves /health and /ready.
type Handler struct {
	service  string
	db       *gorm.DB
	checkers map[string]Checker
}

// NewHandler creates a Handler. db may be nil when running on in-memory storage.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{service: service, db: db, checkers: map[string]Checker{}}
}

// AddChecker registers an extra readiness dependency.
func (h *Handler) AddChecker(name string, c Checker) {
	h.checkers[name] = c
}

// RegisterRoutes registers the probes on the engine root.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": h.service})
}

// Ready handles GET /ready.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true

	if h.db != nil {
		checks["database"] = "ok"
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = err.Error()
			ready = false
		}
	}
	for name, checker := range h.checkers {
		checks[name] = "ok"
		if err := checker.Ping(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	c.JSON(status, gin.H{"status": state, "service": h.service, "checks": checks})
}
