// Package session models a dashboard login session and its storage contract.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/FleetPro/service-dashboard/internal/platform/auth"
)

// ErrNotFound is returned by a Store for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is what the dashboard used to keep under isLoggedIn, userEmail and userRole.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Flags returns the session in the dashboard's legacy key/value shape.
func (s Session) Flags() map[string]string {
	return map[string]string{
		"isLoggedIn": "true",
		"userEmail":  s.Email,
		"userRole":   string(s.Role),
	}
}

// Principal returns the request principal for this session.
func (s Session) Principal() *auth.Principal {
	return &auth.Principal{SessionID: s.ID, Email: s.Email, Role: s.Role}
}

// Store persists sessions until they expire or are deleted.
type Store interface {
	Save(ctx context.Context, s Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
