package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FleetPro/service-dashboard/internal/domain/session"
	"github.com/FleetPro/service-dashboard/internal/platform/auth"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SessionDTO is the response representation of a login session.
type SessionDTO struct {
	SessionID  string    `json:"session_id"`
	IsLoggedIn bool      `json:"is_logged_in"`
	Email      string    `json:"user_email"`
	Role       string    `json:"user_role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// LoginResult carries the access token issued on login.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Session     SessionDTO `json:"session"`
}

// AuthProvider is the login capability the dashboard depends on.
type AuthProvider interface {
	IsAuthenticated(ctx context.Context, token string) bool
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// SessionProvider is an AuthProvider that can also resolve a token to its
// session. The HTTP layer depends on this rather than on a concrete provider.
type SessionProvider interface {
	AuthProvider
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	CurrentSession(ctx context.Context, token string) (*SessionDTO, error)
}

// MockAuthProvider accepts any credentials with all fields present. The
// password is never checked.
type MockAuthProvider struct {
	jwt    *auth.JWTManager
	store  session.Store
	logger *zap.Logger

	mu       sync.RWMutex
	onLogout []func(sessionID string)
}

// NewMockAuthProvider creates a new MockAuthProvider.
func NewMockAuthProvider(jwt *auth.JWTManager, store session.Store, logger *zap.Logger) *MockAuthProvider {
	return &MockAuthProvider{jwt: jwt, store: store, logger: logger}
}

// OnLogout registers fn to run with the session ID after every logout.
func (p *MockAuthProvider) OnLogout(fn func(sessionID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLogout = append(p.onLogout, fn)
}

// Login validates presence of every field, then opens a session.
func (p *MockAuthProvider) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	email := strings.TrimSpace(creds.Email)
	role := auth.Role(strings.TrimSpace(creds.Role))
	if email == "" || creds.Password == "" || role == "" {
		return nil, domain.NewValidationError("missing required field")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid role: %s", role))
	}

	principal := auth.Principal{SessionID: uuid.NewString(), Email: email, Role: role}
	token, expiresAt, err := p.jwt.Generate(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	sess := session.Session{
		ID:        principal.SessionID,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	if err := p.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.logger.Info("user logged in",
		zap.String("session_id", sess.ID),
		zap.String("email", email),
		zap.String("role", string(role)),
	)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Session:     toSessionDTO(sess),
	}, nil
}

// Authenticate resolves token to the principal of a live session.
func (p *MockAuthProvider) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	sess, err := p.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return sess.Principal(), nil
}

// IsAuthenticated reports whether token belongs to a live session.
func (p *MockAuthProvider) IsAuthenticated(ctx context.Context, token string) bool {
	_, err := p.lookup(ctx, token)
	return err == nil
}

// CurrentSession returns the session behind token.
func (p *MockAuthProvider) CurrentSession(ctx context.Context, token string) (*SessionDTO, error) {
	sess, err := p.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	dto := toSessionDTO(*sess)
	return &dto, nil
}

// Logout ends the session behind token. Logging out twice is not an error.
func (p *MockAuthProvider) Logout(ctx context.Context, token string) error {
	principal, err := p.jwt.Validate(token)
	if err != nil {
		return domain.NewUnauthorizedError("invalid or expired token")
	}

	if err := p.store.Delete(ctx, principal.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	p.mu.RLock()
	hooks := append([]func(string){}, p.onLogout...)
	p.mu.RUnlock()
	for _, fn := range hooks {
		fn(principal.SessionID)
	}

	p.logger.Info("user logged out",
		zap.String("session_id", principal.SessionID),
		zap.String("email", principal.Email),
	)
	return nil
}

func (p *MockAuthProvider) lookup(ctx context.Context, token string) (*session.Session, error) {
	principal, err := p.jwt.Validate(token)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid or expired token")
	}

	sess, err := p.store.Find(ctx, principal.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, domain.NewUnauthorizedError("session has ended")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

func toSessionDTO(s session.Session) SessionDTO {
	return SessionDTO{
		SessionID:  s.ID,
		IsLoggedIn: true,
		Email:      s.Email,
		Role:       string(s.Role),
		ExpiresAt:  s.ExpiresAt,
	}
}
