package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FleetPro/service-dashboard/internal/application"
	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
	"github.com/FleetPro/service-dashboard/internal/platform/auth"
	"github.com/FleetPro/service-dashboard/internal/platform/kafka"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/repository"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	ctx := context.Background()

	catalog, err := routeDomain.NewSeedCatalog()
	require.NoError(t, err)

	employees := repository.NewMemoryEmployeeRepository()
	rides := repository.NewMemoryRideRequestRepository()
	alerts := repository.NewMemorySOSAlertRepository()
	require.NoError(t, repository.SeedIfEmpty(ctx, employees, rides, alerts, logger))

	events := application.NewEventPublisher(kafka.NoopPublisher{}, "fleet.events", logger)
	authProvider := application.NewMockAuthProvider(auth.NewJWTManager("handler-test", time.Hour), repository.NewMemorySessionStore(), logger)
	assistant := application.NewAssistantService(catalog, 5*time.Millisecond, 0, logger)
	authProvider.OnLogout(assistant.DropSession)

	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(logger))
	api := r.Group("")

	NewAuthHandler(authProvider).RegisterRoutes(api)
	NewRouteHandler(application.NewRouteService(catalog, logger)).RegisterRoutes(api, authProvider)
	NewAssistantHandler(assistant).RegisterRoutes(api, authProvider)
	NewEmployeeHandler(application.NewEmployeeService(employees, events, logger)).RegisterRoutes(api, authProvider)
	NewRideHandler(application.NewRideService(rides, events, logger)).RegisterRoutes(api, authProvider)
	NewSOSHandler(application.NewSOSService(alerts, events, logger)).RegisterRoutes(api, authProvider)
	NewAdminHandler(application.NewAnalyticsService(catalog, employees, rides, alerts)).RegisterRoutes(api, authProvider)

	return &testServer{t: t, router: r}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login(role string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", application.Credentials{
		Email: "ops@fleetpro.in", Password: "anything", Role: role,
	})
	require.Equal(s.t, http.StatusOK, w.Code)

	var res application.LoginResult
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	return res.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", application.Credentials{Email: "a@b.c", Role: "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "missing required field", env.Error.Message)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_SessionAndLogout(t *testing.T) {
	s := newTestServer(t)
	token := s.login("super-admin")

	w, env := s.do(http.MethodGet, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess := decode[application.SessionDTO](t, env.Data)
	assert.True(t, sess.IsLoggedIn)
	assert.Equal(t, "super-admin", sess.Role)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/routes", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/v1/routes",
		"/api/v1/employees",
		"/api/v1/ride-requests",
		"/api/v1/cancellations",
		"/api/v1/sos-alerts",
		"/api/v1/admin/stats/overview",
		"/api/v1/assistant/chat/history",
	} {
		w, _ := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouteHandler(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin")

	w, env := s.do(http.MethodGet, "/api/v1/routes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]application.RouteDTO](t, env.Data), 3)

	w, env = s.do(http.MethodGet, "/api/v1/routes/3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Andheri East", decode[application.RouteDTO](t, env.Data).From)

	w, _ = s.do(http.MethodGet, "/api/v1/routes/99", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/routes/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/routes/search?q=active+routes+with+available+seats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[application.RouteSearchDTO](t, env.Data)
	assert.Equal(t, []string{"AVAIL_SEATS", "STATUS_ACTIVE"}, res.Tags)
	require.Len(t, res.Results, 1)
	assert.Equal(t, 1, res.Results[0].ID)
}

func TestAssistantHandler_RouteQueryLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin")

	w, env := s.do(http.MethodPost, "/api/v1/assistant/route-queries", token, application.RouteQueryRequest{Query: "  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, application.GateIdle, decode[application.GateSnapshot](t, env.Data).State)

	w, env = s.do(http.MethodPost, "/api/v1/assistant/route-queries", token, application.RouteQueryRequest{Query: "whitefield"})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, decode[application.GateSnapshot](t, env.Data).Loading)

	w, env = s.do(http.MethodGet, "/api/v1/assistant/route-queries/current?wait=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[application.GateSnapshot](t, env.Data)
	assert.Equal(t, application.GateResolved, snap.State)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, 2, snap.Results[0].ID)

	other := s.login("admin")
	_, env = s.do(http.MethodGet, "/api/v1/assistant/route-queries/current", other, nil)
	assert.Equal(t, application.GateIdle, decode[application.GateSnapshot](t, env.Data).State)
}

func TestAssistantHandler_Chat(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin")

	w, env := s.do(http.MethodPost, "/api/v1/assistant/chat", token, application.ChatRequest{Message: "How is performance this week?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "performance", decode[application.ChatReplyDTO](t, env.Data).Topic)

	w, _ = s.do(http.MethodPost, "/api/v1/assistant/chat", token, application.ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = s.do(http.MethodGet, "/api/v1/assistant/chat/history", token, nil)
	var turns []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &turns))
	assert.Len(t, turns, 2)
}

func TestEmployeeHandler(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin")

	w, env := s.do(http.MethodGet, "/api/v1/employees?limit=2&page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(6), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
	items := decode[[]application.EmployeeDTO](t, env.Data)
	require.Len(t, items, 2)
	assert.Equal(t, "EMP003", items[0].EmployeeCode)

	shift := "06:00-15:00"
	w, env = s.do(http.MethodPatch, "/api/v1/employees/"+items[0].ID.String(), token, map[string]any{"shift": shift})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shift, decode[application.EmployeeDTO](t, env.Data).Shift)

	w, _ = s.do(http.MethodPatch, "/api/v1/employees/"+items[0].ID.String(), token, map[string]any{"status": "retired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/employees/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRideHandler(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin")

	_, env := s.do(http.MethodGet, "/api/v1/ride-requests?status=pending", token, nil)
	pending := decode[[]application.RideRequestDTO](t, env.Data)
	require.Len(t, pending, 1)
	id := pending[0].ID.String()

	w, _ := s.do(http.MethodPost, "/api/v1/ride-requests/"+id+"/complete", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/ride-requests/"+id+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/ride-requests/"+id+"/cancel", token, application.RideActionRequest{Reason: "shift changed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[application.RideRequestDTO](t, env.Data).Status)

	w, env = s.do(http.MethodGet, "/api/v1/cancellations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), env.Meta.Total)

	w, _ = s.do(http.MethodGet, "/api/v1/ride-requests?status=lost", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSOSHandler(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin")

	_, env := s.do(http.MethodGet, "/api/v1/sos-alerts?status=open", token, nil)
	open := decode[[]application.SOSAlertDTO](t, env.Data)
	require.Len(t, open, 1)
	id := open[0].ID.String()

	w, _ := s.do(http.MethodPost, "/api/v1/sos-alerts/"+id+"/acknowledge", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/sos-alerts/"+id+"/resolve", token, application.ResolveAlertRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/sos-alerts/"+id+"/resolve", token, application.ResolveAlertRequest{Note: "Driver reached safely"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "resolved", decode[application.SOSAlertDTO](t, env.Data).Status)
}

func TestAdminHandler_Overview(t *testing.T) {
	s := newTestServer(t)

	for _, role := range []string{"admin", "super-admin"} {
		w, env := s.do(http.MethodGet, "/api/v1/admin/stats/overview", s.login(role), nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[application.OverviewStatsDTO](t, env.Data)
		assert.Equal(t, int64(6), stats.TotalEmployees)
		assert.Equal(t, 2, stats.ActiveRoutes)
	}
}
