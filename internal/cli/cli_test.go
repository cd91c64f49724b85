package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FleetPro/service-dashboard/internal/application"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

var sampleRoute = application.RouteDTO{
	ID: 2, From: "Whitefield", To: "Electronic City", DepartureTime: "08:15 AM", Duration: "1h 10m",
	AvailableSeats: 0, TotalSeats: 7, VehicleType: "Tempo Traveller", VehicleIcon: "van",
	VehicleNumber: "KA-01-EF-9012", DriverName: "Suresh Reddy", Status: "active", Confidence: 87,
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--server", server, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLogin_SavesToken(t *testing.T) {
	home := isolateHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var creds application.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ops@fleetpro.io", creds.Email)
		assert.Equal(t, "super-admin", creds.Role)
		writeEnvelope(w, http.StatusOK, application.LoginResult{
			AccessToken: "tok-123",
			TokenType:   "Bearer",
			Session:     application.SessionDTO{IsLoggedIn: true, Email: creds.Email, Role: creds.Role},
		})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "login", "-e", "ops@fleetpro.io", "-p", "x", "-r", "super-admin")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as ops@fleetpro.io (super-admin)")

	raw, err := os.ReadFile(filepath.Join(home, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, "tok-123\n", string(raw))
}

func TestLogin_ValidationErrorSurfaces(t *testing.T) {
	isolateHome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing required field")
	}))
	defer srv.Close()

	_, err := run(t, srv.URL, "login", "-e", "ops@fleetpro.io")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "missing required field", apiErr.Message)

	_, err = LoadToken()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestCommands_RequireLogin(t *testing.T) {
	isolateHome(t)

	for _, args := range [][]string{{"routes", "list"}, {"ask", "noida"}, {"chat", "hi"}, {"sos", "list"}} {
		_, err := run(t, "http://127.0.0.1:1", args...)
		assert.ErrorIs(t, err, ErrNotLoggedIn, args)
	}
}

func TestRoutesList_SendsBearerToken(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok-abc"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, []application.RouteDTO{sampleRoute})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "routes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 Whitefield -> Electronic City")
	assert.Contains(t, out, "0/7 seats available")
	assert.Contains(t, out, "87% match")
}

func TestRoutesSearch_PrintsTags(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/routes/search", r.URL.Path)
		assert.Equal(t, "whitefield active", r.URL.Query().Get("q"))
		writeEnvelope(w, http.StatusOK, application.RouteSearchDTO{
			Query:   "whitefield active",
			Tags:    []string{"LOC_WHITEFIELD_ECITY", "STATUS_ACTIVE"},
			Results: []application.RouteDTO{sampleRoute},
		})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "routes", "search", "whitefield", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "filters: LOC_WHITEFIELD_ECITY, STATUS_ACTIVE")
	assert.Contains(t, out, "Whitefield -> Electronic City")
}

func TestAsk_PollsUntilResolved(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/assistant/route-queries":
			writeEnvelope(w, http.StatusAccepted, application.GateSnapshot{
				State: application.GateLoading, Query: "seats in noida", Seq: 1, Loading: true,
			})
		case "/api/v1/assistant/route-queries/current":
			assert.Equal(t, "true", r.URL.Query().Get("wait"))
			if polls.Add(1) < 2 {
				writeEnvelope(w, http.StatusOK, application.GateSnapshot{State: application.GateLoading, Seq: 1, Loading: true})
				return
			}
			writeEnvelope(w, http.StatusOK, application.GateSnapshot{
				State: application.GateResolved, Seq: 1,
				Tags:    []string{"LOC_NOIDA_GURGAON", "AVAIL_SEATS"},
				Results: []application.RouteDTO{{ID: 1, From: "Sector 62, Noida", To: "Cyber City, Gurgaon", AvailableSeats: 1, TotalSeats: 4, Status: "active"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "ask", "seats", "in", "noida")
	require.NoError(t, err)
	assert.Equal(t, int32(2), polls.Load())
	assert.Contains(t, out, "filters: LOC_NOIDA_GURGAON, AVAIL_SEATS")
	assert.Contains(t, out, "#1 Sector 62, Noida -> Cyber City, Gurgaon")
}

func TestAsk_NoRoutesFound(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeEnvelope(w, http.StatusAccepted, application.GateSnapshot{State: application.GateLoading, Loading: true, Seq: 3})
			return
		}
		writeEnvelope(w, http.StatusOK, application.GateSnapshot{State: application.GateResolved, Seq: 3, Empty: true})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "ask", "andheri", "seats", "available")
	require.NoError(t, err)
	assert.Contains(t, out, "no routes found")
}

func TestAsk_IdleSkipsPolling(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeEnvelope(w, http.StatusOK, application.GateSnapshot{State: application.GateIdle})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "ask", " ")
	require.NoError(t, err)
	assert.Contains(t, out, "enter a query")
}

func TestChat_PrintsReply(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req application.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "show sos alerts", req.Message)
		writeEnvelope(w, http.StatusOK, application.ChatReplyDTO{Topic: "sos alerts", Reply: "3 SOS alerts today"})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "chat", "show", "sos", "alerts")
	require.NoError(t, err)
	assert.Equal(t, "3 SOS alerts today\n", out)
}

func TestSOSList_FiltersByStatus(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		writeEnvelope(w, http.StatusOK, []application.SOSAlertDTO{{
			AlertNumber: "SOS-1001", Status: "open", Priority: "high",
			VehicleNumber: "DL-01-AB-1234", Location: "NH-48", Message: "Vehicle breakdown",
		}})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "sos", "list", "--status", "open")
	require.NoError(t, err)
	assert.Contains(t, out, "SOS-1001 [open] high priority, DL-01-AB-1234 at NH-48")
	assert.Contains(t, out, "Vehicle breakdown")
}

func TestLogout_ClearsTokenEvenWhenSessionExpired(t *testing.T) {
	isolateHome(t)
	require.NoError(t, SaveToken("tok"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "session has ended")
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, err = LoadToken()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
