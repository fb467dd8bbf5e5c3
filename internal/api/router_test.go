package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/api/handler"
	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

type stubSessions struct {
	user *domain.User
}

func (s *stubSessions) Authenticate(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}
func (s *stubSessions) Login(context.Context, domain.User) {}
func (s *stubSessions) Logout(context.Context) error      { s.user = nil; return nil }
func (s *stubSessions) Bootstrap(context.Context)         {}
func (s *stubSessions) Current() (ports.SessionInfo, bool) {
	if s.user == nil {
		return ports.SessionInfo{}, false
	}
	return ports.SessionInfo{User: s.user}, true
}

func newTestRouter(t *testing.T, sessions *stubSessions, checks map[string]handler.CheckFunc) http.Handler {
	t.Helper()
	return NewRouter(Dependencies{
		Sessions: sessions,
		Checks:   checks,
		Log:      zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestRouter_Liveness(t *testing.T) {
	rec := serve(newTestRouter(t, &stubSessions{}, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Readiness(t *testing.T) {
	checks := map[string]handler.CheckFunc{
		"api":   func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}
	rec := serve(newTestRouter(t, &stubSessions{}, checks), http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}

func TestRouter_SessionRequired(t *testing.T) {
	router := newTestRouter(t, &stubSessions{}, nil)

	for _, path := range []string{"/v1/orders", "/v1/dashboard", "/auth/me"} {
		rec := serve(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "not authenticated", errorBody(t, rec), path)
	}
}

func TestRouter_UsersRequireStaff(t *testing.T) {
	member := &stubSessions{user: &domain.User{ID: 3, Username: "carol"}}
	rec := serve(newTestRouter(t, member, nil), http.MethodGet, "/v1/users", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_LoginValidation(t *testing.T) {
	rec := serve(newTestRouter(t, &stubSessions{}, nil), http.MethodPost, "/auth/login", `{"username":"alice"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorBody(t, rec), "password is required")
}

func TestRouter_LoginRejected(t *testing.T) {
	rec := serve(newTestRouter(t, &stubSessions{}, nil), http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorBody(t, rec))
}

func TestRouter_Metrics(t *testing.T) {
	rec := serve(newTestRouter(t, &stubSessions{}, nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
