package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

type stubSessionService struct {
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	info           *ports.SessionInfo
	logouts        int
}

func (s *stubSessionService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.authenticateFn(ctx, username, password)
	if err == nil {
		s.info = &ports.SessionInfo{User: user}
	}
	return user, err
}

func (s *stubSessionService) Login(_ context.Context, identity domain.User) {
	s.info = &ports.SessionInfo{User: &identity}
}

func (s *stubSessionService) Logout(context.Context) error {
	s.logouts++
	s.info = nil
	return nil
}

func (s *stubSessionService) Bootstrap(context.Context) {}

func (s *stubSessionService) Current() (ports.SessionInfo, bool) {
	if s.info == nil {
		return ports.SessionInfo{}, false
	}
	return *s.info, true
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubSessionService{
		authenticateFn: func(_ context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "s3cret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: 7, Username: "alice", FirstName: "alice", LastName: "ng", IsStaff: true}, nil
		},
	}
	c, rec := newContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"s3cret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "staff" || resp["initials"] != "AN" {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if perms, ok := resp["permissions"].([]any); !ok || len(perms) != 0 {
		t.Errorf("expected an empty permission list, got %v", resp["permissions"])
	}
	if _, ok := resp["access_expires_at"]; ok {
		t.Error("expiry must be omitted when unknown")
	}
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	e := newEcho()
	stub := &stubSessionService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, &domain.APIError{Status: http.StatusUnauthorized, Message: "No active account found with the given credentials"}
		},
	}
	c, _ := newContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`)

	err := NewAuthHandler(stub).Login(c)

	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected the upstream 401, got %v", err)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	e := newEcho()
	c, _ := newContext(e, http.MethodPost, "/auth/login", `{"username":"alice"}`)

	err := NewAuthHandler(&stubSessionService{}).Login(c)

	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubSessionService{info: &ports.SessionInfo{
		User:            &domain.User{ID: 7, Username: "alice"},
		Permissions:     []string{"orders.view_serviceorder"},
		AccessExpiresAt: exp,
	}}
	c, rec := newContext(e, http.MethodGet, "/auth/me", "")

	if err := NewAuthHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != "member" || resp.AccessExpiresAt == nil || !resp.AccessExpiresAt.Equal(exp) {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me_SignedOut(t *testing.T) {
	e := newEcho()
	c, _ := newContext(e, http.MethodGet, "/auth/me", "")

	err := NewAuthHandler(&stubSessionService{}).Me(c)

	if code := httpStatus(t, err); code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	stub := &stubSessionService{info: &ports.SessionInfo{User: &domain.User{ID: 7}}}
	c, rec := newContext(e, http.MethodPost, "/auth/logout", "")

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || stub.logouts != 1 {
		t.Errorf("expected 204 and one logout, got %d and %d", rec.Code, stub.logouts)
	}
}

func TestDashboardHandler_Get(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		dashboardFn: func(context.Context) (*domain.Dashboard, error) {
			return &domain.Dashboard{Stats: domain.DashboardStats{Total: 3, Open: 2, Closed: 1, Overdue: 1}}, nil
		},
	}
	c, rec := newContext(e, http.MethodGet, "/v1/dashboard", "")

	if err := NewDashboardHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp domain.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Stats.Total != 3 || resp.Stats.Overdue != 1 {
		t.Errorf("unexpected stats: %+v", resp.Stats)
	}
}
