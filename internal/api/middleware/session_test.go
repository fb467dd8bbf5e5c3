package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

type stubSessions struct {
	info ports.SessionInfo
	ok   bool
}

func (s stubSessions) Current() (ports.SessionInfo, bool) {
	return s.info, s.ok
}

func TestRequireSession_InjectsIdentity(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/orders", nil), rec)

	user := &domain.User{ID: 9, Username: "alice", IsSuperuser: true}
	mw := RequireSession(stubSessions{info: ports.SessionInfo{User: user}, ok: true})

	var gotRole, gotUsername string
	var gotID int64
	handler := mw(func(c echo.Context) error {
		gotRole, _ = c.Get(KeyRole).(string)
		gotUsername, _ = c.Get(KeyUsername).(string)
		gotID, _ = c.Get(KeyUserID).(int64)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotRole != domain.RoleSuperuser || gotUsername != "alice" || gotID != 9 {
		t.Fatalf("unexpected context values: role=%q username=%q id=%d", gotRole, gotUsername, gotID)
	}
}

func TestRequireSession_RejectsAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/orders", nil), httptest.NewRecorder())

	handler := RequireSession(stubSessions{})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
