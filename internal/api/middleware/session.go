package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/core/ports"
)

// Context keys set by RequireSession.
const (
	KeyUser     = "user"
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyRole     = "role"
)

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	Current() (ports.SessionInfo, bool)
}

// RequireSession rejects requests while nobody is signed in and injects the
// session identity into the echo context.
func RequireSession(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			info, ok := sessions.Current()
			if !ok || info.User == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			c.Set(KeyUser, info.User)
			c.Set(KeyUserID, info.User.ID)
			c.Set(KeyUsername, info.User.Username)
			c.Set(KeyRole, info.User.Role())

			return next(c)
		}
	}
}
