package ports

import (
	"context"
	"time"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

// SessionInfo is a read-only snapshot of the current session.
type SessionInfo struct {
	User            *domain.User
	Permissions     []string
	AccessExpiresAt time.Time // zero when the access credential carries no exp claim
}

// SessionService holds the identity of the signed-in user.
type SessionService interface {
	// Authenticate performs the full sign-in: token exchange, identity fetch, Login.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// Login records identity as current and snapshots the access credential.
	Login(ctx context.Context, identity domain.User)
	Logout(ctx context.Context) error
	// Bootstrap restores a persisted session. It never fails; any error leaves
	// the session unauthenticated with credentials erased.
	Bootstrap(ctx context.Context)
	Current() (SessionInfo, bool)
}
