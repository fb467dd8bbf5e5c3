package ports

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

// Gateway performs authenticated calls against the remote API.
type Gateway interface {
	// Call sends body (JSON-encoded when non-nil) to path and decodes a
	// successful answer into out when out is non-nil. A 401 triggers a single
	// refresh-and-retry; a 204 leaves out untouched.
	Call(ctx context.Context, method, path string, body, out any) error

	// Login exchanges username/password for a credential pair and persists it.
	Login(ctx context.Context, creds domain.LoginCredentials) (domain.CredentialPair, error)

	// Refresh renews the pair with the held refresh credential. Any failure
	// erases the stored pair.
	Refresh(ctx context.Context) (domain.CredentialPair, error)

	// Logout erases the stored pair. No server call is made.
	Logout(ctx context.Context) error
}
