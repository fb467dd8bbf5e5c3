package ports

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

// CredentialStore persists the access/refresh pair across restarts.
//
// Load returns the zero pair when nothing (or only half a pair) is stored.
// Save rejects incomplete pairs with domain.ErrIncompleteCredentials.
// Implementations serialise their writes.
type CredentialStore interface {
	Load(ctx context.Context) (domain.CredentialPair, error)
	Save(ctx context.Context, pair domain.CredentialPair) error
	Clear(ctx context.Context) error
}
