// Package credstore holds the process-local credential stores.
package credstore

import (
	"context"
	"sync"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

// Memory keeps the pair in process memory only. It does not survive restarts.
type Memory struct {
	mu   sync.RWMutex
	pair domain.CredentialPair
}

var _ ports.CredentialStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (domain.CredentialPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pair, nil
}

func (m *Memory) Save(_ context.Context, pair domain.CredentialPair) error {
	if !pair.Complete() {
		return domain.ErrIncompleteCredentials
	}
	m.mu.Lock()
	m.pair = pair
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.pair = domain.CredentialPair{}
	m.mu.Unlock()
	return nil
}
