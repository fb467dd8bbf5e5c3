package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

const (
	CurrentUserPath = "/api/users/me/"
	PermissionsPath = "/api/users/me/permissions/"
)

// SessionService holds the identity of the signed-in user. The identity is
// fetched once and then served from memory.
type SessionService struct {
	gw    ports.Gateway
	store ports.CredentialStore
	log   zerolog.Logger

	mu          sync.RWMutex
	identity    *domain.User
	permissions []string
	access      string
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(gw ports.Gateway, store ports.CredentialStore, log zerolog.Logger) *SessionService {
	return &SessionService{gw: gw, store: store, log: log}
}

// Authenticate exchanges username and password for credentials, fetches the
// identity they belong to and records it. A failed identity fetch erases the
// fresh credentials again.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.gw.Login(ctx, domain.LoginCredentials{Username: username, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.fetchIdentity(ctx)
	if err != nil {
		if logoutErr := s.gw.Logout(ctx); logoutErr != nil {
			s.log.Error().Err(logoutErr).Msg("failed to erase credentials after identity fetch")
		}
		return nil, err
	}

	s.Login(ctx, *user)
	s.loadPermissions(ctx)
	return user, nil
}

// Login records identity as the current user and snapshots the access
// credential currently held.
func (s *SessionService) Login(ctx context.Context, identity domain.User) {
	pair, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not snapshot access credential")
	}

	s.mu.Lock()
	s.identity = &identity
	s.access = pair.Access
	s.mu.Unlock()

	s.log.Info().Int64("user_id", identity.ID).Str("username", identity.Username).Msg("session started")
}

// Logout forgets the identity and erases both credentials. No server call is made.
func (s *SessionService) Logout(ctx context.Context) error {
	s.reset()
	return s.gw.Logout(ctx)
}

// Bootstrap restores the session from persisted credentials. Every failure,
// refresh exhaustion included, degrades to an unauthenticated session.
func (s *SessionService) Bootstrap(ctx context.Context) {
	pair, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not read persisted credentials")
		s.drop(ctx)
		return
	}
	if pair.Access == "" {
		s.log.Info().Msg("no persisted session")
		return
	}

	user, err := s.fetchIdentity(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("persisted session rejected")
		s.drop(ctx)
		return
	}

	s.Login(ctx, *user)
	s.loadPermissions(ctx)
}

// Current returns a snapshot of the session, or false when nobody is signed in.
func (s *SessionService) Current() (ports.SessionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return ports.SessionInfo{}, false
	}
	user := *s.identity
	info := ports.SessionInfo{
		User:        &user,
		Permissions: append([]string(nil), s.permissions...),
	}
	if exp, ok := (domain.CredentialPair{Access: s.access}).AccessExpiresAt(); ok {
		info.AccessExpiresAt = exp
	}
	return info, true
}

func (s *SessionService) fetchIdentity(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.gw.Call(ctx, "GET", CurrentUserPath, nil, &user); err != nil {
		return nil, fmt.Errorf("fetch identity: %w", err)
	}
	return &user, nil
}

// loadPermissions is best effort; a failure leaves the permission set empty.
func (s *SessionService) loadPermissions(ctx context.Context) {
	var perms domain.Permissions
	if err := s.gw.Call(ctx, "GET", PermissionsPath, nil, &perms); err != nil {
		s.log.Warn().Err(err).Msg("could not load permissions")
		return
	}
	s.mu.Lock()
	s.permissions = perms.Permissions
	s.mu.Unlock()
}

func (s *SessionService) drop(ctx context.Context) {
	s.reset()
	if err := s.gw.Logout(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to erase credentials")
	}
}

func (s *SessionService) reset() {
	s.mu.Lock()
	s.identity = nil
	s.permissions = nil
	s.access = ""
	s.mu.Unlock()
}
