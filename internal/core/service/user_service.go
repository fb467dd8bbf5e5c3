package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

const UsersPath = "/api/users/"

type UserService struct {
	gw     ports.Gateway
	logger zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(gw ports.Gateway, logger zerolog.Logger) *UserService {
	return &UserService{gw: gw, logger: logger}
}

func userPath(id int64) string {
	return fmt.Sprintf("%s%d/", UsersPath, id)
}

// List returns every account. The API may answer with a bare array or a
// paginated envelope; both are accepted.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	var page domain.Page[domain.User]
	if err := s.gw.Call(ctx, http.MethodGet, UsersPath, nil, &page); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return page.Results, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.gw.Call(ctx, http.MethodGet, userPath(id), nil, &user); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	var user domain.User
	if err := s.gw.Call(ctx, http.MethodPost, UsersPath, input, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Password != nil && *patch.Password == "" {
		patch.Password = nil
	}
	var user domain.User
	if err := s.gw.Call(ctx, http.MethodPatch, userPath(id), patch, &user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Call(ctx, http.MethodDelete, userPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
