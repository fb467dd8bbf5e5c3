package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

type stubUserService struct {
	created *domain.UserInput
	patched *domain.UserPatch
	err     error
}

func (s *stubUserService) List(context.Context) ([]domain.User, error) {
	return []domain.User{{ID: 1, Username: "alice"}}, s.err
}

func (s *stubUserService) Get(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id}, s.err
}

func (s *stubUserService) Create(_ context.Context, in domain.UserInput) (*domain.User, error) {
	s.created = &in
	return &domain.User{ID: 2, Username: in.Username}, s.err
}

func (s *stubUserService) Update(_ context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	s.patched = &p
	return &domain.User{ID: id}, s.err
}

func (s *stubUserService) Delete(context.Context, int64) error {
	return s.err
}

func TestUserHandler_Create(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{}
	c, rec := newContext(e, http.MethodPost, "/v1/users", `{"username":"bob","password":"long-enough","email":"bob@example.com"}`)

	if err := NewUserHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.created == nil || stub.created.Username != "bob" || stub.created.Password != "long-enough" {
		t.Errorf("unexpected input: %+v", stub.created)
	}
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	e := newEcho()
	c, _ := newContext(e, http.MethodPost, "/v1/users", `{"username":"bob","password":"short"}`)

	err := NewUserHandler(&stubUserService{}).Create(c)

	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", code)
	}
}

func TestUserHandler_Update_Partial(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{}
	c, rec := newContext(e, http.MethodPatch, "/v1/users/4", `{"is_active":false}`)
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := NewUserHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.patched.IsActive == nil || *stub.patched.IsActive {
		t.Errorf("expected is_active=false in patch, got %+v", stub.patched)
	}
	if stub.patched.Password != nil || stub.patched.Username != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestUserHandler_Delete_Forbidden(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{err: &domain.APIError{Status: http.StatusForbidden, Message: "You do not have permission to perform this action."}}
	c, _ := newContext(e, http.MethodDelete, "/v1/users/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")

	err := NewUserHandler(stub).Delete(c)

	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected the upstream 403, got %v", err)
	}
}
