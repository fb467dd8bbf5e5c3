package ports

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

// OrderService defines use-case operations for service orders.
type OrderService interface {
	List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
	Get(ctx context.Context, id int64) (*domain.ServiceOrder, error)
	Create(ctx context.Context, input domain.OrderInput) (*domain.ServiceOrder, error)
	Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.ServiceOrder, error)
	Delete(ctx context.Context, id int64) error

	// Transition moves an order along one of the defined status transitions.
	Transition(ctx context.Context, id int64, to domain.OrderStatus) (*domain.ServiceOrder, error)
	Rate(ctx context.Context, id int64, rate int) (*domain.ServiceOrder, error)
	Assign(ctx context.Context, id, responsibleID int64) (*domain.ServiceOrder, error)

	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// UserService defines staff-only account administration.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, input domain.UserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
