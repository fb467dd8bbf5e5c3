package handler

import (
	"time"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User            *domain.User `json:"user"`
	Role            string       `json:"role"`
	Initials        string       `json:"initials"`
	Permissions     []string     `json:"permissions"`
	AccessExpiresAt *time.Time   `json:"access_expires_at,omitempty"`
}

// --- Orders ---

type listOrdersQuery struct {
	Status        string `query:"status"          validate:"omitempty,oneof=open closed unresolved"`
	Priority      string `query:"priority"        validate:"omitempty,oneof=low medium high"`
	Responsible   int64  `query:"responsible"     validate:"omitempty,gt=0"`
	FromUser      int64  `query:"from_user"       validate:"omitempty,gt=0"`
	Search        string `query:"search"`
	StartDateFrom string `query:"start_date_from" validate:"omitempty,datetime=2006-01-02"`
	StartDateTo   string `query:"start_date_to"   validate:"omitempty,datetime=2006-01-02"`
	Ordering      string `query:"ordering"`
	Page          int    `query:"page"            validate:"omitempty,min=1"`
	PageSize      int    `query:"page_size"       validate:"omitempty,min=1,max=1000"`
}

type createOrderRequest struct {
	Title         string `json:"title"          validate:"required,max=255"`
	Description   string `json:"description"    validate:"required"`
	Resolved      string `json:"resolved"`
	StartDate     string `json:"start_date"     validate:"required,datetime=2006-01-02"`
	PredictedDate string `json:"predicted_date" validate:"required,datetime=2006-01-02"`
	Priority      string `json:"priority"       validate:"required,oneof=low medium high"`
	Status        string `json:"status"         validate:"omitempty,oneof=open closed unresolved"`
	// FromUser defaults to the signed-in user.
	FromUser    int64  `json:"from_user"   validate:"omitempty,gt=0"`
	Responsible *int64 `json:"responsible" validate:"omitempty,gt=0"`
}

// updateOrderRequest carries the editable fields; status moves through the
// dedicated transition endpoints.
type updateOrderRequest struct {
	Title         *string `json:"title"          validate:"omitempty,max=255"`
	Description   *string `json:"description"`
	Resolved      *string `json:"resolved"`
	StartDate     *string `json:"start_date"     validate:"omitempty,datetime=2006-01-02"`
	PredictedDate *string `json:"predicted_date" validate:"omitempty,datetime=2006-01-02"`
	Priority      *string `json:"priority"       validate:"omitempty,oneof=low medium high"`
	Responsible   *int64  `json:"responsible"    validate:"omitempty,gt=0"`
}

type rateRequest struct {
	Rate int `json:"rate" validate:"required,min=1,max=5"`
}

type assignRequest struct {
	ResponsibleID int64 `json:"responsible_id" validate:"required,gt=0"`
}

type orderListResponse struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []domain.OrderView `json:"results"`
}

// --- Queued transitions ---

type transitionRequest struct {
	OrderID     int64     `json:"order_id"     validate:"required,gt=0"`
	Status      string    `json:"status"       validate:"required,oneof=open closed unresolved"`
	RequestedAt time.Time `json:"requested_at"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	Username        string  `json:"username"   validate:"required,max=150"`
	Password        string  `json:"password"   validate:"required,min=8"`
	Email           string  `json:"email"      validate:"omitempty,email"`
	FirstName       string  `json:"first_name" validate:"omitempty,max=150"`
	LastName        string  `json:"last_name"  validate:"omitempty,max=150"`
	IsStaff         bool    `json:"is_staff"`
	IsSuperuser     bool    `json:"is_superuser"`
	Groups          []int64 `json:"groups"`
	UserPermissions []int64 `json:"user_permissions"`
}

type updateUserRequest struct {
	Username        *string  `json:"username"   validate:"omitempty,max=150"`
	Password        *string  `json:"password"   validate:"omitempty,min=8"`
	Email           *string  `json:"email"      validate:"omitempty,email"`
	FirstName       *string  `json:"first_name" validate:"omitempty,max=150"`
	LastName        *string  `json:"last_name"  validate:"omitempty,max=150"`
	IsStaff         *bool    `json:"is_staff"`
	IsSuperuser     *bool    `json:"is_superuser"`
	IsActive        *bool    `json:"is_active"`
	Groups          *[]int64 `json:"groups"`
	UserPermissions *[]int64 `json:"user_permissions"`
}
