package domain

import (
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle state of a service order.
type OrderStatus string

const (
	StatusOpen       OrderStatus = "open"
	StatusClosed     OrderStatus = "closed"
	StatusUnresolved OrderStatus = "unresolved"
)

// Statuses lists every status in display order.
var Statuses = []OrderStatus{StatusOpen, StatusClosed, StatusUnresolved}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority is the urgency class of a service order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// ServiceOrder mirrors the record served by /api/v1/service-orders/.
//
// DaysDelay is computed by the server and is historical: it freezes once the
// order is closed. The live overdue signal is derived client-side by
// IsOverdue and the two are allowed to disagree.
type ServiceOrder struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Resolved       string      `json:"resolved,omitempty"`
	StartDate      Date        `json:"start_date"`
	PredictedDate  Date        `json:"predicted_date"`
	CompletionDate *Date       `json:"completion_date,omitempty"`
	DaysDelay      int         `json:"days_delay"`
	Priority       Priority    `json:"priority"`
	Status         OrderStatus `json:"status"`
	FromUser       int64       `json:"from_user"`
	Responsible    *int64      `json:"responsible,omitempty"`
	Rate           *int        `json:"rate,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderPage is one page of the order listing.
type OrderPage = Page[ServiceOrder]

// OrderInput carries the writable fields of a new service order.
type OrderInput struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Resolved       string      `json:"resolved,omitempty"`
	StartDate      Date        `json:"start_date"`
	PredictedDate  Date        `json:"predicted_date"`
	CompletionDate *Date       `json:"completion_date,omitempty"`
	Priority       Priority    `json:"priority"`
	Status         OrderStatus `json:"status"`
	FromUser       int64       `json:"from_user"`
	Responsible    *int64      `json:"responsible,omitempty"`
	Rate           *int        `json:"rate,omitempty"`
}

// Validate applies the record constraints the server also enforces, so that
// obviously broken input fails before a round trip.
func (in OrderInput) Validate() error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidOrder)
	case in.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidOrder)
	case in.StartDate.IsZero() || in.PredictedDate.IsZero():
		return fmt.Errorf("%w: start_date and predicted_date are required", ErrInvalidOrder)
	case in.PredictedDate.Before(in.StartDate.Time):
		return fmt.Errorf("%w: predicted_date is before start_date", ErrInvalidOrder)
	case !in.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidOrder, in.Priority)
	case !in.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, in.Status)
	case in.CompletionDate != nil && in.Status != StatusClosed:
		return fmt.Errorf("%w: completion_date requires status closed", ErrInvalidOrder)
	case in.Rate != nil && (*in.Rate < MinRate || *in.Rate > MaxRate):
		return fmt.Errorf("%w: rate must be between %d and %d", ErrInvalidOrder, MinRate, MaxRate)
	}
	return nil
}

// OrderPatch is a sparse update; nil fields are not transmitted.
type OrderPatch struct {
	Title          *string      `json:"title,omitempty"`
	Description    *string      `json:"description,omitempty"`
	Resolved       *string      `json:"resolved,omitempty"`
	StartDate      *Date        `json:"start_date,omitempty"`
	PredictedDate  *Date        `json:"predicted_date,omitempty"`
	CompletionDate *Date        `json:"completion_date,omitempty"`
	Priority       *Priority    `json:"priority,omitempty"`
	Status         *OrderStatus `json:"status,omitempty"`
	Responsible    *int64       `json:"responsible,omitempty"`
	Rate           *int         `json:"rate,omitempty"`
}

const (
	MinRate = 1
	MaxRate = 5
)
