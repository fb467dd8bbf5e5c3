package ports

import (
	"context"
	"time"
)

// StatusChangeInput is the DTO passed from the transport layer to TransitionService.
type StatusChangeInput struct {
	OrderID     int64
	Status      string
	RequestedAt time.Time
	RequestedBy string
	// ClientStamped is set when RequestedAt came from the caller. Only such
	// changes are de-duplicated; a receive time identifies nothing.
	ClientStamped bool
}

// TransitionService applies queued status changes.
type TransitionService interface {
	Process(ctx context.Context, change StatusChangeInput) error
}
