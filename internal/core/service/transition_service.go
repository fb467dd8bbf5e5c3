package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
	"github.com/orderdesk/orderdesk/internal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderID int64, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, orderID int64, status string, ts time.Time) error
}

// noDedup is used when no idempotency store is configured.
type noDedup struct{}

func (noDedup) IsDuplicate(context.Context, int64, string, time.Time) (bool, error) { return false, nil }
func (noDedup) Mark(context.Context, int64, string, time.Time) error                { return nil }

type transitionService struct {
	orders ports.OrderService
	dedup  DedupChecker
	log    zerolog.Logger
}

// NewTransitionService returns a TransitionService implementation. A nil dedup
// disables duplicate detection.
func NewTransitionService(orders ports.OrderService, dedup DedupChecker, log zerolog.Logger) ports.TransitionService {
	if dedup == nil {
		dedup = noDedup{}
	}
	return &transitionService{orders: orders, dedup: dedup, log: log}
}

// Process deduplicates and applies a single queued status change.
func (s *transitionService) Process(ctx context.Context, in ports.StatusChangeInput) error {
	start := time.Now()
	status := domain.OrderStatus(in.Status)
	if !status.Valid() {
		s.fail("invalid_transition", start)
		return fmt.Errorf("process transition: %w (unknown status %q)", domain.ErrInvalidTransition, in.Status)
	}

	if s.seen(ctx, in) {
		return nil
	}

	if _, err := s.orders.Transition(ctx, in.OrderID, status); err != nil {
		s.fail(failureReason(err), start)
		return fmt.Errorf("process transition: %w", err)
	}

	// Marked only once applied so a failed change can be retried.
	if in.ClientStamped {
		if markErr := s.dedup.Mark(ctx, in.OrderID, in.Status, in.RequestedAt); markErr != nil {
			s.log.Warn().Err(markErr).Int64("order_id", in.OrderID).Msg("failed to set dedup key")
		}
	}

	metrics.TransitionsProcessedTotal.WithLabelValues(in.Status).Inc()
	metrics.TransitionDuration.WithLabelValues(in.Status).Observe(time.Since(start).Seconds())

	s.log.Info().
		Int64("order_id", in.OrderID).
		Str("status", in.Status).
		Str("requested_by", in.RequestedBy).
		Msg("status change applied")
	return nil
}

// seen reports whether a caller-stamped change was already applied. Unstamped
// changes are never duplicates; a failing store never blocks processing.
func (s *transitionService) seen(ctx context.Context, in ports.StatusChangeInput) bool {
	if !in.ClientStamped {
		metrics.TransitionsDedupTotal.WithLabelValues("skipped").Inc()
		return false
	}
	isDup, err := s.dedup.IsDuplicate(ctx, in.OrderID, in.Status, in.RequestedAt)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Int64("order_id", in.OrderID).Msg("dedup check failed, processing anyway")
		return false
	case isDup:
		metrics.TransitionsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Int64("order_id", in.OrderID).Str("status", in.Status).Msg("duplicate status change skipped")
		return true
	}
	metrics.TransitionsDedupTotal.WithLabelValues("miss").Inc()
	return false
}

func (s *transitionService) fail(reason string, start time.Time) {
	metrics.TransitionsErrorsTotal.WithLabelValues(reason).Inc()
	metrics.TransitionDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "order_not_found"
	default:
		return "update_failed"
	}
}
