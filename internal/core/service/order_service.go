package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

const (
	OrdersPath = "/api/v1/service-orders/"

	DefaultBatchSize    = 1000
	DefaultRecentOrders = 10
)

type OrderService struct {
	gw         ports.Gateway
	logger     zerolog.Logger
	batchSize  int
	recentSize int
	now        func() time.Time
}

var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService builds the service. batchSize bounds the dashboard
// aggregation batch and recentSize the recent-orders list; non-positive values
// fall back to the defaults.
func NewOrderService(gw ports.Gateway, logger zerolog.Logger, batchSize, recentSize int) *OrderService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if recentSize <= 0 {
		recentSize = DefaultRecentOrders
	}
	return &OrderService{
		gw:         gw,
		logger:     logger,
		batchSize:  batchSize,
		recentSize: recentSize,
		now:        time.Now,
	}
}

func orderPath(id int64) string {
	return fmt.Sprintf("%s%d/", OrdersPath, id)
}

// List returns one page of orders matching filter. Empty filter fields are
// not sent.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	path := OrdersPath
	if q := filter.Values().Encode(); q != "" {
		path += "?" + q
	}
	var page domain.OrderPage
	if err := s.gw.Call(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &page, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.ServiceOrder, error) {
	var order domain.ServiceOrder
	if err := s.gw.Call(ctx, http.MethodGet, orderPath(id), nil, &order); err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

func (s *OrderService) Create(ctx context.Context, input domain.OrderInput) (*domain.ServiceOrder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var order domain.ServiceOrder
	if err := s.gw.Call(ctx, http.MethodPost, OrdersPath, input, &order); err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.Info().Int64("order_id", order.ID).Str("priority", string(order.Priority)).Msg("order created")
	return &order, nil
}

// Update sends a partial update. Status changes are not checked here; use
// Transition for those.
func (s *OrderService) Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.ServiceOrder, error) {
	if patch.Rate != nil && (*patch.Rate < domain.MinRate || *patch.Rate > domain.MaxRate) {
		return nil, fmt.Errorf("%w: rate must be between %d and %d", domain.ErrInvalidOrder, domain.MinRate, domain.MaxRate)
	}
	var order domain.ServiceOrder
	if err := s.gw.Call(ctx, http.MethodPatch, orderPath(id), patch, &order); err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return &order, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Call(ctx, http.MethodDelete, orderPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}

// Transition reads the order's current status and applies the patch the
// lifecycle rules prescribe for moving it to to.
func (s *OrderService) Transition(ctx context.Context, id int64, to domain.OrderStatus) (*domain.ServiceOrder, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w (unknown status %q)", domain.ErrInvalidTransition, to)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := domain.TransitionPatch(current.Status, to, s.now())
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}

	updated, err := s.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Msg("order status changed")
	return updated, nil
}

func (s *OrderService) Rate(ctx context.Context, id int64, rate int) (*domain.ServiceOrder, error) {
	if rate < domain.MinRate || rate > domain.MaxRate {
		return nil, fmt.Errorf("%w: rate must be between %d and %d", domain.ErrInvalidOrder, domain.MinRate, domain.MaxRate)
	}
	var order domain.ServiceOrder
	body := map[string]int{"rate": rate}
	if err := s.gw.Call(ctx, http.MethodPost, orderPath(id)+"rate/", body, &order); err != nil {
		return nil, fmt.Errorf("rate order %d: %w", id, err)
	}
	return &order, nil
}

func (s *OrderService) Assign(ctx context.Context, id, responsibleID int64) (*domain.ServiceOrder, error) {
	var order domain.ServiceOrder
	body := map[string]int64{"responsible_id": responsibleID}
	if err := s.gw.Call(ctx, http.MethodPost, orderPath(id)+"assign/", body, &order); err != nil {
		return nil, fmt.Errorf("assign order %d: %w", id, err)
	}
	s.logger.Info().Int64("order_id", id).Int64("responsible_id", responsibleID).Msg("order assigned")
	return &order, nil
}

// Dashboard fetches the aggregation batch and the recent orders concurrently
// and derives the dashboard from them. Either fetch failing fails the whole.
func (s *OrderService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var batch, recent *domain.OrderPage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.List(gctx, domain.OrderFilter{PageSize: s.batchSize})
		batch = page
		return err
	})
	g.Go(func() error {
		page, err := s.List(gctx, domain.OrderFilter{PageSize: s.recentSize, Ordering: "-created_at"})
		recent = page
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	latest := recent.Results
	if len(latest) > s.recentSize {
		latest = latest[:s.recentSize]
	}
	dash := domain.BuildDashboard(*batch, latest, s.now())

	s.logger.Debug().
		Int("batch", dash.Stats.Total).
		Int("server_count", dash.ServerCount).
		Msg("dashboard built")
	return &dash, nil
}
