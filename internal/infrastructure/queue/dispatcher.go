package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/core/ports"
	"github.com/orderdesk/orderdesk/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes status changes to a fixed set of workers by hashing the
// order ID, so changes to one order are applied in the order they arrived.
type Dispatcher struct {
	workers []chan ports.StatusChangeInput
	service ports.TransitionService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.TransitionService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.StatusChangeInput, numWorkers),
		service: service,
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusChangeInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	d.log.Info().Int("workers", len(d.workers)).Msg("dispatcher started")
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends a change to the worker responsible for its order.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(change ports.StatusChangeInput) {
	idx := d.shardIndex(change.OrderID)
	metrics.TransitionsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	d.workers[idx] <- change
}

// EnqueueBatch enqueues multiple changes preserving per-order ordering.
func (d *Dispatcher) EnqueueBatch(changes []ports.StatusChangeInput) {
	for _, c := range changes {
		d.Enqueue(c)
	}
}

// shardIndex maps an order ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(orderID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusChangeInput) {
	defer d.wg.Done()
	depth := metrics.TransitionsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.service.Process(ctx, change); err != nil {
				d.log.Error().Err(err).
					Int64("order_id", change.OrderID).
					Str("status", change.Status).
					Int("worker_id", id).
					Msg("status change failed")
			}
		}
	}
}
