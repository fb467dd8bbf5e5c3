package queue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/core/ports"
	"github.com/orderdesk/orderdesk/internal/pkg/metrics"
)

type recordingService struct {
	mu   sync.Mutex
	seen map[int64][]string
	done chan struct{}
	want int
	n    int
}

func newRecordingService(want int) *recordingService {
	return &recordingService{seen: make(map[int64][]string), done: make(chan struct{}), want: want}
}

func (s *recordingService) Process(_ context.Context, c ports.StatusChangeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[c.OrderID] = append(s.seen[c.OrderID], c.Status)
	s.n++
	if s.n == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, newRecordingService(0), zerolog.Nop())
	for _, id := range []int64{1, 42, 1 << 40} {
		first := d.shardIndex(id)
		if first < 0 || first >= 4 {
			t.Fatalf("shard %d out of range for id %d", first, id)
		}
		if again := d.shardIndex(id); again != first {
			t.Errorf("shard for %d changed: %d then %d", id, first, again)
		}
	}
}

func TestDispatcher_PreservesPerOrderOrdering(t *testing.T) {
	var changes []ports.StatusChangeInput
	for i := 0; i < 20; i++ {
		status := "closed"
		if i%2 == 1 {
			status = "open"
		}
		for _, id := range []int64{1, 2, 3} {
			changes = append(changes, ports.StatusChangeInput{OrderID: id, Status: status})
		}
	}
	svc := newRecordingService(len(changes))
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.EnqueueBatch(changes)

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for workers")
	}
	cancel()
	d.Wait()

	for _, id := range []int64{1, 2, 3} {
		got := svc.seen[id]
		if len(got) != 20 {
			t.Fatalf("order %d: expected 20 changes, got %d", id, len(got))
		}
		for i, status := range got {
			want := "closed"
			if i%2 == 1 {
				want = "open"
			}
			if status != want {
				t.Errorf("order %d change %d: expected %s, got %s", id, i, want, status)
			}
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingService(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("read gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestDispatcher_QueueDepthCountsPendingChanges(t *testing.T) {
	svc := newRecordingService(3)
	d := NewDispatcher(1, svc, zerolog.Nop())
	depth := metrics.TransitionsQueueDepth.WithLabelValues(strconv.Itoa(d.shardIndex(9)))
	base := gaugeValue(t, depth)

	d.EnqueueBatch([]ports.StatusChangeInput{
		{OrderID: 9, Status: "closed"},
		{OrderID: 9, Status: "open"},
		{OrderID: 9, Status: "closed"},
	})
	if got := gaugeValue(t, depth) - base; got != 3 {
		t.Fatalf("expected 3 pending before workers start, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for workers")
	}
	cancel()
	d.Wait()

	if got := gaugeValue(t, depth) - base; got != 0 {
		t.Errorf("expected queue depth back at baseline, got %+v", got)
	}
}
