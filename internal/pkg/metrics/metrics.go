// Package metrics defines and registers all custom Prometheus metrics of
// orderdesk. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderdesk"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts upstream requests that produced a response.
// Labels:
//   - method: HTTP method
//   - code: upstream status code (e.g. "200", "401")
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of upstream API requests, by method and status code.",
	},
	[]string{"method", "code"},
)

// GatewayTransportErrorsTotal counts requests that never got a response.
var GatewayTransportErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_transport_errors_total",
		Help:      "Total number of upstream API requests that failed before a response.",
	},
	[]string{"method"},
)

// GatewayRequestDuration measures upstream round-trip time.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of upstream API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// GatewayRefreshTotal counts credential refresh attempts.
// Label:
//   - result: "success", "rejected", "no_credential" or "skipped" (another
//     call already rotated the pair)
var GatewayRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_refresh_total",
		Help:      "Total number of credential refresh attempts, by result.",
	},
	[]string{"result"},
)

// ── Transition metrics ────────────────────────────────────────────────────────

// TransitionsProcessedTotal counts queued status changes applied upstream.
var TransitionsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_processed_total",
		Help:      "Total number of queued status changes successfully applied.",
	},
	[]string{"status"},
)

// TransitionsErrorsTotal counts queued status changes that failed.
// Label:
//   - reason: "invalid_transition", "order_not_found", "update_failed"
var TransitionsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_errors_total",
		Help:      "Total number of queued status changes that failed.",
	},
	[]string{"reason"},
)

// TransitionsDedupTotal counts deduplication decisions: "hit", "miss", or
// "skipped" for changes without a caller timestamp.
var TransitionsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss/skipped).",
	},
	[]string{"result"},
)

// TransitionsQueueDepth tracks pending status changes per worker channel.
var TransitionsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "transitions_queue_depth",
		Help:      "Current number of status changes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// TransitionDuration measures how long one queued status change takes.
// Label:
//   - status: the requested status, or "error" on failure
var TransitionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transition_duration_seconds",
		Help:      "Duration of a queued status change from dequeue to upstream acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)
