// Package metrics defines and registers all custom Prometheus metrics for the
// Kasi-Nav API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kasinav"

// ── Delivery metrics ──────────────────────────────────────────────────────────

// DeliveriesCreatedTotal counts newly created deliveries.
// Label:
//   - category: the suggested category of the parsed landmark ("spaza", "house", …)
var DeliveriesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_created_total",
		Help:      "Total number of deliveries created, by landmark category.",
	},
	[]string{"category"},
)

// DeliveryTransitionsTotal counts successful status changes.
// Label:
//   - status: the status the delivery moved to
var DeliveryTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_transitions_total",
		Help:      "Total number of delivery status transitions, by target status.",
	},
	[]string{"status"},
)

// StateWriteErrorsTotal counts failed persistence writes. The in-memory
// state keeps the mutation either way.
// Label:
//   - key: the storage key that failed ("kasi_nav_deliveries", "kasi_nav_role")
var StateWriteErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_write_errors_total",
		Help:      "Total number of failed state writes, by storage key.",
	},
	[]string{"key"},
)

// ── Assistant metrics ─────────────────────────────────────────────────────────

// AssistantRequestsTotal counts assistant operations by how they ended.
// Labels:
//   - operation: "parse", "route", "safety" or "chat"
//   - outcome: "ok", "fallback", "skipped" (blank input) or "superseded"
var AssistantRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assistant_requests_total",
		Help:      "Total number of assistant operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AssistantInFlight is the number of completion calls currently running.
// Label:
//   - operation: "parse", "route", "safety" or "chat"
var AssistantInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "assistant_in_flight",
		Help:      "Current number of outbound completion calls.",
	},
	[]string{"operation"},
)

// AssistantDuration measures the latency of outbound completion calls.
// Label:
//   - operation: "parse", "route", "safety" or "chat"
var AssistantDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assistant_duration_seconds",
		Help:      "Duration of outbound completion calls.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"operation"},
)

// ── Tracking metrics ──────────────────────────────────────────────────────────

// DriverTicksTotal counts simulator ticks that moved the whole fleet.
var DriverTicksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "driver_ticks_total",
		Help:      "Total number of live driver simulation ticks.",
	},
)
