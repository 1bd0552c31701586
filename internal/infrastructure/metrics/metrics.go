// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	SalesRecorded     prometheus.Counter
	OrdersFulfilled   prometheus.Counter
	InsufficientStock prometheus.Counter
	RolloversRun      prometheus.Counter
	OutboxDelivered   prometheus.Counter
}

// New registers and returns the service collectors on the given
// registerer. Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "osl_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "osl_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		SalesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "osl_sales_recorded_total",
			Help: "Successfully recorded sales.",
		}),

		OrdersFulfilled: factory.NewCounter(prometheus.CounterOpts{
			Name: "osl_orders_fulfilled_total",
			Help: "Orders moved to the fulfilled state.",
		}),

		InsufficientStock: factory.NewCounter(prometheus.CounterOpts{
			Name: "osl_insufficient_stock_rejections_total",
			Help: "Sales or fulfillments rejected for insufficient stock.",
		}),

		RolloversRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "osl_snapshot_rollovers_total",
			Help: "Daily snapshot rollover runs, including no-op repeats.",
		}),

		OutboxDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "osl_outbox_delivered_total",
			Help: "Outbox notifications handed to the delivery collaborator.",
		}),
	}
}
