// Package metrics holds the Prometheus collectors shared by the HTTP API
// and the stock alerter.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by method, route, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes API request latency by method and route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TransactionsRecorded counts committed ledger transactions by kind
	TransactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_transactions_recorded_total",
			Help: "Total number of ledger transactions committed.",
		},
		[]string{"kind"},
	)

	// TransactionsRejected counts rejected stock mutations by reason
	TransactionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_transactions_rejected_total",
			Help: "Total number of stock mutations rejected by validation.",
		},
		[]string{"kind", "reason"},
	)

	// OutboxPublished counts outbox messages successfully published
	OutboxPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_outbox_published_total",
			Help: "Total number of outbox messages published to Kafka.",
		},
	)

	// OutboxFailures counts outbox messages that exhausted their retries
	OutboxFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_outbox_failures_total",
			Help: "Total number of outbox messages marked as failed to publish.",
		},
	)

	// StockEventsConsumed counts stock events handled by the alerter, by outcome
	StockEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_stock_events_consumed_total",
			Help: "Total number of stock events consumed by the alerter.",
		},
		[]string{"outcome"},
	)

	// LowStockAlerts counts low-stock and out-of-stock alerts raised by the alerter
	LowStockAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_low_stock_alerts_total",
			Help: "Total number of stock level alerts raised.",
		},
		[]string{"severity"},
	)
)

// GinMiddleware records request counts and latency for every API route.
// It uses the route template rather than the raw path so metrics do not
// explode across path parameters.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
