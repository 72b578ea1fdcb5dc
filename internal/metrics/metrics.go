// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the sync protocol.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raid_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	// RequestDuration observes request latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "raid_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SyncPayloads counts /data responses by mode (seasons, snapshot, delta)
	// so dashboards can watch the snapshot-to-delta ratio; a rising snapshot
	// share means clients keep losing their lastSync cursor.
	SyncPayloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raid_sync_payloads_total",
		Help: "Sync payloads served by mode.",
	}, []string{"mode"})

	// RealtimeClients gauges the websocket connections currently subscribed.
	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "raid_realtime_clients",
		Help: "Connected realtime subscribers.",
	})

	// EventsPublished counts row-change events handed to the broker.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raid_events_published_total",
		Help: "Row-change events published, by entity and outcome.",
	}, []string{"entity", "outcome"})
)

// Middleware records request count and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			method := c.Request().Method
			RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
