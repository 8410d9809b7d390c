// Package metrics exposes Prometheus collectors for the HTTP layer and
// check-in operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkin_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_operations_total",
		Help: "Roster operations by action",
	}, []string{"action"})

	csvRowsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_csv_rows_imported_total",
		Help: "Attendee rows stored from CSV uploads",
	})
)

// Operation actions.
const (
	ActionEventCreated    = "event_created"
	ActionEventDeleted    = "event_deleted"
	ActionRosterReplaced  = "roster_replaced"
	ActionCheckedIn       = "checked_in"
	ActionToggled         = "toggled"
	ActionPersonRemoved   = "person_removed"
	ActionActivityDropped = "activity_dropped"
)

// Middleware records request count and latency under the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordOperation(action string) {
	operations.WithLabelValues(action).Inc()
}

func RecordRowsImported(n int) {
	csvRowsImported.Add(float64(n))
}
