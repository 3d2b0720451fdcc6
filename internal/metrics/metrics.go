package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet",
		Subsystem: "user_service",
		Name:      "operations_total",
		Help:      "User service operations by outcome.",
	}, []string{"operation", "result"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "timesheet",
		Subsystem: "user_service",
		Name:      "operation_duration_seconds",
		Help:      "User service operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Operational HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "timesheet",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Operational HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Observe records one finished operation. Call it deferred with the start time
// and a pointer to the named error result.
func Observe(operation string, start time.Time, err *error) {
	result := ResultSuccess
	if err != nil && *err != nil {
		result = ResultError
	}
	OperationsTotal.WithLabelValues(operation, result).Inc()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func ObserveHTTP(method, route, status string, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
