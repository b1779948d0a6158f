// Package prometheus records chatjpt API calls as Prometheus metrics.
//
// Metrics:
//   - <namespace>_requests_total: calls by operation and status
//   - <namespace>_request_duration_seconds: call duration histogram
package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/petal-labs/chatjpt/core"
)

// StatusError labels calls that failed before a response arrived.
const StatusError = "error"

// Hook implements core.TelemetryHook.
type Hook struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHook creates the metrics and registers them with reg.
// It returns an error if they are already registered.
func NewHook(reg prometheus.Registerer, namespace string) (*Hook, error) {
	h := &Hook{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"operation", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{h.requestsTotal, h.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// OnRequestStart implements core.TelemetryHook.
func (h *Hook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	status := StatusError
	if e.StatusCode != 0 {
		status = strconv.Itoa(e.StatusCode)
	}
	h.requestsTotal.WithLabelValues(e.Operation, status).Inc()
	h.requestDuration.WithLabelValues(e.Operation).Observe(e.Duration().Seconds())
}

var _ core.TelemetryHook = (*Hook)(nil)
