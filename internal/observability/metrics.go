package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gatectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"gateway", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gatectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"gateway", "method", "path", "status"},
	)
	commandSynthesis = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gatectl",
			Subsystem: "pipeline",
			Name:      "command_synthesis_total",
			Help:      "Command synthesis attempts by outcome.",
		},
		[]string{"gateway", "status"},
	)
	commandValidation = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gatectl",
			Subsystem: "pipeline",
			Name:      "command_validation_total",
			Help:      "Safety policy verdicts.",
		},
		[]string{"gateway", "result"},
	)
	commandExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gatectl",
			Subsystem: "pipeline",
			Name:      "command_executions_total",
			Help:      "Command executions by strategy and status.",
		},
		[]string{"gateway", "strategy", "status"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gatectl",
			Subsystem: "pipeline",
			Name:      "command_execution_duration_seconds",
			Help:      "Command execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"gateway", "strategy", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			commandSynthesis, commandValidation,
			commandExecutions, commandDuration,
		)
	})
}

func RecordHTTPRequest(gateway, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(gateway, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(gateway, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordSynthesis(gateway string, success bool) {
	RegisterMetrics()
	status := "success"
	if !success {
		status = "failed"
	}
	commandSynthesis.WithLabelValues(gateway, status).Inc()
}

func RecordValidation(gateway string, accepted bool) {
	RegisterMetrics()
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	commandValidation.WithLabelValues(gateway, result).Inc()
}

func RecordExecution(gateway, strategy, status string, duration time.Duration) {
	RegisterMetrics()
	commandExecutions.WithLabelValues(gateway, strategy, status).Inc()
	commandDuration.WithLabelValues(gateway, strategy, status).Observe(duration.Seconds())
}
