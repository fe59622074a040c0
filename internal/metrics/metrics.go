package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/layered-annotator/internal/report"
)

// Annotator service metrics
var (
	// Request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annotator_requests_total",
			Help: "Total number of orchestrator requests",
		},
		[]string{"method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "annotator_request_duration_seconds",
			Help:    "Orchestrator request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
		},
		[]string{"method"},
	)

	// Report metrics
	FindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annotator_findings_total",
			Help: "Total number of findings emitted, by analyzer source",
		},
		[]string{"source"},
	)

	FinalModeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annotator_final_mode_total",
			Help: "Session mode observed at the end of each ProcessReality call",
		},
		[]string{"mode"},
	)

	CoordinationDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "annotator_coordination_detected_total",
			Help: "Total number of reports with coordination detected",
		},
	)
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RecordRequest counts one request and observes its latency since start.
func RecordRequest(method string, start time.Time, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	RequestsTotal.WithLabelValues(method, status).Inc()
	RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// RecordReport counts the findings, final mode and detection of rep.
func RecordReport(rep report.UnifiedReport) {
	for _, f := range rep.Metaphysical.Insights {
		FindingsTotal.WithLabelValues(f.Source).Inc()
	}
	for _, f := range rep.Coordination.Patterns {
		FindingsTotal.WithLabelValues(f.Source).Inc()
	}
	FinalModeTotal.WithLabelValues(rep.Metaphysical.State).Inc()
	if rep.Coordination.Detected {
		CoordinationDetectedTotal.Inc()
	}
}
