package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics tracks computation of the summary tables.
type ReportMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		return &ReportMetrics{}
	}
	m := &ReportMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Time spent computing a summary table.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"report"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "report",
			Name:      "failures_total",
			Help:      "Summary table computations that returned an error.",
		}, []string{"report", "code"}),
	}
	reg.MustRegister(m.duration, m.failures)
	return m
}

func (m *ReportMetrics) ObserveDuration(report string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(report)).Observe(duration.Seconds())
}

func (m *ReportMetrics) IncFailure(report, code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(report), normalizeLabel(code)).Inc()
}
