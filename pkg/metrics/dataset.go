package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DatasetMetrics tracks loads of the in-memory order table.
type DatasetMetrics struct {
	rows     *prometheus.GaugeVec
	skipped  *prometheus.GaugeVec
	loads    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewDatasetMetrics(reg prometheus.Registerer) *DatasetMetrics {
	if reg == nil {
		return &DatasetMetrics{}
	}
	m := &DatasetMetrics{
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Order lines held by the current dataset snapshot.",
		}, []string{"source"}),
		skipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "dataset",
			Name:      "skipped_rows",
			Help:      "Rows dropped while building the current snapshot.",
		}, []string{"source"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "dataset",
			Name:      "loads_total",
			Help:      "Dataset loads by outcome.",
		}, []string{"source", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "dataset",
			Name:      "load_duration_seconds",
			Help:      "Time spent loading the dataset.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"source"}),
	}
	reg.MustRegister(m.rows, m.skipped, m.loads, m.duration)
	return m
}

// ObserveLoad records one load attempt. Gauges only move on success so they
// keep describing the snapshot being served.
func (m *DatasetMetrics) ObserveLoad(source string, rows, skipped int, duration time.Duration, err error) {
	if m == nil || m.loads == nil {
		return
	}
	source = normalizeLabel(source)
	m.duration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		m.loads.WithLabelValues(source, "failure").Inc()
		return
	}
	m.loads.WithLabelValues(source, "success").Inc()
	m.rows.WithLabelValues(source).Set(float64(rows))
	m.skipped.WithLabelValues(source).Set(float64(skipped))
}
