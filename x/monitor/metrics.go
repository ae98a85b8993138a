package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chaintrack-network/chaintrack/pkg/metrics"
)

// Metrics holds all monitor-level metrics
type Metrics struct {
	registry *metrics.ComponentRegistry

	ProgressRatio        prometheus.Gauge
	TipSlot              prometheus.Gauge
	TipHeight            prometheus.Gauge
	PollsTotal           *prometheus.CounterVec
	HorizonFailuresTotal prometheus.Counter
	PollDuration         prometheus.Histogram
}

// NewMetrics creates monitor metrics on the global registry.
func NewMetrics() *Metrics {
	return newMetrics(metrics.NewComponentRegistry("chaintrack", "monitor"))
}

// NewMetricsOn creates monitor metrics on the given registerer. Tests use
// this with a fresh registry.
func NewMetricsOn(reg prometheus.Registerer) *Metrics {
	return newMetrics(metrics.NewComponentRegistryOn(reg, "chaintrack", "monitor"))
}

func newMetrics(reg *metrics.ComponentRegistry) *Metrics {
	return &Metrics{
		registry: reg,

		ProgressRatio: reg.NewGauge(prometheus.GaugeOpts{
			Name: "sync_progress_ratio",
			Help: "Estimated sync progress in [0, 1]; 1 when ready",
		}),

		TipSlot: reg.NewGauge(prometheus.GaugeOpts{
			Name: "tip_slot",
			Help: "Slot number of the last observed local tip",
		}),

		TipHeight: reg.NewGauge(prometheus.GaugeOpts{
			Name: "tip_height",
			Help: "Block height of the last observed local tip",
		}),

		PollsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "polls_total",
			Help: "Total number of tip polls by outcome",
		}, []string{"status"}),

		HorizonFailuresTotal: reg.NewCounter(prometheus.CounterOpts{
			Name: "horizon_failures_total",
			Help: "Total number of tip conversions past the era horizon",
		}),

		PollDuration: reg.NewHistogram(prometheus.HistogramOpts{
			Name:    "poll_duration_seconds",
			Help:    "Duration of one tip poll and estimate",
			Buckets: metrics.DurationBuckets,
		}),
	}
}

// RecordPoll records one poll outcome.
func (m *Metrics) RecordPoll(status string, duration time.Duration) {
	m.PollsTotal.WithLabelValues(status).Inc()
	m.PollDuration.Observe(duration.Seconds())
}

// RecordTip records the latest observed tip.
func (m *Metrics) RecordTip(slot, height uint64) {
	m.TipSlot.Set(float64(slot))
	m.TipHeight.Set(float64(height))
}

// RecordProgress records the latest progress ratio.
func (m *Metrics) RecordProgress(ratio float64) {
	m.ProgressRatio.Set(ratio)
}

// RecordHorizonFailure records a tip conversion past the era horizon.
func (m *Metrics) RecordHorizonFailure() {
	m.HorizonFailuresTotal.Inc()
}
