package metrics

import (
	"internal-angle-service/internal/domain"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for angle calculations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Calculations  *prometheus.CounterVec
	InputErrors   prometheus.Counter
	CacheLookups  *prometheus.CounterVec
	BatchDuration prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Calculations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "angle",
			Name:      "calculations_total",
			Help:      "Angle results served, computed or cached, by coordinate mode and outcome.",
		}, []string{"mode", "outcome"}),
		InputErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "angle",
			Name:      "input_errors_total",
			Help:      "Line pairs rejected before evaluation (bad geometry or CRS).",
		}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "angle",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		BatchDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "angle",
			Name:      "batch_duration_seconds",
			Help:      "Wall time of one batch of line pairs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func (m *Metrics) ObserveResult(mode domain.CoordinateMode, outcome domain.Outcome) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(mode.String(), outcome.String()).Inc()
}

func (m *Metrics) ObserveInputError() {
	if m == nil {
		return
	}
	m.InputErrors.Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(d.Seconds())
}
