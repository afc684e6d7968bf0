package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "alkanes"
	subsystem = "enum"
)

// Metrics are the enumeration counters registered for one registry.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Candidates counts every code proposed by the generator.
	Candidates prometheus.Counter

	// Duplicates counts candidates rejected as equivalent to an accepted isomer.
	Duplicates prometheus.Counter

	// Isomers holds the accepted isomer count per carbon count.
	// Labels: carbons
	Isomers *prometheus.GaugeVec

	// LevelDuration measures the time to complete a level.
	// Labels: source (generated, catalog)
	LevelDuration *prometheus.HistogramVec

	// MaxCarbons is the highest completed carbon count.
	MaxCarbons prometheus.Gauge
}

// New registers the enumeration metrics with reg (prometheus.DefaultRegisterer if nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Candidates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "candidates_total",
			Help:      "Total candidate codes proposed by the generator",
		}),
		Duplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duplicates_total",
			Help:      "Total candidates rejected as already accepted",
		}),
		Isomers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "isomers",
			Help:      "Accepted isomers per carbon count",
		}, []string{"carbons"}),
		LevelDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "level_duration_seconds",
			Help:      "Time to complete one carbon count",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"source"}),
		MaxCarbons: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "max_carbons",
			Help:      "Highest completed carbon count",
		}),
	}
}

const (
	SourceGenerated = "generated"
	SourceCatalog   = "catalog"
)

// ObserveLevel records a completed level.
func (m *Metrics) ObserveLevel(carbons int, candidates, accepted int64, source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Candidates.Add(float64(candidates))
	if candidates > accepted {
		m.Duplicates.Add(float64(candidates - accepted))
	}
	m.Isomers.WithLabelValues(strconv.Itoa(carbons)).Set(float64(accepted))
	m.LevelDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.MaxCarbons.Set(float64(carbons))
}
