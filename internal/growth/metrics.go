package growth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects growth measurement statistics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	measurements    *prometheus.CounterVec
	distance        *prometheus.HistogramVec
	profileDuration prometheus.Histogram
}

// NewMetrics registers the growth collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		measurements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "combgrowth_measurements_total",
				Help: "Total number of contour point measurements",
			},
			[]string{"outcome"}, // outcome: grew, receded, not_found, degenerate
		),
		distance: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "combgrowth_growth_distance_pixels",
				Help:    "Unsigned boundary displacement in pixels",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500},
			},
			[]string{"change"},
		),
		profileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "combgrowth_profile_duration_seconds",
				Help:    "Duration of a full contour profile in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
			},
		),
	}
}

// RecordMeasurement counts one measurement and observes its distance.
func (m *Metrics) RecordMeasurement(r Measurement) {
	if m == nil {
		return
	}
	if !r.Found {
		m.measurements.WithLabelValues("not_found").Inc()
		return
	}
	m.measurements.WithLabelValues(string(r.Change)).Inc()
	m.distance.WithLabelValues(string(r.Change)).Observe(float64(r.Distance))
}

// RecordDegenerate counts a contour point without a usable tangent.
func (m *Metrics) RecordDegenerate() {
	if m == nil {
		return
	}
	m.measurements.WithLabelValues("degenerate").Inc()
}

// RecordProfile observes the duration of a profile run.
func (m *Metrics) RecordProfile(d time.Duration) {
	if m == nil {
		return
	}
	m.profileDuration.Observe(d.Seconds())
}
