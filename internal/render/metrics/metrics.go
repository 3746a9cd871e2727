package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for mapping rendering.
type Metrics struct {
	// Render outcomes: "script", "no_form", "ambiguous_form", "definition_unresolvable"
	RenderOutcome *prometheus.CounterVec

	// Mapping sizes of successful renders
	MappingSize prometheus.Histogram

	RenderLatency prometheus.Histogram
}

// New creates a new Metrics instance with all render metrics registered.
func New() *Metrics {
	return &Metrics{
		RenderOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formprefill_render_outcomes_total",
			Help: "Total mapping renders by outcome",
		}, []string{"outcome"}),

		MappingSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "formprefill_render_mapping_entries",
			Help:    "Number of entries in rendered field mappings",
			Buckets: []float64{1, 5, 10, 15, 20, 30, 50},
		}),

		RenderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "formprefill_render_duration_seconds",
			Help:    "Duration of form resolution and mapping build",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementOutcome records a render outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.RenderOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveMappingSize records the size of a rendered mapping.
func (m *Metrics) ObserveMappingSize(n int) {
	if m != nil {
		m.MappingSize.Observe(float64(n))
	}
}

// ObserveRenderLatency records the total render duration.
func (m *Metrics) ObserveRenderLatency(d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
	}
}
