package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and data-exposure metrics of the service.
type Metrics struct {
	// Data requests by outcome: "served", "unauthenticated", "invalid_session", "error"
	UserDataRequests *prometheus.CounterVec

	// Exposed field counts by allow-list source
	ExposedFields *prometheus.HistogramVec

	HTTPLatency *prometheus.HistogramVec

	AuditDropped prometheus.GaugeFunc
}

// New creates and registers all Prometheus metrics. dropped reports the
// audit events lost to a full buffer; nil disables that gauge.
func New(dropped func() int64) *Metrics {
	m := &Metrics{
		UserDataRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formprefill_user_data_requests_total",
			Help: "Total prefill data requests by outcome",
		}, []string{"outcome"}),

		ExposedFields: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formprefill_exposed_fields",
			Help:    "Number of profile fields exposed per data request",
			Buckets: []float64{0, 1, 2, 5, 10, 14, 20, 30},
		}, []string{"source"}),

		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formprefill_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
	if dropped != nil {
		m.AuditDropped = promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "formprefill_audit_events_dropped",
			Help: "Audit events dropped because the buffer was full",
		}, func() float64 { return float64(dropped()) })
	}
	return m
}

// IncrementUserDataRequest records a data request outcome.
func (m *Metrics) IncrementUserDataRequest(outcome string) {
	if m != nil {
		m.UserDataRequests.WithLabelValues(outcome).Inc()
	}
}

// ObserveExposedFields records how many fields a data request exposed.
func (m *Metrics) ObserveExposedFields(source string, n int) {
	if m != nil {
		m.ExposedFields.WithLabelValues(source).Observe(float64(n))
	}
}

// ObserveHTTP records the latency of one request.
func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// Middleware records request latency labelled with the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveHTTP(route, status, time.Since(start))
	})
}
