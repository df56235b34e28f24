package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"abtest/domain/abtest"
)

// Metrics records analysis and request telemetry on its own registry
type Metrics struct {
	registry          *prometheus.Registry
	analyses          *prometheus.CounterVec
	procedureFailures *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "abtest",
			Name:      "analyses_total",
			Help:      "Completed analyses by primary test verdict.",
		}, []string{"verdict"}),
		procedureFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "abtest",
			Name:      "procedure_failures_total",
			Help:      "Hypothesis test procedures that could not be evaluated.",
		}, []string{"procedure"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "abtest",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		m.analyses,
		m.procedureFailures,
		m.requestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveReport counts one analysis and any failed procedures in it
func (m *Metrics) ObserveReport(r abtest.Report) {
	verdict := "not_significant"
	if r.Results.IsSignificant {
		verdict = "significant"
	}
	m.analyses.WithLabelValues(verdict).Inc()

	for _, key := range r.StatisticalTests.FailedProcedures() {
		m.procedureFailures.WithLabelValues(key).Inc()
	}
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
