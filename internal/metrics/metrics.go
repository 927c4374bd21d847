package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry so tests and multiple apps do not collide on the
// global one.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	StoreCorruptReads *prometheus.CounterVec
	QuizAttempts      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		StoreCorruptReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_corrupt_reads_total",
				Help: "Collection reads that found undecodable content",
			},
			[]string{"collection"},
		),
		QuizAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_attempts_total",
				Help: "Graded quiz submissions",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.StoreCorruptReads,
		m.QuizAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRequest(method, endpoint string, status int, d time.Duration) {
	m.RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func (m *Metrics) StoreCorrupted(collection string, _ error) {
	m.StoreCorruptReads.WithLabelValues(collection).Inc()
}

func (m *Metrics) QuizGraded(passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	m.QuizAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
