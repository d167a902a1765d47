// Package metrics records game and store activity in a Prometheus registry.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog load sources.
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
)

// Metrics is the recording surface used by the services.
type Metrics interface {
	RecordCatalogLoad(ctx context.Context, source string, countries int)
	RecordRound(ctx context.Context)
	RecordGuess(ctx context.Context, correct bool)
	RecordFinalScore(ctx context.Context, score int)
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, d time.Duration)
}

// PrometheusMetrics implements Metrics on top of client_golang collectors.
type PrometheusMetrics struct {
	catalogLoads      *prometheus.CounterVec
	catalogSize       prometheus.Gauge
	rounds            prometheus.Counter
	guesses           *prometheus.CounterVec
	finalScores       prometheus.Histogram
	operationAttempts *prometheus.CounterVec
	operationSuccess  *prometheus.CounterVec
	operationFailures *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors and registers them on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poptrivia",
			Name:      "catalog_loads_total",
			Help:      "Catalog loads by source.",
		}, []string{"source"}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "poptrivia",
			Name:      "catalog_countries",
			Help:      "Countries in the loaded catalog.",
		}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "poptrivia",
			Name:      "rounds_total",
			Help:      "Rounds presented to the player.",
		}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poptrivia",
			Name:      "guesses_total",
			Help:      "Guesses by outcome.",
		}, []string{"outcome"}),
		finalScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "poptrivia",
			Name:      "final_score",
			Help:      "Final score of finished games.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poptrivia",
			Name:      "operation_attempts_total",
			Help:      "Service operations attempted.",
		}, []string{"operation"}),
		operationSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poptrivia",
			Name:      "operation_success_total",
			Help:      "Service operations that succeeded.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poptrivia",
			Name:      "operation_failures_total",
			Help:      "Service operations that failed.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "poptrivia",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.catalogLoads,
		m.catalogSize,
		m.rounds,
		m.guesses,
		m.finalScores,
		m.operationAttempts,
		m.operationSuccess,
		m.operationFailures,
		m.operationDuration,
	)
	return m
}

func (m *PrometheusMetrics) RecordCatalogLoad(_ context.Context, source string, countries int) {
	m.catalogLoads.WithLabelValues(source).Inc()
	m.catalogSize.Set(float64(countries))
}

func (m *PrometheusMetrics) RecordRound(_ context.Context) {
	m.rounds.Inc()
}

func (m *PrometheusMetrics) RecordGuess(_ context.Context, correct bool) {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	m.guesses.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordFinalScore(_ context.Context, score int) {
	m.finalScores.Observe(float64(score))
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operationSuccess.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// WriteTextfile dumps everything gathered by g in the node_exporter textfile
// format. A blank path is a no-op.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}

// NoOpMetrics discards every recording.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordCatalogLoad(context.Context, string, int)                 {}
func (NoOpMetrics) RecordRound(context.Context)                                    {}
func (NoOpMetrics) RecordGuess(context.Context, bool)                              {}
func (NoOpMetrics) RecordFinalScore(context.Context, int)                          {}
func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
