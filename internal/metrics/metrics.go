// Package metrics collects pipeline counters on a private Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"productprep/internal/models"
)

const namespace = "productprep"

// Metrics holds the counters of one process.
type Metrics struct {
	registry *prometheus.Registry

	RecordsProcessed prometheus.Counter
	SourceErrors     prometheus.Counter
	AbsentValues     *prometheus.CounterVec
	TokensEmitted    *prometheus.CounterVec
	RunDuration      prometheus.Histogram
}

// New creates and registers the pipeline metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Raw records normalized.",
		}),
		SourceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Runs aborted by a malformed or unreadable source.",
		}),
		AbsentValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "absent_values_total",
			Help:      "Numeric fields that were missing or unparseable, by column.",
		}, []string{"column"}),
		TokensEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_emitted_total",
			Help:      "Tokens produced, by token column.",
		}, []string{"column"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a preprocessing run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.RecordsProcessed,
		m.SourceErrors,
		m.AbsentValues,
		m.TokensEmitted,
		m.RunDuration,
	)

	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one normalized record.
func (m *Metrics) Observe(rec *models.NormalizedRecord) {
	m.RecordsProcessed.Inc()

	numerics := []struct {
		column string
		value  *float64
	}{
		{models.ColSellingPrice, rec.SellingPrice},
		{models.ColActualPrice, rec.ActualPrice},
		{models.ColDiscountFrac, rec.DiscountFrac},
		{models.ColAverageRating, rec.AverageRating},
	}

	for _, n := range numerics {
		if n.value == nil {
			m.AbsentValues.WithLabelValues(n.column).Inc()
		}
	}

	for _, col := range []string{models.ColTitleTokens, models.ColDescTokens, models.ColDetailsTokens} {
		m.TokensEmitted.WithLabelValues(col).Add(float64(len(rec.Tokens(col))))
	}
}

// ObserveRun records the duration of a run that started at start.
func (m *Metrics) ObserveRun(start time.Time) {
	m.RunDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes every metric in the text exposition format, for
// collection by the node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}
