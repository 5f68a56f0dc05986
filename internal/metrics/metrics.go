// Package metrics records per-run counters in a private Prometheus registry
// and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons for StatementsSkipped.
const (
	ReasonMalformed   = "malformed"
	ReasonLiteral     = "unsupported_literal"
	ReasonContributor = "bad_contributor"
)

// Metrics holds the collectors for one run.
type Metrics struct {
	registry *prometheus.Registry

	Lines             prometheus.Counter
	StatementsSkipped *prometheus.CounterVec
	Citations         prometheus.Counter
	BundlesWritten    prometheus.Counter
	AuthorsExcluded   prometheus.Counter
	RunDuration       prometheus.Gauge
	LastSuccess       prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citefeed_lines_total",
			Help: "Raw statement lines read.",
		}),
		StatementsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citefeed_statements_skipped_total",
			Help: "Statements or values skipped, by reason.",
		}, []string{"reason"}),
		Citations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citefeed_citations_total",
			Help: "Distinct citation subjects grouped.",
		}),
		BundlesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citefeed_bundles_written_total",
			Help: "Author bundles written.",
		}),
		AuthorsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citefeed_authors_excluded_total",
			Help: "Authors with citations but no appointment.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citefeed_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citefeed_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
	}
	m.registry.MustRegister(
		m.Lines, m.StatementsSkipped, m.Citations, m.BundlesWritten,
		m.AuthorsExcluded, m.RunDuration, m.LastSuccess,
	)
	return m
}

// Succeeded records a completed run.
func (m *Metrics) Succeeded(started, finished time.Time) {
	m.RunDuration.Set(finished.Sub(started).Seconds())
	m.LastSuccess.Set(float64(finished.Unix()))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
