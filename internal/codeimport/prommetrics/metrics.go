// Package prommetrics records directive resolution telemetry with Prometheus
// collectors.
package prommetrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

const (
	namespace = "codeimport"
	labelName = "outcome"
)

// Metrics implements interfaces.ImportMetrics.
type Metrics struct {
	directives *prometheus.CounterVec
	fetch      *prometheus.HistogramVec
}

var _ interfaces.ImportMetrics = (*Metrics)(nil)

// New registers the import collectors with reg. A nil reg uses a fresh
// registry, which keeps repeated construction in tests conflict free.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		directives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Import directives resolved, by outcome.",
		}, []string{labelName}),
		fetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent reading import targets from the vault.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{labelName}),
	}

	for _, collector := range []prometheus.Collector{m.directives, m.fetch} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register codeimport collector: %w", err)
		}
	}
	return m, nil
}

// IncrementDirective counts one resolved directive.
func (m *Metrics) IncrementDirective(outcome interfaces.ImportOutcome) {
	m.directives.WithLabelValues(string(outcome)).Inc()
}

// ObserveFetchDuration records how long a vault read took.
func (m *Metrics) ObserveFetchDuration(outcome interfaces.ImportOutcome, duration time.Duration) {
	m.fetch.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

// WriteText dumps every family gathered from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric family %s: %w", family.GetName(), err)
		}
	}
	return nil
}
