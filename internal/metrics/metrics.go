// Package metrics exposes the scanner's process-level Prometheus
// instrumentation. It is grounded on the teacher's
// internal/interfaces/http metrics-registration idiom (package-level
// collectors registered once, incremented as a side effect of normal
// request/ingest handling).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every collector the scanner publishes. It implements
// ingest.Recorder so the dispatcher can record throughput without this
// package depending on ingest, or vice versa.
type Registry struct {
	MessagesIngested *prometheus.CounterVec
	UnknownSymbol    *prometheus.CounterVec
	CorrelationRuns  prometheus.Counter
	TrackedSymbols   prometheus.Gauge
	ScanDeadline     prometheus.Gauge
}

// New registers and returns the scanner's metric collectors against reg.
// Pass prometheus.NewRegistry() for an isolated registry (tests, multiple
// scan instances in one process) or prometheus.DefaultRegisterer to
// publish on the default /metrics surface.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		MessagesIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "duoscan_messages_ingested_total",
			Help: "Inbound venue messages applied to CoinState, by venue and message kind.",
		}, []string{"venue", "kind"}),
		UnknownSymbol: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "duoscan_unknown_symbol_total",
			Help: "Inbound messages dropped for an untracked symbol, by venue.",
		}, []string{"venue"}),
		CorrelationRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "duoscan_correlation_runs_total",
			Help: "Completed cross-correlator driver passes over the universe.",
		}),
		TrackedSymbols: factory.NewGauge(prometheus.GaugeOpts{
			Name: "duoscan_tracked_symbols",
			Help: "Number of symbols currently tracked in the scanner universe.",
		}),
		ScanDeadline: factory.NewGauge(prometheus.GaugeOpts{
			Name: "duoscan_scan_deadline_seconds",
			Help: "Unix timestamp, in seconds, at which the current scan is scheduled to end.",
		}),
	}
}

// IncMessage implements ingest.Recorder.
func (r *Registry) IncMessage(venue, kind string) {
	r.MessagesIngested.WithLabelValues(venue, kind).Inc()
}

// IncUnknownSymbol implements ingest.Recorder.
func (r *Registry) IncUnknownSymbol(venue string) {
	r.UnknownSymbol.WithLabelValues(venue).Inc()
}
