// Package metrics holds the Prometheus instruments of the signal engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal engine.
type Metrics struct {
	Registry *prometheus.Registry

	CyclesTotal     *prometheus.CounterVec // labels: trigger
	CycleDuration   prometheus.Histogram
	OutcomesTotal   *prometheus.CounterVec // labels: symbol, state
	SignalsTotal    *prometheus.CounterVec // labels: symbol, direction, tier
	SuppressedTotal prometheus.Counter
	FetchDuration   *prometheus.HistogramVec // labels: source
	FetchErrors     *prometheus.CounterVec   // labels: source
	PublishErrors   prometheus.Counter
	LastConfidence  *prometheus.GaugeVec // labels: symbol
	WSClients       prometheus.Gauge
}

// New creates the instruments on a dedicated registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_cycles_total",
			Help: "Analysis cycles run (by trigger)",
		}, []string{"trigger"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_cycle_duration_seconds",
			Help:    "Wall time of a full analysis cycle",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		OutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_symbol_outcomes_total",
			Help: "Per-symbol pipeline outcomes (signal, hold, duplicate, suppressed, no_data)",
		}, []string{"symbol", "state"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_signals_total",
			Help: "Signals accepted and published",
		}, []string{"symbol", "direction", "tier"}),
		SuppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_news_suppressed_total",
			Help: "Symbol analyses skipped inside a news blackout",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_fetch_errors_total",
			Help: "Failed market data fetches",
		}, []string{"source"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_publish_errors_total",
			Help: "Publisher failures",
		}),
		LastConfidence: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_last_confidence_percent",
			Help: "Confidence of the latest accepted signal per symbol",
		}, []string{"symbol"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_ws_clients",
			Help: "Connected WebSocket clients",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CyclesTotal,
		m.CycleDuration,
		m.OutcomesTotal,
		m.SignalsTotal,
		m.SuppressedTotal,
		m.FetchDuration,
		m.FetchErrors,
		m.PublishErrors,
		m.LastConfidence,
		m.WSClients,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
