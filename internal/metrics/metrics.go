// Package metrics exposes prometheus collectors for the scorekeeper.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kash"

// Metrics groups every collector registered by the server.
type Metrics struct {
	registry *prometheus.Registry

	GamesStarted    prometheus.Counter
	GamesFinished   prometheus.Counter
	GamesReset      prometheus.Counter
	RoundsSettled   prometheus.Counter
	SwapCards       prometheus.Histogram
	UnmatchedTricks prometheus.Counter
	Penalties       *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	LiveSubscribers prometheus.Gauge
}

// New builds a Metrics bound to its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games created.",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached the losing score.",
		}),
		GamesReset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_reset_total",
			Help:      "Games discarded through reset.",
		}),
		RoundsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_settled_total",
			Help:      "Rounds scored.",
		}),
		SwapCards: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "swap_cards",
			Help:      "Cards scheduled for swapping per round.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		UnmatchedTricks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_tricks_total",
			Help:      "Missing tricks that no other player could cover.",
		}),
		Penalties: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalty_points_total",
			Help:      "Penalty points added, by role.",
		}, []string{"role"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "code"}),
		LiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscribers",
			Help:      "Open live-feed websocket connections.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.GamesStarted,
		m.GamesFinished,
		m.GamesReset,
		m.RoundsSettled,
		m.SwapCards,
		m.UnmatchedTricks,
		m.Penalties,
		m.HTTPRequests,
		m.LiveSubscribers,
	)

	return m
}

// Registry returns the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
