package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are registered on a private registry so every App gets its own set.
type Metrics struct {
	registry *prometheus.Registry

	sessionsCreated *prometheus.CounterVec
	guessesMerged   *prometheus.CounterVec
	gamesFinished   *prometheus.CounterVec
	rejectedInputs  *prometheus.CounterVec
	proposeDuration prometheus.Histogram
	candidatesLeft  prometheus.Histogram
}

func newMetrics(liveSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortsolvo_sessions_created_total",
			Help: "Sessions created by mode",
		}, []string{"mode"}),
		guessesMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortsolvo_guesses_merged_total",
			Help: "Guess results merged into sessions by mode",
		}, []string{"mode"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortsolvo_games_finished_total",
			Help: "Games that reached a terminal status",
		}, []string{"status"}),
		rejectedInputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortsolvo_rejected_inputs_total",
			Help: "Guesses or feedback rejected by reason",
		}, []string{"reason"}),
		proposeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vortsolvo_propose_duration_seconds",
			Help:    "Time spent scoring the vocabulary for one proposal",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		candidatesLeft: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vortsolvo_candidates_after_merge",
			Help:    "Candidate words left after each merge",
			Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 500, 1000, 5000},
		}),
	}
	m.registry.MustRegister(
		m.sessionsCreated,
		m.guessesMerged,
		m.gamesFinished,
		m.rejectedInputs,
		m.proposeDuration,
		m.candidatesLeft,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "vortsolvo_live_sessions",
			Help: "Sessions held in memory",
		}, liveSessions),
	)
	return m
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
