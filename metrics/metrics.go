// Package metrics exposes tournament progress as Prometheus metrics, either scraped from the serve command or
// written to a node exporter textfile after every match.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace is the namespace for all tournament metrics.
	Namespace = "robocup"

	// Subsystem is the subsystem for tournament metrics.
	Subsystem = "tournament"
)

// Match results recorded by MatchFinished.
const (
	ResultPlayed    = "played"
	ResultReplayed  = "replayed"
	ResultSimulated = "simulated"
)

// Metrics holds the tournament collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	MatchesTotal         *prometheus.CounterVec
	MatchDurationSeconds prometheus.Histogram
	StageDurationSeconds *prometheus.HistogramVec
	RemoteFailuresTotal  *prometheus.CounterVec
	MatchesScheduled     prometheus.Gauge
	TeamPoints           *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry, so several tournaments in one process never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "matches_total",
				Help:      "Matches consumed from the schedule, by how they were handled",
			},
			[]string{"result"},
		),
		MatchDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "match_duration_seconds",
				Help:      "Wall time of played matches",
				Buckets:   prometheus.LinearBuckets(60, 60, 20),
			},
		),
		StageDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each match stage",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"stage"},
		),
		RemoteFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "remote_failures_total",
				Help:      "Best effort commands that failed",
			},
			[]string{"stage"},
		),
		MatchesScheduled: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "matches_scheduled",
				Help:      "Number of pairings in the schedule",
			},
		),
		TeamPoints: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "team_points",
				Help:      "Current points of each team",
			},
			[]string{"team"},
		),
	}
}

// StageFinished records the duration of a match stage.
func (m *Metrics) StageFinished(stage string, d time.Duration) {
	m.StageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// RemoteFailure counts a failed best effort command.
func (m *Metrics) RemoteFailure(stage string) {
	m.RemoteFailuresTotal.WithLabelValues(stage).Inc()
}

// MatchFinished counts a consumed pairing. d is only observed for played matches.
func (m *Metrics) MatchFinished(result string, d time.Duration) {
	m.MatchesTotal.WithLabelValues(result).Inc()
	if result == ResultPlayed {
		m.MatchDurationSeconds.Observe(d.Seconds())
	}
}

// SetScheduled records the size of the schedule.
func (m *Metrics) SetScheduled(n int) {
	m.MatchesScheduled.Set(float64(n))
}

// SetPoints replaces the per team points with the given values.
func (m *Metrics) SetPoints(points map[string]int) {
	m.TeamPoints.Reset()
	for team, p := range points {
		m.TeamPoints.WithLabelValues(team).Set(float64(p))
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", path, err)
	}
	return nil
}

// Handler serves the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
