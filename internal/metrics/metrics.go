// Package metrics exposes Prometheus metrics for the episode count sync.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"episode_syncer/internal/domain"
)

var (
	// RunsTotal counts sync runs by mode and outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "episode_sync_runs_total",
			Help: "Total number of episode count sync runs",
		},
		[]string{"mode", "result"},
	)

	// FetchesTotal counts per-show episode count fetches.
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "episode_sync_fetches_total",
			Help: "Total number of per-show episode count fetches",
		},
		[]string{"phase", "result"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "episode_sync_run_duration_seconds",
			Help:    "Duration of episode count sync runs in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800, 3600, 7200},
		},
	)

	KnownShows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "episode_sync_known_shows",
			Help: "Number of shows with a stored episode count",
		},
	)
)

// RecordRun records the outcome of a run. persisted is false when the state
// could not be saved.
func RecordRun(report *domain.SyncReport, persisted bool) {
	result := "success"
	switch {
	case !persisted:
		result = "persist_error"
	case report.LastSyncFailed:
		result = "failed"
	}
	RunsTotal.WithLabelValues(string(report.Mode), result).Inc()
	if persisted {
		RunDuration.Observe(report.Duration.Seconds())
	}
}

func RecordFetch(phase domain.Phase, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	FetchesTotal.WithLabelValues(string(phase), result).Inc()
}

func SetKnownShows(n int) {
	KnownShows.Set(float64(n))
}
