// Package metrics provides Prometheus metrics for mirror commits.
// The registry is private to each Recorder and can be dumped for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all symmirror metrics
	namespace = "symmirror"
)

// Recorder owns a registry and the collectors registered on it. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// CommitsTotal tracks commit attempts by outcome
	CommitsTotal *prometheus.CounterVec

	// LinksCreated tracks symlinks written into output trees
	LinksCreated prometheus.Counter

	// FilesFiltered tracks input files excluded by extension filters
	FilesFiltered prometheus.Counter

	// CommitFailures tracks failed commits by the stage that failed
	CommitFailures *prometheus.CounterVec

	// CommitDuration tracks how long filesystem commits take
	CommitDuration prometheus.Histogram
}

// New builds a Recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		CommitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commits_total",
				Help:      "Total number of mapping commits by outcome",
			},
			[]string{"outcome"},
		),
		LinksCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "links_created_total",
				Help:      "Total number of symlinks created in output directories",
			},
		),
		FilesFiltered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_filtered_total",
				Help:      "Total number of input files excluded by extension filters",
			},
		),
		CommitFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commit_failures_total",
				Help:      "Total number of failed commits by stage",
			},
			[]string{"stage"},
		),
		CommitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "commit_duration_seconds",
				Help:      "Duration of mapping commits in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}
	r.registry.MustRegister(
		r.CommitsTotal,
		r.LinksCreated,
		r.FilesFiltered,
		r.CommitFailures,
		r.CommitDuration,
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordCommit records a finished commit.
func (r *Recorder) RecordCommit(outcome string, linked, filtered int, duration float64) {
	if r == nil {
		return
	}
	r.CommitsTotal.WithLabelValues(outcome).Inc()
	r.LinksCreated.Add(float64(linked))
	r.FilesFiltered.Add(float64(filtered))
	r.CommitDuration.Observe(duration)
}

// RecordFailure records a commit that failed at stage.
func (r *Recorder) RecordFailure(stage string, duration float64) {
	if r == nil {
		return
	}
	r.CommitsTotal.WithLabelValues("failed").Inc()
	r.CommitFailures.WithLabelValues(stage).Inc()
	r.CommitDuration.Observe(duration)
}

// WriteTextfile writes every metric in text exposition format to path.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
