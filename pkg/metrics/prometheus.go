// Package metrics provides Prometheus metrics for the duet match engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	usersEncoded        prometheus.Counter
	interactionsTotal   prometheus.Counter
	interactionsSkipped prometheus.Counter
	storedUsers         prometheus.Gauge

	// Learning
	driftPasses       prometheus.Counter
	driftUpdates      prometheus.Counter
	driftPassDuration prometheus.Histogram

	// Scoring and pairing
	similarityComputed prometheus.Counter
	solveRuns          prometheus.Counter
	solveDuration      prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Registry returns the registry the global manager registers on, for
// exposing via promhttp.
func Registry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "duet",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.usersEncoded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_encoded_total",
		Help:      "Total number of user records encoded into feature vectors",
	})

	m.interactionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "interactions_ingested_total",
		Help:      "Total number of rating events ingested",
	})

	m.interactionsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "interactions_skipped_total",
		Help:      "Rating events skipped because a referenced user has no vector",
	})

	m.storedUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_users",
		Help:      "Current number of users held in the vector store",
	})

	m.driftPasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drift_passes_total",
		Help:      "Total number of full drift replay passes",
	})

	m.driftUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drift_updates_total",
		Help:      "Individual vector updates applied during drift passes",
	})

	m.driftPassDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drift_pass_duration_seconds",
		Help:      "Histogram of full drift replay durations",
		Buckets:   m.histogramBuckets,
	})

	m.similarityComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "similarity_computations_total",
		Help:      "Total number of cosine similarity evaluations",
	})

	m.solveRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairing_solver_runs_total",
		Help:      "Total number of optimal pairing solver invocations",
	})

	m.solveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairing_solver_duration_seconds",
		Help:      "Histogram of pairing solver wall time, matrix build included",
		Buckets:   m.histogramBuckets,
	})
}

// Package-level helpers on the global manager.

// RecordUserEncoded increments the encoded-user counter.
func RecordUserEncoded() { globalManager.usersEncoded.Inc() }

// RecordInteractionIngested increments the ingested-event counter.
func RecordInteractionIngested() { globalManager.interactionsTotal.Inc() }

// RecordInteractionSkipped increments the skipped-event counter.
func RecordInteractionSkipped() { globalManager.interactionsSkipped.Inc() }

// UpdateStoredUsers sets the stored-user gauge.
func UpdateStoredUsers(n int) { globalManager.storedUsers.Set(float64(n)) }

// RecordDriftPass increments the replay-pass counter.
func RecordDriftPass() { globalManager.driftPasses.Inc() }

// RecordDriftUpdate increments the per-event update counter.
func RecordDriftUpdate() { globalManager.driftUpdates.Inc() }

// ObserveDriftPassDuration records one replay duration in seconds.
func ObserveDriftPassDuration(seconds float64) { globalManager.driftPassDuration.Observe(seconds) }

// RecordSimilarityComputed increments the similarity counter.
func RecordSimilarityComputed() { globalManager.similarityComputed.Inc() }

// AddSimilarityComputed adds a batch of similarity evaluations at once.
func AddSimilarityComputed(n int) { globalManager.similarityComputed.Add(float64(n)) }

// RecordSolveRun increments the solver-run counter.
func RecordSolveRun() { globalManager.solveRuns.Inc() }

// ObserveSolveDuration records one solver wall time in seconds.
func ObserveSolveDuration(seconds float64) { globalManager.solveDuration.Observe(seconds) }
