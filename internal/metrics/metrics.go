// Package metrics exposes Prometheus instrumentation for a cellbind
// graph, wired entirely from outside pkg/cell's public API: every
// counter and gauge here is driven by subscribing to the same
// WhenChanged/WhenChangedNotify hooks a normal host application would
// use, never by a hook compiled into the core itself.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config holds the namespace/subsystem/registry GraphMetrics registers
// against; all overridable, with a DefaultRegisterer fallback.
type Config struct {
	Namespace string
	Subsystem string
	Registry  prometheus.Registerer
}

// Option configures a Config.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(ns string) Option { return func(c *Config) { c.Namespace = ns } }

// WithRegistry sets the Prometheus registry metrics are registered against.
func WithRegistry(r prometheus.Registerer) Option { return func(c *Config) { c.Registry = r } }

func defaultConfig() Config {
	return Config{Namespace: "cellbind", Registry: prometheus.DefaultRegisterer}
}

// GraphMetrics is the set of counters/gauges a running cell graph can
// report. It has no reference to pkg/cell types — callers feed it
// observations via its Record* methods from their own WhenChanged
// subscriptions.
type GraphMetrics struct {
	writes          *prometheus.CounterVec
	recomputes      *prometheus.CounterVec
	triggerFanouts  prometheus.Counter
	triggerActions  prometheus.Counter
	boundCells      prometheus.Gauge
	dependencyEdges prometheus.Histogram
}

var (
	mu       sync.Mutex
	instance *GraphMetrics
)

// New registers and returns a GraphMetrics. Safe to call more than once
// with the same Registry — subsequent calls return the already-
// registered instance instead of panicking on a duplicate registration.
func New(opts ...Option) *GraphMetrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return instance
	}

	factory := promauto.With(cfg.Registry)
	instance = &GraphMetrics{
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cell_writes_total",
			Help:      "Total writes to StoredCell/ArrayCell values, labeled by whether the write actually changed the cell.",
		}, []string{"changed"}),
		recomputes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "computed_recomputes_total",
			Help:      "Total ComputedCell recomputations, labeled by whether the dependency set was rewired.",
		}, []string{"rewired"}),
		triggerFanouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "trigger_fanouts_total",
			Help:      "Total Trigger MarkAsChanged calls that produced a downstream fanout (coalesced repeats excluded).",
		}),
		triggerActions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "trigger_actions_total",
			Help:      "Total Trigger.PerformAction invocations.",
		}),
		boundCells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "bound_cells",
			Help:      "Number of cells this process is currently tracking as bound (has at least one observer).",
		}),
		dependencyEdges: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "computed_dependency_count",
			Help:      "Distribution of dependency-set sizes observed after a ComputedCell recompute.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	return instance
}

// RecordWrite records a write to a StoredCell/ArrayCell.
func (m *GraphMetrics) RecordWrite(changed bool) {
	m.writes.WithLabelValues(boolLabel(changed)).Inc()
}

// RecordRecompute records a ComputedCell recomputation.
func (m *GraphMetrics) RecordRecompute(rewired bool, dependencyCount int) {
	m.recomputes.WithLabelValues(boolLabel(rewired)).Inc()
	m.dependencyEdges.Observe(float64(dependencyCount))
}

// RecordTriggerFanout records a Trigger MarkAsChanged call that reached
// downstream observers (i.e. was not coalesced away).
func (m *GraphMetrics) RecordTriggerFanout() { m.triggerFanouts.Inc() }

// RecordTriggerAction records a Trigger.PerformAction invocation.
func (m *GraphMetrics) RecordTriggerAction() { m.triggerActions.Inc() }

// SetBoundCells sets the current count of bound cells.
func (m *GraphMetrics) SetBoundCells(n int) { m.boundCells.Set(float64(n)) }

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
