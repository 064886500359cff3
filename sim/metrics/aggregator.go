package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/contact-sim/contact-sim/sim"
)

// Aggregator maps metric keys to accumulators and folds per-request
// outcomes into them. Calculate gives the same result for identical input
// and is additive over disjoint batches because every accumulator is a
// commutative monoid; calling it twice with the same outcomes counts them
// twice.
type Aggregator struct {
	metrics    map[Key]*Metric
	simulation int
}

// WithMetrics builds an Aggregator over clones of the given metrics, so the
// originals stay reusable as templates across runs.
func WithMetrics(metrics []*Metric) Aggregator {
	a := Aggregator{metrics: make(map[Key]*Metric, len(metrics))}
	for _, m := range metrics {
		a.metrics[m.Key()] = m.Clone()
	}
	return a
}

// SetSimulation records which run this aggregator belongs to.
func (a *Aggregator) SetSimulation(id int) {
	a.simulation = id
}

// Simulation returns the run id set via SetSimulation.
func (a *Aggregator) Simulation() int {
	return a.simulation
}

// Push adds or replaces a metric.
func (a *Aggregator) Push(m *Metric) {
	a.metrics[m.Key()] = m
}

// Get returns the metric for a plain kind. Service levels are keyed by
// window; use GetServiceLevel.
func (a *Aggregator) Get(kind Kind) *Metric {
	return a.metrics[Key{Kind: kind}]
}

// GetServiceLevel returns the service-level metric for the given window.
func (a *Aggregator) GetServiceLevel(window time.Duration) *Metric {
	return a.metrics[Key{Kind: ServiceLevel, Window: window}]
}

// Calculate folds every outcome into every metric. Each metric filters by
// status internally.
func (a *Aggregator) Calculate(outcomes []sim.Outcome) {
	for _, o := range outcomes {
		for _, m := range a.metrics {
			m.Report(o)
		}
	}
}

// Metrics returns the metrics sorted by key for deterministic display.
func (a *Aggregator) Metrics() []*Metric {
	out := make([]*Metric, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Key(), out[j].Key()
		if ki.Kind != kj.Kind {
			return ki.Kind < kj.Kind
		}
		return ki.Window < kj.Window
	})
	return out
}

// String renders one line per metric: label, on-target flag, value.
func (a Aggregator) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for simulation_id: %d\n", a.simulation)
	for _, m := range a.Metrics() {
		fmt.Fprintf(&b, "%-24s %-5t %s\n", m.Label(), m.OnTarget(), m)
	}
	return b.String()
}
