// Package runner fans a batch of simulations out over a worker pool, one
// run per seed. Runs share nothing mutable: descriptors and metric
// templates are cloned per run and each run folds its own outcomes into its
// own aggregator.
package runner

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/contact-sim/contact-sim/sim"
	"github.com/contact-sim/contact-sim/sim/metrics"
)

// Runner describes a batch of identically configured simulations that
// differ only by seed.
type Runner struct {
	Config  sim.Config
	Metrics []*metrics.Metric
	Seeds   []uint64
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
}

// Run executes one simulation per seed and returns the aggregators indexed
// by simulation id.
func (r Runner) Run() ([]metrics.Aggregator, error) {
	if len(r.Seeds) == 0 {
		return nil, fmt.Errorf("runner: no seeds")
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]metrics.Aggregator, len(r.Seeds))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, seed := range r.Seeds {
		i, seed := i, seed
		g.Go(func() error {
			agg, err := r.runOne(i, seed)
			if err != nil {
				return err
			}
			results[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r Runner) runOne(id int, seed uint64) (metrics.Aggregator, error) {
	cfg := r.Config
	cfg.Seed = seed

	s := cfg.Simulation()
	if err := s.Enable(); err != nil {
		return metrics.Aggregator{}, fmt.Errorf("simulation %d: %w", id, err)
	}
	for s.Tick() {
	}
	_, end := s.Running()
	logrus.Debugf("simulation %d (seed %d) finished at %s", id, seed, end)

	agg := metrics.WithMetrics(r.Metrics)
	agg.SetSimulation(id)
	agg.Calculate(s.Outcomes())
	return agg, nil
}
