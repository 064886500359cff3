package cmd

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/contact-sim/contact-sim/sim/metrics"
)

type metricReport struct {
	Metric   string `yaml:"metric"`
	OnTarget bool   `yaml:"on_target"`
	Value    string `yaml:"value"`
}

type runReport struct {
	Simulation int            `yaml:"simulation"`
	Seed       uint64         `yaml:"seed"`
	Metrics    []metricReport `yaml:"metrics"`
}

// writeReport serializes every run's aggregated metrics as YAML.
func writeReport(path string, seeds []uint64, aggregators []metrics.Aggregator) error {
	runs := make([]runReport, 0, len(aggregators))
	for i, agg := range aggregators {
		run := runReport{Simulation: agg.Simulation(), Seed: seeds[i]}
		for _, m := range agg.Metrics() {
			run.Metrics = append(run.Metrics, metricReport{
				Metric:   m.Label(),
				OnTarget: m.OnTarget(),
				Value:    m.String(),
			})
		}
		runs = append(runs, run)
	}

	data, err := yaml.Marshal(runs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
