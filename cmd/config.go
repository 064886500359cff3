package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/contact-sim/contact-sim/sim"
	"github.com/contact-sim/contact-sim/sim/metrics"
	"github.com/contact-sim/contact-sim/sim/runner"
)

// Config validation errors.
var (
	ErrBadSeeds            = errors.New("rng_seeds count must equal simulations")
	ErrSLARequiresWindow   = errors.New("ServiceLevel requires a window specified by a sla key")
	ErrSLAOutsideOfTarget  = errors.New("ServiceLevel target must be in the range 0.0..=1.0")
	ErrTargetFloatingPoint = errors.New("target should be a floating point number")
	ErrTargetRequired      = errors.New("target is required")
)

// duration parses TOML duration strings like "50ms" or "1h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

type attributeConfig struct {
	Name  string `toml:"name"`
	Level *int   `toml:"level"`
}

type clientConfig struct {
	RequiredAttributes []attributeConfig `toml:"required_attributes"`
	HandleTime         *duration         `toml:"handle_time"`
	AbandonTime        *duration         `toml:"abandon_time"`
	CleanUpTime        *duration         `toml:"clean_up_time"`
	Quantity           int               `toml:"quantity"`
}

type serverConfig struct {
	Attributes []attributeConfig `toml:"attributes"`
	Quantity   int               `toml:"quantity"`
}

type metricConfig struct {
	Metric string    `toml:"metric"`
	SLA    *duration `toml:"sla"`
	Target any       `toml:"target"`
}

type tomlConfig struct {
	Simulations int            `toml:"simulations"`
	TickSize    duration       `toml:"tick_size"`
	TickUntil   duration       `toml:"tick_until"`
	RNGSeeds    []uint64       `toml:"rng_seeds"`
	Clients     []clientConfig `toml:"clients"`
	Servers     []serverConfig `toml:"servers"`
	Metrics     []metricConfig `toml:"metrics"`
}

// Config is the validated batch description: descriptors expanded by
// quantity, metric templates constructed, one seed per run.
type Config struct {
	Simulations int
	TickSize    time.Duration
	TickUntil   time.Duration
	Seeds       []uint64
	Clients     []sim.Client
	Servers     []sim.Server
	Metrics     []*metrics.Metric
}

// LoadConfig reads and validates a TOML config file.
func LoadConfig(path string) (*Config, error) {
	var raw tomlConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return parseConfig(raw)
}

func parseConfig(raw tomlConfig) (*Config, error) {
	if raw.Simulations < 1 {
		return nil, fmt.Errorf("simulations must be at least 1, got %d", raw.Simulations)
	}

	// Use the seeds if provided, otherwise generate one per run so every
	// run still has an explicit, reportable seed.
	seeds := raw.RNGSeeds
	if seeds == nil {
		seeds = make([]uint64, raw.Simulations)
		for i := range seeds {
			seeds[i] = rand.Uint64()
		}
	} else if len(seeds) != raw.Simulations {
		return nil, fmt.Errorf("%d seeds for %d simulations: %w", len(seeds), raw.Simulations, ErrBadSeeds)
	}

	cfg := &Config{
		Simulations: raw.Simulations,
		TickSize:    time.Duration(raw.TickSize),
		TickUntil:   time.Duration(raw.TickUntil),
		Seeds:       seeds,
	}

	for _, c := range raw.Clients {
		client := parseClient(c)
		for i := 0; i < c.Quantity; i++ {
			cfg.Clients = append(cfg.Clients, client)
		}
	}
	for _, s := range raw.Servers {
		for i := 0; i < s.Quantity; i++ {
			cfg.Servers = append(cfg.Servers, sim.NewServer(parseAttributes(s.Attributes)...))
		}
	}
	for _, m := range raw.Metrics {
		metric, err := parseMetric(m)
		if err != nil {
			return nil, err
		}
		cfg.Metrics = append(cfg.Metrics, metric)
	}

	return cfg, nil
}

func parseAttributes(attrs []attributeConfig) []sim.Attribute {
	out := make([]sim.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, sim.NewAttribute(a.Name, a.Level))
	}
	return out
}

func parseClient(c clientConfig) sim.Client {
	client := sim.NewClient()
	client.RequiredAttributes = parseAttributes(c.RequiredAttributes)
	if c.HandleTime != nil {
		client.HandleTime = time.Duration(*c.HandleTime)
	}
	if c.AbandonTime != nil {
		client.AbandonTime = time.Duration(*c.AbandonTime)
	}
	if c.CleanUpTime != nil {
		client.CleanUpTime = time.Duration(*c.CleanUpTime)
	}
	return client
}

// parseMetric constructs a metric template from its config entry. The
// target scalar is typed by the metric kind: a fraction for the percent
// kinds, a duration string for the mean-duration kinds, a count for
// AnswerCount.
func parseMetric(m metricConfig) (*metrics.Metric, error) {
	switch m.Metric {
	case "ServiceLevel":
		if m.SLA == nil {
			return nil, fmt.Errorf("metric %s: %w", m.Metric, ErrSLARequiresWindow)
		}
		target, err := floatTarget(m)
		if err != nil {
			return nil, err
		}
		if target < 0.0 || target > 1.0 {
			return nil, fmt.Errorf("metric %s target %v: %w", m.Metric, target, ErrSLAOutsideOfTarget)
		}
		return metrics.NewServiceLevel(time.Duration(*m.SLA), target)
	case "AbandonRate":
		target, err := floatTarget(m)
		if err != nil {
			return nil, err
		}
		return metrics.NewPercent(metrics.AbandonRate, target)
	case "AverageWorkTime":
		return durationMetric(metrics.AverageWorkTime, m)
	case "AverageSpeedAnswer":
		return durationMetric(metrics.AverageSpeedAnswer, m)
	case "AverageTimeToAbandon":
		return durationMetric(metrics.AverageTimeToAbandon, m)
	case "AverageTimeInQueue":
		return durationMetric(metrics.AverageTimeInQueue, m)
	case "AnswerCount":
		if m.Target == nil {
			return nil, fmt.Errorf("metric %s: %w", m.Metric, ErrTargetRequired)
		}
		target, ok := m.Target.(int64)
		if !ok {
			return nil, fmt.Errorf("metric %s: target must be a count, got %v", m.Metric, m.Target)
		}
		return metrics.NewCount(metrics.AnswerCount, int(target))
	case "UtilisationTime":
		return nil, fmt.Errorf("metric %s: %w", m.Metric, metrics.ErrNotImplemented)
	default:
		return nil, fmt.Errorf("unknown metric %q", m.Metric)
	}
}

func floatTarget(m metricConfig) (float64, error) {
	if m.Target == nil {
		return 0, fmt.Errorf("metric %s: %w", m.Metric, ErrTargetRequired)
	}
	target, ok := m.Target.(float64)
	if !ok {
		return 0, fmt.Errorf("metric %s target %v: %w", m.Metric, m.Target, ErrTargetFloatingPoint)
	}
	return target, nil
}

func durationMetric(kind metrics.Kind, m metricConfig) (*metrics.Metric, error) {
	if m.Target == nil {
		return nil, fmt.Errorf("metric %s: %w", m.Metric, ErrTargetRequired)
	}
	text, ok := m.Target.(string)
	if !ok {
		return nil, fmt.Errorf("metric %s: target must be a duration string, got %v", m.Metric, m.Target)
	}
	target, err := time.ParseDuration(text)
	if err != nil {
		return nil, fmt.Errorf("metric %s: %w", m.Metric, err)
	}
	return metrics.NewDuration(kind, target)
}

// Runner builds the per-seed batch driver for this config.
func (c *Config) Runner() runner.Runner {
	return runner.Runner{
		Config: sim.Config{
			End:      c.TickUntil,
			TickSize: c.TickSize,
			Clients:  c.Clients,
			Servers:  c.Servers,
		},
		Metrics: c.Metrics,
		Seeds:   c.Seeds,
	}
}
