package sim

import "time"

// Config bundles the static inputs of one run. Descriptors are copied on
// Simulation, so a Config can be shared across the per-seed fan-out.
type Config struct {
	End      time.Duration
	TickSize time.Duration
	Clients  []Client
	Servers  []Server
	Seed     uint64
}

// NewConfig creates a Config with no clients or servers.
func NewConfig(end, tickSize time.Duration, seed uint64) Config {
	return Config{End: end, TickSize: tickSize, Seed: seed}
}

// AddClient appends an arrival descriptor.
func (c *Config) AddClient(client Client) {
	c.Clients = append(c.Clients, client)
}

// AddServer appends a capacity unit.
func (c *Config) AddServer(server Server) {
	c.Servers = append(c.Servers, server)
}

// Simulation builds a runnable Simulation seeded from the config.
func (c Config) Simulation() *Simulation {
	s := New(c.End, c.TickSize, NewSeededSource(c.Seed))
	for _, client := range c.Clients {
		// Enable has not run, AddClient cannot fail.
		_ = s.AddClient(client)
	}
	for _, server := range c.Servers {
		_ = s.AddServer(server)
	}
	return s
}
