package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrAlreadyRunning is returned when an enabled simulation is mutated.
var ErrAlreadyRunning = errors.New("simulation already enabled")

// Simulation is the core object that owns the dual queues, the routing
// policy, and simulated time. Build one per seed; a Simulation is never
// shared between goroutines.
type Simulation struct {
	start    time.Duration
	tick     time.Duration
	tickSize time.Duration
	end      time.Duration
	running  bool

	clients      []Client
	requestQueue *RequestQueue
	serverQueue  *ServerQueue
	policy       RoutingPolicy
	rng          Source

	// Strict enables per-tick accounting checks on both queues. Intended
	// for tests; a failed check is an engine bug and panics.
	Strict bool
}

// New creates a Simulation that runs until end, stepping by tickSize while
// any request is waiting, driven by the injected uniform source. The
// routing policy defaults to GreedyLIFO.
func New(end, tickSize time.Duration, rng Source) *Simulation {
	return &Simulation{
		tickSize:     tickSize,
		end:          end,
		requestQueue: NewRequestQueue(),
		serverQueue:  NewServerQueue(),
		policy:       GreedyLIFO{},
		rng:          rng,
	}
}

// AddClient registers an arrival descriptor.
func (s *Simulation) AddClient(c Client) error {
	if s.running {
		return fmt.Errorf("add_client: %w", ErrAlreadyRunning)
	}
	s.clients = append(s.clients, c)
	return nil
}

// AddServer registers a capacity unit.
func (s *Simulation) AddServer(server Server) error {
	if s.running {
		return fmt.Errorf("add_server: %w", ErrAlreadyRunning)
	}
	s.serverQueue.Push(server)
	return nil
}

// SetRoutingPolicy replaces the default policy.
func (s *Simulation) SetRoutingPolicy(p RoutingPolicy) error {
	if s.running {
		return fmt.Errorf("set_routing_policy: %w", ErrAlreadyRunning)
	}
	s.policy = p
	return nil
}

// Enable materializes one Request per Client, sampling each start uniformly
// over [0, end], and initializes both queues. The Simulation can then be
// advanced by calling Tick until it returns false.
func (s *Simulation) Enable() error {
	if s.running {
		return fmt.Errorf("enable: %w", ErrAlreadyRunning)
	}
	s.running = true
	s.generateRequests()
	s.requestQueue.Init()
	s.serverQueue.Init()
	logrus.Debugf("simulation enabled: %d requests, %d servers, end %s",
		len(s.clients), len(s.serverQueue.Servers()), s.end)
	return nil
}

// generateRequests samples a start per client. Request ids are
// simulation-local, assigned in client order, so identically configured
// runs emit identical outcome sequences.
func (s *Simulation) generateRequests() {
	for i, c := range s.clients {
		start := scaleDuration(s.rng.Uint64(), s.end)
		s.requestQueue.Push(newRequest(uint64(i), start, c))
	}
}

// Tick is the heartbeat: sweep both queues, route, then advance time.
// Returns whether the simulation is still running.
func (s *Simulation) Tick() bool {
	if !s.running {
		return false
	}

	s.requestQueue.Tick(s.tick)
	s.serverQueue.Tick(s.tick)

	if s.Strict {
		s.verify()
	}

	s.route()
	s.advance()

	return s.running
}

// route pairs waiting requests with free servers. Ids emitted by the policy
// that are not waiting/free are a contract violation and panic inside the
// queues.
func (s *Simulation) route() {
	waiting := s.requestQueue.Snapshots()
	if len(waiting) == 0 {
		return
	}
	free := s.serverQueue.Snapshots()
	if len(free) == 0 {
		return
	}

	for _, a := range s.policy.Route(waiting, free) {
		release := s.requestQueue.Handle(a.RequestID, s.tick)
		s.serverQueue.Enqueue(a.ServerID, release)
	}
}

// advance moves simulated time. While anything is waiting for a server the
// step is exactly tickSize, keeping abandon checks at the configured
// resolution. Otherwise time jumps straight to the next event: the earliest
// pending start, the earliest server release, or the end of the run. Runs
// are therefore O(#events) through idle stretches.
func (s *Simulation) advance() {
	if s.requestQueue.HasWaiting() {
		s.tick += s.tickSize
	} else {
		nextStart, okStart := s.requestQueue.NextStart()
		nextFree, okFree := s.serverQueue.NextFree()
		switch {
		case okStart && okFree && nextStart <= nextFree:
			s.tick = nextStart
		case okFree:
			s.tick = nextFree
		case okStart:
			s.tick = nextStart
		default:
			s.tick = s.end
		}
	}

	if s.tick >= s.end {
		s.tick = s.end
		s.running = false
	}
}

// Running returns whether the simulation is still running and its current
// tick.
func (s *Simulation) Running() (bool, time.Duration) {
	return s.running, s.tick
}

// Outcomes collects the per-request outcome records. Only meaningful once
// Running reports false.
func (s *Simulation) Outcomes() []Outcome {
	requests := s.requestQueue.Requests()
	outcomes := make([]Outcome, 0, len(requests))
	for _, r := range requests {
		outcomes = append(outcomes, r.Outcome())
	}
	return outcomes
}

func (s *Simulation) verify() {
	if err := s.requestQueue.verify(); err != nil {
		panic(fmt.Sprintf("tick %s: %v", s.tick, err))
	}
	if err := s.serverQueue.verify(); err != nil {
		panic(fmt.Sprintf("tick %s: %v", s.tick, err))
	}
}
