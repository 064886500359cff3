package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/contact-sim/contact-sim/sim/minqueue"
)

// freeServer pairs a free Server with its routing snapshot.
type freeServer struct {
	server   Server
	snapshot ServerSnapshot
}

// ServerQueue tracks which servers are free now versus busy until a future
// tick. Busy servers sit in a min-heap keyed by their availability tick.
type ServerQueue struct {
	all  []Server
	busy *minqueue.Queue[queuedServer]
	free map[uint64]freeServer
}

// NewServerQueue creates an empty ServerQueue.
func NewServerQueue() *ServerQueue {
	return &ServerQueue{
		busy: minqueue.New(func(a, b queuedServer) bool { return a.availableAt < b.availableAt }),
		free: make(map[uint64]freeServer),
	}
}

// Push registers a Server.
func (q *ServerQueue) Push(s Server) {
	q.all = append(q.all, s)
}

// Init marks every server free from the start of the run.
func (q *ServerQueue) Init() {
	for _, s := range q.all {
		q.free[s.ID] = freeServer{
			server:   s,
			snapshot: ServerSnapshot{ID: s.ID, Attributes: s.Attributes},
		}
	}
}

// Tick releases busy servers whose availability tick has come.
func (q *ServerQueue) Tick(now time.Duration) {
	for {
		next, ok := q.busy.Peek()
		if !ok || next.availableAt > now {
			return
		}
		qs, _ := q.busy.Pop()
		q.free[qs.server.ID] = freeServer{
			server:   qs.server,
			snapshot: ServerSnapshot{ID: qs.server.ID, Attributes: qs.server.Attributes},
		}
	}
}

// Snapshots returns the routing view of the free set, sorted by id so
// policies never observe map iteration order.
func (q *ServerQueue) Snapshots() []ServerSnapshot {
	snapshots := make([]ServerSnapshot, 0, len(q.free))
	for _, f := range q.free {
		snapshots = append(snapshots, f.snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].ID < snapshots[j].ID })
	return snapshots
}

// Enqueue marks a free server busy until the given tick. A missing id is a
// contract violation by the routing step.
func (q *ServerQueue) Enqueue(id uint64, until time.Duration) {
	f, ok := q.free[id]
	if !ok {
		panic(fmt.Sprintf("server queue: routed id %d is not free", id))
	}
	delete(q.free, id)
	q.busy.Push(queuedServer{server: f.server, availableAt: until})
}

// NextFree returns the soonest tick at which a busy server becomes free.
func (q *ServerQueue) NextFree() (time.Duration, bool) {
	next, ok := q.busy.Peek()
	if !ok {
		return 0, false
	}
	return next.availableAt, true
}

// Servers returns every server of the run in registration order.
func (q *ServerQueue) Servers() []Server {
	return q.all
}

// verify asserts the queue's internal accounting for strict mode.
func (q *ServerQueue) verify() error {
	if len(q.free)+q.busy.Len() != len(q.all) {
		return fmt.Errorf("server accounting: %d free + %d busy != %d servers", len(q.free), q.busy.Len(), len(q.all))
	}
	for _, qs := range q.busy.Items() {
		if _, ok := q.free[qs.server.ID]; ok {
			return fmt.Errorf("server %d is both free and busy", qs.server.ID)
		}
	}
	return nil
}
