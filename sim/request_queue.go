package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/contact-sim/contact-sim/sim/minqueue"
)

// waitingRequest pairs a waiting Request with the routing snapshot copied
// once when it was released.
type waitingRequest struct {
	req      *Request
	snapshot RequestSnapshot
}

// RequestQueue owns every Request of a run. Pending requests sit in a
// min-heap keyed by start tick; released requests sit in the waiting map
// until answered or abandoned. Requests are never destroyed; the full
// sequence is read back for metrics once the run ends.
type RequestQueue struct {
	all     []*Request
	pending *minqueue.Queue[*Request]
	waiting map[uint64]waitingRequest
}

// NewRequestQueue creates an empty RequestQueue.
func NewRequestQueue() *RequestQueue {
	return &RequestQueue{
		pending: minqueue.New(func(a, b *Request) bool { return a.start < b.start }),
		waiting: make(map[uint64]waitingRequest),
	}
}

// Push registers a Request. It enters the pending heap on Init, not before.
func (q *RequestQueue) Push(r *Request) {
	q.all = append(q.all, r)
}

// Init assigns every request into the pending heap. Called exactly once by
// the driver when the simulation is enabled.
func (q *RequestQueue) Init() {
	for _, r := range q.all {
		q.pending.Push(r)
	}
}

// Tick first sweeps the waiting set for abandons, then releases pending
// requests whose start has come. Abandons run first so a request released
// on this tick gets a fair routing chance even when other queued requests
// abandon now.
func (q *RequestQueue) Tick(now time.Duration) {
	q.tickWaiting(now)
	q.tickRelease(now)
}

func (q *RequestQueue) tickWaiting(now time.Duration) {
	for id, w := range q.waiting {
		if !w.req.TickWait(now) {
			delete(q.waiting, id)
		}
	}
}

func (q *RequestQueue) tickRelease(now time.Duration) {
	for {
		next, ok := q.pending.Peek()
		if !ok || next.start > now {
			return
		}
		r, _ := q.pending.Pop()
		r.Enqueue(now)
		q.waiting[r.id] = waitingRequest{
			req: r,
			snapshot: RequestSnapshot{
				ID:                 r.id,
				Start:              r.start,
				RequiredAttributes: r.requiredAttributes,
			},
		}
	}
}

// Snapshots returns the routing view of the waiting set, sorted by
// (start, id) so policies never observe map iteration order.
func (q *RequestQueue) Snapshots() []RequestSnapshot {
	snapshots := make([]RequestSnapshot, 0, len(q.waiting))
	for _, w := range q.waiting {
		snapshots = append(snapshots, w.snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Start != snapshots[j].Start {
			return snapshots[i].Start < snapshots[j].Start
		}
		return snapshots[i].ID < snapshots[j].ID
	})
	return snapshots
}

// Handle answers the waiting request and returns the tick at which its
// server is released. The request stays in the waiting map until the next
// abandon sweep observes its terminal status. A missing id is a contract
// violation by the routing policy.
func (q *RequestQueue) Handle(id uint64, now time.Duration) time.Duration {
	w, ok := q.waiting[id]
	if !ok {
		panic(fmt.Sprintf("request queue: routed id %d is not waiting", id))
	}
	return w.req.Handle(now)
}

// NextStart returns the minimum start among still-pending requests.
func (q *RequestQueue) NextStart() (time.Duration, bool) {
	next, ok := q.pending.Peek()
	if !ok {
		return 0, false
	}
	return next.start, true
}

// HasWaiting reports whether any request is waiting for a server.
func (q *RequestQueue) HasWaiting() bool {
	return len(q.waiting) > 0
}

// Requests returns every request of the run in registration order.
func (q *RequestQueue) Requests() []*Request {
	return q.all
}

// verify asserts the queue's internal accounting. Called by the driver in
// strict mode right after the sweeps, when the waiting set holds only
// enqueued requests.
func (q *RequestQueue) verify() error {
	var pendingCount, enqueuedCount, terminalCount int
	for _, r := range q.all {
		switch {
		case r.status == StatusPending:
			pendingCount++
		case r.status == StatusEnqueued:
			enqueuedCount++
		case r.status.Terminal():
			terminalCount++
		}
	}
	if q.pending.Len() != pendingCount {
		return fmt.Errorf("pending heap holds %d, %d requests are Pending", q.pending.Len(), pendingCount)
	}
	if len(q.waiting) != enqueuedCount {
		return fmt.Errorf("waiting map holds %d, %d requests are Enqueued", len(q.waiting), enqueuedCount)
	}
	if pendingCount+enqueuedCount+terminalCount != len(q.all) {
		return fmt.Errorf("request accounting: %d+%d+%d != %d", pendingCount, enqueuedCount, terminalCount, len(q.all))
	}
	for _, r := range q.pending.Items() {
		if _, ok := q.waiting[r.id]; ok {
			return fmt.Errorf("request %d is both pending and waiting", r.id)
		}
	}
	return nil
}
