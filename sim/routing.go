package sim

import "time"

// RequestSnapshot is the immutable view of a waiting request handed to the
// routing policy. Snapshots exist so the policy sees no mutable state and
// cannot corrupt queue invariants.
type RequestSnapshot struct {
	ID                 uint64
	Start              time.Duration
	RequiredAttributes []Attribute
}

// ServerSnapshot is the immutable view of a free server handed to the
// routing policy.
type ServerSnapshot struct {
	ID         uint64
	Attributes []Attribute
}

// Assignment pairs a waiting request with a free server for this tick.
type Assignment struct {
	RequestID uint64
	ServerID  uint64
}

// RoutingPolicy pairs waiting requests with free servers. Implementations
// MUST be pure and deterministic given identical inputs, emit each request
// and server id at most once, and only emit ids present in the input
// snapshots. The driver panics on a violated contract.
//
// The driver sorts request snapshots by (start, id) and server snapshots by
// id before every call, so policies see a deterministic view regardless of
// internal map iteration order.
type RoutingPolicy interface {
	Route(waiting []RequestSnapshot, free []ServerSnapshot) []Assignment
}

// GreedyLIFO is the default policy: requests are taken in input order and
// each is paired with the last free server, until either side is empty.
// Attributes are carried but not yet used to filter, which keeps behavior
// predictable and leaves room for attribute-aware matchers behind the same
// interface.
type GreedyLIFO struct{}

// Route implements RoutingPolicy for GreedyLIFO.
func (GreedyLIFO) Route(waiting []RequestSnapshot, free []ServerSnapshot) []Assignment {
	n := len(waiting)
	if len(free) < n {
		n = len(free)
	}
	assignments := make([]Assignment, 0, n)
	for _, req := range waiting {
		if len(free) == 0 {
			break
		}
		server := free[len(free)-1]
		free = free[:len(free)-1]
		assignments = append(assignments, Assignment{RequestID: req.ID, ServerID: server.ID})
	}
	return assignments
}
