package sim

import (
	"sync/atomic"
	"time"
)

// serverIDCounter assigns process-unique server ids. Uniqueness is only
// relied upon within one simulation.
var serverIDCounter atomic.Uint64

// Server is a capacity unit that is either free or busy until a future tick.
type Server struct {
	ID         uint64
	Attributes []Attribute
}

// NewServer creates a Server with a fresh id and the given supply attributes.
func NewServer(attributes ...Attribute) Server {
	return Server{
		ID:         serverIDCounter.Add(1) - 1,
		Attributes: attributes,
	}
}

// queuedServer pairs a Server with the tick at which it next becomes
// available. availableAt of zero means free from the start of the run.
type queuedServer struct {
	server      Server
	availableAt time.Duration
}
