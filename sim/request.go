package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Status tracks a request through its lifecycle. Transitions are
// Pending → Enqueued → {Answered, Abandoned}; terminal states are absorbing.
type Status int

const (
	StatusPending Status = iota
	StatusEnqueued
	StatusAnswered
	StatusAbandoned
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusEnqueued:
		return "Enqueued"
	case StatusAnswered:
		return "Answered"
	case StatusAbandoned:
		return "Abandoned"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether the status is absorbing.
func (s Status) Terminal() bool {
	return s == StatusAnswered || s == StatusAbandoned
}

// Request models a single contact's lifecycle in the simulation. Each
// request has:
// - the attributes it requires from a server
// - a start tick at which it enters the waiting queue
// - a deadline after which it abandons if still waiting
// - established/end timestamps once it reaches a terminal state
//
// The state machine is explicit and local to Request so both queues can
// mutate it without cross-module invariant leakage. Violating a transition
// precondition is a programming error and panics.
type Request struct {
	id                 uint64
	requiredAttributes []Attribute
	start              time.Duration
	abandonAt          time.Duration
	handleDuration     time.Duration

	established    time.Duration
	hasEstablished bool
	end            time.Duration
	hasEnd         bool
	status         Status
}

func newRequest(id uint64, start time.Duration, c Client) *Request {
	return &Request{
		id:                 id,
		requiredAttributes: cloneAttributes(c.RequiredAttributes),
		start:              start,
		abandonAt:          start + c.AbandonTime,
		handleDuration:     c.HandleTime,
		status:             StatusPending,
	}
}

// ID returns the request's simulation-local id.
func (r *Request) ID() uint64 { return r.id }

// Start returns the tick at which the request enters the waiting queue.
func (r *Request) Start() time.Duration { return r.start }

// Status returns the current lifecycle state.
func (r *Request) Status() Status { return r.status }

// RequiredAttributes returns the demand attributes copied from the source
// Client.
func (r *Request) RequiredAttributes() []Attribute { return r.requiredAttributes }

// Enqueue moves the request from Pending into the waiting set.
func (r *Request) Enqueue(now time.Duration) {
	if r.status != StatusPending {
		panic(fmt.Sprintf("request %d: enqueue while %s", r.id, r.status))
	}
	if now < r.start {
		panic(fmt.Sprintf("request %d: enqueue in the past, started %s, now %s", r.id, r.start, now))
	}
	r.status = StatusEnqueued
	logrus.Debugf("[request %d] enqueued at %s", r.id, now)
}

// TickWait checks the abandon deadline and reports whether the request is
// still waiting. A request that is not Enqueued is left untouched and
// reported as not waiting. A request at or past its deadline abandons.
func (r *Request) TickWait(now time.Duration) bool {
	if r.status != StatusEnqueued {
		return false
	}
	if now < r.start {
		panic(fmt.Sprintf("request %d: tick in the past, started %s, now %s", r.id, r.start, now))
	}
	if r.abandonAt <= now {
		r.status = StatusAbandoned
		r.end = now
		r.hasEnd = true
		logrus.Debugf("[request %d] abandoned at %s", r.id, now)
		return false
	}
	return true
}

// Handle answers the request and returns the tick at which the assigned
// server is released again.
func (r *Request) Handle(now time.Duration) time.Duration {
	if r.status != StatusEnqueued {
		panic(fmt.Sprintf("request %d: handle while %s", r.id, r.status))
	}
	if now < r.start {
		panic(fmt.Sprintf("request %d: handle in the past, started %s, now %s", r.id, r.start, now))
	}
	r.established = now
	r.hasEstablished = true
	r.end = now + r.handleDuration
	r.hasEnd = true
	r.status = StatusAnswered
	logrus.Debugf("[request %d] handled at %s", r.id, now)
	return r.end
}

// WaitTime returns how long the request waited before reaching a terminal
// state. The second return value is false while it is still pending or
// enqueued.
func (r *Request) WaitTime() (time.Duration, bool) {
	if r.hasEstablished {
		return r.established - r.start, true
	}
	if r.hasEnd {
		return r.end - r.start, true
	}
	return 0, false
}

// HandleTime returns the answered request's service time.
func (r *Request) HandleTime() (time.Duration, bool) {
	if r.status != StatusAnswered {
		return 0, false
	}
	return r.end - r.established, true
}

// Outcome is the flat projection of a finished Request, the sole input to
// the metric aggregator.
type Outcome struct {
	ID            uint64
	Status        Status
	WaitTime      time.Duration
	HasWaitTime   bool
	HandleTime    time.Duration
	HasHandleTime bool
}

// Outcome projects the request's terminal data for metric aggregation.
func (r *Request) Outcome() Outcome {
	o := Outcome{ID: r.id, Status: r.status}
	o.WaitTime, o.HasWaitTime = r.WaitTime()
	o.HandleTime, o.HasHandleTime = r.HandleTime()
	return o
}
