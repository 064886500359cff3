// Package sim provides the core discrete-event engine of the contact-center
// simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - request.go: Request lifecycle (pending → enqueued → answered/abandoned)
//     and its state machine
//   - request_queue.go / server_queue.go: the dual time-ordered queues that
//     release arrivals and track server availability
//   - simulator.go: the tick loop, the routing step, and the event-jump time
//     advance
//
// # Architecture
//
// The sim package owns all mutable state of a single run. Sub-packages hold
// the pieces that do not mutate it:
//   - sim/minqueue: generic min-priority queue used by both queues
//   - sim/metrics: post-run metric accumulators and the aggregator
//   - sim/runner: the share-nothing per-seed parallel driver
//
// A Simulation is single-threaded: one goroutine drives Tick until it
// returns false, then reads the per-request outcome records back. Many
// simulations run in parallel across goroutines without sharing state.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - RoutingPolicy: pair waiting requests with free servers each tick
//   - Source: the injected uniform uint64 stream used to sample arrivals
package sim
