package sim

import (
	"math/bits"
	"math/rand"
	"time"
)

// Source is the uniform uint64 stream the engine consumes. The engine never
// owns an RNG implementation; a seeded source is injected so identically
// configured runs replay bit-for-bit.
//
// Thread-safety: NOT thread-safe. A Source belongs to exactly one
// Simulation.
type Source interface {
	Uint64() uint64
}

// NewSeededSource returns a deterministic Source for the given seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewSource(int64(seed)))
}

// StepSource is a deterministic arithmetic Source for tests: it yields
// initial, initial+step, initial+2·step, ... with wrapping addition.
type StepSource struct {
	next, step uint64
}

// NewStepSource creates a StepSource.
func NewStepSource(initial, step uint64) *StepSource {
	return &StepSource{next: initial, step: step}
}

// Uint64 implements Source.
func (s *StepSource) Uint64() uint64 {
	v := s.next
	s.next += s.step
	return v
}

// scaleDuration maps a raw uint64 onto [0, max] inclusive by fixed-point
// scaling: floor(u · (max+1) / 2⁶⁴). Scaling instead of modulo keeps the
// sampler bias-free and bit-exact across implementations.
func scaleDuration(u uint64, max time.Duration) time.Duration {
	hi, _ := bits.Mul64(u, uint64(max)+1)
	return time.Duration(hi)
}
