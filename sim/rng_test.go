package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepSource_ArithmeticSequence(t *testing.T) {
	s := NewStepSource(1, 10)

	assert.Equal(t, uint64(1), s.Uint64())
	assert.Equal(t, uint64(11), s.Uint64())
	assert.Equal(t, uint64(21), s.Uint64())
}

func TestStepSource_WrapsAround(t *testing.T) {
	s := NewStepSource(math.MaxUint64, 2)

	assert.Equal(t, uint64(math.MaxUint64), s.Uint64())
	assert.Equal(t, uint64(1), s.Uint64())
}

func TestScaleDuration_Bounds(t *testing.T) {
	end := time.Hour

	assert.Equal(t, time.Duration(0), scaleDuration(0, end))
	assert.Equal(t, end, scaleDuration(math.MaxUint64, end))
}

func TestScaleDuration_StepPerSecond(t *testing.T) {
	// The step size is compatible with the scaler: one step advances the
	// sampled start by roughly one second over a one-hour horizon.
	s := NewStepSource(1, math.MaxUint64/3600)

	for n := 0; n < 5; n++ {
		start := scaleDuration(s.Uint64(), time.Hour)
		assert.InDelta(t, float64(n)*float64(time.Second), float64(start), float64(time.Millisecond))
	}
}

func TestNewSeededSource_Deterministic(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)

	for i := 0; i < 8; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}
