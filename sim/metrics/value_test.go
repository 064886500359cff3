package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeanDuration_DisplaysNoneWhenEmpty(t *testing.T) {
	m := &MeanDuration{}
	assert.Equal(t, "None", m.String())
}

func TestMeanDuration_DisplaysMean(t *testing.T) {
	m := &MeanDuration{}
	m.Report(10 * time.Second)
	m.Report(20 * time.Second)

	assert.Equal(t, "15s", m.String())
}

func TestMeanDuration_ComparesByMean(t *testing.T) {
	a := &MeanDuration{Sum: 30 * time.Second, Count: 2}
	b := &MeanDuration{Sum: 15 * time.Second, Count: 1}

	cmp, ok := a.Cmp(b)
	assert.True(t, ok)
	assert.Equal(t, 0, cmp)

	b.Report(45 * time.Second)
	cmp, ok = a.Cmp(b)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestMeanDuration_CmpEmptyNotOrdered(t *testing.T) {
	a := &MeanDuration{}
	b := &MeanDuration{Sum: time.Second, Count: 1}

	_, ok := a.Cmp(b)
	assert.False(t, ok)
	_, ok = b.Cmp(a)
	assert.False(t, ok)
}

func TestCount_DisplaysAndCompares(t *testing.T) {
	a := &Count{}
	a.Report()
	a.Report()

	assert.Equal(t, "2", a.String())

	b := &Count{Count: 3}
	cmp, ok := a.Cmp(b)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestPercent_DisplaysNoneWhenEmpty(t *testing.T) {
	p := &Percent{}
	assert.Equal(t, "None", p.String())
}

func TestPercent_DisplaysRatio(t *testing.T) {
	p := &Percent{}
	p.Report(true)
	p.Report(false)

	assert.Equal(t, "0.5", p.String())
}

func TestPercent_ComparesByRatio(t *testing.T) {
	a := &Percent{Hits: 1, Total: 2}
	b := &Percent{Hits: 3, Total: 4}

	cmp, ok := a.Cmp(b)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestValues_CloneIsIndependent(t *testing.T) {
	m := &MeanDuration{}
	m.Report(time.Second)
	clone := m.Clone().(*MeanDuration)
	clone.Report(time.Hour)

	assert.Equal(t, uint32(1), m.Count)
	assert.Equal(t, uint32(2), clone.Count)
}

func TestValues_AccumulationIsAdditive(t *testing.T) {
	// Folding two disjoint batches equals folding their union, for the
	// MeanDuration and Percent accumulators.
	whole := &MeanDuration{}
	left := &MeanDuration{}
	right := &MeanDuration{}
	durations := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 5 * time.Second}
	for i, d := range durations {
		whole.Report(d)
		if i%2 == 0 {
			left.Report(d)
		} else {
			right.Report(d)
		}
	}
	assert.Equal(t, whole.Sum, left.Sum+right.Sum)
	assert.Equal(t, whole.Count, left.Count+right.Count)

	wholeP := &Percent{}
	leftP := &Percent{}
	rightP := &Percent{}
	hits := []bool{true, false, true, true}
	for i, h := range hits {
		wholeP.Report(h)
		if i < 2 {
			leftP.Report(h)
		} else {
			rightP.Report(h)
		}
	}
	assert.Equal(t, wholeP.Hits, leftP.Hits+rightP.Hits)
	assert.Equal(t, wholeP.Total, leftP.Total+rightP.Total)
}
