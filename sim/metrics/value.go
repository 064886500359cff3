package metrics

import (
	"strconv"
	"time"
)

// Value is a metric accumulator. All three accumulators are commutative
// monoids, which is what makes Aggregator.Calculate additive over disjoint
// outcome batches.
type Value interface {
	// String renders the accumulated value. MeanDuration and Percent render
	// "None" when nothing was observed; Count renders its tally, "0" when
	// empty.
	String() string
	// Cmp orders this value against another of the same concrete type.
	// For MeanDuration and Percent, ok is false when either side has no
	// observations; Count always compares, a zero count included.
	Cmp(other Value) (cmp int, ok bool)
	// Clone returns an independent copy.
	Clone() Value
}

// MeanDuration accumulates durations and compares by their mean.
type MeanDuration struct {
	Sum   time.Duration
	Count uint32
}

// Report folds one duration into the mean.
func (m *MeanDuration) Report(d time.Duration) {
	m.Sum += d
	m.Count++
}

func (m *MeanDuration) mean() time.Duration {
	return m.Sum / time.Duration(m.Count)
}

func (m *MeanDuration) String() string {
	if m.Count == 0 {
		return "None"
	}
	return m.mean().String()
}

// Cmp implements Value.
func (m *MeanDuration) Cmp(other Value) (int, bool) {
	o, sameKind := other.(*MeanDuration)
	if !sameKind || m.Count == 0 || o.Count == 0 {
		return 0, false
	}
	switch a, b := m.mean(), o.mean(); {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// Clone implements Value.
func (m *MeanDuration) Clone() Value {
	c := *m
	return &c
}

// Count accumulates a plain tally.
type Count struct {
	Count int
}

// Report counts one observation.
func (c *Count) Report() {
	c.Count++
}

func (c *Count) String() string {
	return strconv.Itoa(c.Count)
}

// Cmp implements Value.
func (c *Count) Cmp(other Value) (int, bool) {
	o, sameKind := other.(*Count)
	if !sameKind {
		return 0, false
	}
	switch {
	case c.Count < o.Count:
		return -1, true
	case c.Count > o.Count:
		return 1, true
	default:
		return 0, true
	}
}

// Clone implements Value.
func (c *Count) Clone() Value {
	n := *c
	return &n
}

// Percent accumulates hits against a total and compares by their ratio.
type Percent struct {
	Hits  float64
	Total float64
}

// Report folds one observation, counting it as a hit when in range.
func (p *Percent) Report(hit bool) {
	if hit {
		p.Hits++
	}
	p.Total++
}

func (p *Percent) ratio() float64 {
	return p.Hits / p.Total
}

func (p *Percent) String() string {
	if p.Total == 0 {
		return "None"
	}
	return strconv.FormatFloat(p.ratio(), 'g', -1, 64)
}

// Cmp implements Value.
func (p *Percent) Cmp(other Value) (int, bool) {
	o, sameKind := other.(*Percent)
	if !sameKind || p.Total == 0 || o.Total == 0 {
		return 0, false
	}
	switch a, b := p.ratio(), o.ratio(); {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// Clone implements Value.
func (p *Percent) Clone() Value {
	c := *p
	return &c
}
