// Package metrics folds per-request outcome records into service-quality
// aggregates. An Aggregator maps metric kinds to accumulators; each metric
// carries a target of matching accumulator kind and a comparator that
// decides whether the run is on target.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/contact-sim/contact-sim/sim"
)

var (
	// ErrBadTarget is returned when a target's accumulator kind does not
	// match the metric kind.
	ErrBadTarget = errors.New("target kind mismatches metric kind")
	// ErrNotImplemented is returned for metric kinds that are reserved but
	// not yet computed. Surfaced at construction, never in the hot loop.
	ErrNotImplemented = errors.New("metric not implemented")
)

// Kind enumerates the service-quality metrics traced on request outcomes.
type Kind int

const (
	// ServiceLevel is the percent of answered requests whose wait time is
	// within the configured window.
	ServiceLevel Kind = iota
	// AverageWorkTime is the mean handle time over answered requests.
	AverageWorkTime
	// AverageSpeedAnswer is the mean wait time over answered requests.
	AverageSpeedAnswer
	// AverageTimeToAbandon is the mean wait time over abandoned requests.
	AverageTimeToAbandon
	// AbandonRate is the percent of abandoned requests over all requests.
	AbandonRate
	// AverageTimeInQueue is the mean wait time over all requests that
	// recorded one.
	AverageTimeInQueue
	// AnswerCount is the count of answered requests.
	AnswerCount
	// UtilisationTime is reserved.
	UtilisationTime
)

func (k Kind) String() string {
	switch k {
	case ServiceLevel:
		return "ServiceLevel"
	case AverageWorkTime:
		return "AverageWorkTime"
	case AverageSpeedAnswer:
		return "AverageSpeedAnswer"
	case AverageTimeToAbandon:
		return "AverageTimeToAbandon"
	case AbandonRate:
		return "AbandonRate"
	case AverageTimeInQueue:
		return "AverageTimeInQueue"
	case AnswerCount:
		return "AnswerCount"
	case UtilisationTime:
		return "UtilisationTime"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Condition selects how an accumulated value is compared against its target.
type Condition int

const (
	LessOrEqual Condition = iota
	GreaterOrEqual
	Equal
)

// Key identifies a metric within an Aggregator. The window distinguishes
// service levels measured over different windows.
type Key struct {
	Kind   Kind
	Window time.Duration
}

// Metric pairs one accumulator with its target and comparator.
type Metric struct {
	kind      Kind
	window    time.Duration
	value     Value
	target    Value
	condition Condition
}

// NewDuration creates a mean-duration metric: AverageWorkTime,
// AverageSpeedAnswer, AverageTimeToAbandon or AverageTimeInQueue, on target
// when the mean is at most the given duration.
func NewDuration(kind Kind, target time.Duration) (*Metric, error) {
	switch kind {
	case AverageWorkTime, AverageSpeedAnswer, AverageTimeToAbandon, AverageTimeInQueue:
		return &Metric{
			kind:      kind,
			value:     &MeanDuration{},
			target:    &MeanDuration{Sum: target, Count: 1},
			condition: LessOrEqual,
		}, nil
	case UtilisationTime:
		return nil, fmt.Errorf("%s: %w", kind, ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%s with duration target: %w", kind, ErrBadTarget)
	}
}

// NewPercent creates a percent metric. AbandonRate is on target when at most
// the given fraction; UtilisationTime is reserved and rejected.
func NewPercent(kind Kind, target float64) (*Metric, error) {
	switch kind {
	case AbandonRate:
		return &Metric{
			kind:      kind,
			value:     &Percent{},
			target:    &Percent{Hits: target, Total: 1},
			condition: LessOrEqual,
		}, nil
	case UtilisationTime:
		return nil, fmt.Errorf("%s: %w", kind, ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%s with percent target: %w", kind, ErrBadTarget)
	}
}

// NewServiceLevel creates the service-level metric for the given window, on
// target when at least the given fraction of answered requests were answered
// within it.
func NewServiceLevel(window time.Duration, target float64) (*Metric, error) {
	return &Metric{
		kind:      ServiceLevel,
		window:    window,
		value:     &Percent{},
		target:    &Percent{Hits: target, Total: 1},
		condition: GreaterOrEqual,
	}, nil
}

// NewCount creates the AnswerCount metric, on target when the count equals
// the given value.
func NewCount(kind Kind, target int) (*Metric, error) {
	if kind != AnswerCount {
		return nil, fmt.Errorf("%s with count target: %w", kind, ErrBadTarget)
	}
	return &Metric{
		kind:      kind,
		value:     &Count{},
		target:    &Count{Count: target},
		condition: Equal,
	}, nil
}

// Kind returns the metric kind.
func (m *Metric) Kind() Kind { return m.kind }

// Window returns the service-level window; zero for other kinds.
func (m *Metric) Window() time.Duration { return m.window }

// Key returns the aggregator key for this metric.
func (m *Metric) Key() Key { return Key{Kind: m.kind, Window: m.window} }

// Label renders the kind for display, including the service-level window.
func (m *Metric) Label() string {
	if m.kind == ServiceLevel {
		return fmt.Sprintf("ServiceLevel(%s)", m.window)
	}
	return m.kind.String()
}

// Report folds one outcome into the accumulator. Each kind filters by
// status internally; outcomes that do not apply are ignored.
func (m *Metric) Report(o sim.Outcome) {
	switch m.kind {
	case ServiceLevel:
		if o.Status == sim.StatusAnswered && o.HasWaitTime {
			m.value.(*Percent).Report(o.WaitTime <= m.window)
		}
	case AverageWorkTime:
		if o.Status == sim.StatusAnswered && o.HasHandleTime {
			m.value.(*MeanDuration).Report(o.HandleTime)
		}
	case AverageSpeedAnswer:
		if o.Status == sim.StatusAnswered && o.HasWaitTime {
			m.value.(*MeanDuration).Report(o.WaitTime)
		}
	case AverageTimeToAbandon:
		if o.Status == sim.StatusAbandoned && o.HasWaitTime {
			m.value.(*MeanDuration).Report(o.WaitTime)
		}
	case AbandonRate:
		m.value.(*Percent).Report(o.Status == sim.StatusAbandoned)
	case AverageTimeInQueue:
		if o.HasWaitTime {
			m.value.(*MeanDuration).Report(o.WaitTime)
		}
	case AnswerCount:
		if o.Status == sim.StatusAnswered {
			m.value.(*Count).Report()
		}
	}
}

// OnTarget evaluates the accumulated value against the target. A
// mean-duration or percent metric with no observations is off target; a
// count metric compares its tally, zero included.
func (m *Metric) OnTarget() bool {
	cmp, ok := m.value.Cmp(m.target)
	if !ok {
		return false
	}
	switch m.condition {
	case LessOrEqual:
		return cmp <= 0
	case GreaterOrEqual:
		return cmp >= 0
	default:
		return cmp == 0
	}
}

// Value returns the current accumulator.
func (m *Metric) Value() Value { return m.value }

// String renders the accumulated value.
func (m *Metric) String() string { return m.value.String() }

// Clone returns an independent copy, for per-run aggregators.
func (m *Metric) Clone() *Metric {
	return &Metric{
		kind:      m.kind,
		window:    m.window,
		value:     m.value.Clone(),
		target:    m.target.Clone(),
		condition: m.condition,
	}
}
