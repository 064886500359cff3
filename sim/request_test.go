package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testAbandonAfter = time.Second
	testHandleFor    = 5 * time.Minute
)

func pendingRequest(start time.Duration) (*Request, time.Duration) {
	c := Client{HandleTime: testHandleFor, AbandonTime: testAbandonAfter}
	return newRequest(0, start, c), start + testAbandonAfter
}

func enqueuedRequest(start time.Duration) (*Request, time.Duration) {
	r, abandonAt := pendingRequest(start)
	r.Enqueue(start)
	return r, abandonAt
}

func TestRequest_DefaultStatusIsPending(t *testing.T) {
	r, _ := pendingRequest(0)
	assert.Equal(t, StatusPending, r.Status())
}

func TestRequest_AbandonsAtAbandonDeadline(t *testing.T) {
	r, abandonAt := enqueuedRequest(100 * time.Millisecond)

	assert.True(t, r.TickWait(abandonAt-time.Millisecond))
	assert.Equal(t, StatusEnqueued, r.Status())

	assert.False(t, r.TickWait(abandonAt))
	assert.Equal(t, StatusAbandoned, r.Status())
}

func TestRequest_TickWait_NoEffectOnTerminal(t *testing.T) {
	r, abandonAt := enqueuedRequest(100 * time.Millisecond)
	r.TickWait(abandonAt)

	assert.False(t, r.TickWait(abandonAt+time.Millisecond))
	assert.Equal(t, StatusAbandoned, r.Status())
}

func TestRequest_TickWait_PanicsInPast(t *testing.T) {
	r, _ := enqueuedRequest(100 * time.Millisecond)

	assert.Panics(t, func() { r.TickWait(99 * time.Millisecond) })
}

func TestRequest_Handle_ReturnsServerRelease(t *testing.T) {
	r, _ := enqueuedRequest(100 * time.Millisecond)

	release := r.Handle(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond+testHandleFor, release)
	assert.Equal(t, StatusAnswered, r.Status())

	wait, ok := r.WaitTime()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), wait)
}

func TestRequest_Handle_ReleaseUnaffectedByCleanUp(t *testing.T) {
	// Clean-up time is carried on the Client but does not stretch the
	// server's busy window.
	c := Client{HandleTime: testHandleFor, AbandonTime: testAbandonAfter, CleanUpTime: 30 * time.Second}
	r := newRequest(0, 0, c)
	r.Enqueue(0)

	release := r.Handle(0)
	assert.Equal(t, testHandleFor, release)

	handle, ok := r.HandleTime()
	assert.True(t, ok)
	assert.Equal(t, testHandleFor, handle)
}

func TestRequest_Handle_PanicsWhenNotEnqueued(t *testing.T) {
	r, _ := pendingRequest(100 * time.Millisecond)
	assert.Equal(t, StatusPending, r.Status())

	assert.Panics(t, func() { r.Handle(120 * time.Millisecond) })
}

func TestRequest_Handle_PanicsInPast(t *testing.T) {
	r, _ := enqueuedRequest(100 * time.Millisecond)

	assert.Panics(t, func() { r.Handle(99 * time.Millisecond) })
}

func TestRequest_Enqueue_PanicsWhenNotPending(t *testing.T) {
	r, _ := enqueuedRequest(100 * time.Millisecond)

	assert.Panics(t, func() { r.Enqueue(200 * time.Millisecond) })
}

func TestRequest_Enqueue_PanicsBeforeStart(t *testing.T) {
	r, _ := pendingRequest(100 * time.Millisecond)

	assert.Panics(t, func() { r.Enqueue(99 * time.Millisecond) })
}

func TestRequest_WaitTime(t *testing.T) {
	// Abandoned: wait runs until the abandon tick.
	r, abandonAt := enqueuedRequest(100 * time.Millisecond)
	r.TickWait(abandonAt)
	wait, ok := r.WaitTime()
	assert.True(t, ok)
	assert.Equal(t, testAbandonAfter, wait)

	// Answered: wait runs until established.
	r, _ = enqueuedRequest(100 * time.Millisecond)
	r.Handle(200 * time.Millisecond)
	wait, ok = r.WaitTime()
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, wait)

	// Still enqueued: no wait time yet.
	r, _ = enqueuedRequest(100 * time.Millisecond)
	r.TickWait(101 * time.Millisecond)
	_, ok = r.WaitTime()
	assert.False(t, ok)
}

func TestRequest_HandleTime(t *testing.T) {
	r, _ := enqueuedRequest(100 * time.Millisecond)
	r.Handle(200 * time.Millisecond)
	handle, ok := r.HandleTime()
	assert.True(t, ok)
	assert.Equal(t, testHandleFor, handle)

	r, abandonAt := enqueuedRequest(100 * time.Millisecond)
	r.TickWait(abandonAt)
	_, ok = r.HandleTime()
	assert.False(t, ok)
}

func TestRequest_Outcome_ProjectsTerminalData(t *testing.T) {
	r, _ := enqueuedRequest(100 * time.Millisecond)
	r.Handle(150 * time.Millisecond)

	o := r.Outcome()
	assert.Equal(t, uint64(0), o.ID)
	assert.Equal(t, StatusAnswered, o.Status)
	assert.True(t, o.HasWaitTime)
	assert.Equal(t, 50*time.Millisecond, o.WaitTime)
	assert.True(t, o.HasHandleTime)
	assert.Equal(t, testHandleFor, o.HandleTime)
}
