package minqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intQueue() *Queue[int] {
	return New(func(a, b int) bool { return a < b })
}

func TestQueue_PopsInAscendingKeyOrder(t *testing.T) {
	// GIVEN elements pushed out of order
	q := intQueue()
	for _, v := range []int{5, 1, 4, 2, 3} {
		q.Push(v)
	}

	// WHEN all elements are popped
	got := make([]int, 0, 5)
	for !q.Empty() {
		v, ok := q.Pop()
		assert.True(t, ok)
		got = append(got, v)
	}

	// THEN they come out smallest first
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestQueue_Peek_DoesNotRemove(t *testing.T) {
	q := intQueue()
	q.Push(2)
	q.Push(1)

	v, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, q.Len())
}

func TestQueue_Empty_PopAndPeekReportMissing(t *testing.T) {
	q := intQueue()

	_, ok := q.Pop()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DuplicateKeysAllSurvive(t *testing.T) {
	q := intQueue()
	q.Push(1)
	q.Push(1)
	q.Push(0)

	got := make([]int, 0, 3)
	for !q.Empty() {
		v, _ := q.Pop()
		got = append(got, v)
	}
	assert.Equal(t, []int{0, 1, 1}, got)
}

func TestQueue_Items_ReturnsCopy(t *testing.T) {
	q := intQueue()
	q.Push(3)
	q.Push(1)

	items := q.Items()
	assert.Len(t, items, 2)
	items[0] = 99
	v, _ := q.Peek()
	assert.Equal(t, 1, v)
}
