package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ts []*Thread) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func TestOrderedQueueRemoveAndFix(t *testing.T) {
	q := NewOrderedQueue(ByPriority)
	a := newThread("a", 70, 0)
	b := newThread("b", 80, 0)
	c := newThread("c", 70, 0)
	q.Insert(a)
	q.Insert(b)
	q.Insert(c)
	q.Insert(a) // duplicate is ignored
	assert.Equal(t, []string{"b", "a", "c"}, names(q.Values()))

	// a priority change is invisible until Fix
	c.SetPriority(90)
	assert.Equal(t, []string{"b", "a", "c"}, names(q.Values()))
	q.Fix(c)
	assert.Equal(t, []string{"c", "b", "a"}, names(q.Values()))

	// Fix keeps the insertion sequence among equals
	c.SetPriority(70)
	q.Fix(c)
	assert.Equal(t, []string{"b", "a", "c"}, names(q.Values()))

	assert.True(t, q.Remove(a))
	assert.False(t, q.Remove(a))
	front, ok := q.Front()
	require.True(t, ok)
	assert.Same(t, b, front)
	assert.Equal(t, 2, q.Len())
}

func TestOrderedQueueSurvivesStaleKeys(t *testing.T) {
	q := NewOrderedQueue(ByBurst)
	a := newThread("a", 120, 3)
	b := newThread("b", 120, 5)
	q.Insert(a)
	q.Insert(b)

	// mutate without Fix: removal still finds the node by its stored key
	a.SetApproxBurst(100)
	assert.True(t, q.Remove(a))
	assert.Equal(t, []string{"b"}, names(q.Values()))
}

func TestFIFOQueue(t *testing.T) {
	q := NewFIFOQueue()
	_, ok := q.RemoveFront()
	assert.False(t, ok)

	a, b, c := newThread("a", 1, 0), newThread("b", 2, 0), newThread("c", 3, 0)
	q.Insert(a)
	q.Insert(b)
	q.Insert(c)
	assert.True(t, q.Remove(b))
	assert.False(t, q.Remove(b))

	got, ok := q.RemoveFront()
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, []string{"c"}, names(q.Values()))
}

func TestReadyQueueSetMembership(t *testing.T) {
	rs := NewReadyQueueSet()
	th := newThread("t", 10, 1)

	rs.Insert(TierL3, th)
	assert.Equal(t, TierL3, th.Tier())

	// moving keeps membership unique
	rs.Insert(TierL1, th)
	assert.Equal(t, TierL1, th.Tier())
	assert.Zero(t, rs.Len(TierL3))
	assert.Equal(t, 1, rs.Total())

	assert.False(t, rs.Remove(TierL2, th))
	assert.True(t, rs.Remove(TierL1, th))
	assert.Equal(t, TierNone, th.Tier())
	assert.Zero(t, rs.Total())

	assert.Panics(t, func() { rs.IsEmpty(TierNone) })
}

func TestReadyQueueSetSnapshotIsACopy(t *testing.T) {
	rs := NewReadyQueueSet()
	a, b := newThread("a", 10, 1), newThread("b", 10, 1)
	rs.Insert(TierL3, a)
	rs.Insert(TierL3, b)

	snap := rs.Snapshot(TierL3)
	for _, th := range snap {
		rs.Remove(TierL3, th)
		rs.Insert(TierL2, th)
	}
	assert.Equal(t, []string{"a", "b"}, names(snap))
	assert.Equal(t, 2, rs.Len(TierL2))
	assert.True(t, rs.IsEmpty(TierL3))
}
