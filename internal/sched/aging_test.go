package sched

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgingPromotesStarvedL3Thread(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	e := newThread("E", 40, 10)
	require.NoError(t, s.ReadyToRun(e))

	clock.Advance(1500)
	rep := s.Aging()

	assert.Equal(t, AgingReport{Scanned: 1, Boosted: 1, Promoted: 1}, rep)
	assert.GreaterOrEqual(t, e.Priority(), 50)
	assert.Equal(t, TierL2, e.Tier())
	assert.True(t, s.Ready().IsEmpty(TierL3))
	front, ok := s.Ready().PeekFront(TierL2)
	require.True(t, ok)
	assert.Same(t, e, front)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Promotions.WithLabelValues("L3", "L2")))
}

func TestAgingBelowThresholdLeavesPriority(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	e := newThread("E", 40, 10)
	require.NoError(t, s.ReadyToRun(e))

	clock.Advance(1499)
	rep := s.Aging()
	assert.Zero(t, rep.Boosted)
	assert.Equal(t, 40, e.Priority())
	assert.Equal(t, int64(1499), e.TotalWaiting())
	assert.Equal(t, int64(1499), e.WaitStart())

	// the credit carries over to the next sweep
	clock.Advance(1)
	rep = s.Aging()
	assert.Equal(t, 1, rep.Boosted)
	assert.Equal(t, 50, e.Priority())
	assert.Equal(t, TierL2, e.Tier())
}

func TestAgingVisitsPromotedThreadOnce(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	e := newThread("E", 45, 10)
	require.NoError(t, s.ReadyToRun(e))

	clock.Advance(3000)
	s.Aging()
	assert.Equal(t, 55, e.Priority())
	assert.Equal(t, TierL2, e.Tier())

	// the leftover credit boosts again on the next sweep without more waiting
	s.Aging()
	assert.Equal(t, 65, e.Priority())
}

func TestAgingSaturatesAtMaxPriority(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	th := newThread("top", 145, 10)
	require.NoError(t, s.ReadyToRun(th))

	clock.Advance(1500)
	s.Aging()
	assert.Equal(t, MaxPriority, th.Priority())

	clock.Advance(1500)
	rep := s.Aging()
	assert.Zero(t, rep.Boosted)
	assert.Equal(t, MaxPriority, th.Priority())
	assert.Equal(t, TierL1, th.Tier())
}

func TestAgingReordersL2(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	a := newThread("A", 60, 1)
	b := newThread("B", 65, 1)
	require.NoError(t, s.ReadyToRun(a))
	clock.Advance(1000)
	require.NoError(t, s.ReadyToRun(b))

	clock.Advance(500)
	s.Aging()
	assert.Equal(t, 70, a.Priority())
	assert.Equal(t, 65, b.Priority())
	assert.Equal(t, []string{"A", "B"}, drainNames(s))
}

func TestAgingPromotesL2ToL1(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	th := newThread("t", 95, 8)
	require.NoError(t, s.ReadyToRun(th))

	clock.Advance(1500)
	s.Aging()
	assert.Equal(t, 105, th.Priority())
	assert.Equal(t, TierL1, th.Tier())
	assert.True(t, s.Ready().IsEmpty(TierL2))
}

func TestAgingNeverDemotes(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	l1 := newThread("l1", 100, 3)
	l2 := newThread("l2", 50, 3)
	require.NoError(t, s.ReadyToRun(l1))
	require.NoError(t, s.ReadyToRun(l2))

	// an external collaborator lowers priorities while they are queued
	l1.SetPriority(10)
	l2.SetPriority(0)

	for i := 0; i < 3; i++ {
		clock.Advance(500)
		s.Aging()
		assert.Equal(t, TierL1, l1.Tier())
		assert.Equal(t, TierL2, l2.Tier())
	}
	assert.Equal(t, 20, l1.Priority())
	assert.Equal(t, 10, l2.Priority())
}

func TestAgingReconcilesExternalPriorityChange(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	th := newThread("t", 20, 3)
	require.NoError(t, s.ReadyToRun(th))
	th.SetPriority(120)

	clock.Advance(10)
	rep := s.Aging()
	assert.Zero(t, rep.Boosted)
	assert.Equal(t, 1, rep.Promoted)
	assert.Equal(t, TierL1, th.Tier())
}

func TestAgingOnEmptySet(t *testing.T) {
	s, clock, _ := newTestScheduler(t)
	clock.Advance(1500)
	assert.Equal(t, AgingReport{}, s.Aging())
}
