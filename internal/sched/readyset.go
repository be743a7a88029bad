// internal/sched/readyset.go

package sched

// ReadyQueueSet holds the runnable threads in three disjoint tiers:
// L1 by shortest remaining burst, L2 by descending priority, L3 FIFO.
type ReadyQueueSet struct {
	queues [4]queue // indexed by Tier; slot 0 (TierNone) is unused
}

func NewReadyQueueSet() *ReadyQueueSet {
	var rs ReadyQueueSet
	rs.queues[TierL1] = NewOrderedQueue(ByBurst)
	rs.queues[TierL2] = NewOrderedQueue(ByPriority)
	rs.queues[TierL3] = NewFIFOQueue()
	return &rs
}

func (rs *ReadyQueueSet) queue(tier Tier) queue {
	if tier < TierL1 || tier > TierL3 {
		panic("sched: no ready queue for tier " + tier.String())
	}
	return rs.queues[tier]
}

// Insert puts t into tier and records the membership on the thread. A
// thread already queued elsewhere is moved.
func (rs *ReadyQueueSet) Insert(tier Tier, t *Thread) {
	if cur := t.Tier(); cur != TierNone {
		rs.queue(cur).Remove(t)
	}
	rs.queue(tier).Insert(t)
	t.setTier(tier)
}

// RemoveFront pops the head of tier.
func (rs *ReadyQueueSet) RemoveFront(tier Tier) (*Thread, bool) {
	t, ok := rs.queue(tier).RemoveFront()
	if ok {
		t.setTier(TierNone)
	}
	return t, ok
}

func (rs *ReadyQueueSet) PeekFront(tier Tier) (*Thread, bool) {
	return rs.queue(tier).Front()
}

// Remove takes t out of tier. It reports false if t was not there.
func (rs *ReadyQueueSet) Remove(tier Tier, t *Thread) bool {
	if !rs.queue(tier).Remove(t) {
		return false
	}
	t.setTier(TierNone)
	return true
}

// Fix re-sorts t within its current tier.
func (rs *ReadyQueueSet) Fix(t *Thread) {
	if t.Tier() == TierNone {
		return
	}
	rs.queue(t.Tier()).Fix(t)
}

func (rs *ReadyQueueSet) IsEmpty(tier Tier) bool { return rs.queue(tier).Len() == 0 }

func (rs *ReadyQueueSet) Len(tier Tier) int { return rs.queue(tier).Len() }

// Total is the number of queued threads across all tiers.
func (rs *ReadyQueueSet) Total() int {
	n := 0
	for _, tier := range tiers {
		n += rs.Len(tier)
	}
	return n
}

// Snapshot copies the members of tier in queue order. Callers may mutate
// the set while walking the copy.
func (rs *ReadyQueueSet) Snapshot(tier Tier) []*Thread {
	return rs.queue(tier).Values()
}
