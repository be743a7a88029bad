package kernel

import (
	"github.com/emirpasic/gods/trees/binaryheap"
)

// sleepQueue holds threads that are not yet ready, either because they have
// not arrived or because they wait for I/O, ordered by wake-up tick.
type sleepQueue struct {
	heap *binaryheap.Heap
}

func newSleepQueue() *sleepQueue {
	return &sleepQueue{heap: binaryheap.NewWith(byWakeTick)}
}

func byWakeTick(a, b any) int {
	pa, pb := a.(*proc), b.(*proc)
	switch {
	case pa.wakeAt < pb.wakeAt:
		return -1
	case pa.wakeAt > pb.wakeAt:
		return 1
	case pa.thread.ID < pb.thread.ID:
		return -1
	case pa.thread.ID > pb.thread.ID:
		return 1
	default:
		return 0
	}
}

func (q *sleepQueue) push(p *proc) { q.heap.Push(p) }

// popDue removes and returns every thread whose wake tick is <= now.
func (q *sleepQueue) popDue(now int64) []*proc {
	var due []*proc
	for {
		v, ok := q.heap.Peek()
		if !ok || v.(*proc).wakeAt > now {
			return due
		}
		q.heap.Pop()
		due = append(due, v.(*proc))
	}
}
