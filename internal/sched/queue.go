// internal/sched/queue.go

package sched

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// Ranking is a snapshot of the fields a queue orders threads by. Queues keep
// the snapshot taken at insertion, so a thread's live fields may drift
// without corrupting the tree; Fix re-snapshots.
type Ranking struct {
	Priority int
	Burst    float64
}

// Comparator orders two rankings: negative means a runs before b.
type Comparator func(a, b Ranking) int

// ByBurst is shortest-remaining-time-next.
func ByBurst(a, b Ranking) int {
	switch {
	case a.Burst < b.Burst:
		return -1
	case a.Burst > b.Burst:
		return 1
	default:
		return 0
	}
}

// ByPriority puts the higher priority first.
func ByPriority(a, b Ranking) int {
	switch {
	case a.Priority > b.Priority:
		return -1
	case a.Priority < b.Priority:
		return 1
	default:
		return 0
	}
}

type queue interface {
	Insert(t *Thread)
	RemoveFront() (*Thread, bool)
	Front() (*Thread, bool)
	Remove(t *Thread) bool
	Fix(t *Thread)
	Len() int
	Values() []*Thread
}

// orderKey is the tree key. seq breaks ties in insertion order.
type orderKey struct {
	rank Ranking
	seq  uint64
}

// OrderedQueue keeps threads sorted by a Comparator, FIFO among equals.
type OrderedQueue struct {
	cmp  Comparator
	tree *redblacktree.Tree
	keys map[*Thread]orderKey
	seq  uint64
}

// NewOrderedQueue creates an empty queue ordered by cmp.
func NewOrderedQueue(cmp Comparator) *OrderedQueue {
	q := &OrderedQueue{
		cmp:  cmp,
		keys: make(map[*Thread]orderKey),
	}
	q.tree = redblacktree.NewWith(q.compare)
	return q
}

func (q *OrderedQueue) compare(a, b any) int {
	ka, kb := a.(orderKey), b.(orderKey)
	if c := q.cmp(ka.rank, kb.rank); c != 0 {
		return c
	}
	switch {
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}

// Insert adds t behind every thread that ranks equal to it. Inserting a
// thread that is already present is a no-op.
func (q *OrderedQueue) Insert(t *Thread) {
	if _, ok := q.keys[t]; ok {
		return
	}
	q.seq++
	k := orderKey{rank: t.Ranking(), seq: q.seq}
	q.keys[t] = k
	q.tree.Put(k, t)
}

func (q *OrderedQueue) Front() (*Thread, bool) {
	node := q.tree.Left()
	if node == nil {
		return nil, false
	}
	return node.Value.(*Thread), true
}

func (q *OrderedQueue) RemoveFront() (*Thread, bool) {
	node := q.tree.Left()
	if node == nil {
		return nil, false
	}
	t := node.Value.(*Thread)
	q.tree.Remove(node.Key)
	delete(q.keys, t)
	return t, true
}

func (q *OrderedQueue) Remove(t *Thread) bool {
	k, ok := q.keys[t]
	if !ok {
		return false
	}
	q.tree.Remove(k)
	delete(q.keys, t)
	return true
}

// Fix re-sorts t after its ordering fields changed. It keeps the same
// insertion sequence, so t does not lose its place among equals.
func (q *OrderedQueue) Fix(t *Thread) {
	k, ok := q.keys[t]
	if !ok {
		return
	}
	q.tree.Remove(k)
	k.rank = t.Ranking()
	q.keys[t] = k
	q.tree.Put(k, t)
}

func (q *OrderedQueue) Len() int { return q.tree.Size() }

// Values returns the queued threads in queue order.
func (q *OrderedQueue) Values() []*Thread {
	out := make([]*Thread, 0, q.tree.Size())
	it := q.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Thread))
	}
	return out
}

// FIFOQueue is a plain first-in first-out queue.
type FIFOQueue struct {
	list *doublylinkedlist.List
}

func NewFIFOQueue() *FIFOQueue {
	return &FIFOQueue{list: doublylinkedlist.New()}
}

func (q *FIFOQueue) Insert(t *Thread) {
	if q.list.IndexOf(t) >= 0 {
		return
	}
	q.list.Add(t)
}

func (q *FIFOQueue) Front() (*Thread, bool) {
	v, ok := q.list.Get(0)
	if !ok {
		return nil, false
	}
	return v.(*Thread), true
}

func (q *FIFOQueue) RemoveFront() (*Thread, bool) {
	t, ok := q.Front()
	if ok {
		q.list.Remove(0)
	}
	return t, ok
}

func (q *FIFOQueue) Remove(t *Thread) bool {
	i := q.list.IndexOf(t)
	if i < 0 {
		return false
	}
	q.list.Remove(i)
	return true
}

// Fix is a no-op: FIFO order does not depend on thread fields.
func (q *FIFOQueue) Fix(*Thread) {}

func (q *FIFOQueue) Len() int { return q.list.Size() }

func (q *FIFOQueue) Values() []*Thread {
	out := make([]*Thread, 0, q.list.Size())
	it := q.list.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Thread))
	}
	return out
}
