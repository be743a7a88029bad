package sched

import (
	"testing"
)

type switchRecord struct {
	from, to *Thread
}

// recordingDispatcher logs every call in order.
type recordingDispatcher struct {
	calls     []string
	switches  []switchRecord
	destroyed []*Thread
	onSwitch  func(from, to *Thread)
	onDestroy func(t *Thread)
}

func (d *recordingDispatcher) ContextSwitch(from, to *Thread) {
	d.calls = append(d.calls, "switch")
	d.switches = append(d.switches, switchRecord{from, to})
	if d.onSwitch != nil {
		d.onSwitch(from, to)
	}
}

func (d *recordingDispatcher) Destroy(t *Thread) {
	d.calls = append(d.calls, "destroy:"+t.Name)
	d.destroyed = append(d.destroyed, t)
	if d.onDestroy != nil {
		d.onDestroy(t)
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *TickClock, *recordingDispatcher) {
	t.Helper()
	clock := NewTickClock(1)
	d := &recordingDispatcher{}
	return New(DefaultConfig(), clock, d), clock, d
}

var nextID ThreadID

func newThread(name string, priority int, burst float64) *Thread {
	nextID++
	return NewThread(nextID, name, priority, burst)
}

// dispatch admits t, selects it and puts it on the CPU.
func dispatch(t *testing.T, s *Scheduler, th *Thread) {
	t.Helper()
	if err := s.ReadyToRun(th); err != nil {
		t.Fatalf("admit %s: %v", th.Name, err)
	}
	next, ok := s.FindNextToRun()
	if !ok || next != th {
		t.Fatalf("expected %s to be selected", th.Name)
	}
	s.Run(next, false)
}

func drainNames(s *Scheduler) []string {
	var names []string
	for {
		t, ok := s.FindNextToRun()
		if !ok {
			return names
		}
		names = append(names, t.Name)
	}
}
