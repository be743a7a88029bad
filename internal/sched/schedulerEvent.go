// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusEnqueue
	StatusReject
	StatusDispatch
	StatusPreempt
	StatusBlock
	StatusFinish
	StatusBoost
	StatusPromote
	StatusDestroy
)

// StatusEvent is emitted on key scheduler and kernel actions.
type StatusEvent struct {
	Time     time.Time
	Tick     int64
	Kind     StatusKind
	ThreadID ThreadID
	Name     string
	Tier     Tier // tier after the event; for Promote, the destination
	From     Tier // for Promote, the source tier
	Priority int
	Burst    float64
	RanTicks int64
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusReject:
		return "Rejected"
	case StatusDispatch:
		return "Dispatch"
	case StatusPreempt:
		return "Preempt"
	case StatusBlock:
		return "Block"
	case StatusFinish:
		return "Finish"
	case StatusBoost:
		return "Boost"
	case StatusPromote:
		return "Promote"
	case StatusDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// threadEvent fills the thread-related fields of an event.
func threadEvent(kind StatusKind, now int64, t *Thread) StatusEvent {
	return StatusEvent{
		Time:     time.Now(),
		Tick:     now,
		Kind:     kind,
		ThreadID: t.ID,
		Name:     t.Name,
		Tier:     t.Tier(),
		Priority: t.Priority(),
		Burst:    t.ApproxBurst(),
		RanTicks: t.CPUTicks(),
	}
}
