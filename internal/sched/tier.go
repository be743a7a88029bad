// internal/sched/tier.go

package sched

// Tier is one of the three ready-queue bands. TierNone means the thread is
// not in any ready queue (running, blocked or not yet admitted).
type Tier int

const (
	TierNone Tier = iota
	TierL1
	TierL2
	TierL3
)

// Priority bands. Everything outside [MinPriority, MaxPriority] is rejected
// at admission.
const (
	MinPriority = 0
	MaxPriority = 149

	l1Floor = 100
	l2Floor = 50
)

// tiers lists the ready queues from highest to lowest precedence.
var tiers = [...]Tier{TierL1, TierL2, TierL3}

// TierFor maps a priority to its band. ok is false when the priority is out
// of range.
func TierFor(priority int) (t Tier, ok bool) {
	switch {
	case priority < MinPriority || priority > MaxPriority:
		return TierNone, false
	case priority >= l1Floor:
		return TierL1, true
	case priority >= l2Floor:
		return TierL2, true
	default:
		return TierL3, true
	}
}

// Above reports whether t has strictly higher precedence than o.
func (t Tier) Above(o Tier) bool {
	if t == TierNone {
		return false
	}
	return o == TierNone || t < o
}

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "None"
	case TierL1:
		return "L1"
	case TierL2:
		return "L2"
	case TierL3:
		return "L3"
	default:
		return "Unknown"
	}
}
