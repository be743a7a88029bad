package sched

// ThreadID uniquely identifies a thread in the scheduler.
type ThreadID uint64

// ThreadStatus is the lifecycle state the scheduler and kernel agree on.
type ThreadStatus int

const (
	JustCreated ThreadStatus = iota
	Ready
	Running
	Blocked
	Finished
)

func (s ThreadStatus) String() string {
	switch s {
	case JustCreated:
		return "JustCreated"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Blocked:
		return "Blocked"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Thread is the scheduling state of one thread. The object itself is owned
// by the kernel; the scheduler only reads and mutates the fields below.
type Thread struct {
	ID   ThreadID
	Name string

	priority      int     // 0 - 149, higher runs first across bands
	burstEstimate float64 // predicted length of the next CPU burst
	approxBurst   float64 // estimated remaining CPU ticks, L1 ordering key
	tier          Tier    // current ready queue, TierNone when not queued
	lastTier      Tier    // tier the thread was dispatched from
	status        ThreadStatus

	waitStart    int64 // tick when the thread was last stamped as waiting
	totalWaiting int64 // ticks spent ready since dispatch
	agingCredit  int64 // ticks spent ready since the last aging boost
	cpuTicks     int64 // ticks consumed since dispatch
	dispatchedAt int64
}

// NewThread creates a thread with the given priority and initial burst
// estimate. The priority is not validated here; admission does that.
func NewThread(id ThreadID, name string, priority int, approxBurst float64) *Thread {
	return &Thread{
		ID:            id,
		Name:          name,
		priority:      priority,
		burstEstimate: approxBurst,
		approxBurst:   approxBurst,
		status:        JustCreated,
	}
}

func (t *Thread) Priority() int { return t.priority }
func (t *Thread) ApproxBurst() float64 { return t.approxBurst }
func (t *Thread) Tier() Tier { return t.tier }
func (t *Thread) LastTier() Tier { return t.lastTier }
func (t *Thread) Status() ThreadStatus { return t.status }
func (t *Thread) TotalWaiting() int64 { return t.totalWaiting }
func (t *Thread) CPUTicks() int64 { return t.cpuTicks }
func (t *Thread) DispatchedAt() int64 { return t.dispatchedAt }
func (t *Thread) WaitStart() int64 { return t.waitStart }
func (t *Thread) setTier(tier Tier) { t.tier = tier }
func (t *Thread) recordWaitStart(now int64) { t.waitStart = now }

// SetPriority is used by external priority-setting code. A queued thread
// keeps its place until the next aging sweep reconciles it.
func (t *Thread) SetPriority(p int) { t.priority = p }

// SetApproxBurst overrides the remaining burst estimate. Callers must not
// change it while the thread sits in L1.
func (t *Thread) SetApproxBurst(b float64) { t.approxBurst = b }

// UpdateBurstEstimate folds the length of the CPU burst that just ended into
// the prediction, next = alpha*actual + (1-alpha)*previous, and makes it the
// remaining burst of the thread's next run.
func (t *Thread) UpdateBurstEstimate(actual int64, alpha float64) {
	t.burstEstimate = alpha*float64(actual) + (1-alpha)*t.burstEstimate
	t.approxBurst = t.burstEstimate
}

func (t *Thread) BurstEstimate() float64 { return t.burstEstimate }

// ApplyPriorityBoost raises the priority by step, saturating at limit.
// Priorities never decrease here.
func (t *Thread) ApplyPriorityBoost(step, limit int) int {
	if t.priority >= limit {
		return t.priority
	}
	t.priority += step
	if t.priority > limit {
		t.priority = limit
	}
	return t.priority
}

// accumulateWaiting charges the ticks waited since the last stamp, restamps
// and reports whether the aging threshold was crossed. The threshold worth
// of credit is consumed when it is.
func (t *Thread) accumulateWaiting(now, threshold int64) bool {
	delta := now - t.waitStart
	if delta < 0 {
		delta = 0
	}
	t.totalWaiting += delta
	t.agingCredit += delta
	t.waitStart = now
	if t.agingCredit >= threshold {
		t.agingCredit -= threshold
		return true
	}
	return false
}

// AccumulateCPU charges ticks of CPU time to a running thread and counts
// them against its remaining burst. Must not be called on a queued thread.
func (t *Thread) AccumulateCPU(ticks int64) {
	t.cpuTicks += ticks
	t.approxBurst -= float64(ticks)
	if t.approxBurst < 0 {
		t.approxBurst = 0
	}
}

func (t *Thread) resetCPUTicks() { t.cpuTicks = 0 }

func (t *Thread) markReady() { t.status = Ready }

func (t *Thread) markRunning() { t.status = Running }

// MarkBlocked is called by the kernel when the running thread waits for I/O.
func (t *Thread) MarkBlocked() { t.status = Blocked }

// MarkFinished is called by the kernel before the final Run(next, true).
func (t *Thread) MarkFinished() { t.status = Finished }

// Ranking returns the ordering keys of the thread at this instant.
func (t *Thread) Ranking() Ranking {
	return Ranking{Priority: t.priority, Burst: t.approxBurst}
}
