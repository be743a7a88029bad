package kernel

import (
	"go.uber.org/zap"

	"mlfq/internal/sched"
)

// ContextSwitch stands in for saving and restoring machine state. The
// simulated threads have no registers or stacks, so only bookkeeping is
// left.
func (k *Kernel) ContextSwitch(from, to *sched.Thread) {
	k.switches++
	if to != nil {
		k.procs[to.ID].dispatches++
	}
	if ce := k.log.Check(zap.DebugLevel, "context switch"); ce != nil {
		fields := []zap.Field{zap.Int64("tick", k.clock.Now())}
		if from != nil {
			fields = append(fields, zap.String("from", from.Name))
		}
		if to != nil {
			fields = append(fields, zap.String("to", to.Name))
		}
		ce.Write(fields...)
	}
}

// Destroy releases a finished thread once the scheduler is off its stack.
func (k *Kernel) Destroy(t *sched.Thread) {
	p := k.procs[t.ID]
	if p.destroyed {
		panic("kernel: thread destroyed twice: " + t.Name)
	}
	p.destroyed = true
	k.done++
}
