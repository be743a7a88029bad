// internal/kernel/kernel.go

// Package kernel simulates a uniprocessor around the MLFQ scheduler: it owns
// the clock, the timer interrupt, the thread objects and their I/O waits,
// and performs the context switches the scheduler asks for.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mlfq/internal/job"
	"mlfq/internal/sched"
)

// ErrRejected is returned when FailFast is set and a thread could not be
// admitted.
var ErrRejected = errors.New("thread rejected by scheduler")

// proc is the kernel's view of a simulated thread.
type proc struct {
	thread *sched.Thread
	spec   job.Spec
	prog   *job.Program

	wakeAt     int64
	finishedAt int64
	cpu        int64
	io         int64
	dispatches int
	rejected   bool
	destroyed  bool
}

// Kernel runs one workload to completion.
type Kernel struct {
	cfg    sched.Config
	clock  *sched.TickClock
	sched  *sched.Scheduler
	log    *zap.Logger
	report *Reporter

	order    []*proc
	procs    map[sched.ThreadID]*proc
	sleeping *sleepQueue

	switches int
	done     int // destroyed or rejected threads
}

// Option configures a Kernel.
type Option func(*kernelOptions)

type kernelOptions struct {
	log     *zap.Logger
	metrics *sched.Metrics
	report  *Reporter
}

func WithLogger(l *zap.Logger) Option {
	return func(o *kernelOptions) { o.log = l }
}

func WithMetrics(m *sched.Metrics) Option {
	return func(o *kernelOptions) { o.metrics = m }
}

// WithReporter renders every scheduler event through r.
func WithReporter(r *Reporter) Option {
	return func(o *kernelOptions) { o.report = r }
}

// New builds a kernel for w. Threads get IDs in workload order, from 1.
func New(cfg sched.Config, w job.Workload, opts ...Option) *Kernel {
	o := kernelOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg.Sanitize()

	k := &Kernel{
		cfg:      cfg,
		clock:    sched.NewTickClock(cfg.EventBuffer),
		log:      o.log,
		report:   o.report,
		procs:    make(map[sched.ThreadID]*proc, len(w.Threads)),
		sleeping: newSleepQueue(),
	}
	schedOpts := []sched.Option{sched.WithLogger(o.log.Named("sched"))}
	if o.metrics != nil {
		schedOpts = append(schedOpts, sched.WithMetrics(o.metrics))
	}
	k.sched = sched.New(cfg, k.clock, k, schedOpts...)

	for i, s := range w.Threads {
		t := sched.NewThread(sched.ThreadID(i+1), s.Name, s.Priority, s.Burst)
		p := &proc{thread: t, spec: s, prog: job.NewProgram(s), wakeAt: s.Arrival}
		k.order = append(k.order, p)
		k.procs[t.ID] = p
		k.sleeping.push(p)
	}
	return k
}

// Scheduler exposes the scheduler under simulation.
func (k *Kernel) Scheduler() *sched.Scheduler { return k.sched }

// Run drives the simulation until every thread has finished or been
// rejected, MaxTicks is reached or ctx is done. With TickMS set, ticks are
// paced in wall time.
func (k *Kernel) Run(ctx context.Context) (Summary, error) {
	defer k.sched.Close()

	paced := k.cfg.TickMS > 0
	if paced {
		k.clock.Start(time.Duration(k.cfg.TickMS) * time.Millisecond)
		defer k.clock.Stop()
	}

	k.log.Info("simulation starting",
		zap.Int("threads", len(k.order)),
		zap.Int64("quantum", k.cfg.QuantumTicks),
		zap.Int64("aging_interval", k.cfg.AgingIntervalTicks))

	// tick 0: arrivals only
	err := k.wake(0)
	if err == nil {
		err = k.preemptIfNeeded()
	}
	k.drain()

	for err == nil && k.done < len(k.order) {
		if k.cfg.MaxTicks > 0 && k.clock.Now() >= k.cfg.MaxTicks {
			k.log.Warn("tick limit reached", zap.Int64("max_ticks", k.cfg.MaxTicks))
			break
		}
		if paced {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				continue
			case <-k.clock.Ch:
			}
		} else if ctx.Err() != nil {
			err = ctx.Err()
			continue
		}
		err = k.tick()
		k.drain()
	}

	sum := k.summary()
	k.log.Info("simulation finished",
		zap.Int64("ticks", sum.Ticks),
		zap.Int("switches", sum.Switches),
		zap.Bool("complete", sum.Complete))
	return sum, err
}

// tick advances the clock by one and plays the timer interrupt.
func (k *Kernel) tick() error {
	now := k.clock.Advance(1)

	if cur := k.sched.Current(); cur != nil {
		k.charge(now, cur)
	}
	if err := k.wake(now); err != nil {
		return err
	}
	if now%k.cfg.AgingIntervalTicks == 0 {
		rep := k.sched.Aging()
		if rep.Boosted > 0 {
			k.log.Debug("aging sweep",
				zap.Int64("tick", now),
				zap.Int("scanned", rep.Scanned),
				zap.Int("boosted", rep.Boosted),
				zap.Int("promoted", rep.Promoted))
		}
	}
	return k.preemptIfNeeded()
}

// charge bills the running thread one tick and handles the end of its burst.
func (k *Kernel) charge(now int64, cur *sched.Thread) {
	p := k.procs[cur.ID]
	cur.AccumulateCPU(1)
	p.cpu++

	outcome, io, burst := p.prog.Step()
	switch outcome {
	case job.Done:
		cur.MarkFinished()
		p.finishedAt = now
		k.sched.Record(sched.StatusFinish, cur)
		next, _ := k.sched.FindNextToRun()
		k.sched.Run(next, true)
	case job.Block:
		cur.UpdateBurstEstimate(burst, k.cfg.BurstAlpha)
		cur.MarkBlocked()
		p.io += io
		p.wakeAt = now + io
		k.sleeping.push(p)
		k.sched.Record(sched.StatusBlock, cur)
		next, _ := k.sched.FindNextToRun()
		k.sched.Run(next, false)
	}
}

// wake admits every thread whose arrival or I/O completion is due.
func (k *Kernel) wake(now int64) error {
	for _, p := range k.sleeping.popDue(now) {
		if err := k.admit(p); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kernel) admit(p *proc) error {
	err := k.sched.ReadyToRun(p.thread)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sched.ErrPriorityOutOfRange) {
		return fmt.Errorf("admit %s: %w", p.thread.Name, err)
	}
	if k.cfg.FailFast {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	k.log.Warn("thread will never run", zap.String("name", p.thread.Name), zap.Error(err))
	p.rejected = true
	k.done++
	return nil
}

// preemptIfNeeded asks the oracle and, if told to, puts the running thread
// back on the ready list and dispatches the next one.
func (k *Kernel) preemptIfNeeded() error {
	cur := k.sched.Current()
	if !k.sched.CheckPreemptive(cur) {
		return nil
	}
	if cur != nil {
		k.sched.Record(sched.StatusPreempt, cur)
		if err := k.admit(k.procs[cur.ID]); err != nil {
			return err
		}
	}
	next, ok := k.sched.FindNextToRun()
	if !ok && cur == nil {
		return nil
	}
	k.sched.Run(next, false)
	return nil
}

// drain hands buffered scheduler events to the reporter.
func (k *Kernel) drain() {
	ch := k.sched.StatusChannel()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if k.report != nil {
				k.report.Handle(ev)
			}
		default:
			return
		}
	}
}
