// internal/sched/scheduler.go

package sched

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrPriorityOutOfRange is returned by ReadyToRun for a priority outside
	// [MinPriority, MaxPriority]. The thread is left unqueued.
	ErrPriorityOutOfRange = errors.New("priority out of range")
	// ErrAlreadyQueued is returned by ReadyToRun for a thread that is
	// already in a ready queue.
	ErrAlreadyQueued = errors.New("thread already queued")
)

// Dispatcher is the machine-dependent side of a dispatch. ContextSwitch
// saves the outgoing thread and resumes the incoming one; either may be nil
// when the CPU was or becomes idle. Destroy releases a finished thread and
// is only ever called after ContextSwitch has returned.
type Dispatcher interface {
	ContextSwitch(from, to *Thread)
	Destroy(t *Thread)
}

// Scheduler is a three-tier multilevel feedback queue for one processor.
//
// Its methods are not safe for concurrent use: the caller serializes them,
// the way a kernel would by running them with interrupts disabled. The
// scheduler itself never waits on anything. Overlapping calls are detected
// and panic.
type Scheduler struct {
	cfg        Config
	clock      Clock
	dispatcher Dispatcher
	ready      *ReadyQueueSet

	current       *Thread // thread on the CPU, nil when idle
	toBeDestroyed *Thread // finished thread whose stack we may still be on

	statusCh chan StatusEvent
	log      *zap.Logger
	metrics  *Metrics

	busy atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithMetrics sets the Prometheus instruments. The default is unregistered.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates a scheduler reading time from clock and switching threads
// through d.
func New(cfg Config, clock Clock, d Dispatcher, opts ...Option) *Scheduler {
	cfg.Sanitize()
	s := &Scheduler{
		cfg:        cfg,
		clock:      clock,
		dispatcher: d,
		ready:      NewReadyQueueSet(),
		statusCh:   make(chan StatusEvent, cfg.EventBuffer),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// StatusChannel exposes the read-only event stream. Events are dropped, not
// waited for, when nobody keeps up.
func (s *Scheduler) StatusChannel() <-chan StatusEvent { return s.statusCh }

// Close ends the event stream. The scheduler must not be used afterwards.
func (s *Scheduler) Close() { close(s.statusCh) }

// Ready exposes the ready queues for inspection.
func (s *Scheduler) Ready() *ReadyQueueSet { return s.ready }

// Current returns the running thread, nil when the CPU is idle.
func (s *Scheduler) Current() *Thread { return s.current }

// Config returns the effective configuration.
func (s *Scheduler) Config() Config { return s.cfg }

func (s *Scheduler) enter() {
	if !s.busy.CompareAndSwap(false, true) {
		panic("sched: scheduler re-entered while an operation was in progress")
	}
}

func (s *Scheduler) leave() { s.busy.Store(false) }

// Record publishes a lifecycle event observed outside the scheduler, such
// as a thread blocking or finishing, on the same stream.
func (s *Scheduler) Record(kind StatusKind, t *Thread) {
	s.emit(threadEvent(kind, s.clock.Now(), t))
}

func (s *Scheduler) emit(ev StatusEvent) {
	select {
	case s.statusCh <- ev:
	default:
		s.metrics.DroppedEvents.Inc()
	}
}

// ReadyToRun marks t ready and queues it in the tier its priority selects:
// 100-149 L1, 50-99 L2, 0-49 L3. An out-of-range priority is a caller
// defect; t is left unqueued and the returned error wraps
// ErrPriorityOutOfRange.
func (s *Scheduler) ReadyToRun(t *Thread) error {
	s.enter()
	defer s.leave()

	now := s.clock.Now()
	if t.Tier() != TierNone {
		return fmt.Errorf("thread %d in %s: %w", t.ID, t.Tier(), ErrAlreadyQueued)
	}

	tier, ok := TierFor(t.Priority())
	if !ok {
		s.metrics.Rejected.Inc()
		s.log.Error("thread priority out of range, not queued",
			zap.Uint64("thread", uint64(t.ID)),
			zap.String("name", t.Name),
			zap.Int("priority", t.Priority()),
			zap.Int64("tick", now))
		s.emit(threadEvent(StatusReject, now, t))
		return fmt.Errorf("thread %d: priority %d not in [%d,%d]: %w",
			t.ID, t.Priority(), MinPriority, MaxPriority, ErrPriorityOutOfRange)
	}

	t.markReady()
	t.recordWaitStart(now)
	s.ready.Insert(tier, t)

	s.metrics.Admitted.WithLabelValues(tier.String()).Inc()
	s.metrics.observeReady(s.ready)
	s.log.Debug("putting thread on ready list",
		zap.Uint64("thread", uint64(t.ID)),
		zap.String("name", t.Name),
		zap.Stringer("tier", tier),
		zap.Int("priority", t.Priority()),
		zap.Float64("burst", t.ApproxBurst()))
	s.emit(threadEvent(StatusEnqueue, now, t))
	return nil
}

// FindNextToRun removes and returns the next thread to run: the head of L1,
// else of L2, else of L3. ok is false when every queue is empty, which
// means the CPU should idle.
func (s *Scheduler) FindNextToRun() (next *Thread, ok bool) {
	s.enter()
	defer s.leave()

	now := s.clock.Now()
	for _, tier := range tiers {
		t, found := s.ready.RemoveFront(tier)
		if !found {
			continue
		}
		waited := t.totalWaiting + now - t.waitStart

		t.lastTier = tier
		t.waitStart = 0
		t.totalWaiting = 0
		t.agingCredit = 0
		t.resetCPUTicks()
		t.dispatchedAt = now

		s.metrics.Dispatched.WithLabelValues(tier.String()).Inc()
		s.metrics.WaitTicks.Observe(float64(waited))
		s.metrics.observeReady(s.ready)
		ev := threadEvent(StatusDispatch, now, t)
		ev.Tier = tier
		s.emit(ev)
		return t, true
	}

	s.metrics.Idle.Inc()
	s.emit(StatusEvent{Tick: now, Kind: StatusIdle})
	return nil, false
}

// Run dispatches the CPU to next, which may be nil to idle it. If finishing
// is set the outgoing thread is destroyed, but only once the context switch
// has returned, since until then we are still on its stack.
func (s *Scheduler) Run(next *Thread, finishing bool) {
	s.enter()
	old := s.current
	if finishing {
		if old == nil {
			s.leave()
			panic("sched: finishing with no running thread")
		}
		if s.toBeDestroyed != nil {
			s.leave()
			panic(fmt.Sprintf("sched: thread %d still awaiting destruction", s.toBeDestroyed.ID))
		}
		s.toBeDestroyed = old
	}

	s.current = next
	if next != nil {
		next.markRunning()
	}
	s.log.Debug("switching threads",
		zap.Stringer("from", threadName{old}),
		zap.Stringer("to", threadName{next}),
		zap.Bool("finishing", finishing))
	s.leave()

	s.dispatcher.ContextSwitch(old, next)

	s.enter()
	defer s.leave()
	s.checkToBeDestroyed()
}

// checkToBeDestroyed releases the thread that gave up the CPU by finishing.
func (s *Scheduler) checkToBeDestroyed() {
	t := s.toBeDestroyed
	if t == nil {
		return
	}
	s.toBeDestroyed = nil
	s.dispatcher.Destroy(t)
	s.emit(threadEvent(StatusDestroy, s.clock.Now(), t))
}

type threadName struct{ t *Thread }

func (n threadName) String() string {
	if n.t == nil {
		return "<idle>"
	}
	return n.t.Name
}
