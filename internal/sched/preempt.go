package sched

// CheckPreemptive reports whether running should give up the CPU to the
// ready set. The decision depends on the tier running was dispatched from:
//
//   - L1: the L1 head has a strictly shorter remaining burst. A tie keeps
//     the incumbent.
//   - L2: L1 is not empty.
//   - L3: L1 or L2 is not empty, or L3 is not empty and running has used up
//     its quantum.
//
// A nil running thread means the CPU is idle; any ready thread preempts.
// CheckPreemptive does not change any state.
func (s *Scheduler) CheckPreemptive(running *Thread) bool {
	s.enter()
	defer s.leave()

	preempt := s.checkPreemptive(running)
	if preempt && running != nil {
		s.metrics.Preemptions.WithLabelValues(running.LastTier().String()).Inc()
	}
	return preempt
}

func (s *Scheduler) checkPreemptive(running *Thread) bool {
	if running == nil {
		return s.ready.Total() > 0
	}

	switch running.LastTier() {
	case TierL1:
		head, ok := s.ready.PeekFront(TierL1)
		return ok && ByBurst(head.Ranking(), running.Ranking()) < 0
	case TierL2:
		return !s.ready.IsEmpty(TierL1)
	default:
		if !s.ready.IsEmpty(TierL1) || !s.ready.IsEmpty(TierL2) {
			return true
		}
		return !s.ready.IsEmpty(TierL3) && running.CPUTicks() >= s.cfg.QuantumTicks
	}
}
