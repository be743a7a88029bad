package sched

import "go.uber.org/zap"

// AgingReport summarizes one sweep.
type AgingReport struct {
	Scanned  int
	Boosted  int
	Promoted int
}

// Aging charges every queued thread for the time it has waited since the
// last stamp. A thread whose waiting credit crosses the aging threshold gets
// its priority raised by the aging step, capped at MaxPriority, and is moved
// up a tier if the new priority belongs to one. Threads are never moved
// down.
//
// Members are collected from all tiers before any is relocated, so a thread
// promoted during the sweep is visited exactly once.
func (s *Scheduler) Aging() AgingReport {
	s.enter()
	defer s.leave()

	now := s.clock.Now()
	var members []*Thread
	for _, tier := range tiers {
		members = append(members, s.ready.Snapshot(tier)...)
	}

	rep := AgingReport{Scanned: len(members)}
	for _, t := range members {
		boosted := false
		if t.accumulateWaiting(now, s.cfg.AgingThresholdTicks) {
			before := t.Priority()
			boosted = t.ApplyPriorityBoost(s.cfg.AgingStep, MaxPriority) != before
		}
		if boosted {
			rep.Boosted++
			s.metrics.Boosts.Inc()
			s.emit(threadEvent(StatusBoost, now, t))
		}

		// Priorities set from outside while queued are reconciled here too.
		from := t.Tier()
		to, ok := TierFor(t.Priority())
		if !ok || !to.Above(from) {
			if boosted {
				// still in the same band; L2 order depends on priority
				s.ready.Fix(t)
			}
			continue
		}
		s.ready.Remove(from, t)
		s.ready.Insert(to, t)
		rep.Promoted++

		s.metrics.Promotions.WithLabelValues(from.String(), to.String()).Inc()
		s.log.Debug("aging promoted thread",
			zap.Uint64("thread", uint64(t.ID)),
			zap.String("name", t.Name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Int("priority", t.Priority()))
		ev := threadEvent(StatusPromote, now, t)
		ev.From = from
		s.emit(ev)
	}

	if rep.Promoted > 0 {
		s.metrics.observeReady(s.ready)
	}
	return rep
}
