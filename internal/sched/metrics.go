package sched

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var waitTicksBuckets = []float64{0, 10, 50, 100, 250, 500, 1000, 1500, 3000, 6000, 12000}

// Metrics are the scheduler's Prometheus instruments.
type Metrics struct {
	Ready         *prometheus.GaugeVec
	Admitted      *prometheus.CounterVec
	Rejected      prometheus.Counter
	Dispatched    *prometheus.CounterVec
	Idle          prometheus.Counter
	Boosts        prometheus.Counter
	Promotions    *prometheus.CounterVec
	Preemptions   *prometheus.CounterVec
	WaitTicks     prometheus.Histogram
	DroppedEvents prometheus.Counter
}

// NewMetrics registers the instruments on reg. A nil reg yields working but
// unregistered instruments.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ready: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mlfq_ready_threads",
			Help: "threads currently in each ready queue",
		}, []string{"tier"}),
		Admitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_admitted_total",
			Help: "threads admitted to a ready queue",
		}, []string{"tier"}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_rejected_total",
			Help: "admissions refused for an out-of-range priority",
		}),
		Dispatched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_dispatched_total",
			Help: "threads selected to run, by source tier",
		}, []string{"tier"}),
		Idle: f.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_idle_selections_total",
			Help: "selections that found every ready queue empty",
		}),
		Boosts: f.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_aging_boosts_total",
			Help: "priority boosts applied by the aging sweep",
		}),
		Promotions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_promotions_total",
			Help: "threads moved to a higher tier by aging",
		}, []string{"from", "to"}),
		Preemptions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mlfq_preemptions_total",
			Help: "positive preemption decisions, by running tier",
		}, []string{"tier"}),
		WaitTicks: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mlfq_wait_ticks",
			Help:    "ticks a thread waited in the ready set before dispatch",
			Buckets: waitTicksBuckets,
		}),
		DroppedEvents: f.NewCounter(prometheus.CounterOpts{
			Name: "mlfq_dropped_events_total",
			Help: "status events dropped because the channel was full",
		}),
	}
}

func (m *Metrics) observeReady(rs *ReadyQueueSet) {
	for _, tier := range tiers {
		m.Ready.WithLabelValues(tier.String()).Set(float64(rs.Len(tier)))
	}
}
