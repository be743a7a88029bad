package kernel

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// ThreadSummary is the outcome of one simulated thread.
type ThreadSummary struct {
	Name          string
	StartPriority int
	FinalPriority int
	Arrival       int64
	Finished      int64 // 0 if it never finished
	CPU           int64
	IO            int64
	Waiting       int64 // ticks spent ready but not running
	Dispatches    int
	Estimate      float64 // predicted next CPU burst at the end of the run
	Rejected      bool
}

// Turnaround is Finished - Arrival, or 0 for unfinished threads.
func (t ThreadSummary) Turnaround() int64 {
	if t.Finished == 0 {
		return 0
	}
	return t.Finished - t.Arrival
}

// Summary is the result of Kernel.Run.
type Summary struct {
	Ticks    int64
	Switches int
	Complete bool
	Threads  []ThreadSummary
}

func (k *Kernel) summary() Summary {
	sum := Summary{
		Ticks:    k.clock.Now(),
		Switches: k.switches,
		Complete: k.done == len(k.order),
	}
	for _, p := range k.order {
		ts := ThreadSummary{
			Name:          p.spec.Name,
			StartPriority: p.spec.Priority,
			FinalPriority: p.thread.Priority(),
			Arrival:       p.spec.Arrival,
			Finished:      p.finishedAt,
			CPU:           p.cpu,
			IO:            p.io,
			Dispatches:    p.dispatches,
			Estimate:      p.thread.BurstEstimate(),
			Rejected:      p.rejected,
		}
		if ts.Finished > 0 {
			ts.Waiting = ts.Turnaround() - ts.CPU - ts.IO
		}
		sum.Threads = append(sum.Threads, ts)
	}
	return sum
}

// WriteTable prints the summary as an aligned table.
func (s Summary) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tPRIO\tFINAL\tARRIVAL\tFINISH\tTURNAROUND\tCPU\tIO\tWAIT\tDISPATCHES\tEST\n")
	for _, t := range s.Threads {
		finish := fmt.Sprint(t.Finished)
		switch {
		case t.Rejected:
			finish = "rejected"
		case t.Finished == 0:
			finish = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			t.Name, t.StartPriority, t.FinalPriority, t.Arrival, finish,
			t.Turnaround(), t.CPU, t.IO, t.Waiting, t.Dispatches, t.Estimate)
	}
	fmt.Fprintf(tw, "\nticks: %d\tswitches: %d\tcomplete: %t\n", s.Ticks, s.Switches, s.Complete)
	return tw.Flush()
}
