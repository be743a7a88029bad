// internal/kernel/report.go

package kernel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"mlfq/internal/sched"
)

// Reporter prints scheduler events as aligned lines and optionally mirrors
// them to a CSV file.
type Reporter struct {
	out       io.Writer
	csvFile   *os.File
	csvWriter *csv.Writer
	ranTotals map[sched.ThreadID]int64 // cumulative ticks per thread
	err       error
}

// NewReporter writes human-readable lines to out; a nil out prints nothing.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, ranTotals: make(map[sched.ThreadID]int64)}
}

// EnableCSVLogging opens the given file path for CSV logging of events.
// Must be called before the kernel runs.
func (r *Reporter) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	// write header
	if err := w.Write([]string{"timestamp", "tick", "event", "thread_id", "name", "tier", "priority", "burst", "ran_ticks"}); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	r.csvFile = f
	r.csvWriter = w
	return nil
}

// Close flushes and closes the CSV file, if any.
func (r *Reporter) Close() error {
	if r.csvFile == nil {
		return nil
	}
	r.csvWriter.Flush()
	r.fail(r.csvWriter.Error())
	err := r.err
	if cerr := r.csvFile.Close(); err == nil {
		err = cerr
	}
	r.csvFile = nil
	return err
}

// Handle renders one event.
func (r *Reporter) Handle(ev sched.StatusEvent) {
	switch ev.Kind {
	case sched.StatusFinish, sched.StatusBlock, sched.StatusPreempt:
		r.ranTotals[ev.ThreadID] += ev.RanTicks
	}

	if r.out != nil {
		tier := ev.Tier.String()
		if ev.Kind == sched.StatusPromote {
			tier = ev.From.String() + "->" + ev.Tier.String()
		}
		fmt.Fprintf(r.out, "Tick: %07d [%s] => Thread: %04d %-10s %-8s prio=%03d burst=%08.2f total ran: %05d ticks\n",
			ev.Tick,
			center(ev.Kind.String(), 10),
			ev.ThreadID,
			ev.Name,
			tier,
			ev.Priority,
			ev.Burst,
			r.ranTotals[ev.ThreadID],
		)
	}

	// CSV output
	if r.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			strconv.FormatInt(ev.Tick, 10),
			ev.Kind.String(),
			strconv.FormatUint(uint64(ev.ThreadID), 10),
			ev.Name,
			ev.Tier.String(),
			strconv.Itoa(ev.Priority),
			strconv.FormatFloat(ev.Burst, 'f', 4, 64),
			strconv.FormatInt(ev.RanTicks, 10),
		}
		if err := r.csvWriter.Write(rec); err != nil {
			r.fail(err)
			return
		}
		r.csvWriter.Flush()
		r.fail(r.csvWriter.Error())
	}
}

// fail keeps the first CSV error.
func (r *Reporter) fail(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first error hit while writing the CSV trace.
func (r *Reporter) Err() error { return r.err }

// center pads str on both sides to width.
func center(str string, width int) string {
	if len(str) >= width {
		return str
	}
	spaces := (width - len(str)) / 2
	return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
}
