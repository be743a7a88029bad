package job

import (
	"errors"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Burst is one CPU burst optionally followed by an I/O wait.
type Burst struct {
	CPU int64 `yaml:"cpu"` // ticks of CPU before blocking or finishing
	IO  int64 `yaml:"io"`  // ticks blocked afterwards, 0 = none
}

// Spec describes one simulated thread.
type Spec struct {
	Name     string  `yaml:"name"`
	Priority int     `yaml:"priority"`
	Burst    float64 `yaml:"burst"`   // initial remaining-burst estimate
	Arrival  int64   `yaml:"arrival"` // tick the thread first becomes ready
	Program  []Burst `yaml:"program"`
	Repeat   int     `yaml:"repeat"` // times Program runs, 1 by default
}

// Workload mirrors workload.yml.
type Workload struct {
	Threads []Spec `yaml:"threads"`
}

// LoadWorkload reads and validates a YAML workload.
func LoadWorkload(path string) (Workload, error) {
	var w Workload
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read workload: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("parse workload %s: %w", path, err)
	}
	return w, w.Validate()
}

// Validate checks the structural rules of a workload. Priorities are not
// checked: an out-of-range priority is the scheduler's to report.
func (w Workload) Validate() error {
	if len(w.Threads) == 0 {
		return errors.New("workload has no threads")
	}
	seen := make(map[string]struct{}, len(w.Threads))
	for i, s := range w.Threads {
		if s.Name == "" {
			return fmt.Errorf("thread #%d: missing name", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("thread %q defined twice", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Arrival < 0 {
			return fmt.Errorf("thread %q: negative arrival %d", s.Name, s.Arrival)
		}
		if s.Repeat < 0 {
			return fmt.Errorf("thread %q: negative repeat %d", s.Name, s.Repeat)
		}
		if len(s.Program) == 0 {
			return fmt.Errorf("thread %q: empty program", s.Name)
		}
		for j, b := range s.Program {
			if b.CPU <= 0 {
				return fmt.Errorf("thread %q burst %d: cpu must be positive", s.Name, j)
			}
			if b.IO < 0 {
				return fmt.Errorf("thread %q burst %d: negative io", s.Name, j)
			}
		}
	}
	return nil
}

// CPUBound is a thread that computes for ticks and exits.
func CPUBound(name string, priority int, ticks int64) Spec {
	return Spec{
		Name:     name,
		Priority: priority,
		Burst:    float64(ticks),
		Program:  []Burst{{CPU: ticks}},
	}
}

// Interactive alternates short CPU bursts with I/O waits.
func Interactive(name string, priority int, cpu, io int64, rounds int) Spec {
	return Spec{
		Name:     name,
		Priority: priority,
		Burst:    float64(cpu),
		Program:  []Burst{{CPU: cpu, IO: io}},
		Repeat:   rounds,
	}
}
