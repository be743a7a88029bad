package job

// Outcome is what happened after a thread used one tick of CPU.
type Outcome int

const (
	Continue Outcome = iota // still inside the current CPU burst
	Block                   // burst over, the thread waits for I/O
	Done                    // last burst over, the thread exits
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "Continue"
	case Block:
		return "Block"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Program walks a Spec's bursts one CPU tick at a time.
type Program struct {
	bursts []Burst
	idx    int
	ran    int64 // ticks used in the current burst
}

// NewProgram expands Repeat into a flat list of bursts.
func NewProgram(s Spec) *Program {
	n := s.Repeat
	if n <= 0 {
		n = 1
	}
	bursts := make([]Burst, 0, n*len(s.Program))
	for i := 0; i < n; i++ {
		bursts = append(bursts, s.Program...)
	}
	return &Program{bursts: bursts}
}

// Step consumes one tick. On Block, io is the wait that follows and
// burst the length of the CPU burst that just ended.
func (p *Program) Step() (o Outcome, io, burst int64) {
	if p.Finished() {
		return Done, 0, 0
	}
	p.ran++
	cur := p.bursts[p.idx]
	if p.ran < cur.CPU {
		return Continue, 0, 0
	}
	p.idx++
	p.ran = 0
	if p.idx == len(p.bursts) {
		return Done, 0, cur.CPU
	}
	if cur.IO == 0 {
		// back-to-back bursts without a wait behave as one
		return Continue, 0, 0
	}
	return Block, cur.IO, cur.CPU
}

// Remaining is the CPU left in the current burst.
func (p *Program) Remaining() int64 {
	if p.Finished() {
		return 0
	}
	return p.bursts[p.idx].CPU - p.ran
}

func (p *Program) Finished() bool { return p.idx >= len(p.bursts) }
