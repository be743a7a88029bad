package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramSteps(t *testing.T) {
	p := NewProgram(Interactive("i", 60, 2, 7, 2))

	steps := []struct {
		outcome Outcome
		io      int64
	}{
		{Continue, 0},
		{Block, 7},
		{Continue, 0},
		{Done, 0},
	}
	for i, want := range steps {
		o, io, _ := p.Step()
		assert.Equal(t, want.outcome, o, "step %d", i)
		assert.Equal(t, want.io, io, "step %d", i)
	}
	assert.True(t, p.Finished())
	o, _, _ := p.Step()
	assert.Equal(t, Done, o)
}

func TestProgramMergesBurstsWithoutIO(t *testing.T) {
	p := NewProgram(Spec{Program: []Burst{{CPU: 1}, {CPU: 2}}})
	assert.Equal(t, int64(1), p.Remaining())

	o, _, _ := p.Step()
	assert.Equal(t, Continue, o)
	assert.Equal(t, int64(2), p.Remaining())

	p.Step()
	o, _, burst := p.Step()
	assert.Equal(t, Done, o)
	assert.Equal(t, int64(2), burst)
}

func TestValidate(t *testing.T) {
	cases := map[string]Workload{
		"empty":         {},
		"no name":       {Threads: []Spec{{Program: []Burst{{CPU: 1}}}}},
		"duplicate":     {Threads: []Spec{CPUBound("a", 1, 1), CPUBound("a", 1, 1)}},
		"no program":    {Threads: []Spec{{Name: "a"}}},
		"zero cpu":      {Threads: []Spec{{Name: "a", Program: []Burst{{CPU: 0}}}}},
		"negative io":   {Threads: []Spec{{Name: "a", Program: []Burst{{CPU: 1, IO: -1}}}}},
		"early arrival": {Threads: []Spec{{Name: "a", Arrival: -1, Program: []Burst{{CPU: 1}}}}},
	}
	for name, w := range cases {
		assert.Error(t, w.Validate(), name)
	}

	ok := Workload{Threads: []Spec{CPUBound("a", 500, 1)}}
	assert.NoError(t, ok.Validate(), "priority is not checked here")
}

func TestLoadWorkload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
threads:
  - name: editor
    priority: 110
    burst: 20
    arrival: 3
    repeat: 2
    program:
      - cpu: 15
        io: 300
`), 0o644))

	w, err := LoadWorkload(path)
	require.NoError(t, err)
	require.Len(t, w.Threads, 1)
	s := w.Threads[0]
	assert.Equal(t, "editor", s.Name)
	assert.Equal(t, 110, s.Priority)
	assert.Equal(t, 20.0, s.Burst)
	assert.Equal(t, int64(3), s.Arrival)
	assert.Equal(t, []Burst{{CPU: 15, IO: 300}}, s.Program)
	assert.Equal(t, 2, s.Repeat)

	_, err = LoadWorkload(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
