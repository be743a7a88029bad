package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := writeFile(t, `
quantum_ticks: 50
aging_step: 0
burst_alpha: 3
fail_fast: true
max_ticks: -5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(50), cfg.QuantumTicks)
	assert.Equal(t, 10, cfg.AgingStep)
	assert.Equal(t, 0.5, cfg.BurstAlpha)
	assert.True(t, cfg.FailFast)
	assert.Zero(t, cfg.MaxTicks)
	assert.Equal(t, int64(1500), cfg.AgingThresholdTicks)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeFile(t, "quantum_ticks: [1, 2"))
	require.Error(t, err)
}

func TestTickClockAdvance(t *testing.T) {
	c := NewTickClock(1)
	assert.Zero(t, c.Now())
	assert.Equal(t, int64(5), c.Advance(5))
	assert.Equal(t, int64(5), c.Now())
}
