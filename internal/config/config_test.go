package config

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/motion-engine/internal/search"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, search.AnalyticBracket{}, cfg.SearchBracket())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
time_step: 0.01
tolerance: 0.0001
bracket:
  policy: scaled
  low_factor: 0.7
  high_factor: 0.9
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.TimeStep)
	assert.Equal(t, 0.0001, cfg.Tolerance)
	assert.Equal(t, search.DefaultMaxIterations, cfg.MaxIterations, "unset keys keep their default")
	assert.Equal(t, search.ScaledBracket{LowFactor: 0.7, HighFactor: 0.9}, cfg.SearchBracket())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "time_step: 0.01\nconcurrency: 2\n")
	t.Setenv("MOTION_TIME_STEP", "0.005")
	t.Setenv("MOTION_BRACKET_POLICY", "scaled")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.005, cfg.TimeStep)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, BracketScaled, cfg.Bracket.Policy)
}

func TestLoadRejectsInfiniteValues(t *testing.T) {
	path := writeConfig(t, "tolerance: .inf\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "tolerance must be > 0 and finite")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero time step", mutate: func(c *Config) { c.TimeStep = 0 }, wantErr: "time_step"},
		{name: "negative tolerance", mutate: func(c *Config) { c.Tolerance = -1 }, wantErr: "tolerance"},
		{name: "infinite time step", mutate: func(c *Config) { c.TimeStep = math.Inf(1) }, wantErr: "time_step must be > 0 and finite, got +Inf"},
		{name: "infinite tolerance", mutate: func(c *Config) { c.Tolerance = math.Inf(1) }, wantErr: "tolerance must be > 0 and finite, got +Inf"},
		{name: "no iterations", mutate: func(c *Config) { c.MaxIterations = 0 }, wantErr: "max_iterations"},
		{name: "no workers", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "unknown policy", mutate: func(c *Config) { c.Bracket.Policy = "golden" }, wantErr: "unknown bracket policy"},
		{
			name: "inverted scaled factors",
			mutate: func(c *Config) {
				c.Bracket = BracketConfig{Policy: BracketScaled, LowFactor: 2, HighFactor: 0.5}
			},
			wantErr: "low_factor < high_factor",
		},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
