// Package config loads engine settings from defaults, an optional YAML file
// and MOTION_* environment variables, in increasing order of precedence.
package config

import (
	"log/slog"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/cxd309/motion-engine/internal/search"
)

// EnvPrefix is prepended to every environment override, e.g. MOTION_TIME_STEP
// or MOTION_BRACKET_POLICY.
const EnvPrefix = "MOTION"

// Bracket policy names.
const (
	BracketAnalytic = "analytic"
	BracketScaled   = "scaled"
)

// BracketConfig selects the initial interval of the duration search.
// LowFactor and HighFactor only apply to the scaled policy.
type BracketConfig struct {
	Policy     string  `mapstructure:"policy"`
	LowFactor  float64 `mapstructure:"low_factor"`
	HighFactor float64 `mapstructure:"high_factor"`
}

// Config holds the defaults applied to runs that leave a setting unspecified.
type Config struct {
	// TimeStep is the integration step in seconds.
	TimeStep float64 `mapstructure:"time_step"`
	// Tolerance is the accepted |final position - distance| in metres.
	Tolerance     float64       `mapstructure:"tolerance"`
	MaxIterations int           `mapstructure:"max_iterations"`
	Bracket       BracketConfig `mapstructure:"bracket"`
	// Concurrency bounds the number of runs evaluated in parallel.
	Concurrency int    `mapstructure:"concurrency"`
	LogLevel    string `mapstructure:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TimeStep:      search.DefaultTimeStep,
		Tolerance:     0.001,
		MaxIterations: search.DefaultMaxIterations,
		Bracket: BracketConfig{
			Policy:     BracketAnalytic,
			LowFactor:  0.5,
			HighFactor: 2.0,
		},
		Concurrency: 4,
		LogLevel:    "info",
	}
}

// Load reads the configuration. An empty path skips the file layer.
func Load(path string) (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("time_step", d.TimeStep)
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("bracket.policy", d.Bracket.Policy)
	v.SetDefault("bracket.low_factor", d.Bracket.LowFactor)
	v.SetDefault("bracket.high_factor", d.Bracket.HighFactor)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c Config) Validate() error {
	if !(c.TimeStep > 0) || math.IsInf(c.TimeStep, 1) {
		return errors.Errorf("time_step must be > 0 and finite, got %g", c.TimeStep)
	}
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 1) {
		return errors.Errorf("tolerance must be > 0 and finite, got %g", c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return errors.Errorf("max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.Concurrency < 1 {
		return errors.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	switch c.Bracket.Policy {
	case BracketAnalytic:
	case BracketScaled:
		if !(c.Bracket.LowFactor > 0) || !(c.Bracket.HighFactor > c.Bracket.LowFactor) {
			return errors.Errorf("scaled bracket needs 0 < low_factor < high_factor, got %g and %g",
				c.Bracket.LowFactor, c.Bracket.HighFactor)
		}
	default:
		return errors.Errorf("unknown bracket policy %q", c.Bracket.Policy)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// SearchBracket builds the duration search policy named by Bracket.Policy.
func (c Config) SearchBracket() search.Bracket {
	if c.Bracket.Policy == BracketScaled {
		return search.ScaledBracket{LowFactor: c.Bracket.LowFactor, HighFactor: c.Bracket.HighFactor}
	}
	return search.AnalyticBracket{}
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return level, nil
}
