// Package engine evaluates batches of motion profile runs.
//
// Each run either fixes the total time of its profile or names a target
// distance, in which case the duration is solved first by bisection against
// the simulated final position. The ideal model seeds its search from the
// closed form. The resulting profile is then integrated on a fixed grid and
// summarised. Runs are independent and are
// evaluated concurrently, bounded by the configured concurrency.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/search"
	"github.com/cxd309/motion-engine/internal/trajectory"
)

// Input formats accepted by DecodeInput.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Engine runs simulation requests with a fixed configuration.
type Engine struct {
	cfg config.Config
	log *slog.Logger
}

// New returns an Engine. A nil logger discards all output.
func New(cfg config.Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{cfg: cfg, log: logger}, nil
}

// Run evaluates every run of input and returns the results in input order.
// The first failing run cancels the rest and its error is returned.
func (e *Engine) Run(ctx context.Context, input SimulationInput) (SimulationLog, error) {
	meta := input.Meta
	if meta.SimulationID == "" {
		meta.SimulationID = uuid.NewString()
	}
	switch {
	case meta.TimeStep == 0:
		meta.TimeStep = e.cfg.TimeStep
	case !(meta.TimeStep > 0) || math.IsInf(meta.TimeStep, 1):
		return SimulationLog{}, errors.Errorf("time_step must be positive and finite, got %g", meta.TimeStep)
	}
	if len(input.Runs) == 0 {
		return SimulationLog{}, errors.New("no runs in input")
	}

	seen := make(map[string]bool, len(input.Runs))
	for i := range input.Runs {
		id := input.Runs[i].RunID
		if id == "" {
			return SimulationLog{}, errors.Errorf("run %d has no run_id", i)
		}
		if seen[id] {
			return SimulationLog{}, errors.Errorf("duplicate run_id %q", id)
		}
		seen[id] = true
	}

	log := e.log.With("simulation_id", meta.SimulationID)
	log.Info("simulation started", "runs", len(input.Runs), "time_step", meta.TimeStep)

	results := make([]RunResult, len(input.Runs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, run := range input.Runs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.runOne(run, meta, log.With("run_id", run.RunID))
			if err != nil {
				return errors.Wrapf(err, "run %q", run.RunID)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SimulationLog{}, err
	}

	log.Info("simulation finished")
	return SimulationLog{Meta: meta, Results: results}, nil
}

// runOne resolves the duration of run, integrates it and summarises the trajectory.
func (e *Engine) runOne(run RunSpec, meta SimulationMeta, log *slog.Logger) (RunResult, error) {
	spec := run.Profile
	log.Debug("run started", "model", spec.Model, "max_accel", spec.MaxAccel)

	if err := spec.checkFields(); err != nil {
		return RunResult{}, err
	}

	var stats *SolveStats
	switch {
	case run.Target != nil && spec.TotalTime != 0:
		return RunResult{}, errors.New("total_time and target are mutually exclusive")
	case run.Target != nil:
		totalTime, s, err := e.solve(spec, *run.Target, meta.TimeStep, log)
		if err != nil {
			return RunResult{}, err
		}
		spec.TotalTime = totalTime
		stats = s
	case spec.TotalTime == 0:
		return RunResult{}, errors.New("profile needs total_time or a target")
	}

	profile, err := spec.Build(spec.TotalTime)
	if err != nil {
		return RunResult{}, err
	}
	tr, err := trajectory.Simulate(profile, meta.TimeStep)
	if err != nil {
		return RunResult{}, err
	}

	final := tr.Final()
	if stats != nil {
		stats.Residual = final.S - stats.Distance
	}

	res := RunResult{
		RunID:   run.RunID,
		Profile: spec,
		Solve:   stats,
		Metrics: Metrics{
			FinalPosition:      final.S,
			FinalVelocity:      final.V,
			PeakVelocity:       tr.PeakVelocity(),
			MaxAbsAcceleration: tr.MaxAbsAcceleration(),
			MaxAbsJerk:         maxAbsJerk(profile, tr),
			PathLength:         tr.PathLength(),
		},
	}

	ideal, err := kinematics.NewIdealBangBang(spec.MaxAccel, spec.TotalTime)
	if err != nil {
		return RunResult{}, err
	}
	res.Ideal = IdealComparison{
		PeakVelocity:           ideal.PeakVelocity(),
		FinalPosition:          ideal.FinalPosition(),
		PeakVelocityDeviation:  percentDeviation(res.Metrics.PeakVelocity, ideal.PeakVelocity()),
		FinalPositionDeviation: percentDeviation(final.S, ideal.FinalPosition()),
	}

	if !meta.OmitSamples {
		res.Samples = make([]SampleLog, tr.Len())
		for i, s := range tr.Samples() {
			res.Samples[i] = SampleLog{
				T:            s.T,
				Acceleration: s.A,
				Velocity:     s.V,
				Position:     s.S,
				Phase:        kinematics.ClassifyPhase(s.A, s.V, spec.MaxAccel),
			}
		}
	}

	log.Debug("run finished", "total_time", spec.TotalTime, "final_position", final.S, "samples", tr.Len())
	return res, nil
}

// solve returns the total time that reaches target.Distance.
func (e *Engine) solve(spec ProfileSpec, target TargetSpec, dt float64, log *slog.Logger) (float64, *SolveStats, error) {
	stats := &SolveStats{Distance: target.Distance, Tolerance: target.Tolerance}
	if stats.Tolerance == 0 {
		stats.Tolerance = e.cfg.Tolerance
	}
	maxIterations := target.MaxIterations
	if maxIterations == 0 {
		maxIterations = e.cfg.MaxIterations
	}

	solver := search.Solver{TimeStep: dt, Bracket: e.cfg.SearchBracket(), Logger: log}
	var (
		res search.Result
		err error
	)
	if spec.Model == kinematics.IdealModelName {
		res, err = solver.FindIdealDuration(spec.MaxAccel, target.Distance, stats.Tolerance, maxIterations)
	} else {
		res, err = solver.FindDuration(spec.MaxAccel, target.Distance, spec.TransitionTime, stats.Tolerance, maxIterations)
	}
	if err != nil {
		return 0, nil, errors.Wrap(err, "solving duration")
	}
	stats.Iterations = res.Iterations
	return res.TotalTime, stats, nil
}

// jerker is implemented by profiles with a continuous derivative of acceleration.
type jerker interface {
	Jerk(t float64) float64
}

func maxAbsJerk(p kinematics.Profile, tr trajectory.Trajectory) *float64 {
	j, ok := p.(jerker)
	if !ok {
		return nil
	}
	var peak float64
	for _, t := range tr.Times {
		peak = math.Max(peak, math.Abs(j.Jerk(t)))
	}
	return &peak
}

func percentDeviation(got, ideal float64) float64 {
	if ideal == 0 {
		return 0
	}
	return (got - ideal) / ideal * 100
}

// DecodeInput parses a SimulationInput in the given format ("json" or "yaml").
// YAML is converted to JSON first so both formats share the same field
// names and model discriminator.
func DecodeInput(data []byte, format string) (SimulationInput, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
	case FormatYAML, "yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return SimulationInput{}, errors.Wrap(err, "invalid input YAML")
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return SimulationInput{}, errors.Wrap(err, "converting YAML input")
		}
		data = converted
	default:
		return SimulationInput{}, errors.Errorf("unknown input format %q", format)
	}

	var input SimulationInput
	if err := json.Unmarshal(data, &input); err != nil {
		return SimulationInput{}, errors.Wrap(err, "invalid input JSON")
	}
	return input, nil
}

// RunJSON decodes a JSON SimulationInput, runs it and returns the
// JSON-encoded SimulationLog.
func (e *Engine) RunJSON(ctx context.Context, jsonInput string) (string, error) {
	input, err := DecodeInput([]byte(jsonInput), FormatJSON)
	if err != nil {
		return "", err
	}
	simLog, err := e.Run(ctx, input)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(simLog)
	if err != nil {
		return "", errors.Wrap(err, "marshaling output")
	}
	return string(out), nil
}

// RunJSON is the entry point shared by the CLI and WASM targets. It runs
// jsonInput with the default configuration.
func RunJSON(jsonInput string) (string, error) {
	e, err := New(config.Default(), nil)
	if err != nil {
		return "", err
	}
	return e.RunJSON(context.Background(), jsonInput)
}
