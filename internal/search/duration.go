package search

import (
	"log/slog"
	"math"

	"github.com/pkg/errors"

	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/trajectory"
)

const (
	// DefaultTimeStep is the integration step used for each candidate, small
	// enough to resolve millisecond transitions.
	DefaultTimeStep = 0.001
	// DefaultMaxIterations caps the number of bisection midpoints.
	DefaultMaxIterations = 100
)

// Result describes a converged duration search.
type Result struct {
	TotalTime     float64
	FinalPosition float64
	Error         float64 // FinalPosition - target distance
	Iterations    int
}

// Solver finds durations for SmoothBangBang and IdealBangBang profiles. The zero value uses
// DefaultTimeStep, AnalyticBracket and discards logs.
type Solver struct {
	TimeStep float64
	Bracket  Bracket
	Logger   *slog.Logger
}

// DefaultSolver returns a Solver with explicit defaults.
func DefaultSolver() Solver {
	return Solver{TimeStep: DefaultTimeStep, Bracket: AnalyticBracket{}}
}

const (
	idealLowFactor  = 0.9
	idealHighFactor = 1.1
)

// FindDuration returns the total time T such that simulating
// SmoothBangBang(maxAccel, T, transitionTime) ends within tolerance of
// distance. Every candidate is simulated with trajectory.Simulate at the
// solver's time step, and the result is validated against that simulation.
func (s Solver) FindDuration(maxAccel, distance, transitionTime, tolerance float64, maxIterations int) (Result, error) {
	if err := checkDistance(distance); err != nil {
		return Result{}, err
	}
	// Validates maxAccel and transitionTime before any simulation runs.
	if _, err := kinematics.NewSmoothBangBang(maxAccel, kinematics.MinTotalTime(transitionTime), transitionTime); err != nil {
		return Result{}, err
	}

	bracket := s.Bracket
	if bracket == nil {
		bracket = AnalyticBracket{}
	}
	low, high := bracket.Bounds(maxAccel, distance, transitionTime)

	build := func(totalTime float64) (kinematics.Profile, error) {
		return kinematics.NewSmoothBangBang(maxAccel, totalTime, transitionTime)
	}
	return s.search(build, distance, low, high, tolerance, maxIterations)
}

// FindIdealDuration is FindDuration for IdealBangBang. The closed form
// IdealDuration misses the target on a discrete grid, so the search runs
// around it, over [0.9·T*, 1.1·T* + dt], against the simulated final position.
func (s Solver) FindIdealDuration(maxAccel, distance, tolerance float64, maxIterations int) (Result, error) {
	if err := checkDistance(distance); err != nil {
		return Result{}, err
	}
	ideal := kinematics.IdealDuration(maxAccel, distance)
	if _, err := kinematics.NewIdealBangBang(maxAccel, ideal); err != nil {
		return Result{}, err
	}

	low, high := idealLowFactor*ideal, idealHighFactor*ideal+s.timeStep()
	build := func(totalTime float64) (kinematics.Profile, error) {
		return kinematics.NewIdealBangBang(maxAccel, totalTime)
	}
	return s.search(build, distance, low, high, tolerance, maxIterations)
}

func checkDistance(distance float64) error {
	if !(distance > 0) || math.IsInf(distance, 1) {
		return errors.Errorf("target distance must be positive and finite, got %g", distance)
	}
	return nil
}

func (s Solver) timeStep() float64 {
	if s.TimeStep == 0 {
		return DefaultTimeStep
	}
	return s.TimeStep
}

// search bisects over the total time of the profiles returned by build.
func (s Solver) search(
	build func(totalTime float64) (kinematics.Profile, error),
	distance, low, high, tolerance float64,
	maxIterations int,
) (Result, error) {
	dt := s.timeStep()
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	finalPosition := func(totalTime float64) (float64, error) {
		p, err := build(totalTime)
		if err != nil {
			return 0, err
		}
		tr, err := trajectory.Simulate(p, dt)
		if err != nil {
			return 0, err
		}
		return tr.Final().S, nil
	}

	logger.Debug("searching duration", "distance", distance, "low", low, "high", high, "dt", dt)

	st, err := Bisect(finalPosition, distance, low, high, tolerance, maxIterations, func(st State) {
		logger.Debug("bisection step",
			"iteration", st.Iteration,
			"candidate", st.Current,
			"error", st.Error,
			"low", st.Low,
			"high", st.High,
		)
	})
	if err != nil {
		return Result{}, err
	}

	logger.Debug("duration found", "total_time", st.Current, "error", st.Error, "iterations", st.Iteration)
	return Result{
		TotalTime:     st.Current,
		FinalPosition: st.Value,
		Error:         st.Error,
		Iterations:    st.Iteration,
	}, nil
}

// FindDuration runs DefaultSolver().FindDuration and returns only the duration.
func FindDuration(maxAccel, distance, transitionTime, tolerance float64, maxIterations int) (float64, error) {
	res, err := DefaultSolver().FindDuration(maxAccel, distance, transitionTime, tolerance, maxIterations)
	if err != nil {
		return 0, err
	}
	return res.TotalTime, nil
}
