// Package search finds the total duration of a smooth bang-bang motion that
// covers a target distance, by bounded bisection over the duration.
package search

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrNotBracketed is the reason attached to a ConvergenceError when the
// initial interval does not straddle the target.
var ErrNotBracketed = errors.New("search interval does not bracket the target")

// Func evaluates the searched quantity at x. It must be non-decreasing in x
// over the searched interval.
type Func func(x float64) (float64, error)

// State is the bisection state after an evaluation.
type State struct {
	Low, High float64
	Current   float64 // last evaluated point
	Value     float64 // f(Current)
	Error     float64 // Value - Target
	Target    float64
	Tolerance float64
	Iteration int // midpoints evaluated so far
}

// ConvergenceError reports a search that stopped without meeting its
// tolerance. It is returned with a zero State.
type ConvergenceError struct {
	Iterations int
	LastError  float64
	Candidate  float64
	Reason     error
}

func (e *ConvergenceError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("search did not converge: %v (error %g at %g)", e.Reason, e.LastError, e.Candidate)
	}
	return fmt.Sprintf("search did not converge after %d iterations (last error %g at %g)",
		e.Iterations, e.LastError, e.Candidate)
}

func (e *ConvergenceError) Unwrap() error { return e.Reason }

// Bisect looks for x in [low, high] with |f(x) - target| < tolerance.
//
// Both endpoints are evaluated first; either may be returned directly, and if
// they do not straddle the target the search fails with ErrNotBracketed.
// Each iteration then evaluates the midpoint and moves high down on overshoot
// or low up on undershoot. An exact hit stops immediately. After
// maxIterations midpoints the search fails with *ConvergenceError. Every
// error is returned with a zero State.
//
// observe, if non-nil, is called after every midpoint evaluation.
func Bisect(f Func, target, low, high, tolerance float64, maxIterations int, observe func(State)) (State, error) {
	switch {
	case !(tolerance > 0) || math.IsInf(tolerance, 1):
		return State{}, errors.Errorf("tolerance must be positive and finite, got %g", tolerance)
	case maxIterations < 1:
		return State{}, errors.Errorf("max iterations must be at least 1, got %d", maxIterations)
	case !(low < high):
		return State{}, errors.Errorf("search interval [%g, %g] is empty", low, high)
	}

	st := State{Low: low, High: high, Target: target, Tolerance: tolerance}
	eval := func(x float64) error {
		v, err := f(x)
		if err != nil {
			return errors.Wrapf(err, "evaluating at %g", x)
		}
		if math.IsNaN(v) {
			return errors.Errorf("evaluating at %g: result is NaN", x)
		}
		st.Current, st.Value, st.Error = x, v, v-target
		return nil
	}

	if err := eval(low); err != nil {
		return State{}, err
	}
	if math.Abs(st.Error) < tolerance {
		return st, nil
	}
	if st.Error > 0 {
		return State{}, &ConvergenceError{LastError: st.Error, Candidate: low, Reason: ErrNotBracketed}
	}
	if err := eval(high); err != nil {
		return State{}, err
	}
	if math.Abs(st.Error) < tolerance {
		return st, nil
	}
	if st.Error < 0 {
		return State{}, &ConvergenceError{LastError: st.Error, Candidate: high, Reason: ErrNotBracketed}
	}

	for st.Iteration < maxIterations {
		st.Iteration++
		if err := eval(st.Low + (st.High-st.Low)/2); err != nil {
			return State{}, err
		}
		if observe != nil {
			observe(st)
		}
		if math.Abs(st.Error) < tolerance {
			return st, nil
		}
		if st.Error > 0 {
			st.High = st.Current
		} else {
			st.Low = st.Current
		}
	}
	return State{}, &ConvergenceError{Iterations: st.Iteration, LastError: st.Error, Candidate: st.Current}
}
