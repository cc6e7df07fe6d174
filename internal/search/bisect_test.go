package search

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(x float64) (float64, error) { return x, nil }

func TestBisectFindsRoot(t *testing.T) {
	square := func(x float64) (float64, error) { return x * x, nil }

	var seen []State
	st, err := Bisect(square, 2, 0, 2, 1e-9, 100, func(s State) { seen = append(seen, s) })
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, st.Current, 1e-9)
	assert.Less(t, math.Abs(st.Error), 1e-9)
	require.Len(t, seen, st.Iteration)

	for i := 1; i < len(seen); i++ {
		assert.Equal(t, i+1, seen[i].Iteration)
		assert.Less(t, seen[i].High-seen[i].Low, seen[i-1].High-seen[i-1].Low)
	}
}

func TestBisectStopsOnExactHit(t *testing.T) {
	st, err := Bisect(identity, 0.5, 0, 1, 1e-12, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Iteration)
	assert.Equal(t, 0.5, st.Current)
	assert.Zero(t, st.Error)
}

func TestBisectReturnsEndpointWithinTolerance(t *testing.T) {
	st, err := Bisect(identity, 1e-6, 0, 1, 1e-3, 100, nil)
	require.NoError(t, err)
	assert.Zero(t, st.Iteration)
	assert.Zero(t, st.Current)
}

func TestBisectDetectsMissingBracket(t *testing.T) {
	for _, target := range []float64{-1, 5} {
		st, err := Bisect(identity, target, 0, 1, 1e-6, 100, nil)
		assert.Equal(t, State{}, st)
		var cerr *ConvergenceError
		require.True(t, errors.As(err, &cerr), "target %g: got %v", target, err)
		assert.ErrorIs(t, err, ErrNotBracketed)
		assert.Zero(t, cerr.Iterations)
	}
}

func TestBisectReportsIterationCap(t *testing.T) {
	st, err := Bisect(identity, 1.0/3, 0, 1, 1e-15, 5, nil)
	assert.Equal(t, State{}, st, "no partial result accompanies the error")

	var cerr *ConvergenceError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, 5, cerr.Iterations)
	assert.InDelta(t, 0.34375, cerr.Candidate, 1e-15)
	assert.InDelta(t, 0.34375-1.0/3, cerr.LastError, 1e-15)
	assert.NotErrorIs(t, err, ErrNotBracketed)
	assert.Contains(t, err.Error(), "after 5 iterations")
}

func TestBisectRejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name          string
		low, high     float64
		tolerance     float64
		maxIterations int
	}{
		{name: "zero tolerance", low: 0, high: 1, tolerance: 0, maxIterations: 10},
		{name: "infinite tolerance", low: 0, high: 1, tolerance: math.Inf(1), maxIterations: 10},
		{name: "NaN tolerance", low: 0, high: 1, tolerance: math.NaN(), maxIterations: 10},
		{name: "no iterations", low: 0, high: 1, tolerance: 1e-3, maxIterations: 0},
		{name: "empty interval", low: 1, high: 1, tolerance: 1e-3, maxIterations: 10},
		{name: "reversed interval", low: 2, high: 1, tolerance: 1e-3, maxIterations: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Bisect(identity, 0.5, tt.low, tt.high, tt.tolerance, tt.maxIterations, nil)
			require.Error(t, err)
			assert.Equal(t, State{}, st)
			var cerr *ConvergenceError
			assert.False(t, errors.As(err, &cerr))
		})
	}
}

func TestBisectPropagatesEvaluationErrors(t *testing.T) {
	boom := errors.New("boom")
	f := func(x float64) (float64, error) {
		if x > 0.2 && x < 0.8 {
			return 0, boom
		}
		return x, nil
	}
	st, err := Bisect(f, 0.3, 0, 1, 1e-6, 10, nil)
	assert.Equal(t, State{}, st)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "evaluating at 0.5")
}
