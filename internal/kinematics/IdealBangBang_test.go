package kinematics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdealBangBangClosedForms(t *testing.T) {
	p, err := NewIdealBangBang(10, 5)
	require.NoError(t, err)

	tests := []struct {
		t       float64
		a, v, s float64
	}{
		{t: -1, a: 0, v: 0, s: 0},
		{t: 0, a: 10, v: 0, s: 0},
		{t: 1, a: 10, v: 10, s: 5},
		{t: 2.5, a: 10, v: 25, s: 31.25},
		{t: 3.5, a: -10, v: 15, s: 51.25},
		{t: 5, a: -10, v: 0, s: 62.5},
		{t: 6, a: 0, v: 0, s: 62.5},
	}
	for _, tt := range tests {
		assert.InDeltaf(t, tt.a, p.Acceleration(tt.t), 1e-12, "a(%g)", tt.t)
		assert.InDeltaf(t, tt.v, p.Velocity(tt.t), 1e-12, "v(%g)", tt.t)
		assert.InDeltaf(t, tt.s, p.Position(tt.t), 1e-12, "s(%g)", tt.t)
	}

	assert.Equal(t, 25.0, p.PeakVelocity())
	assert.Equal(t, 62.5, p.FinalPosition())
}

func TestIdealBangBangIsContinuousAtMidpoint(t *testing.T) {
	p, err := NewIdealBangBang(0.25, 12)
	require.NoError(t, err)

	const h = 1e-9
	assert.InDelta(t, p.Velocity(6-h), p.Velocity(6+h), 1e-6)
	assert.InDelta(t, p.Position(6-h), p.Position(6+h), 1e-6)
}

func TestIdealDuration(t *testing.T) {
	p, err := NewIdealBangBang(0.25, IdealDuration(0.25, 10))
	require.NoError(t, err)
	assert.InDelta(t, 10, p.FinalPosition(), 1e-12)
	assert.InDelta(t, 5, IdealDuration(10, 62.5), 1e-12)
}

func TestNewIdealBangBangRejectsInvalid(t *testing.T) {
	for _, params := range [][2]float64{{0, 5}, {10, 0}, {-1, 5}} {
		_, err := NewIdealBangBang(params[0], params[1])
		var perr *ProfileError
		assert.Truef(t, errors.As(err, &perr), "params %v: got %v", params, err)
	}
}
