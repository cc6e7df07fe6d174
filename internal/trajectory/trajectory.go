// Package trajectory samples a kinematics.Profile on a fixed time grid and
// integrates it to velocity and position.
package trajectory

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Sample is the state of the motion at a single grid point.
type Sample struct {
	T float64 // seconds
	A float64 // m/s²
	V float64 // m/s
	S float64 // metres
}

// Trajectory holds four equal-length sequences ordered by increasing time.
// Each Integrate call returns a fresh value owned by the caller.
type Trajectory struct {
	Times         []float64
	Positions     []float64
	Velocities    []float64
	Accelerations []float64
}

// Len returns the number of samples.
func (tr Trajectory) Len() int { return len(tr.Times) }

// At returns the i-th sample.
func (tr Trajectory) At(i int) Sample {
	return Sample{T: tr.Times[i], A: tr.Accelerations[i], V: tr.Velocities[i], S: tr.Positions[i]}
}

// Final returns the last sample, at or just past the requested duration.
func (tr Trajectory) Final() Sample { return tr.At(tr.Len() - 1) }

// Samples returns the trajectory as a slice of tuples.
func (tr Trajectory) Samples() []Sample {
	out := make([]Sample, tr.Len())
	for i := range out {
		out[i] = tr.At(i)
	}
	return out
}

// PeakVelocity returns the largest sampled velocity.
func (tr Trajectory) PeakVelocity() float64 {
	if tr.Len() == 0 {
		return 0
	}
	return floats.Max(tr.Velocities)
}

// MaxAbsAcceleration returns the largest sampled |a|.
func (tr Trajectory) MaxAbsAcceleration() float64 {
	if tr.Len() == 0 {
		return 0
	}
	return math.Max(floats.Max(tr.Accelerations), -floats.Min(tr.Accelerations))
}

// PathLength returns ∫|v| dt over the grid. It equals the final position as
// long as the motion never reverses.
func (tr Trajectory) PathLength() float64 {
	if tr.Len() < 2 {
		return 0
	}
	speeds := make([]float64, tr.Len())
	for i, v := range tr.Velocities {
		speeds[i] = math.Abs(v)
	}
	return integrate.Trapezoidal(tr.Times, speeds)
}
