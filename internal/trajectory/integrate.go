package trajectory

import (
	"fmt"
	"math"

	"github.com/cxd309/motion-engine/internal/kinematics"
)

const (
	// gridSlack absorbs representation error in duration/dt so that, e.g.,
	// 5.0/0.01 yields 500 steps rather than 501.
	gridSlack = 1e-9

	// MaxSamples caps the grid size of a single trajectory.
	MaxSamples = 1 << 25
)

// ParameterError reports an integrator parameter outside its valid range.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Name, e.Value, e.Reason)
}

func checkPositive(name string, v float64) error {
	if v > 0 && !math.IsInf(v, 1) {
		return nil
	}
	return &ParameterError{Name: name, Value: v, Reason: "must be positive and finite"}
}

// Integrate samples p at t_i = i·dt for i = 0..N, N = ceil(duration/dt), and
// integrates with trapezoidal accumulation:
//
//	v_i = v_{i-1} + ½(a_i + a_{i-1})·dt
//	s_i = s_{i-1} + ½(v_i + v_{i-1})·dt
//
// starting from v_0 = s_0 = 0. Acceleration is evaluated exactly at each
// grid point. The last sample lies at or just past duration.
func Integrate(p kinematics.Profile, dt, duration float64) (Trajectory, error) {
	if p == nil {
		return Trajectory{}, &ParameterError{Name: "profile", Reason: "must not be nil"}
	}
	if err := checkPositive("dt", dt); err != nil {
		return Trajectory{}, err
	}
	if err := checkPositive("duration", duration); err != nil {
		return Trajectory{}, err
	}

	steps := math.Ceil(duration/dt - gridSlack)
	if steps >= MaxSamples {
		return Trajectory{}, &ParameterError{
			Name:   "dt",
			Value:  dt,
			Reason: fmt.Sprintf("grid of %.0f steps over %gs exceeds %d samples", steps, duration, MaxSamples),
		}
	}
	n := max(int(steps), 1) + 1

	tr := Trajectory{
		Times:         make([]float64, n),
		Positions:     make([]float64, n),
		Velocities:    make([]float64, n),
		Accelerations: make([]float64, n),
	}
	for i := range n {
		t := float64(i) * dt
		tr.Times[i] = t
		tr.Accelerations[i] = p.Acceleration(t)
	}
	for i := 1; i < n; i++ {
		tr.Velocities[i] = tr.Velocities[i-1] + 0.5*(tr.Accelerations[i]+tr.Accelerations[i-1])*dt
		tr.Positions[i] = tr.Positions[i-1] + 0.5*(tr.Velocities[i]+tr.Velocities[i-1])*dt
	}
	return tr, nil
}

// Simulate integrates p over its own duration.
func Simulate(p kinematics.Profile, dt float64) (Trajectory, error) {
	if p == nil {
		return Trajectory{}, &ParameterError{Name: "profile", Reason: "must not be nil"}
	}
	return Integrate(p, dt, p.Duration())
}
