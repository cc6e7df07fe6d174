package kinematics

import "math"

// Phase describes the motion at a single sample.
type Phase string

const (
	PhaseStationary   Phase = "stationary"
	PhaseAccelerating Phase = "accelerating"
	PhaseCruising     Phase = "cruising"
	PhaseDecelerating Phase = "decelerating"
)

const (
	// phaseThreshold is the fraction of the acceleration bound below which
	// acceleration counts as zero.
	phaseThreshold = 0.01
	// restVelocity is the speed (m/s) below which an unaccelerated sample is at rest.
	restVelocity = 1e-6
)

// ClassifyPhase labels a sample from the sign of its acceleration, falling
// back to the velocity when acceleration is negligible against maxAccel.
func ClassifyPhase(a, v, maxAccel float64) Phase {
	limit := phaseThreshold * math.Abs(maxAccel)
	switch {
	case a > limit:
		return PhaseAccelerating
	case a < -limit:
		return PhaseDecelerating
	case math.Abs(v) > restVelocity:
		return PhaseCruising
	default:
		return PhaseStationary
	}
}
