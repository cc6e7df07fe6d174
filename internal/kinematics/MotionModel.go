// Package kinematics defines the Profile contract for acceleration waveforms,
// along with built-in implementations.
//
// A Profile only maps time to acceleration. Velocity and position are obtained
// by integrating it (see package trajectory), so adding a new waveform requires
// only implementing Profile - the integrator and the duration search never
// need to change.
package kinematics

// Profile is the contract every acceleration waveform must satisfy.
// All time values are in seconds and accelerations in m/s².
type Profile interface {
	// Acceleration returns the acceleration at time t. It is defined for any
	// real t; callers normally restrict t to [0, Duration()].
	Acceleration(t float64) float64

	// Duration returns the total time of the motion.
	Duration() float64

	// MaxAcceleration returns the bound on |Acceleration(t)|.
	MaxAcceleration() float64
}
