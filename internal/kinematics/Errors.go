package kinematics

import (
	"fmt"
	"math"
)

// ProfileError reports profile parameters that break a construction invariant.
// The offending values are kept so callers can adjust and retry.
type ProfileError struct {
	MaxAccel       float64
	TotalTime      float64
	TransitionTime float64
	Reason         string
}

func (e *ProfileError) Error() string {
	return "invalid profile: " + e.Reason
}

// positive reports whether v is a finite value greater than zero.
// NaN fails every comparison and is rejected here too.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func checkPositive(name string, v float64) string {
	if positive(v) {
		return ""
	}
	return fmt.Sprintf("%s must be positive and finite, got %g", name, v)
}
