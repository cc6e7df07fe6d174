package search

import (
	"math"

	"github.com/cxd309/motion-engine/internal/kinematics"
)

// Bracket chooses the initial duration interval for a distance search.
type Bracket interface {
	Bounds(maxAccel, distance, transitionTime float64) (low, high float64)
}

const (
	analyticLowFactor  = 0.9
	analyticHighFactor = 1.25
)

// AnalyticBracket derives the interval from the ideal duration T* = 2·√(d/A).
//
// Smoothing never adds distance: the difference from the ideal profile
// integrates to zero and is negative before T/2 and positive after, so it
// only loses distance under the (T-τ) weighting of s(T). Hence s(T*) ≤ d and
// low = 0.9·T* undershoots. Each tanh step is symmetric about its centre, so
// s(T) ≈ A·(T/2-ε)² and the root sits near 2·(√(d/A)+ε), well inside
// high = 1.25·(T* + 4ε). low never drops below 4ε, the shortest valid motion.
type AnalyticBracket struct{}

func (AnalyticBracket) Bounds(maxAccel, distance, transitionTime float64) (float64, float64) {
	ideal := kinematics.IdealDuration(maxAccel, distance)
	shortest := kinematics.MinTotalTime(transitionTime)
	return math.Max(analyticLowFactor*ideal, shortest), analyticHighFactor * (ideal + shortest)
}

// ScaledBracket scales base = 2·√(2d/A) by fixed factors. The true duration
// is close to base/√2, so LowFactor must stay below ~0.7 for the interval to
// bracket it.
type ScaledBracket struct {
	LowFactor  float64
	HighFactor float64
}

func (b ScaledBracket) Bounds(maxAccel, distance, transitionTime float64) (float64, float64) {
	base := 2 * math.Sqrt(2*distance/maxAccel)
	return math.Max(b.LowFactor*base, kinematics.MinTotalTime(transitionTime)), b.HighFactor * base
}
