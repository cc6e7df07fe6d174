package kinematics

import (
	"fmt"
	"math"
)

// SmoothModelName is the JSON discriminator string for the SmoothBangBang model.
const SmoothModelName = "smooth"

// steepness is k·ε: each transition is a tanh step with k = steepness/ε, which
// puts the step within 0.04% of its plateau one transition time from its centre.
const steepness = 4.0

// SmoothBangBang approximates the ideal bang-bang profile (+A up to T/2, -A
// after) with three tanh steps centred at ε, T/2 and T-ε:
//
//	a(t) = A·[½(1+tanh(k(t-ε))) - (1+tanh(k(t-T/2))) + ½(1+tanh(k(t-(T-ε))))]
//
// where ε is the transition time and k = 4/ε. As ε → 0 it converges to
// IdealBangBang. Because ε ≤ T/2 ≤ T-ε, the middle step always lies between
// the outer two, which keeps the bracket in [-1, 1] and so |a(t)| ≤ A.
//
// Values are immutable; construct them with NewSmoothBangBang.
//
// JSON discriminator: "model": "smooth"
type SmoothBangBang struct {
	maxAccel       float64
	totalTime      float64
	transitionTime float64
}

// MaxTransitionTime returns the largest transition time allowed for a motion
// lasting totalTime seconds.
func MaxTransitionTime(totalTime float64) float64 {
	return totalTime / 4
}

// MinTotalTime returns the shortest motion that admits the given transition
// time. It is the inverse of MaxTransitionTime.
func MinTotalTime(transitionTime float64) float64 {
	return transitionTime * 4
}

// NewSmoothBangBang validates the parameters and returns the profile.
// It fails with *ProfileError when any parameter is non-positive or when
// transitionTime exceeds MaxTransitionTime(totalTime).
func NewSmoothBangBang(maxAccel, totalTime, transitionTime float64) (SmoothBangBang, error) {
	fail := func(reason string) (SmoothBangBang, error) {
		return SmoothBangBang{}, &ProfileError{
			MaxAccel:       maxAccel,
			TotalTime:      totalTime,
			TransitionTime: transitionTime,
			Reason:         reason,
		}
	}

	if r := checkPositive("max acceleration", maxAccel); r != "" {
		return fail(r)
	}
	if r := checkPositive("transition time", transitionTime); r != "" {
		return fail(r)
	}
	if r := checkPositive("total time", totalTime); r != "" {
		return fail(r)
	}
	if limit := MaxTransitionTime(totalTime); transitionTime > limit {
		return fail(fmt.Sprintf("transition time %gs exceeds maximum allowable time %gs for total time %gs",
			transitionTime, limit, totalTime))
	}

	return SmoothBangBang{maxAccel: maxAccel, totalTime: totalTime, transitionTime: transitionTime}, nil
}

func (p SmoothBangBang) MaxAcceleration() float64 { return p.maxAccel }
func (p SmoothBangBang) Duration() float64        { return p.totalTime }
func (p SmoothBangBang) TransitionTime() float64  { return p.transitionTime }

// Steepness returns the tanh rate k = 4/ε.
func (p SmoothBangBang) Steepness() float64 { return steepness / p.transitionTime }

func (p SmoothBangBang) Acceleration(t float64) float64 {
	k := p.Steepness()
	eps, half := p.transitionTime, p.totalTime/2
	return p.maxAccel * (smoothStep(k, t-eps) - 2*smoothStep(k, t-half) + smoothStep(k, t-(p.totalTime-eps)))
}

// Velocity returns the exact integral of Acceleration over [0, t]. It is zero
// at t = 0 and, up to rounding, at t = T.
func (p SmoothBangBang) Velocity(t float64) float64 {
	k := p.Steepness()
	eps, half := p.transitionTime, p.totalTime/2
	return p.maxAccel * (stepIntegral(k, t, eps) - 2*stepIntegral(k, t, half) + stepIntegral(k, t, p.totalTime-eps))
}

// Jerk returns the exact time derivative of Acceleration.
func (p SmoothBangBang) Jerk(t float64) float64 {
	k := p.Steepness()
	eps, half := p.transitionTime, p.totalTime/2
	return p.maxAccel * k * (0.5*sech2(k*(t-eps)) - sech2(k*(t-half)) + 0.5*sech2(k*(t-(p.totalTime-eps))))
}

// smoothStep is the unit step ½(1+tanh(k·x)).
func smoothStep(k, x float64) float64 {
	return 0.5 * (1 + math.Tanh(k*x))
}

// stepIntegral returns ∫₀ᵗ smoothStep(k, τ-c) dτ.
func stepIntegral(k, t, c float64) float64 {
	return 0.5 * (t + (logCosh(k*(t-c))-logCosh(k*c))/k)
}

// logCosh evaluates ln(cosh(x)) without overflowing for large |x|.
func logCosh(x float64) float64 {
	x = math.Abs(x)
	return x + math.Log1p(math.Exp(-2*x)) - math.Ln2
}

func sech2(x float64) float64 {
	c := math.Cosh(x)
	return 1 / (c * c)
}
