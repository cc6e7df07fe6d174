package kinematics

import "math"

// IdealModelName is the JSON discriminator string for the IdealBangBang model.
const IdealModelName = "ideal"

// IdealBangBang is the limit of SmoothBangBang as the transition time goes to
// zero: full acceleration up to T/2, full braking after, and nothing outside
// [0, T]. Velocity and position have closed forms.
//
// JSON discriminator: "model": "ideal"
type IdealBangBang struct {
	maxAccel  float64
	totalTime float64
}

// NewIdealBangBang validates the parameters and returns the profile.
func NewIdealBangBang(maxAccel, totalTime float64) (IdealBangBang, error) {
	for _, r := range []string{
		checkPositive("max acceleration", maxAccel),
		checkPositive("total time", totalTime),
	} {
		if r != "" {
			return IdealBangBang{}, &ProfileError{MaxAccel: maxAccel, TotalTime: totalTime, Reason: r}
		}
	}
	return IdealBangBang{maxAccel: maxAccel, totalTime: totalTime}, nil
}

// IdealDuration returns the time an ideal bang-bang motion needs to cover
// distance, inverting FinalPosition = A·T²/4.
func IdealDuration(maxAccel, distance float64) float64 {
	return 2 * math.Sqrt(distance/maxAccel)
}

func (p IdealBangBang) MaxAcceleration() float64 { return p.maxAccel }
func (p IdealBangBang) Duration() float64        { return p.totalTime }

func (p IdealBangBang) Acceleration(t float64) float64 {
	switch {
	case t < 0 || t > p.totalTime:
		return 0
	case t <= p.totalTime/2:
		return p.maxAccel
	default:
		return -p.maxAccel
	}
}

// Velocity is piecewise linear, peaking at A·T/2 at the midpoint.
func (p IdealBangBang) Velocity(t float64) float64 {
	switch {
	case t <= 0 || t >= p.totalTime:
		return 0
	case t <= p.totalTime/2:
		return p.maxAccel * t
	default:
		return p.maxAccel * (p.totalTime - t)
	}
}

// Position is piecewise quadratic, reaching A·T²/4 at T and holding it after.
func (p IdealBangBang) Position(t float64) float64 {
	half := p.totalTime / 2
	switch {
	case t <= 0:
		return 0
	case t >= p.totalTime:
		return p.FinalPosition()
	case t <= half:
		return 0.5 * p.maxAccel * t * t
	default:
		// Reaches the midpoint at v = A·T/2, then brakes.
		dt := t - half
		return 0.5*p.maxAccel*half*half + p.maxAccel*half*dt - 0.5*p.maxAccel*dt*dt
	}
}

// PeakVelocity returns A·T/2.
func (p IdealBangBang) PeakVelocity() float64 { return p.maxAccel * p.totalTime / 2 }

// FinalPosition returns A·T²/4.
func (p IdealBangBang) FinalPosition() float64 {
	return p.maxAccel * p.totalTime * p.totalTime / 4
}
