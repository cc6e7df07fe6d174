package engine

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/cxd309/motion-engine/internal/kinematics"
)

// SimulationMeta holds the identity and shared settings of a request.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id"`
	TimeStep     float64 `json:"time_step,omitempty"` // seconds, 0 uses the configured step
	// OmitSamples drops the per-step samples from every result.
	OmitSamples bool `json:"omit_samples,omitempty"`
}

// ProfileSpec describes an acceleration profile. TotalTime is left at zero
// when the run carries a Target and the duration is solved for.
type ProfileSpec struct {
	Model          string  `json:"model"`
	MaxAccel       float64 `json:"max_accel"`                 // m/s^2
	TotalTime      float64 `json:"total_time,omitempty"`      // seconds
	TransitionTime float64 `json:"transition_time,omitempty"` // seconds, smooth only
}

// profileDisc is the minimum JSON structure needed to read the model discriminator.
type profileDisc struct {
	Model string `json:"model"`
}

type smoothProfileJSON struct {
	Model          string  `json:"model"`
	MaxAccel       float64 `json:"max_accel"`
	TotalTime      float64 `json:"total_time"`
	TransitionTime float64 `json:"transition_time"`
}

type idealProfileJSON struct {
	Model     string  `json:"model"`
	MaxAccel  float64 `json:"max_accel"`
	TotalTime float64 `json:"total_time"`
}

// UnmarshalJSON implements json.Unmarshaler for ProfileSpec.
// The "model" key selects the parameter set; fields that do not belong to the
// selected model are rejected. A missing model means "smooth".
//
// Supported models:
//   - "smooth": tanh-blended bang-bang with max_accel and transition_time.
//   - "ideal": instantaneous switching bang-bang with max_accel only.
func (p *ProfileSpec) UnmarshalJSON(data []byte) error {
	var disc profileDisc
	if err := json.Unmarshal(data, &disc); err != nil {
		return errors.Wrap(err, "reading profile model discriminator")
	}

	switch disc.Model {
	case kinematics.SmoothModelName, "":
		var raw smoothProfileJSON
		if err := decodeStrict(data, &raw); err != nil {
			return errors.Wrap(err, "parsing smooth profile")
		}
		*p = ProfileSpec{
			Model:          kinematics.SmoothModelName,
			MaxAccel:       raw.MaxAccel,
			TotalTime:      raw.TotalTime,
			TransitionTime: raw.TransitionTime,
		}
	case kinematics.IdealModelName:
		var raw idealProfileJSON
		if err := decodeStrict(data, &raw); err != nil {
			return errors.Wrap(err, "parsing ideal profile")
		}
		*p = ProfileSpec{
			Model:     kinematics.IdealModelName,
			MaxAccel:  raw.MaxAccel,
			TotalTime: raw.TotalTime,
		}
	default:
		return errors.Errorf("unknown profile model %q", disc.Model)
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// checkFields rejects parameters that the selected model does not take.
func (p ProfileSpec) checkFields() error {
	if p.Model == kinematics.IdealModelName && p.TransitionTime != 0 {
		return errors.Errorf("transition_time does not apply to the ideal model, got %g", p.TransitionTime)
	}
	return nil
}

// Build constructs the profile with the given total time.
func (p ProfileSpec) Build(totalTime float64) (kinematics.Profile, error) {
	if err := p.checkFields(); err != nil {
		return nil, err
	}
	switch p.Model {
	case kinematics.SmoothModelName, "":
		prof, err := kinematics.NewSmoothBangBang(p.MaxAccel, totalTime, p.TransitionTime)
		if err != nil {
			return nil, err
		}
		return prof, nil
	case kinematics.IdealModelName:
		prof, err := kinematics.NewIdealBangBang(p.MaxAccel, totalTime)
		if err != nil {
			return nil, err
		}
		return prof, nil
	default:
		return nil, errors.Errorf("unknown profile model %q", p.Model)
	}
}

// TargetSpec asks the engine to solve for the total time that covers Distance.
// Zero Tolerance and MaxIterations fall back to the configured defaults.
type TargetSpec struct {
	Distance      float64 `json:"distance"`            // metres
	Tolerance     float64 `json:"tolerance,omitempty"` // metres
	MaxIterations int     `json:"max_iterations,omitempty"`
}

// RunSpec is one profile evaluation within a request.
type RunSpec struct {
	RunID   string      `json:"run_id"`
	Profile ProfileSpec `json:"profile"`
	Target  *TargetSpec `json:"target,omitempty"`
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta SimulationMeta `json:"simulation_meta"`
	Runs []RunSpec      `json:"runs"`
}

// SampleLog is the motion state at a single time step.
type SampleLog struct {
	T            float64          `json:"t"`            // seconds
	Acceleration float64          `json:"acceleration"` // m/s^2
	Velocity     float64          `json:"velocity"`     // m/s
	Position     float64          `json:"position"`     // metres
	Phase        kinematics.Phase `json:"phase"`
}

// SolveStats reports the duration search of a targeted run.
type SolveStats struct {
	Distance   float64 `json:"distance"`
	Tolerance  float64 `json:"tolerance"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"` // final position - distance
}

// Metrics summarises a simulated trajectory.
type Metrics struct {
	FinalPosition      float64  `json:"final_position"`
	FinalVelocity      float64  `json:"final_velocity"`
	PeakVelocity       float64  `json:"peak_velocity"`
	MaxAbsAcceleration float64  `json:"max_abs_acceleration"`
	MaxAbsJerk         *float64 `json:"max_abs_jerk,omitempty"` // absent for profiles with unbounded jerk
	PathLength         float64  `json:"path_length"`
}

// IdealComparison relates a run to the ideal bang-bang profile of the same
// acceleration bound and duration. Deviations are in percent of the ideal.
type IdealComparison struct {
	PeakVelocity           float64 `json:"peak_velocity"`
	FinalPosition          float64 `json:"final_position"`
	PeakVelocityDeviation  float64 `json:"peak_velocity_deviation_pct"`
	FinalPositionDeviation float64 `json:"final_position_deviation_pct"`
}

// RunResult is the outcome of one RunSpec.
type RunResult struct {
	RunID   string          `json:"run_id"`
	Profile ProfileSpec     `json:"profile"` // TotalTime is always set
	Solve   *SolveStats     `json:"solve,omitempty"`
	Metrics Metrics         `json:"metrics"`
	Ideal   IdealComparison `json:"ideal"`
	Samples []SampleLog     `json:"samples,omitempty"`
}

// SimulationLog is the complete output of a request.
type SimulationLog struct {
	Meta    SimulationMeta `json:"simulation_meta"`
	Results []RunResult    `json:"results"`
}
