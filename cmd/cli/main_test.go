package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/motion-engine/internal/engine"
	"github.com/cxd309/motion-engine/internal/kinematics"
)

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, engine.FormatYAML, formatFromPath("runs.yaml"))
	assert.Equal(t, engine.FormatYAML, formatFromPath("dir/RUNS.YML"))
	assert.Equal(t, engine.FormatJSON, formatFromPath("runs.json"))
	assert.Equal(t, engine.FormatJSON, formatFromPath(""))
}

func TestWriteLog(t *testing.T) {
	simLog := engine.SimulationLog{
		Meta: engine.SimulationMeta{SimulationID: "cli", TimeStep: 0.5},
		Results: []engine.RunResult{{
			RunID:   "r",
			Profile: engine.ProfileSpec{Model: kinematics.SmoothModelName, MaxAccel: 1, TotalTime: 1, TransitionTime: 0.1},
			Samples: []engine.SampleLog{
				{T: 0, Phase: kinematics.PhaseStationary},
				{T: 0.5, Acceleration: 1, Velocity: 0.25, Position: 0.0625, Phase: kinematics.PhaseAccelerating},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeLog(&buf, "JSON", simLog))
	var decoded engine.SimulationLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, simLog, decoded)

	buf.Reset()
	require.NoError(t, writeLog(&buf, "csv", simLog))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "r,0.5,1,0.25,0.0625,accelerating", lines[2])

	assert.ErrorContains(t, writeLog(&buf, "xml", simLog), `unknown output format "xml"`)
}

func TestCommandRequiresProfileFlags(t *testing.T) {
	cmd := newCommand()
	var stderr bytes.Buffer
	cmd.ErrWriter = &stderr
	cmd.Writer = &stderr
	err := cmd.Run(t.Context(), []string{"motion-engine", "simulate", "--total-time", "2"})
	assert.ErrorContains(t, err, "max-accel")
}

func TestSimulateRejectsTransitionTimeForIdealModel(t *testing.T) {
	cmd := newCommand()
	var stderr bytes.Buffer
	cmd.ErrWriter = &stderr
	cmd.Writer = &stderr
	err := cmd.Run(t.Context(), []string{
		"motion-engine", "simulate", "--log-level", "error",
		"--model", "ideal", "-a", "1", "-t", "2", "-e", "0.2",
	})
	assert.ErrorContains(t, err, "transition_time does not apply to the ideal model")
}
