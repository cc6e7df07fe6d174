//go:build js && wasm

// Command wasm exposes the motion engine to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	runSimulation(jsonString) -> jsonString
//	findDuration(maxAccel, distance, transitionTime, tolerance, maxIterations) -> number
//
// runSimulation takes a SimulationInput and returns a SimulationLog, the same
// contract as the CLI run command. Failures are returned as {error: message}.
package main

import (
	"syscall/js"

	"github.com/cxd309/motion-engine/internal/engine"
	"github.com/cxd309/motion-engine/internal/search"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	js.Global().Set("findDuration", js.FuncOf(findDuration))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

func findDuration(_ js.Value, args []js.Value) any {
	if len(args) < 5 {
		return map[string]any{"error": "expected maxAccel, distance, transitionTime, tolerance, maxIterations"}
	}

	totalTime, err := search.FindDuration(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float(), args[4].Int())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return totalTime
}
