// Command motion-engine evaluates acceleration profiles from the command line.
//
//	motion-engine run [file]     evaluate a SimulationInput (JSON or YAML, stdin when no file)
//	motion-engine simulate ...   integrate one profile with a fixed duration
//	motion-engine solve ...      find the duration that covers a target distance
//
// Results are written to stdout as a JSON SimulationLog or as CSV samples;
// logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/engine"
	"github.com/cxd309/motion-engine/internal/kinematics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "motion-engine",
		Usage: "Simulate smooth bang-bang acceleration profiles",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate every run of a SimulationInput file",
				ArgsUsage: "[file]",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Category: "Inputs and Outputs",
						Name:     "input-format",
						Usage:    "Input format, json or yaml; inferred from the file extension when empty",
					},
				),
				Action: runAction,
			},
			{
				Name:   "simulate",
				Usage:  "Integrate a single profile of fixed duration",
				Flags:  append(commonFlags(), profileFlags(true)...),
				Action: simulateAction,
			},
			{
				Name:  "solve",
				Usage: "Find the duration that covers a target distance",
				Flags: append(commonFlags(), append(profileFlags(false),
					&cli.Float64Flag{
						Category: "Target",
						Name:     "distance",
						Aliases:  []string{"d"},
						Usage:    "Target distance in metres",
						Required: true,
					},
					&cli.Float64Flag{
						Category: "Target",
						Name:     "tolerance",
						Usage:    "Accepted final position error in metres (0 uses the configured value)",
					},
					&cli.IntFlag{
						Category: "Target",
						Name:     "max-iterations",
						Usage:    "Bisection iteration cap (0 uses the configured value)",
					},
					&cli.BoolFlag{
						Category: "Inputs and Outputs",
						Name:     "samples",
						Usage:    "Include per-step samples in the output",
					},
				)...),
				Action: solveAction,
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Category: "Configuration",
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "YAML configuration file",
		},
		&cli.StringFlag{
			Category: "Configuration",
			Name:     "log-level",
			Usage:    "Overrides the configured log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Category: "Inputs and Outputs",
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    "Output format, json or csv",
			Value:    "json",
		},
	}
}

func profileFlags(withTotalTime bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Category: "Profile",
			Name:     "model",
			Usage:    "Profile model, smooth or ideal",
			Value:    kinematics.SmoothModelName,
		},
		&cli.Float64Flag{
			Category: "Profile",
			Name:     "max-accel",
			Aliases:  []string{"a"},
			Usage:    "Acceleration bound in m/s^2",
			Required: true,
		},
		&cli.Float64Flag{
			Category: "Profile",
			Name:     "transition-time",
			Aliases:  []string{"e"},
			Usage:    "Transition time in seconds (smooth model only)",
		},
		&cli.Float64Flag{
			Category: "Profile",
			Name:     "dt",
			Usage:    "Integration time step in seconds (0 uses the configured value)",
		},
	}
	if withTotalTime {
		flags = append(flags, &cli.Float64Flag{
			Category: "Profile",
			Name:     "total-time",
			Aliases:  []string{"t"},
			Usage:    "Total duration in seconds",
			Required: true,
		})
	}
	return flags
}

// newEngine loads the configuration named by --config and applies --log-level.
func newEngine(cmd *cli.Command) (*engine.Engine, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return engine.New(cfg, logger)
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	var (
		data []byte
		err  error
	)
	path := cmd.Args().First()
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	format := cmd.String("input-format")
	if format == "" {
		format = formatFromPath(path)
	}
	input, err := engine.DecodeInput(data, format)
	if err != nil {
		return err
	}
	return execute(ctx, cmd, input)
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return engine.FormatYAML
	default:
		return engine.FormatJSON
	}
}

func simulateAction(ctx context.Context, cmd *cli.Command) error {
	run := engine.RunSpec{
		RunID:   "simulate",
		Profile: profileFromFlags(cmd),
	}
	run.Profile.TotalTime = cmd.Float64("total-time")
	return execute(ctx, cmd, engine.SimulationInput{
		Meta: engine.SimulationMeta{TimeStep: cmd.Float64("dt")},
		Runs: []engine.RunSpec{run},
	})
}

func solveAction(ctx context.Context, cmd *cli.Command) error {
	run := engine.RunSpec{
		RunID:   "solve",
		Profile: profileFromFlags(cmd),
		Target: &engine.TargetSpec{
			Distance:      cmd.Float64("distance"),
			Tolerance:     cmd.Float64("tolerance"),
			MaxIterations: cmd.Int("max-iterations"),
		},
	}
	return execute(ctx, cmd, engine.SimulationInput{
		Meta: engine.SimulationMeta{
			TimeStep:    cmd.Float64("dt"),
			OmitSamples: !cmd.Bool("samples"),
		},
		Runs: []engine.RunSpec{run},
	})
}

func profileFromFlags(cmd *cli.Command) engine.ProfileSpec {
	return engine.ProfileSpec{
		Model:          cmd.String("model"),
		MaxAccel:       cmd.Float64("max-accel"),
		TransitionTime: cmd.Float64("transition-time"),
	}
}

// execute runs input and writes the log to stdout in the --format encoding.
func execute(ctx context.Context, cmd *cli.Command, input engine.SimulationInput) error {
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	simLog, err := e.Run(ctx, input)
	if err != nil {
		return err
	}
	return writeLog(os.Stdout, cmd.String("format"), simLog)
}

func writeLog(w io.Writer, format string, simLog engine.SimulationLog) error {
	switch strings.ToLower(format) {
	case "json":
		return errors.Wrap(json.NewEncoder(w).Encode(simLog), "encoding output")
	case "csv":
		return engine.WriteCSV(w, simLog)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
