package engine

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var csvHeader = []string{"run_id", "t", "acceleration", "velocity", "position", "phase"}

// WriteCSV writes the samples of every result as one row per time step.
func WriteCSV(w io.Writer, simLog SimulationLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, res := range simLog.Results {
		for _, s := range res.Samples {
			row := []string{
				res.RunID,
				formatFloat(s.T),
				formatFloat(s.Acceleration),
				formatFloat(s.Velocity),
				formatFloat(s.Position),
				string(s.Phase),
			}
			if err := cw.Write(row); err != nil {
				return errors.Wrapf(err, "writing CSV row for run %q", res.RunID)
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
