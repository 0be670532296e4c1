package engine

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ironsheep/image-gray-bench/internal/raster"
)

// BenchResult is the outcome of one mode in a benchmark.
type BenchResult struct {
	Report *Report `json:"report"`

	// Speedup is the baseline's elapsed time divided by this mode's.
	Speedup float64 `json:"speedup"`

	// Identical reports whether the output matches the first mode's output
	// byte for byte.
	Identical bool `json:"identical"`
}

// BenchReport collects the results of running several modes on one input.
type BenchReport struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Components int           `json:"components"`
	Repeats    int           `json:"repeats"`
	Baseline   Mode          `json:"baseline"`
	Results    []BenchResult `json:"results"`

	// Identical is true when every mode produced the same bytes.
	Identical bool `json:"identical"`
}

// Bench runs each mode on its own clone of buf and compares the outputs.
//
// Parameters:
//   - buf: The input. It is not modified.
//   - opts: Passed to every mode (see Process).
//   - modes: Modes to run, in order. Nil means Modes.
//
// Returns:
//   - *BenchReport: Timings, speedups and the output comparison. Speedups
//     are relative to ModeSequential when it is among the modes, otherwise
//     to the first mode.
//   - *raster.Buffer: The first mode's output.
//   - error: The first error any mode returned.
func (e *Engine) Bench(buf *raster.Buffer, opts Options, modes ...Mode) (*BenchReport, *raster.Buffer, error) {
	if len(modes) == 0 {
		modes = Modes
	}

	report := &BenchReport{
		Width:      buf.Width,
		Height:     buf.Height,
		Components: buf.Components,
		Repeats:    opts.Repeats,
		Baseline:   modes[0],
		Results:    make([]BenchResult, len(modes)),
		Identical:  true,
	}
	for _, m := range modes {
		if m == ModeSequential {
			report.Baseline = ModeSequential
		}
	}

	var first *raster.Buffer
	for i, m := range modes {
		out := buf.Clone()
		r, err := e.Process(out, m, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", m, err)
		}
		if first == nil {
			first = out
		}
		same := bytes.Equal(first.Pix, out.Pix)
		report.Identical = report.Identical && same
		report.Results[i] = BenchResult{Report: r, Identical: same}
	}

	var base float64
	for _, res := range report.Results {
		if res.Report.Mode == report.Baseline {
			base = float64(res.Report.Elapsed)
			break
		}
	}
	for i := range report.Results {
		if el := float64(report.Results[i].Report.Elapsed); el > 0 {
			report.Results[i].Speedup = base / el
		}
	}
	return report, first, nil
}

// WriteTable prints the report as an aligned text table.
func (r *BenchReport) WriteTable(w io.Writer) error {
	fmt.Fprintf(w, "%dx%d, %d components, %d repeats\n", r.Width, r.Height, r.Components, r.Repeats)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tWORKERS\tELAPSED\tSPEEDUP\tIDENTICAL")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%.2fx\t%t\n",
			res.Report.Mode, len(res.Report.Workers), res.Report.Elapsed, res.Speedup, res.Identical)
	}
	return tw.Flush()
}
