package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-gray-bench/internal/raster"
)

// Mode names a way of scheduling the grayscale passes.
type Mode string

const (
	// ModeParallel is the fixed worker grid with start/done signals (Run).
	ModeParallel Mode = "parallel"

	// ModeSequential runs every pass on the calling goroutine.
	ModeSequential Mode = "sequential"

	// ModeLine lets bild's parallel.Line pick the row split, one goroutine
	// per GOMAXPROCS slot.
	ModeLine Mode = "line"
)

// Modes lists every mode in benchmark order.
var Modes = []Mode{ModeSequential, ModeParallel, ModeLine}

// ParseMode maps a configuration string to a Mode. The empty string selects
// ModeParallel.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeParallel:
		return ModeParallel, nil
	case ModeSequential:
		return ModeSequential, nil
	case ModeLine:
		return ModeLine, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
	}
}

// Process runs buf through the given mode. ModeParallel uses opts in full;
// the baselines only use opts.Repeats.
func (e *Engine) Process(buf *raster.Buffer, mode Mode, opts Options) (*Report, error) {
	switch mode {
	case "", ModeParallel:
		return e.Run(buf, opts)
	case ModeSequential:
		return e.RunSequential(buf, opts.Repeats)
	case ModeLine:
		return e.RunLine(buf, opts.Repeats)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, mode)
	}
}

// RunSequential makes repeats passes over the whole buffer on the calling
// goroutine. It is the single-threaded reference the other modes are timed
// against.
func (e *Engine) RunSequential(buf *raster.Buffer, repeats int) (*Report, error) {
	bands, err := prepareBaseline(buf, repeats)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	TransformBand(bands[0], repeats)
	elapsed := time.Since(started)

	report := &Report{
		Mode:    ModeSequential,
		Workers: []WorkerReport{{Rows: bands[0].Range}},
		Repeats: repeats,
		Pixels:  buf.PixelCount(),
	}
	report.setElapsed(elapsed)
	e.logger.Printf("[DEBUG] sequential pass over %dx%d finished in %v", buf.Width, buf.Height, elapsed)
	return report, nil
}

// RunLine makes repeats passes over the buffer with rows split by
// parallel.Line. The split is chosen by the library from GOMAXPROCS; the
// report records the ranges it picked.
func (e *Engine) RunLine(buf *raster.Buffer, repeats int) (*Report, error) {
	bands, err := prepareBaseline(buf, repeats)
	if err != nil {
		return nil, err
	}
	whole := bands[0]
	stride := buf.Stride()

	var (
		mu     sync.Mutex
		ranges []raster.RowRange
	)
	started := time.Now()
	parallel.Line(buf.Height, func(start, end int) {
		band := raster.Band{
			Range:      raster.RowRange{Start: start, End: end},
			Width:      whole.Width,
			Components: whole.Components,
			Pix:        whole.Pix[start*stride : end*stride : end*stride],
		}
		TransformBand(band, repeats)

		mu.Lock()
		ranges = append(ranges, band.Range)
		mu.Unlock()
	})
	elapsed := time.Since(started)

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	report := &Report{
		Mode:    ModeLine,
		Workers: make([]WorkerReport, len(ranges)),
		Repeats: repeats,
		Pixels:  buf.PixelCount(),
	}
	for i, r := range ranges {
		report.Workers[i] = WorkerReport{ID: i, Thread: i, Rows: r}
	}
	report.setElapsed(elapsed)
	e.logger.Printf("[DEBUG] parallel.Line used %d bands over %dx%d in %v", len(ranges), buf.Width, buf.Height, elapsed)
	return report, nil
}

func prepareBaseline(buf *raster.Buffer, repeats int) ([]raster.Band, error) {
	if repeats < 1 {
		return nil, fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalidOptions, repeats)
	}
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bands([]raster.RowRange{{Start: 0, End: buf.Height}})
}
