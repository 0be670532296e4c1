package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ironsheep/image-gray-bench/internal/raster"
)

// MaxWorkers bounds the size of the worker grid.
const MaxWorkers = 4096

var (
	// ErrSpawn reports a worker that could not be started. Workers started
	// before it have been released and joined by the time it is returned.
	ErrSpawn = errors.New("spawn error")

	// ErrUnsupported reports a buffer the transform cannot run on, such as
	// one with fewer than three components.
	ErrUnsupported = errors.New("unsupported buffer")

	// ErrInvalidOptions reports an out-of-range worker or repeat count.
	ErrInvalidOptions = errors.New("invalid options")
)

// spawn starts fn on its own goroutine. Tests swap it out to simulate a
// worker that cannot be started.
var spawn = func(fn func()) error {
	go fn()
	return nil
}

// Options configures one dispatch/await cycle.
type Options struct {
	// Workers is the number of row bands and workers, 1 to MaxWorkers.
	Workers int

	// ThreadsPerProcess only labels workers as (process, thread) pairs in
	// logs and reports. Zero means one process holding every worker.
	ThreadsPerProcess int

	// Repeats is the number of transform passes each worker makes (>= 1).
	Repeats int

	// Policy picks the row partitioner. The zero value is PolicyLast.
	Policy Policy
}

func (o Options) validate() error {
	if o.Workers < 1 || o.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be in [1,%d], got %d", ErrInvalidOptions, MaxWorkers, o.Workers)
	}
	if o.Repeats < 1 {
		return fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalidOptions, o.Repeats)
	}
	if o.ThreadsPerProcess < 0 {
		return fmt.Errorf("%w: negative threads per process %d", ErrInvalidOptions, o.ThreadsPerProcess)
	}
	return nil
}

// Grid maps a flat worker id to its (process, thread) label.
func (o Options) Grid(id int) (process, thread int) {
	if o.ThreadsPerProcess <= 0 {
		return 0, id
	}
	return id / o.ThreadsPerProcess, id % o.ThreadsPerProcess
}

// WorkerReport describes one worker of a finished cycle.
type WorkerReport struct {
	ID      int             `json:"id"`
	Process int             `json:"process"`
	Thread  int             `json:"thread"`
	Rows    raster.RowRange `json:"rows"`
}

// Report summarizes a finished run.
type Report struct {
	Mode    Mode           `json:"mode"`
	Workers []WorkerReport `json:"workers"`
	Repeats int            `json:"repeats"`
	Pixels  int            `json:"pixels"`

	// Elapsed covers dispatch to the last completion. Setup (partitioning,
	// spawning) is excluded.
	Elapsed   time.Duration `json:"-"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

func (r *Report) setElapsed(d time.Duration) {
	r.Elapsed = d
	r.ElapsedMS = float64(d.Microseconds()) / 1000.0
}

// worker is bound to one band for exactly one cycle.
type worker struct {
	id      int
	band    raster.Band
	repeats int
	start   *signal
	done    *signal

	// abort is written before start is posted and read after start is
	// observed, so the signal orders it.
	abort bool
}

func (w *worker) run() {
	defer w.done.post()
	w.start.wait()
	if w.abort {
		return
	}
	TransformBand(w.band, w.repeats)
}

// Engine runs grayscale passes over raster buffers.
//
// An Engine holds no per-run state; one value may run any number of cycles,
// including concurrently on different buffers.
type Engine struct {
	logger *log.Logger
}

// New returns an engine that logs setup, dispatch and join to logger at debug
// level. A nil logger disables logging.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{logger: logger}
}

// RunParallelTransform converts buf to grayscale in place using workers
// workers that each make repeats passes over their rows, and returns buf.
func RunParallelTransform(buf *raster.Buffer, workers, repeats int) (*raster.Buffer, error) {
	if _, err := New(nil).Run(buf, Options{Workers: workers, Repeats: repeats}); err != nil {
		return nil, err
	}
	return buf, nil
}

// Run executes one dispatch/await cycle over buf.
//
// Parameters:
//   - buf: The buffer to convert in place. It must have at least three
//     components; only the first three are rewritten.
//   - opts: Worker count, repeat count and partition policy.
//
// Returns:
//   - *Report: The row range of every worker and the elapsed time.
//   - error: ErrInvalidOptions, ErrUnsupported, ErrPartition or
//     raster.ErrOverlap before any worker exists, or ErrSpawn if a worker
//     could not be started. On error the buffer is untouched.
//
// # Cycle
//
//  1. Setup: partition the rows, cut one band per range, and start one
//     worker per band. Each worker gets a fresh start/done signal pair and
//     blocks on start.
//  2. Dispatch: post every start signal. Workers run in any order; their
//     bands are disjoint.
//  3. Join: wait for every done signal, once each.
//
// Run returns only after every worker has finished. The buffer must not be
// read or written by anyone else while Run is in progress.
func (e *Engine) Run(buf *raster.Buffer, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}

	ranges, err := opts.Policy.Partition(buf.Height, opts.Workers)
	if err != nil {
		return nil, err
	}
	bands, err := buf.Bands(ranges)
	if err != nil {
		return nil, err
	}

	workers := make([]*worker, 0, len(bands))
	for id, band := range bands {
		w := &worker{
			id:      id,
			band:    band,
			repeats: opts.Repeats,
			start:   newSignal(),
			done:    newSignal(),
		}
		if err := spawn(w.run); err != nil {
			e.logger.Printf("[DEBUG] worker %d failed to start, releasing %d started workers", id, len(workers))
			release(workers)
			return nil, fmt.Errorf("%w: worker %d: %w", ErrSpawn, id, err)
		}
		workers = append(workers, w)
	}
	e.logger.Printf("[DEBUG] %d workers ready for %dx%d buffer, %d repeats", len(workers), buf.Width, buf.Height, opts.Repeats)

	started := time.Now()
	for _, w := range workers {
		w.start.post()
	}
	for _, w := range workers {
		w.done.wait()
	}
	elapsed := time.Since(started)

	report := &Report{
		Mode:    ModeParallel,
		Workers: make([]WorkerReport, len(workers)),
		Repeats: opts.Repeats,
		Pixels:  buf.PixelCount(),
	}
	for i, w := range workers {
		p, t := opts.Grid(w.id)
		report.Workers[i] = WorkerReport{ID: w.id, Process: p, Thread: t, Rows: w.band.Range}
	}
	report.setElapsed(elapsed)
	e.logger.Printf("[DEBUG] %d workers joined in %v", len(workers), elapsed)
	return report, nil
}

// release aborts workers that were started but never dispatched and waits
// for each of them to exit.
func release(workers []*worker) {
	for _, w := range workers {
		w.abort = true
		w.start.post()
	}
	for _, w := range workers {
		w.done.wait()
	}
}

func checkBuffer(buf *raster.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrUnsupported)
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Components < 3 {
		return fmt.Errorf("%w: need at least 3 components, got %d", ErrUnsupported, buf.Components)
	}
	return nil
}
