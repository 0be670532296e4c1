// Package engine converts raster buffers to grayscale with a fixed grid of
// workers and benchmarks that grid against simpler schedules.
//
// # Cycle
//
// Run executes one dispatch/await cycle:
//
//  1. The rows are partitioned into one range per worker (Partition or
//     PartitionBalanced). Ranges are disjoint and cover every row.
//  2. The buffer is cut into one raster.Band per range. Bands share the
//     buffer's storage but never overlap, so workers write without locks.
//  3. Each worker is started with a fresh pair of one-shot signals and waits
//     for its start signal.
//  4. The caller posts every start signal, then waits on every done signal.
//
// Each signal is posted and awaited once per cycle. The post on start orders
// the caller's setup before the worker's first read; the post on done orders
// the worker's last write before the caller's return.
//
// # Transform
//
// Every pass replaces a pixel's first three components with its BT.601 luma,
// truncated toward zero (see Luma). A pixel that is already gray maps to
// itself, so running the pass N >= 1 times yields the same bytes as running it
// once; the repeat count only scales the workload.
//
// # Errors
//
// Nothing is retried. Validation and spawn failures are returned before any
// worker is dispatched and leave the buffer untouched; once dispatched, a
// cycle always runs to completion.
package engine
