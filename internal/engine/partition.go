package engine

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-gray-bench/internal/raster"
)

// ErrPartition reports a height or worker count that cannot be partitioned.
var ErrPartition = errors.New("invalid partition")

// Policy selects how rows left over by integer division are assigned.
type Policy string

const (
	// PolicyLast gives every worker height/workers rows and hands the whole
	// remainder to the last worker.
	PolicyLast Policy = "last"

	// PolicyBalanced spreads the remainder one row at a time over the first
	// height%workers workers, so band sizes differ by at most one row.
	PolicyBalanced Policy = "balanced"
)

// ParsePolicy maps a configuration string to a Policy. The empty string
// selects PolicyLast.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyLast:
		return PolicyLast, nil
	case PolicyBalanced:
		return PolicyBalanced, nil
	default:
		return "", fmt.Errorf("%w: unknown policy %q", ErrPartition, s)
	}
}

// Partition splits [0, height) across workers with the given policy.
func (p Policy) Partition(height, workers int) ([]raster.RowRange, error) {
	switch p {
	case "", PolicyLast:
		return Partition(height, workers)
	case PolicyBalanced:
		return PartitionBalanced(height, workers)
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrPartition, p)
	}
}

// Partition computes one row range per worker.
//
// Parameters:
//   - height: Number of rows in the image (>= 0).
//   - workers: Number of workers (>= 1).
//
// Returns:
//   - []raster.RowRange: workers ranges in ascending order. They are pairwise
//     disjoint and their union is exactly [0, height).
//   - error: ErrPartition for a negative height or a non-positive worker count.
//
// # Algorithm
//
// Every worker k gets base = height/workers rows starting at k*base. The last
// worker's end is clamped to height, so it also absorbs the height%workers
// rows lost to truncation. When height < workers, base is 0 and every worker
// but the last gets an empty range.
func Partition(height, workers int) ([]raster.RowRange, error) {
	if err := checkPartition(height, workers); err != nil {
		return nil, err
	}

	base := height / workers
	ranges := make([]raster.RowRange, workers)
	for k := range ranges {
		start := k * base
		end := start + base
		if k == workers-1 {
			end = height
		}
		ranges[k] = raster.RowRange{Start: start, End: end}
	}
	return ranges, nil
}

// PartitionBalanced is Partition with the remainder spread over the first
// height%workers workers instead of piled onto the last one.
func PartitionBalanced(height, workers int) ([]raster.RowRange, error) {
	if err := checkPartition(height, workers); err != nil {
		return nil, err
	}

	base, extra := height/workers, height%workers
	ranges := make([]raster.RowRange, workers)
	start := 0
	for k := range ranges {
		n := base
		if k < extra {
			n++
		}
		ranges[k] = raster.RowRange{Start: start, End: start + n}
		start += n
	}
	return ranges, nil
}

func checkPartition(height, workers int) error {
	if height < 0 {
		return fmt.Errorf("%w: negative height %d", ErrPartition, height)
	}
	if workers <= 0 {
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrPartition, workers)
	}
	return nil
}
