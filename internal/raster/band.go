package raster

import "fmt"

// RowRange is a half-open span of rows [Start, End).
type RowRange struct {
	Start int `json:"start_row"` // First row (inclusive)
	End   int `json:"end_row"`   // Last row (exclusive)
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range holds no rows.
func (r RowRange) Empty() bool {
	return r.End <= r.Start
}

func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Band is a mutable view of a contiguous run of rows in a Buffer.
//
// Pix aliases the parent buffer's storage: writes through a Band are visible
// in the Buffer. Row y of the band (0-based within the band) starts at
// y*Width*Components.
type Band struct {
	Range      RowRange
	Width      int
	Components int
	Pix        []byte
}

// Rows returns the number of rows the band covers.
func (b Band) Rows() int {
	return b.Range.Len()
}

// Bands splits the buffer into one view per range.
//
// Parameters:
//   - ranges: Row ranges in ascending order. Empty ranges are allowed and
//     produce a band with no pixels.
//
// Returns:
//   - []Band: Views in the same order as ranges.
//   - error: ErrOverlap if a range is inverted, starts before the previous
//     non-empty range ended, or reaches past the last row. No views are
//     returned in that case.
//
// The ranges do not have to cover the whole buffer; rows outside every range
// are simply not reachable through the returned bands.
func (b *Buffer) Bands(ranges []RowRange) ([]Band, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	stride := b.Stride()
	bands := make([]Band, len(ranges))
	prevEnd := 0
	for i, r := range ranges {
		if r.Start < 0 || r.End < r.Start || r.End > b.Height {
			return nil, fmt.Errorf("%w: range %d %v invalid for height %d", ErrOverlap, i, r, b.Height)
		}
		if !r.Empty() {
			if r.Start < prevEnd {
				return nil, fmt.Errorf("%w: range %d %v starts before row %d", ErrOverlap, i, r, prevEnd)
			}
			prevEnd = r.End
		}

		lo, hi := r.Start*stride, r.End*stride
		bands[i] = Band{
			Range:      r,
			Width:      b.Width,
			Components: b.Components,
			Pix:        b.Pix[lo:hi:hi],
		}
	}
	return bands, nil
}
