package raster

import (
	"errors"
	"fmt"
	"math"
)

// MaxComponents is the largest number of interleaved channels a Buffer holds.
const MaxComponents = 4

var (
	// ErrAllocation reports a buffer that cannot be allocated: negative or
	// overflowing dimensions, or an unsupported component count.
	ErrAllocation = errors.New("allocation error")

	// ErrOverlap reports row ranges that are unordered, overlapping, or
	// outside the buffer.
	ErrOverlap = errors.New("row ranges overlap")
)

// Buffer owns decoded pixel data plus its geometry.
//
// Pix is row-major with Components interleaved bytes per pixel, so pixel
// (x, y) starts at (y*Width+x)*Components. The invariant
// len(Pix) == Width*Height*Components holds for every Buffer returned by this
// package.
type Buffer struct {
	Width      int
	Height     int
	Components int
	Pix        []byte
}

// New allocates a zeroed buffer.
//
// Parameters:
//   - width, height: Dimensions in pixels. Zero is allowed; negative is not.
//   - components: Interleaved channels per pixel, 1 to MaxComponents.
//
// Returns:
//   - *Buffer: The zero-filled buffer.
//   - error: ErrAllocation if the geometry is invalid or its byte size does
//     not fit in an int.
func New(width, height, components int) (*Buffer, error) {
	size, err := byteSize(width, height, components)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		Width:      width,
		Height:     height,
		Components: components,
		Pix:        make([]byte, size),
	}, nil
}

func byteSize(width, height, components int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: negative dimensions %dx%d", ErrAllocation, width, height)
	}
	if components < 1 || components > MaxComponents {
		return 0, fmt.Errorf("%w: unsupported component count %d", ErrAllocation, components)
	}
	if width == 0 || height == 0 {
		return 0, nil
	}
	stride := width * components
	if stride/components != width || height > math.MaxInt/stride {
		return 0, fmt.Errorf("%w: %dx%dx%d overflows", ErrAllocation, width, height, components)
	}
	return stride * height, nil
}

// Validate checks the length invariant.
func (b *Buffer) Validate() error {
	size, err := byteSize(b.Width, b.Height, b.Components)
	if err != nil {
		return err
	}
	if len(b.Pix) != size {
		return fmt.Errorf("%w: pixel data has %d bytes, geometry %dx%dx%d needs %d",
			ErrAllocation, len(b.Pix), b.Width, b.Height, b.Components, size)
	}
	return nil
}

// Stride returns the number of bytes in one row.
func (b *Buffer) Stride() int {
	return b.Width * b.Components
}

// Row returns the bytes of row y. It panics if y is out of range, like a
// slice index would.
func (b *Buffer) Row(y int) []byte {
	s := b.Stride()
	return b.Pix[y*s : (y+1)*s : (y+1)*s]
}

// Pixel returns the Components bytes of pixel (x, y).
func (b *Buffer) Pixel(x, y int) []byte {
	i := (y*b.Width + x) * b.Components
	return b.Pix[i : i+b.Components : i+b.Components]
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{
		Width:      b.Width,
		Height:     b.Height,
		Components: b.Components,
		Pix:        pix,
	}
}

// PixelCount returns Width*Height.
func (b *Buffer) PixelCount() int {
	return b.Width * b.Height
}
