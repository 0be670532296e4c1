// Package raster holds decoded pixel data and the codec that moves it to and
// from image files.
//
// A Buffer is a flat, row-major byte slice with a fixed number of interleaved
// components per pixel (RGB or RGBA as produced by Decode). Buffers carry no
// synchronization of their own: concurrent writers must each hold a Band, a
// mutable view restricted to a contiguous run of rows.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost row)
//   - Row ranges are half-open: Start is inclusive, End is exclusive
//
// # Bands
//
// Bands splits a Buffer into non-overlapping views. Each view is cut with a
// full slice expression, so its capacity ends where the next band begins and
// an append on one band can never reach a neighbour's bytes. Overlapping or
// out-of-bounds ranges are rejected with ErrOverlap before any view is handed
// out.
//
// # Codec
//
// Decode and Encode are the only file I/O in the pipeline. Supported formats
// are those of github.com/disintegration/imaging (JPEG, PNG, GIF, TIFF, BMP),
// WebP for input, and a lossless ".rgbz" snapshot format whose payload is
// zstd-compressed raw pixels.
//
// # Error Handling
//
// All failures are returned, never fatal. Callers classify them with
// errors.Is against ErrDecode, ErrEncode, ErrAllocation and ErrOverlap.
//
// # Thread Safety
//
// Cache is safe for concurrent use. Buffer and Band are not; the engine
// package provides the discipline that makes concurrent Band writes safe.
package raster
