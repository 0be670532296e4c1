package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// RawExt is the file extension of lossless raw snapshots.
const RawExt = ".rgbz"

// Raw snapshot layout:
//
//	magic      "RGBZ"
//	version    1 byte
//	width      uint32 big-endian
//	height     uint32 big-endian
//	components uint32 big-endian
//	payload    zstd frame holding width*height*components pixel bytes
const (
	rawVersion    = 1
	rawHeaderSize = 4 + 1 + 3*4
)

var rawMagic = []byte("RGBZ")

// MaxRawBytes bounds the pixel payload ReadRaw accepts (1 GiB).
const MaxRawBytes = 1 << 30

// WriteRaw writes buf to w in the raw snapshot format.
func WriteRaw(w io.Writer, buf *Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	hdr := make([]byte, 0, rawHeaderSize)
	hdr = append(hdr, rawMagic...)
	hdr = append(hdr, rawVersion)
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(buf.Width))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(buf.Height))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(buf.Components))
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	if _, err := enc.Write(buf.Pix); err != nil {
		enc.Close()
		return fmt.Errorf("failed to compress pixels: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd frame: %w", err)
	}
	return nil
}

// ReadRaw reads a raw snapshot written by WriteRaw.
//
// The header must match exactly and the payload must decompress to exactly
// the number of bytes the header promises. Pixel storage grows with the
// decompressed payload, never more than one byte past the promised size, so
// a short file cannot force a large allocation. A header promising more than
// MaxRawBytes fails with ErrAllocation.
func ReadRaw(r io.Reader) (*Buffer, error) {
	hdr := make([]byte, rawHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !bytes.Equal(hdr[:4], rawMagic) {
		return nil, fmt.Errorf("bad magic %q", hdr[:4])
	}
	if hdr[4] != rawVersion {
		return nil, fmt.Errorf("unsupported version %d", hdr[4])
	}

	width := int(binary.BigEndian.Uint32(hdr[5:9]))
	height := int(binary.BigEndian.Uint32(hdr[9:13]))
	components := int(binary.BigEndian.Uint32(hdr[13:17]))
	size, err := byteSize(width, height, components)
	if err != nil {
		return nil, err
	}
	if size > MaxRawBytes {
		return nil, fmt.Errorf("%w: %dx%dx%d snapshot exceeds %d bytes",
			ErrAllocation, width, height, components, MaxRawBytes)
	}

	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	pix, err := io.ReadAll(io.LimitReader(dec, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress pixels: %w", err)
	}
	switch {
	case len(pix) < size:
		return nil, fmt.Errorf("pixel payload shorter than %dx%dx%d: %d of %d bytes",
			width, height, components, len(pix), size)
	case len(pix) > size:
		return nil, fmt.Errorf("pixel payload longer than %dx%dx%d", width, height, components)
	}
	return &Buffer{Width: width, Height: height, Components: components, Pix: pix}, nil
}

func decodeRawFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image %s: %w", ErrDecode, path, err)
	}
	defer f.Close()

	buf, err := ReadRaw(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return buf, nil
}

func encodeRawFile(buf *Buffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", ErrEncode, path, err)
	}
	if err := WriteRaw(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}
	return nil
}
