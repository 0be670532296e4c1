package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var (
	// ErrDecode reports a missing, unreadable or corrupt input image.
	ErrDecode = errors.New("decode error")

	// ErrEncode reports an output that could not be written.
	ErrEncode = errors.New("encode error")
)

// DefaultJPEGQuality matches libjpeg's default quality setting.
const DefaultJPEGQuality = 75

// Decode reads an image file into a new Buffer.
//
// Parameters:
//   - path: File to read. Files ending in ".rgbz" are read as raw snapshots;
//     everything else goes through imaging.Open, so JPEG, PNG, GIF, TIFF, BMP
//     and WebP are accepted. EXIF orientation is applied to JPEG input.
//
// Returns:
//   - *Buffer: RGB (3 components) for opaque images, RGBA (4 components)
//     otherwise. Raw snapshots keep their stored component count.
//   - error: Wraps ErrDecode on any failure.
func Decode(path string) (*Buffer, error) {
	if isRaw(path) {
		return decodeRawFile(path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image %s: %w", ErrDecode, path, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image into a Buffer.
//
// The image is normalized to non-premultiplied RGBA first. Opaque images are
// packed as 3-component RGB; images with any transparency keep the alpha
// channel as a 4th component.
func FromImage(img image.Image) *Buffer {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	components := 4
	if src.Opaque() {
		components = 3
	}

	buf := &Buffer{
		Width:      w,
		Height:     h,
		Components: components,
		Pix:        make([]byte, w*h*components),
	}
	for y := 0; y < h; y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dstRow := buf.Row(y)
		if components == 4 {
			copy(dstRow, srcRow)
			continue
		}
		for x := 0; x < w; x++ {
			copy(dstRow[x*3:x*3+3], srcRow[x*4:x*4+3])
		}
	}
	return buf
}

// ToImage wraps the buffer contents in a standard library image.
//
// One component becomes *image.Gray. Two components are read as gray plus
// alpha, three as RGB with full opacity, four as non-premultiplied RGBA; all
// of these become *image.NRGBA. The pixel data is copied.
func ToImage(buf *Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, buf.Width, buf.Height)
	if buf.Components == 1 {
		gray := image.NewGray(rect)
		for y := 0; y < buf.Height; y++ {
			copy(gray.Pix[y*gray.Stride:], buf.Row(y))
		}
		return gray, nil
	}

	dst := image.NewNRGBA(rect)
	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		out := dst.Pix[y*dst.Stride : y*dst.Stride+buf.Width*4]
		for x := 0; x < buf.Width; x++ {
			px := row[x*buf.Components : (x+1)*buf.Components]
			o := out[x*4 : x*4+4]
			switch buf.Components {
			case 2:
				o[0], o[1], o[2], o[3] = px[0], px[0], px[0], px[1]
			case 3:
				o[0], o[1], o[2], o[3] = px[0], px[1], px[2], 0xff
			default:
				copy(o, px)
			}
		}
	}
	return dst, nil
}

// Encode writes the buffer to path.
//
// The output format is chosen from the file extension: ".rgbz" writes a
// lossless raw snapshot, anything imaging.Save understands (".jpg", ".png",
// ".gif", ".tif", ".bmp") goes through it with the given options, e.g.
// imaging.JPEGQuality.
//
// Errors wrap ErrEncode, including an unknown extension or an unwritable
// destination.
func Encode(buf *Buffer, path string, opts ...imaging.EncodeOption) error {
	if isRaw(path) {
		return encodeRawFile(buf, path)
	}

	img, err := ToImage(buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := imaging.Save(img, path, opts...); err != nil {
		return fmt.Errorf("%w: failed to save image %s: %w", ErrEncode, path, err)
	}
	return nil
}

// ImageInfo describes an image file and the buffer it decodes to.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Components is the number of interleaved channels in the decoded buffer.
	Components int `json:"components"`

	// Format is "jpeg", "png", "gif", "tiff", "bmp", "rgbz" or "unknown",
	// detected from the file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo decodes path through the cache and describes it.
func LoadImageInfo(cache *Cache, path string) (*ImageInfo, error) {
	buf, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         buf.Width,
		Height:        buf.Height,
		Components:    buf.Components,
		Format:        FormatOf(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

// FormatOf names the file format implied by the extension of path.
func FormatOf(path string) string {
	if isRaw(path) {
		return "rgbz"
	}
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return "unknown"
	}
	return strings.ToLower(f.String())
}

func isRaw(path string) bool {
	return strings.EqualFold(filepath.Ext(path), RawExt)
}
