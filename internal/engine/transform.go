package engine

import "github.com/ironsheep/image-gray-bench/internal/raster"

// ITU-R BT.601 luma weights, in thousandths.
const (
	lumaR     = 299
	lumaG     = 587
	lumaB     = 114
	lumaScale = lumaR + lumaG + lumaB
)

// Luma returns floor(0.299*r + 0.587*g + 0.114*b).
//
// The sum is computed in integer thousandths and truncated by integer
// division, which is the exact floor of the real-valued expression.
// Luma(v, v, v) == v for every v, so repeated passes are idempotent.
//
//	Luma(10, 20, 30)    == 18  // 18.15
//	Luma(255, 255, 254) == 254 // 254.886, truncated not rounded
//	Luma(255, 255, 255) == 255
func Luma(r, g, b uint8) uint8 {
	return uint8((lumaR*uint32(r) + lumaG*uint32(g) + lumaB*uint32(b)) / lumaScale)
}

// GrayPixel replaces the first three components of px with their luma.
// Components past the third (alpha) are left untouched. px must hold at
// least three bytes.
func GrayPixel(px []byte) {
	gray := Luma(px[0], px[1], px[2])
	px[0], px[1], px[2] = gray, gray, gray
}

// grayPass applies GrayPixel to every pixel of pix once.
func grayPass(pix []byte, components int) {
	for i := 0; i+components <= len(pix); i += components {
		gray := Luma(pix[i], pix[i+1], pix[i+2])
		pix[i], pix[i+1], pix[i+2] = gray, gray, gray
	}
}

// TransformBand runs repeats grayscale passes over every row of band.
//
// The band must have at least three components. Empty bands and
// repeats <= 0 are no-ops. The result is the same for every repeats >= 1;
// the extra passes only add work.
func TransformBand(band raster.Band, repeats int) {
	if band.Components < 3 || len(band.Pix) == 0 {
		return
	}
	for pass := 0; pass < repeats; pass++ {
		grayPass(band.Pix, band.Components)
	}
}
