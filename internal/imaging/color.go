package imaging

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// colorChannels is the number of colour channels compared by ColorDiff.
// Alpha is ignored.
const colorChannels = 3

// ColorMean is the per-channel mean of an image region, each component in
// the 0-255 range.
type ColorMean struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// MeanColor computes the mean of each colour channel over the whole image.
// An empty image yields a zero mean.
func MeanColor(img *image.NRGBA) ColorMean {
	if img == nil {
		return ColorMean{}
	}
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n <= 0 {
		return ColorMean{}
	}

	var r, g, bl uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X-1, y)+4]
		for i := 0; i < len(row); i += 4 {
			r += uint64(row[i])
			g += uint64(row[i+1])
			bl += uint64(row[i+2])
		}
	}

	fn := float64(n)
	return ColorMean{R: float64(r) / fn, G: float64(g) / fn, B: float64(bl) / fn}
}

// ColorDiff returns the difference between two colour means on a 0-100 scale:
//
//	Σ|a_c - b_c| × 100 / (255 × channels)
//
// 0 means identical means, 100 means opposite extremes on every channel.
func ColorDiff(a, b ColorMean) float64 {
	sum := math.Abs(a.R-b.R) + math.Abs(a.G-b.G) + math.Abs(a.B-b.B)
	return sum * 100 / (255 * colorChannels)
}

// Colorful returns the mean as a go-colorful colour.
func (m ColorMean) Colorful() colorful.Color {
	return colorful.Color{R: m.R / 255, G: m.G / 255, B: m.B / 255}
}

// Hex formats the mean as "#rrggbb".
func (m ColorMean) Hex() string {
	return m.Colorful().Clamped().Hex()
}
