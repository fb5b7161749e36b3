package imaging

import (
	"image"
	"math"
)

// ComputeRatio returns the downscale ratio applied to every image processed
// for a screen of the given size.
//
// The largest screen dimension is capped to quality:
//   - max(width, height) <= quality: ratio is 1 (no downscaling)
//   - otherwise: ratio = quality / max(width, height)
//
// Non-positive dimensions or quality yield 1.
func ComputeRatio(width, height int, quality float64) float64 {
	if width <= 0 || height <= 0 || quality <= 0 {
		return 1
	}

	largest := float64(max(width, height))
	if largest <= quality {
		return 1
	}
	return quality / largest
}

// ScaleRatioManager keeps the processing scale ratio for a screen and only
// recomputes it when the screen metrics change (e.g. a device rotation).
//
// The zero value has a ratio of 1 and no metrics.
type ScaleRatioManager struct {
	size    image.Point
	quality float64
	ratio   float64
}

// Update records new screen metrics. It returns the ratio and whether it was
// recomputed; calling it again with identical metrics is a no-op.
func (m *ScaleRatioManager) Update(width, height int, quality float64) (float64, bool) {
	size := image.Pt(width, height)
	if m.ratio != 0 && size == m.size && quality == m.quality {
		return m.ratio, false
	}

	m.size = size
	m.quality = quality
	m.ratio = ComputeRatio(width, height, quality)
	return m.ratio, true
}

// Ratio returns the current ratio, or 1 if no metrics were set yet.
func (m *ScaleRatioManager) Ratio() float64 {
	if m.ratio == 0 {
		return 1
	}
	return m.ratio
}

// Size returns the screen size of the last metrics.
func (m *ScaleRatioManager) Size() image.Point { return m.size }

// Quality returns the detection quality of the last metrics.
func (m *ScaleRatioManager) Quality() float64 { return m.quality }

// IsSet reports whether metrics were provided at least once.
func (m *ScaleRatioManager) IsSet() bool { return m.ratio != 0 }

// ScaledLength converts a full-size length into the processing resolution.
// Lengths of positive inputs never collapse below one pixel.
func ScaledLength(n int, ratio float64) int {
	if n <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(n)*ratio)))
}

func toScaled(v int, ratio float64) int {
	return int(math.Round(float64(v) * ratio))
}

func toFullSize(v int, ratio float64) int {
	return int(math.Round(float64(v) / ratio))
}
