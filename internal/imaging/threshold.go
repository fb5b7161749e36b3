package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
)

// OtsuLevel returns the gray level separating img into two classes with the
// highest between-class variance. A uniform image yields its only level.
func OtsuLevel(img *image.Gray) uint8 {
	if img == nil || img.Bounds().Empty() {
		return 0
	}

	// Gray images convert to RGBA with equal channels, so R is the luma histogram.
	bins := histogram.NewRGBAHistogram(img).R.Bins

	total := 0
	var sum float64
	for level, count := range bins {
		total += count
		sum += float64(level * count)
	}

	var (
		sumBackground float64
		weightBg      int
		bestVariance  float64
		best          int
	)
	for level, count := range bins {
		weightBg += count
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}

		sumBackground += float64(level * count)
		meanBg := sumBackground / float64(weightBg)
		meanFg := (sum - sumBackground) / float64(weightFg)

		diff := meanBg - meanFg
		variance := float64(weightBg) * float64(weightFg) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			best = level
		}
	}

	if bestVariance == 0 {
		// Single populated level.
		for level, count := range bins {
			if count > 0 {
				return uint8(level)
			}
		}
	}
	// Pixels strictly above the background class become foreground.
	return uint8(min(best+1, 255))
}

// Binarize thresholds img at its Otsu level: pixels at or above the level
// become white, the others black. This is the preprocessing applied to the
// screen before OCR.
func Binarize(img *image.Gray) *image.Gray {
	if img == nil || img.Bounds().Empty() {
		return &image.Gray{}
	}
	return segment.Threshold(img, OtsuLevel(img))
}
