package imaging

import (
	"fmt"
	"image"
)

// ScalableRoi is a region of interest tracked in both coordinate spaces used
// by the detection: full-size screen pixels and the downscaled processing
// resolution.
//
// Both rectangles are derived from each other through the same ratio, so
// Scaled ≈ round(FullSize × ratio) componentwise. Converting from one space
// to the other rounds to the nearest pixel, which is an accepted ±1px error.
type ScalableRoi struct {
	FullSize image.Rectangle `json:"full_size"`
	Scaled   image.Rectangle `json:"scaled"`
}

// NewRoiFromFullSize creates a roi from a full-size rectangle.
func NewRoiFromFullSize(r image.Rectangle, ratio float64) ScalableRoi {
	x, y := toScaled(r.Min.X, ratio), toScaled(r.Min.Y, ratio)
	return ScalableRoi{
		FullSize: r,
		Scaled:   image.Rect(x, y, x+ScaledLength(r.Dx(), ratio), y+ScaledLength(r.Dy(), ratio)),
	}
}

// NewRoiFromScaled creates a roi from a rectangle in the processing resolution.
func NewRoiFromScaled(r image.Rectangle, ratio float64) ScalableRoi {
	x, y := toFullSize(r.Min.X, ratio), toFullSize(r.Min.Y, ratio)
	return ScalableRoi{
		FullSize: image.Rect(x, y, x+toFullSize(r.Dx(), ratio), y+toFullSize(r.Dy(), ratio)),
		Scaled:   r,
	}
}

// Empty reports whether the roi has no area in either space.
func (r ScalableRoi) Empty() bool {
	return r.FullSize.Empty() || r.Scaled.Empty()
}

// ContainsOrEquals reports whether other lies entirely inside r, in both
// coordinate spaces. An empty other is never contained.
func (r ScalableRoi) ContainsOrEquals(other ScalableRoi) bool {
	if other.Empty() {
		return false
	}
	return other.FullSize.In(r.FullSize) && other.Scaled.In(r.Scaled)
}

// IsBiggerOrEquals reports whether other would fit inside r, comparing sizes
// only, in both coordinate spaces.
func (r ScalableRoi) IsBiggerOrEquals(other ScalableRoi) bool {
	return r.FullSize.Dx() >= other.FullSize.Dx() && r.FullSize.Dy() >= other.FullSize.Dy() &&
		r.Scaled.Dx() >= other.Scaled.Dx() && r.Scaled.Dy() >= other.Scaled.Dy()
}

// Center returns the full-size center point of the roi.
func (r ScalableRoi) Center() image.Point {
	return image.Pt(r.FullSize.Min.X+r.FullSize.Dx()/2, r.FullSize.Min.Y+r.FullSize.Dy()/2)
}

func (r ScalableRoi) String() string {
	return fmt.Sprintf("full=%v scaled=%v", r.FullSize, r.Scaled)
}
