//go:build gocv

package match

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

// GocvCorrelator correlates with OpenCV's TM_CCOEFF_NORMED template
// matching.
type GocvCorrelator struct{}

// DefaultCorrelator returns the correlation backend compiled into the binary.
func DefaultCorrelator() Correlator {
	return GocvCorrelator{}
}

// Correlate implements Correlator.
func (GocvCorrelator) Correlate(region, condition *image.Gray) (*CorrelationMap, error) {
	if region == nil || condition == nil {
		return &CorrelationMap{}, nil
	}
	rb, cb := region.Bounds(), condition.Bounds()
	if cb.Empty() || cb.Dx() > rb.Dx() || cb.Dy() > rb.Dy() {
		return &CorrelationMap{}, nil
	}

	src, err := gocv.ImageGrayToMatGray(packed(region))
	if err != nil {
		return nil, fmt.Errorf("failed to convert region: %w", err)
	}
	defer src.Close()

	tmpl, err := gocv.ImageGrayToMatGray(packed(condition))
	if err != nil {
		return nil, fmt.Errorf("failed to convert condition: %w", err)
	}
	defer tmpl.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, tmpl, &result, gocv.TmCcoeffNormed, mask)

	cm := NewCorrelationMap(result.Rows(), result.Cols())
	for r := 0; r < result.Rows(); r++ {
		for c := 0; c < result.Cols(); c++ {
			cm.m.Set(r, c, float64(result.GetFloatAt(r, c)))
		}
	}
	return cm, nil
}

// packed returns img with a zero origin and no row padding, which is the
// layout gocv reads Pix with.
func packed(img *image.Gray) *image.Gray {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx() {
		return img
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
