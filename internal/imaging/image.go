package imaging

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when loading a nil or zero-sized image.
var ErrEmptyImage = errors.New("empty image")

// DetectionImage is the shared base of screen and condition images: the
// full-size colour buffer plus the grayscale buffer at processing resolution
// derived from it.
//
// A DetectionImage is replaced wholesale by Load, never updated in place.
type DetectionImage struct {
	fullColor  *image.NRGBA
	scaledGray *image.Gray
	roi        ScalableRoi
	ratio      float64
}

// Load copies img and derives its processing buffers for the given ratio.
//
// The scaled buffer is produced by area averaging (box filter), never by
// nearest neighbour, so the correlation peak is not destabilised by aliasing.
// Each scaled dimension is at least one pixel. Grayscale uses the same luma
// weights for every image, which is all correlation needs since it compares
// relative structure only.
func (d *DetectionImage) Load(img image.Image, ratio float64) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	if ratio <= 0 {
		ratio = 1
	}

	full := imaging.Clone(img)
	w, h := full.Bounds().Dx(), full.Bounds().Dy()

	scaled := full
	if ratio != 1 {
		scaled = imaging.Resize(full, ScaledLength(w, ratio), ScaledLength(h, ratio), imaging.Box)
	}

	d.fullColor = full
	d.scaledGray = luma(scaled)
	d.roi = NewRoiFromFullSize(full.Bounds(), ratio)
	d.ratio = ratio
	return nil
}

// luma converts img to one channel with the 0.3/0.6/0.1 weights of bild's
// grayscale effect. The result is anchored at (0,0).
func luma(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// IsLoaded reports whether Load succeeded at least once.
func (d *DetectionImage) IsLoaded() bool { return d.fullColor != nil }

// FullSizeColor returns the full-size colour buffer.
func (d *DetectionImage) FullSizeColor() *image.NRGBA { return d.fullColor }

// ScaledGray returns the grayscale buffer at processing resolution.
func (d *DetectionImage) ScaledGray() *image.Gray { return d.scaledGray }

// Roi returns the image bounds in both coordinate spaces.
func (d *DetectionImage) Roi() ScalableRoi { return d.roi }

// Ratio returns the scale ratio the buffers were derived with.
func (d *DetectionImage) Ratio() float64 { return d.ratio }

// ScreenImage is the reference image searched by the detection. On top of
// the shared buffers it supports cropping sub-regions.
type ScreenImage struct {
	DetectionImage
}

// NewScreenImage loads a screen snapshot for the given ratio.
func NewScreenImage(img image.Image, ratio float64) (*ScreenImage, error) {
	s := &ScreenImage{}
	if err := s.Load(img, ratio); err != nil {
		return nil, err
	}
	return s, nil
}

// CropScaledGray returns the scaled grayscale pixels inside r.
func (s *ScreenImage) CropScaledGray(r image.Rectangle) *image.Gray {
	return CropGray(s.scaledGray, r)
}

// CropFullSizeColor returns a copy of the full-size colour pixels inside r.
func (s *ScreenImage) CropFullSizeColor(r image.Rectangle) *image.NRGBA {
	return CropColor(s.fullColor, r)
}

// ConditionImage is the pattern searched for. On top of the shared buffers it
// exposes the mean colour of its full-size pixels, computed once at load.
type ConditionImage struct {
	DetectionImage
	mean ColorMean
}

// NewConditionImage loads a condition for the given ratio.
func NewConditionImage(img image.Image, ratio float64) (*ConditionImage, error) {
	c := &ConditionImage{}
	if err := c.Load(img, ratio); err != nil {
		return nil, err
	}
	return c, nil
}

// Load replaces the condition and refreshes its mean colour.
func (c *ConditionImage) Load(img image.Image, ratio float64) error {
	if err := c.DetectionImage.Load(img, ratio); err != nil {
		return err
	}
	c.mean = MeanColor(c.fullColor)
	return nil
}

// FullSizeColorMean returns the per-channel mean of the full-size condition.
func (c *ConditionImage) FullSizeColorMean() ColorMean { return c.mean }
