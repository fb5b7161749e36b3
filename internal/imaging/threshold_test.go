package imaging

import (
	"image"
	"image/color"
	"testing"
)

func twoLevelGray(w, h int, dark, light uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := dark
			if x >= w/2 {
				v = light
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestOtsuLevel(t *testing.T) {
	level := OtsuLevel(twoLevelGray(20, 10, 40, 200))
	if level <= 40 || level > 200 {
		t.Errorf("OtsuLevel: got %d, want in (40,200]", level)
	}

	uniform := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := range uniform.Pix {
		uniform.Pix[i] = 77
	}
	if got := OtsuLevel(uniform); got != 77 {
		t.Errorf("uniform OtsuLevel: got %d, want 77", got)
	}

	if got := OtsuLevel(nil); got != 0 {
		t.Errorf("nil OtsuLevel: got %d, want 0", got)
	}
}

func TestBinarize(t *testing.T) {
	bin := Binarize(twoLevelGray(20, 10, 40, 200))

	if bin.Bounds().Dx() != 20 || bin.Bounds().Dy() != 10 {
		t.Fatalf("size: got %v", bin.Bounds())
	}
	if got := bin.GrayAt(2, 2).Y; got != 0 {
		t.Errorf("dark pixel: got %d, want 0", got)
	}
	if got := bin.GrayAt(15, 2).Y; got != 255 {
		t.Errorf("light pixel: got %d, want 255", got)
	}

	if !Binarize(nil).Bounds().Empty() {
		t.Error("nil input should yield an empty image")
	}
}
