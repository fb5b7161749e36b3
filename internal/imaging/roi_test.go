package imaging

import (
	"image"
	"testing"
)

func TestNewRoiFromFullSize(t *testing.T) {
	roi := NewRoiFromFullSize(image.Rect(200, 300, 250, 350), 0.4)

	if roi.FullSize != image.Rect(200, 300, 250, 350) {
		t.Errorf("FullSize: got %v", roi.FullSize)
	}
	if roi.Scaled != image.Rect(80, 120, 100, 140) {
		t.Errorf("Scaled: got %v, want (80,120)-(100,140)", roi.Scaled)
	}
}

func TestNewRoiFromFullSize_MinimumSize(t *testing.T) {
	roi := NewRoiFromFullSize(image.Rect(10, 10, 11, 12), 0.1)
	if roi.Scaled.Dx() != 1 || roi.Scaled.Dy() != 1 {
		t.Errorf("scaled size should never collapse, got %v", roi.Scaled)
	}
}

func TestNewRoiFromScaled(t *testing.T) {
	roi := NewRoiFromScaled(image.Rect(80, 120, 100, 140), 0.4)

	if roi.FullSize != image.Rect(200, 300, 250, 350) {
		t.Errorf("FullSize: got %v, want (200,300)-(250,350)", roi.FullSize)
	}
	if roi.Center() != image.Pt(225, 325) {
		t.Errorf("Center: got %v, want (225,325)", roi.Center())
	}
}

func TestScalableRoi_RoundTrip(t *testing.T) {
	for _, ratio := range []float64{1, 0.75, 0.4, 0.3125, 0.1} {
		for _, r := range []image.Rectangle{
			image.Rect(0, 0, 1000, 800),
			image.Rect(13, 27, 140, 91),
			image.Rect(333, 10, 334, 500),
		} {
			back := NewRoiFromScaled(NewRoiFromFullSize(r, ratio).Scaled, ratio).FullSize
			tol := int(1/ratio) + 1
			if abs(back.Min.X-r.Min.X) > tol || abs(back.Min.Y-r.Min.Y) > tol ||
				abs(back.Dx()-r.Dx()) > tol || abs(back.Dy()-r.Dy()) > tol {
				t.Errorf("ratio %f: %v round-tripped to %v", ratio, r, back)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestScalableRoi_ContainsOrEquals(t *testing.T) {
	screen := NewRoiFromFullSize(image.Rect(0, 0, 1000, 800), 0.4)

	tests := []struct {
		name string
		area image.Rectangle
		want bool
	}{
		{"equal", image.Rect(0, 0, 1000, 800), true},
		{"inside", image.Rect(100, 100, 300, 300), true},
		{"overflow right", image.Rect(900, 0, 1100, 100), false},
		{"negative", image.Rect(-10, 0, 100, 100), false},
		{"empty", image.Rect(10, 10, 10, 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := screen.ContainsOrEquals(NewRoiFromFullSize(tt.area, 0.4)); got != tt.want {
				t.Errorf("ContainsOrEquals(%v): got %v, want %v", tt.area, got, tt.want)
			}
		})
	}
}

func TestScalableRoi_IsBiggerOrEquals(t *testing.T) {
	area := NewRoiFromFullSize(image.Rect(500, 500, 600, 560), 1)

	if !area.IsBiggerOrEquals(NewRoiFromFullSize(image.Rect(0, 0, 100, 60), 1)) {
		t.Error("same size should fit")
	}
	if !area.IsBiggerOrEquals(NewRoiFromFullSize(image.Rect(0, 0, 20, 20), 1)) {
		t.Error("smaller condition should fit")
	}
	if area.IsBiggerOrEquals(NewRoiFromFullSize(image.Rect(0, 0, 101, 20), 1)) {
		t.Error("wider condition should not fit")
	}
	if area.IsBiggerOrEquals(NewRoiFromFullSize(image.Rect(0, 0, 20, 61), 1)) {
		t.Error("taller condition should not fit")
	}
}
