package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestSaveCrop(t *testing.T) {
	img := createPatternImage(100, 100)
	outPath := filepath.Join(t.TempDir(), "condition.png")

	result, err := SaveCrop(img, 50, 0, 100, 50, outPath)
	if err != nil {
		t.Fatalf("SaveCrop failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("Size: got %dx%d, want 50x50", result.Width, result.Height)
	}
	if result.Path != outPath {
		t.Errorf("Path: got %s, want %s", result.Path, outPath)
	}

	saved, err := imaging.Open(outPath)
	if err != nil {
		t.Fatalf("failed to reopen crop: %v", err)
	}
	r, g, b, _ := saved.At(10, 10).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("crop should be green, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestSaveCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	outPath := filepath.Join(t.TempDir(), "out.png")

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"outside right", 50, 50, 150, 80},
		{"negative origin", -1, 0, 10, 10},
		{"inverted x", 60, 10, 40, 20},
		{"zero height", 10, 10, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SaveCrop(img, tt.x1, tt.y1, tt.x2, tt.y2, outPath); err == nil {
				t.Error("expected error for invalid crop region")
			}
		})
	}
}

func TestCropColor(t *testing.T) {
	full := imaging.Clone(createPatternImage(100, 100))

	crop := CropColor(full, image.Rect(0, 50, 50, 100))
	if crop.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("Bounds: got %v, want (0,0)-(50,50)", crop.Bounds())
	}
	if got := MeanColor(crop); got != (ColorMean{0, 0, 255}) {
		t.Errorf("bottom-left crop should be blue, got %+v", got)
	}

	if !CropColor(full, image.Rect(200, 200, 220, 220)).Bounds().Empty() {
		t.Error("crop outside the image should be empty")
	}
	if !CropColor(nil, image.Rect(0, 0, 5, 5)).Bounds().Empty() {
		t.Error("crop of nil image should be empty")
	}
}

func TestCropGray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 20, 10))
	gray.SetGray(12, 4, color.Gray{Y: 200})

	view := CropGray(gray, image.Rect(10, 2, 30, 8))
	if view.Bounds() != image.Rect(10, 2, 20, 8) {
		t.Errorf("Bounds: got %v, want clipped (10,2)-(20,8)", view.Bounds())
	}
	if view.GrayAt(12, 4).Y != 200 {
		t.Errorf("view should keep source coordinates, got %d at (12,4)", view.GrayAt(12, 4).Y)
	}

	if !CropGray(gray, image.Rect(50, 50, 60, 60)).Bounds().Empty() {
		t.Error("crop outside the image should be empty")
	}
	if !CropGray(nil, image.Rect(0, 0, 1, 1)).Bounds().Empty() {
		t.Error("crop of nil image should be empty")
	}
}
