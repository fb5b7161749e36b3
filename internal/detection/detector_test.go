package detection

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
	"github.com/ironsheep/screen-detect-mcp/internal/match"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockScreen returns a w×h image of 10px blocks of pseudo-random colours.
func blockScreen(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for by := 0; by < h; by += 10 {
		for bx := 0; bx < w; bx += 10 {
			s := uint32(bx*7919+by*104729+17)*1664525 + 1013904223
			c := color.NRGBA{uint8(s >> 24), uint8(s >> 16), uint8(s >> 8), 255}
			for y := by; y < min(by+10, h); y++ {
				for x := bx; x < min(bx+10, w); x++ {
					img.SetNRGBA(x, y, c)
				}
			}
		}
	}
	return img
}

// recolour swaps the red and blue channels of img.
func recolour(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = img.Pix[i+2], img.Pix[i+1], img.Pix[i], img.Pix[i+3]
	}
	return out
}

type countingCorrelator struct {
	calls int
}

func (c *countingCorrelator) Correlate(region, condition *image.Gray) (*match.CorrelationMap, error) {
	c.calls++
	return match.NCC{}.Correlate(region, condition)
}

func newLoadedDetector(t *testing.T, screen image.Image, quality float64, opts ...Option) *Detector {
	t.Helper()
	d := New(discardLogger(), opts...)
	b := screen.Bounds()
	if _, err := d.SetScreenMetrics(b.Dx(), b.Dy(), quality); err != nil {
		t.Fatalf("SetScreenMetrics failed: %v", err)
	}
	if err := d.SetScreenImage(screen); err != nil {
		t.Fatalf("SetScreenImage failed: %v", err)
	}
	return d
}

func TestDetector_DetectImage_ExactCrop(t *testing.T) {
	screen := blockScreen(1000, 800)
	d := newLoadedDetector(t, screen, 400)

	if d.ScaleRatio() != 0.4 {
		t.Fatalf("ScaleRatio: got %f, want 0.4", d.ScaleRatio())
	}

	cond := imaging.CropColor(screen, image.Rect(200, 300, 250, 350))

	res := d.DetectImage(cond, image.Rect(0, 0, 1000, 800), 90)
	if !res.Detected {
		t.Fatalf("exact crop not detected: %+v", res)
	}
	if res.Center != image.Pt(225, 325) {
		t.Errorf("center: got %v, want (225,325)", res.Center)
	}

	// Empty area defaults to the whole screen.
	whole := d.DetectImage(cond, image.Rectangle{}, 0)
	if !whole.Detected || whole.Area.FullSize != image.Rect(200, 300, 250, 350) {
		t.Errorf("whole screen: got %+v", whole)
	}
}

func TestDetector_DetectImage_OffGrid(t *testing.T) {
	screen := blockScreen(1000, 800)
	d := newLoadedDetector(t, screen, 400)

	// At ratio 0.4 only crops on multiples of 5px are downscaled with the
	// same phase as the screen. Others are found within one scaled pixel.
	slack := int(math.Ceil(1 / d.ScaleRatio()))

	tests := []struct {
		name  string
		crop  image.Rectangle
		exact bool
	}{
		{"on grid", image.Rect(200, 300, 250, 350), true},
		{"off grid both axes", image.Rect(203, 307, 253, 357), false},
		{"off grid odd size", image.Rect(201, 301, 248, 349), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := imaging.CropColor(screen, tt.crop)
			res := d.DetectImage(cond, image.Rectangle{}, 70)
			if !res.Detected {
				t.Fatalf("crop %v not detected: %+v", tt.crop, res)
			}

			got := res.Area.FullSize
			if got.Size() != tt.crop.Size() {
				t.Errorf("area size: got %v, want %v", got.Size(), tt.crop.Size())
			}
			if tt.exact {
				if got != tt.crop {
					t.Errorf("area: got %v, want %v", got, tt.crop)
				}
				return
			}
			dx, dy := got.Min.X-tt.crop.Min.X, got.Min.Y-tt.crop.Min.Y
			if abs(dx) > slack || abs(dy) > slack {
				t.Errorf("area %v is (%d,%d) off %v, want within %dpx", got, dx, dy, tt.crop, slack)
			}
			if !res.Center.In(tt.crop) {
				t.Errorf("center %v outside the crop %v", res.Center, tt.crop)
			}
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDetector_DetectImage_Idempotent(t *testing.T) {
	screen := blockScreen(400, 300)
	d := newLoadedDetector(t, screen, 200)
	cond := recolour(imaging.CropColor(screen, image.Rect(100, 100, 160, 140)))

	first := d.DetectImage(cond, image.Rectangle{}, 50)
	second := d.DetectImage(cond, image.Rectangle{}, 50)
	if first != second {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestDetector_DetectImage_BoundsRejection(t *testing.T) {
	screen := blockScreen(200, 100)
	counter := &countingCorrelator{}
	d := newLoadedDetector(t, screen, 1000, WithCorrelator(counter))
	cond := imaging.CropColor(screen, image.Rect(0, 0, 80, 40))

	if res := d.DetectImage(cond, image.Rect(0, 0, 79, 100), 0); res.Detected {
		t.Error("condition wider than area should not be detected")
	}
	if res := d.DetectImage(cond, image.Rect(150, 0, 250, 100), 0); res.Detected {
		t.Error("area outside screen should not be detected")
	}
	if counter.calls != 0 {
		t.Errorf("correlation ran %d times, want 0", counter.calls)
	}

	if res := d.DetectImage(cond, image.Rectangle{}, 0); !res.Detected {
		t.Error("valid area should be detected")
	}
	if counter.calls != 1 {
		t.Errorf("correlation calls: got %d, want 1", counter.calls)
	}
}

func TestDetector_DetectBeforeScreen(t *testing.T) {
	var logs bytes.Buffer
	d := New(slog.New(slog.NewTextHandler(&logs, nil)))

	cond := blockScreen(10, 10)
	if res := d.DetectImage(cond, image.Rectangle{}, 0); res.Detected {
		t.Error("detection without screen should not detect")
	}
	if res := d.DetectText("OK", image.Rectangle{}, 0); res.Detected {
		t.Error("text detection without screen should not detect")
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("expected a warning, got logs:\n%s", logs.String())
	}
}

func TestDetector_SetScreenImage_Errors(t *testing.T) {
	d := New(discardLogger())

	if err := d.SetScreenImage(blockScreen(100, 100)); !errors.Is(err, ErrMetricsNotSet) {
		t.Errorf("before metrics: got %v, want ErrMetricsNotSet", err)
	}
	if err := d.SetScreenImage(nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil image: got %v, want ErrNilImage", err)
	}

	if _, err := d.SetScreenMetrics(100, 100, 50); err != nil {
		t.Fatalf("SetScreenMetrics failed: %v", err)
	}
	if err := d.SetScreenImage(blockScreen(100, 90)); !errors.Is(err, ErrScreenSizeMismatch) {
		t.Errorf("size mismatch: got %v, want ErrScreenSizeMismatch", err)
	}
	if d.Status().ScreenLoaded {
		t.Error("failed SetScreenImage should not load a frame")
	}
}

func TestDetector_SetScreenMetrics(t *testing.T) {
	d := New(discardLogger())

	for _, m := range []struct {
		w, h int
		q    float64
	}{{0, 10, 10}, {10, -1, 10}, {10, 10, 0}} {
		if _, err := d.SetScreenMetrics(m.w, m.h, m.q); !errors.Is(err, ErrInvalidMetrics) {
			t.Errorf("SetScreenMetrics(%d,%d,%.0f): got %v, want ErrInvalidMetrics", m.w, m.h, m.q, err)
		}
	}

	ratio, err := d.SetScreenMetrics(1920, 1080, 600)
	if err != nil || ratio != 0.3125 {
		t.Fatalf("got (%f, %v), want (0.3125, nil)", ratio, err)
	}
	if d.ScreenBounds() != image.Rect(0, 0, 1920, 1080) {
		t.Errorf("ScreenBounds: got %v", d.ScreenBounds())
	}
}

func TestDetector_MetricsChangeDropsFrame(t *testing.T) {
	screen := blockScreen(300, 200)
	d := newLoadedDetector(t, screen, 150)

	// Same metrics: frame kept.
	if _, err := d.SetScreenMetrics(300, 200, 150); err != nil {
		t.Fatalf("SetScreenMetrics failed: %v", err)
	}
	if !d.Status().ScreenLoaded {
		t.Error("identical metrics should keep the frame")
	}

	// Rotation: frame dropped.
	if _, err := d.SetScreenMetrics(200, 300, 150); err != nil {
		t.Fatalf("SetScreenMetrics failed: %v", err)
	}
	if d.Status().ScreenLoaded {
		t.Error("new metrics should drop the frame")
	}
	if res := d.DetectImage(imaging.CropColor(screen, image.Rect(0, 0, 20, 20)), image.Rectangle{}, 0); res.Detected {
		t.Error("detection after metrics change should wait for a new frame")
	}
}

func TestDetector_DetectCondition_OtherRatio(t *testing.T) {
	screen := blockScreen(400, 200)
	d := newLoadedDetector(t, screen, 200)

	cond, err := imaging.NewConditionImage(imaging.CropColor(screen, image.Rect(100, 50, 150, 100)), 1)
	if err != nil {
		t.Fatalf("NewConditionImage failed: %v", err)
	}

	res := d.DetectCondition(cond, image.Rectangle{}, 80)
	if !res.Detected || res.Center != image.Pt(125, 75) {
		t.Errorf("condition at ratio 1 on a 0.5 screen: got %+v", res)
	}
}

type fakeRecognizer struct {
	words []match.Word
}

func (f *fakeRecognizer) SetImage(image.Image) error { return nil }

func (f *fakeRecognizer) RecognizeWords(image.Rectangle) ([]match.Word, error) {
	return f.words, nil
}

func TestDetector_DetectText(t *testing.T) {
	rec := &fakeRecognizer{words: []match.Word{
		{Text: "Start", Confidence: 91, Bounds: image.Rect(40, 20, 60, 30)},
	}}
	d := newLoadedDetector(t, blockScreen(400, 200), 200, WithTextRecognizer(rec))

	if !d.Status().TextEnabled {
		t.Fatal("text should be enabled with a recognizer")
	}

	res := d.DetectText("Start", image.Rectangle{}, 90)
	if !res.Detected {
		t.Fatalf("text not detected: %+v", res)
	}
	if res.Center != image.Pt(100, 50) {
		t.Errorf("center: got %v, want (100,50)", res.Center)
	}

	if res := d.DetectText("Start", image.Rectangle{}, 95); res.Detected {
		t.Error("confidence below threshold should not detect")
	}
}

func TestDetector_DetectText_Disabled(t *testing.T) {
	d := newLoadedDetector(t, blockScreen(100, 100), 100)
	if d.Status().TextEnabled {
		t.Error("text should be disabled without a recognizer")
	}
	if res := d.DetectText("OK", image.Rectangle{}, 0); res.Detected {
		t.Error("disabled text detection should not detect")
	}
}

func TestDetector_Status(t *testing.T) {
	cache, err := NewConditionCache(4)
	if err != nil {
		t.Fatalf("NewConditionCache failed: %v", err)
	}
	d := New(discardLogger(), WithConditionCache(cache))

	s := d.Status()
	if s.MetricsSet || s.ScreenLoaded || s.ScaleRatio != 1 {
		t.Errorf("initial status: %+v", s)
	}

	if _, err := d.SetScreenMetrics(1000, 500, 250); err != nil {
		t.Fatalf("SetScreenMetrics failed: %v", err)
	}
	s = d.Status()
	if !s.MetricsSet || s.ScreenWidth != 1000 || s.ScreenHeight != 500 || s.ScaleRatio != 0.25 || s.Quality != 250 {
		t.Errorf("status after metrics: %+v", s)
	}
}
