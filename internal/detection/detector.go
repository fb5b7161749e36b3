package detection

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
	"github.com/ironsheep/screen-detect-mcp/internal/match"
)

// Detector detects conditions and text on the last screen frame it was
// given. See the package documentation for its life cycle.
type Detector struct {
	logger     *slog.Logger
	correlator match.Correlator
	recognizer match.TextRecognizer
	conditions *ConditionCache

	scale     imaging.ScaleRatioManager
	screen    *imaging.ScreenImage
	templates *match.TemplateMatcher
	text      *match.TextMatcher
}

// Option configures a Detector.
type Option func(*Detector)

// WithTextRecognizer enables text detection with r. Without it DetectText
// always reports not detected.
func WithTextRecognizer(r match.TextRecognizer) Option {
	return func(d *Detector) { d.recognizer = r }
}

// WithCorrelator replaces the correlation backend.
func WithCorrelator(c match.Correlator) Option {
	return func(d *Detector) { d.correlator = c }
}

// WithConditionCache makes LoadCondition reuse derived conditions from c.
func WithConditionCache(c *ConditionCache) Option {
	return func(d *Detector) { d.conditions = c }
}

// New creates a Detector.
//
// Parameters:
//   - logger: Receives warnings for rejected detections and debug traces of
//     every detection. A nil logger uses slog.Default.
//   - opts: WithTextRecognizer, WithCorrelator, WithConditionCache.
//
// The Detector starts with no metrics and no frame: every detection reports
// not detected until SetScreenMetrics and SetScreenImage were called.
//
// # Example Usage
//
//	d := detection.New(logger, detection.WithConditionCache(cache))
//	if _, err := d.SetScreenMetrics(1920, 1080, 600); err != nil {
//	    return err
//	}
//	if err := d.SetScreenImage(frame); err != nil {
//	    return err
//	}
//	res := d.DetectImage(button, image.Rectangle{}, 90)
//	if res.Detected {
//	    click(res.Center)
//	}
func New(logger *slog.Logger, opts ...Option) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Detector{logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	d.templates = match.NewTemplateMatcher(d.correlator, logger)
	d.text = match.NewTextMatcher(d.recognizer, logger)
	return d
}

// SetScreenMetrics sets the screen size and detection quality.
//
// Parameters:
//   - width, height: Screen size in pixels. Every frame given to
//     SetScreenImage must have this size.
//   - quality: Largest processed dimension. Frames whose largest side
//     exceeds it are downscaled to it.
//
// Returns:
//   - float64: The scale ratio, quality / max(width, height), or 1 when the
//     screen already fits.
//   - error: ErrInvalidMetrics, wrapped, if any argument is not positive.
//
// Calling it again with the same values is a no-op. New values drop the
// current frame, and a new ratio also purges the condition cache.
func (d *Detector) SetScreenMetrics(width, height int, quality float64) (float64, error) {
	if width <= 0 || height <= 0 || quality <= 0 {
		return 0, fmt.Errorf("%w: %dx%d quality %.0f", ErrInvalidMetrics, width, height, quality)
	}

	oldRatio := d.scale.Ratio()
	ratio, changed := d.scale.Update(width, height, quality)
	if !changed {
		return ratio, nil
	}

	d.screen = nil
	if d.conditions != nil && ratio != oldRatio {
		d.conditions.Purge()
	}
	d.logger.Info("screen metrics updated",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Float64("quality", quality),
		slog.Float64("ratio", ratio))
	return ratio, nil
}

// SetScreenImage replaces the current frame.
//
// Parameters:
//   - img: The captured screen, of the size given to SetScreenMetrics. It is
//     downscaled once here and shared by every following detection.
//
// Returns:
//   - error: Non-nil if the frame is rejected. The previous frame is kept in
//     that case.
//
// # Errors
//
//   - ErrNilImage if img is nil or empty
//   - ErrMetricsNotSet if SetScreenMetrics was never called
//   - ErrScreenSizeMismatch, wrapped, if img does not have the metrics size
//   - A wrapped error if the frame cannot be prepared for detection
//
// A failure to prepare the frame for text detection is logged and does not
// fail the call.
func (d *Detector) SetScreenImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrNilImage
	}
	if !d.scale.IsSet() {
		return ErrMetricsNotSet
	}
	if size := img.Bounds().Size(); size != d.scale.Size() {
		return fmt.Errorf("%w: got %v, want %v", ErrScreenSizeMismatch, size, d.scale.Size())
	}

	screen, err := imaging.NewScreenImage(img, d.scale.Ratio())
	if err != nil {
		return fmt.Errorf("failed to load screen image: %w", err)
	}
	d.screen = screen

	if err := d.text.Load(screen); err != nil {
		d.logger.Error("failed to prepare screen for text detection", slog.String("err", err.Error()))
	}
	return nil
}

// LoadCondition returns the condition stored at path, derived for the
// current scale ratio.
//
// Parameters:
//   - path: The condition image file.
//   - load: Decodes path, typically imaging.ImageCache.Load.
//
// Returns:
//   - *imaging.ConditionImage: The derived condition. With a ConditionCache
//     it is reused across calls.
//   - error: Non-nil if load fails or the image is empty.
func (d *Detector) LoadCondition(path string, load LoaderFunc) (*imaging.ConditionImage, error) {
	if d.conditions != nil {
		return d.conditions.Get(path, d.scale.Ratio(), load)
	}
	img, err := load(path)
	if err != nil {
		return nil, err
	}
	return imaging.NewConditionImage(img, d.scale.Ratio())
}

// EvictCondition forgets the cached conditions derived from path, after the
// file was rewritten.
func (d *Detector) EvictCondition(path string) {
	if d.conditions != nil {
		d.conditions.Evict(path)
	}
}

// DetectImage searches img inside area of the current frame.
//
// Parameters:
//   - img: The condition image, at full size.
//   - area: Search area in full-size screen pixels. An empty area means the
//     whole screen.
//   - threshold: Strictness percentage, clamped to [0,100]. 100 only
//     accepts an identical region.
//
// Returns:
//   - match.Result: Detected with the matched area and its center in
//     full-size pixels, or not detected.
//
// DetectImage never fails. A missing frame, an invalid image, an area
// outside the screen or a condition larger than the area are logged at
// warning level and yield a not-detected result.
func (d *Detector) DetectImage(img image.Image, area image.Rectangle, threshold int) match.Result {
	if !d.ready("image") {
		return match.Result{}
	}
	cond, err := imaging.NewConditionImage(img, d.scale.Ratio())
	if err != nil {
		d.logger.Warn("invalid condition image", slog.String("err", err.Error()))
		return match.Result{}
	}
	return d.DetectCondition(cond, area, threshold)
}

// DetectCondition is DetectImage for an already derived condition.
//
// Parameters:
//   - cond: The condition, usually from LoadCondition. One derived with
//     another ratio is derived again for the current one.
//   - area: Search area in full-size screen pixels. An empty area means the
//     whole screen.
//   - threshold: Strictness percentage, clamped to [0,100].
//
// Returns:
//   - match.Result: As for DetectImage.
func (d *Detector) DetectCondition(cond *imaging.ConditionImage, area image.Rectangle, threshold int) match.Result {
	if !d.ready("image") {
		return match.Result{}
	}
	if cond == nil || !cond.IsLoaded() {
		d.logger.Warn("condition not loaded")
		return match.Result{}
	}

	ratio := d.scale.Ratio()
	if cond.Ratio() != ratio {
		rescaled, err := imaging.NewConditionImage(cond.FullSizeColor(), ratio)
		if err != nil {
			d.logger.Warn("invalid condition image", slog.String("err", err.Error()))
			return match.Result{}
		}
		cond = rescaled
	}

	res := d.templates.Match(d.screen, cond, d.areaRoi(area), threshold)
	d.logger.Debug("image detection",
		slog.Bool("detected", res.Detected),
		slog.Float64("confidence", res.Confidence),
		slog.Int("threshold", threshold),
		slog.Int("rejected", res.Rejected))
	return res
}

// DetectText searches the word text inside area of the current frame.
//
// Parameters:
//   - text: A single word, matched exactly.
//   - area: Search area in full-size screen pixels. An empty area means the
//     whole screen.
//   - threshold: Minimum OCR confidence, clamped to [0,100].
//
// Returns:
//   - match.Result: Detected with the word area and its center in full-size
//     pixels, or not detected. Without a text recognizer the result is
//     always not detected.
func (d *Detector) DetectText(text string, area image.Rectangle, threshold int) match.Result {
	if !d.ready("text") {
		return match.Result{}
	}
	res := d.text.Match(text, d.areaRoi(area), threshold)
	d.logger.Debug("text detection",
		slog.String("text", text),
		slog.Bool("detected", res.Detected),
		slog.Float64("confidence", res.Confidence))
	return res
}

func (d *Detector) ready(kind string) bool {
	if d.screen == nil {
		d.logger.Warn("detection before any screen image", slog.String("kind", kind))
		return false
	}
	return true
}

func (d *Detector) areaRoi(area image.Rectangle) imaging.ScalableRoi {
	if area.Empty() {
		return d.screen.Roi()
	}
	return imaging.NewRoiFromFullSize(area, d.scale.Ratio())
}

// ScreenBounds returns the full-size bounds of the current metrics.
func (d *Detector) ScreenBounds() image.Rectangle {
	return image.Rectangle{Max: d.scale.Size()}
}

// ScaleRatio returns the current scale ratio, 1 before any metrics.
func (d *Detector) ScaleRatio() float64 {
	return d.scale.Ratio()
}

// Status is a snapshot of the Detector state.
type Status struct {
	MetricsSet   bool    `json:"metrics_set"`
	ScreenWidth  int     `json:"screen_width"`
	ScreenHeight int     `json:"screen_height"`
	Quality      float64 `json:"quality"`
	ScaleRatio   float64 `json:"scale_ratio"`
	ScreenLoaded bool    `json:"screen_loaded"`
	TextEnabled  bool    `json:"text_enabled"`
	CachedConds  int     `json:"cached_conditions"`
}

// Status reports the current state.
func (d *Detector) Status() Status {
	s := Status{
		MetricsSet:   d.scale.IsSet(),
		ScreenWidth:  d.scale.Size().X,
		ScreenHeight: d.scale.Size().Y,
		Quality:      d.scale.Quality(),
		ScaleRatio:   d.scale.Ratio(),
		ScreenLoaded: d.screen != nil,
		TextEnabled:  d.text.Enabled(),
	}
	if d.conditions != nil {
		s.CachedConds = d.conditions.Len()
	}
	return s
}
