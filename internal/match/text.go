package match

import (
	"image"
	"log/slog"

	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
)

// Word is one word recognized by OCR.
type Word struct {
	Text       string
	Confidence float64 // 0-100
	Bounds     image.Rectangle
}

// TextRecognizer is an OCR engine. Word bounds are in the coordinates of the
// image given to SetImage.
type TextRecognizer interface {
	SetImage(img image.Image) error
	// RecognizeWords returns the words found inside area, in reading order.
	RecognizeWords(area image.Rectangle) ([]Word, error)
}

// TextMatcher finds a word of text on the last loaded screen.
type TextMatcher struct {
	recognizer TextRecognizer
	logger     *slog.Logger

	loaded bool
	roi    imaging.ScalableRoi
	ratio  float64
}

// NewTextMatcher creates a matcher. A nil recognizer disables text matching:
// every Match reports not detected.
func NewTextMatcher(recognizer TextRecognizer, logger *slog.Logger) *TextMatcher {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &TextMatcher{recognizer: recognizer, logger: logger}
}

// Enabled reports whether an OCR engine is available.
func (m *TextMatcher) Enabled() bool {
	return m.recognizer != nil
}

// Load hands a binarized copy of the scaled screen to the OCR engine. It
// must be called once per screen frame.
func (m *TextMatcher) Load(screen *imaging.ScreenImage) error {
	m.loaded = false
	if m.recognizer == nil || screen == nil || !screen.IsLoaded() {
		return nil
	}
	if err := m.recognizer.SetImage(imaging.Binarize(screen.ScaledGray())); err != nil {
		return err
	}
	m.loaded = true
	m.roi = screen.Roi()
	m.ratio = screen.Ratio()
	return nil
}

// Match searches text inside area and accepts the first word equal to it
// with an OCR confidence of at least threshold.
//
// Parameters:
//   - text: A single word, compared exactly with the recognized words.
//   - area: The search area at the screen ratio. It must lie within the
//     loaded screen.
//   - threshold: Minimum OCR confidence, clamped to [0,100].
//
// Returns:
//   - Result: Detected with the word bounds converted back to full-size
//     pixels, or not detected. Confidence is the last matching word's
//     confidence and Rejected counts matching words below threshold.
//
// Without a recognizer, before Load, or with an area outside the screen,
// Match logs a warning and returns a zero Result.
func (m *TextMatcher) Match(text string, area imaging.ScalableRoi, threshold int) Result {
	var res Result
	if !m.Enabled() {
		m.logger.Warn("text detection disabled")
		return res
	}
	if !m.loaded {
		m.logger.Warn("text detection without screen")
		return res
	}
	if !m.roi.ContainsOrEquals(area) {
		m.logger.Warn("detection area outside screen",
			slog.String("area", area.String()),
			slog.String("screen", m.roi.String()))
		return res
	}

	words, err := m.recognizer.RecognizeWords(area.Scaled)
	if err != nil {
		m.logger.Error("text recognition failed", slog.String("err", err.Error()))
		return res
	}

	minConfidence := float64(ClampThreshold(threshold))
	for _, w := range words {
		if w.Text != text {
			continue
		}
		res.Confidence = w.Confidence
		if w.Confidence >= minConfidence {
			return detected(res, imaging.NewRoiFromScaled(w.Bounds, m.ratio))
		}
		res.Rejected++
	}
	return res
}
