package match

import (
	"image"
	"log/slog"
	"math"

	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
)

// TemplateMatcher finds a condition image inside a screen image.
type TemplateMatcher struct {
	correlator Correlator
	logger     *slog.Logger
}

// NewTemplateMatcher creates a matcher. A nil correlator selects
// DefaultCorrelator, a nil logger discards logs.
func NewTemplateMatcher(correlator Correlator, logger *slog.Logger) *TemplateMatcher {
	if correlator == nil {
		correlator = DefaultCorrelator()
	}
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &TemplateMatcher{correlator: correlator, logger: logger}
}

// Match searches cond inside the area of screen.
//
// Candidates are visited from the best correlation score down. A candidate
// is rejected, and its placement cleared from the map, when it falls
// outside the screen or its colour does not match; the search stops at the
// first accepted candidate or when the best remaining score is too low.
//
// Parameters:
//   - screen: The current frame, loaded with the screen scale ratio.
//   - cond: The condition, derived with the same ratio as screen. A
//     condition built with another ratio gives meaningless results.
//   - area: The search area carrying both rectangles: FullSize in screen
//     pixels and Scaled the same area at the screen ratio, as built by
//     imaging.NewRoiFromFullSize. It must lie within screen.Roi() and be at
//     least as large as cond.Roi() on both rectangles.
//   - threshold: Strictness, clamped to [0,100]. With tolerance = 100 -
//     threshold, a candidate is accepted when its correlation score exceeds
//     threshold/100 and its colour difference is below tolerance.
//
// Returns:
//   - Result: Detected with the candidate area in both resolutions and its
//     full-size center, or not detected. Confidence is the last score
//     examined, ColorDiff the last colour difference computed and Rejected
//     the number of candidates discarded.
//
// Invalid inputs (missing images, area outside the screen, condition larger
// than the area) are logged at warning level and yield a zero Result.
func (m *TemplateMatcher) Match(screen *imaging.ScreenImage, cond *imaging.ConditionImage, area imaging.ScalableRoi, threshold int) Result {
	var res Result
	if screen == nil || !screen.IsLoaded() || cond == nil || !cond.IsLoaded() {
		m.logger.Warn("template match without images")
		return res
	}

	if !screen.Roi().ContainsOrEquals(area) {
		m.logger.Warn("detection area outside screen",
			slog.String("area", area.String()),
			slog.String("screen", screen.Roi().String()))
		return res
	}
	if !area.IsBiggerOrEquals(cond.Roi()) {
		m.logger.Warn("condition larger than detection area",
			slog.String("area", area.String()),
			slog.String("condition", cond.Roi().String()))
		return res
	}

	cmap, err := m.correlator.Correlate(screen.CropScaledGray(area.Scaled), cond.ScaledGray())
	if err != nil {
		m.logger.Error("correlation failed", slog.String("err", err.Error()))
		return res
	}

	threshold = ClampThreshold(threshold)
	tolerance := float64(100 - threshold)
	minConfidence := float64(threshold) / 100

	ratio := screen.Ratio()
	condScaled := cond.Roi().Scaled.Size()
	condFull := cond.Roi().FullSize.Size()
	condMean := cond.FullSizeColorMean()

	for !cmap.Empty() {
		confidence, loc := cmap.MaxLoc()
		res.Confidence = confidence
		if confidence <= minConfidence {
			break
		}

		scaledMin := area.Scaled.Min.Add(loc)
		fullMin := area.FullSize.Min.Add(image.Pt(
			int(math.Round(float64(loc.X)/ratio)),
			int(math.Round(float64(loc.Y)/ratio))))
		candidate := imaging.ScalableRoi{
			FullSize: image.Rectangle{Min: fullMin, Max: fullMin.Add(condFull)},
			Scaled:   image.Rectangle{Min: scaledMin, Max: scaledMin.Add(condScaled)},
		}
		placement := image.Rectangle{Min: loc, Max: loc.Add(condScaled)}

		if !screen.Roi().ContainsOrEquals(candidate) {
			m.logger.Debug("candidate outside screen", slog.String("candidate", candidate.String()))
			cmap.Invalidate(placement)
			res.Rejected++
			continue
		}

		res.ColorDiff = imaging.ColorDiff(imaging.MeanColor(screen.CropFullSizeColor(candidate.FullSize)), condMean)
		if res.ColorDiff < tolerance {
			return detected(res, candidate)
		}

		m.logger.Debug("candidate colour mismatch",
			slog.String("candidate", candidate.String()),
			slog.Float64("confidence", confidence),
			slog.Float64("color_diff", res.ColorDiff))
		cmap.Invalidate(placement)
		res.Rejected++
	}
	return res
}
