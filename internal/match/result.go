package match

import (
	"image"

	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
)

// Result is the outcome of one detection call. A fresh Result is returned by
// every call.
//
// When Detected is false, Area and Center are zero but Confidence and
// ColorDiff still describe the last candidate examined, which helps tuning
// thresholds on near misses.
type Result struct {
	Detected bool `json:"detected"`
	// Confidence is the correlation score in [-1,1] for image detection, or
	// the OCR confidence in [0,100] for text detection.
	Confidence float64             `json:"confidence"`
	Area       imaging.ScalableRoi `json:"area"`
	Center     image.Point         `json:"center"`
	ColorDiff  float64             `json:"color_diff"`
	Rejected   int                 `json:"rejected"`
}

func detected(r Result, area imaging.ScalableRoi) Result {
	r.Detected = true
	r.Area = area
	r.Center = area.Center()
	return r
}

// ClampThreshold restricts a threshold to [0,100].
func ClampThreshold(threshold int) int {
	return min(max(threshold, 0), 100)
}
