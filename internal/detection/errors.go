package detection

import "errors"

var (
	// ErrInvalidMetrics is returned for non-positive screen dimensions or
	// quality.
	ErrInvalidMetrics = errors.New("invalid screen metrics")

	// ErrMetricsNotSet is returned when a frame is pushed before any call to
	// SetScreenMetrics.
	ErrMetricsNotSet = errors.New("screen metrics not set")

	// ErrScreenSizeMismatch is returned when a frame does not have the size
	// given to SetScreenMetrics.
	ErrScreenSizeMismatch = errors.New("screen image size does not match metrics")

	// ErrNilImage is returned for a nil or empty image.
	ErrNilImage = errors.New("nil or empty image")

	// ErrNoScreenImage is reported by CheckCondition when no frame was
	// pushed yet.
	ErrNoScreenImage = errors.New("no screen image")
)
