//go:build !gocv

package match

// DefaultCorrelator returns the correlation backend compiled into the
// binary. Build with the gocv tag to use OpenCV instead of the pure Go one.
func DefaultCorrelator() Correlator {
	return NCC{}
}
