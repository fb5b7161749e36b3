// Package capture grabs frames from the local displays.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no active display is available.
var ErrNoDisplay = errors.New("no active display")

// Displays returns the number of active displays.
func Displays() int {
	return screenshot.NumActiveDisplays()
}

// Bounds returns the bounds of display in the virtual screen.
func Bounds(display int) (image.Rectangle, error) {
	if err := checkDisplay(display); err != nil {
		return image.Rectangle{}, err
	}
	return screenshot.GetDisplayBounds(display), nil
}

// Display captures the full content of display. The returned image is
// anchored at (0,0) whatever the display position.
func Display(display int) (*image.RGBA, error) {
	if err := checkDisplay(display); err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", display, err)
	}
	if img.Bounds().Min != (image.Point{}) {
		img = &image.RGBA{
			Pix:    img.Pix,
			Stride: img.Stride,
			Rect:   img.Bounds().Sub(img.Bounds().Min),
		}
	}
	return img, nil
}

func checkDisplay(display int) error {
	n := Displays()
	if n == 0 {
		return ErrNoDisplay
	}
	if display < 0 || display >= n {
		return fmt.Errorf("display %d out of range (%d active)", display, n)
	}
	return nil
}
