// Package imaging provides the image buffers and coordinate model used by the
// screen detection engine.
//
// # Coordinate Spaces
//
// Detection runs on downscaled copies of the images to bound its cost. Two
// coordinate spaces therefore coexist:
//   - full size: the pixels of the screen as supplied by the caller
//   - scaled: the processing resolution, full size × ratio
//
// The ratio is computed once per screen size by ComputeRatio (see
// ScaleRatioManager) and every conversion goes through it. ScalableRoi keeps
// a rectangle in both spaces at once so the two never drift apart.
//
// All coordinates are 0-based with the origin at the top-left corner.
// Rectangles are image.Rectangle values: Min is inclusive, Max exclusive.
//
// # Images
//
// DetectionImage holds a full-size colour buffer and the grayscale buffer at
// processing resolution derived from it. Two variants build on it:
//   - ScreenImage: the image searched, supports cropping
//   - ConditionImage: the pattern searched for, exposes its mean colour
//
// Images are replaced wholesale on each load, never mutated in place.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other types are not; they are
// owned by a single detector and used from one goroutine.
package imaging
