// Package match implements the two detection primitives: locating a
// condition image inside a screen region and locating a word of text.
//
// # Template Matching
//
// TemplateMatcher correlates the scaled grayscale condition against the
// scaled grayscale detection area, then walks the correlation map from the
// best score downwards. Each candidate must pass two filters:
//   - its correlation score must exceed the strictness threshold
//   - the mean colour of the full-size screen pixels under it must be close
//     to the mean colour of the full-size condition
//
// A candidate failing the colour filter, or falling outside the screen after
// rounding, is zeroed in the map and the next best candidate is examined.
// The first candidate failing the score filter ends the search: nothing left
// in the map can score higher.
//
// # Text Matching
//
// TextMatcher runs OCR on a binarized copy of the scaled screen and accepts
// the first word equal to the searched text with a sufficient OCR confidence.
//
// # Threshold
//
// Thresholds are strictness percentages in [0,100]. Out of range values are
// clamped. Higher is stricter for both the score and the colour filters.
package match
