// Package detection provides the Detector, the entry point of the screen
// detection engine.
//
// # Usage
//
// A Detector follows the life cycle of a polling loop:
//
//  1. SetScreenMetrics once per screen size (and again on rotation)
//  2. SetScreenImage once per captured frame
//  3. any number of DetectImage, DetectCondition, DetectText or
//     VerifyConditions calls against that frame
//
// All coordinates given to and returned by the Detector are full-size
// screen pixels. The processing resolution is internal.
//
// # Errors
//
// Setup calls (SetScreenMetrics, SetScreenImage) return errors for invalid
// input. Detection calls never fail: a precondition violation such as a
// missing frame or an area outside the screen is logged at warning level and
// yields a not-detected match.Result.
//
// # Detection Types
//
// DetectionType selects where an image condition is searched:
//   - WholeScreen: the full screen, whatever area is given
//   - InArea: the given area, or the full screen when it is empty
//   - Exact: only at the given position, with the condition's own size
//
// # Conditions
//
// A Condition pairs a condition image file with the outcome it expects.
// CheckCondition checks one, VerifyConditions combines several with And or
// Or and stops at the first condition that decides the outcome. A condition
// that cannot be checked is reported in ConditionResult.Err and is never
// fulfilled.
//
// # Condition Cache
//
// ConditionCache keeps derived condition images (scaled grayscale and mean
// colour) keyed by source path and scale ratio, bounded by an LRU policy.
// The Detector purges it whenever the scale ratio changes.
//
// # Thread Safety
//
// A Detector is not reentrant. It owns a single current frame and must be
// driven from one goroutine, or behind a lock. ConditionCache is safe for
// concurrent use.
package detection
