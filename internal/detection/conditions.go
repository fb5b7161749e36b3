package detection

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/ironsheep/screen-detect-mcp/internal/match"
)

// ConditionOperator combines the outcomes of a list of conditions.
type ConditionOperator int

const (
	// And is fulfilled when every condition is.
	And ConditionOperator = iota
	// Or is fulfilled when at least one condition is.
	Or
)

func (op ConditionOperator) String() string {
	switch op {
	case And:
		return "and"
	case Or:
		return "or"
	}
	return fmt.Sprintf("ConditionOperator(%d)", int(op))
}

// ParseConditionOperator parses "and" or "or", case insensitively. An empty
// string is And.
func ParseConditionOperator(s string) (ConditionOperator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "and":
		return And, nil
	case "or":
		return Or, nil
	}
	return 0, fmt.Errorf("unknown condition operator %q (want and or or)", s)
}

// Condition is an image condition with the outcome it expects.
type Condition struct {
	// Path is the condition image file.
	Path string

	// Area is the requested full-size area. For Exact only Area.Min is used.
	Area image.Rectangle

	// Type selects how Area is resolved.
	Type DetectionType

	// Threshold is the detection strictness in [0,100].
	Threshold int

	// ShouldBeDetected is the expected outcome. False asserts the condition
	// is absent from the screen.
	ShouldBeDetected bool
}

// ConditionResult is the outcome of one checked Condition.
type ConditionResult struct {
	Condition Condition

	// Match is the detection result. It is zero when Err is set.
	Match match.Result

	// SearchArea is the resolved full-size area that was searched.
	SearchArea image.Rectangle

	// Fulfilled reports whether Match.Detected equals
	// Condition.ShouldBeDetected. An invalid condition is never fulfilled.
	Fulfilled bool

	// Err is set when the condition could not be checked: no screen frame
	// or an unreadable condition image.
	Err error
}

// CheckCondition detects c on the current frame.
//
// Parameters:
//   - c: The condition to check. c.Type resolves c.Area against the screen
//     bounds and the condition size.
//   - load: Reads the condition image when it is not cached.
//
// Returns:
//   - ConditionResult: The detection result and whether it matched the
//     expected outcome.
//
// # Errors
//
// Failures are reported in ConditionResult.Err and leave the condition
// unfulfilled whatever its ShouldBeDetected:
//   - ErrNoScreenImage if no frame was pushed yet
//   - The loader or decoding error if the condition image cannot be read
func (d *Detector) CheckCondition(c Condition, load LoaderFunc) ConditionResult {
	res := ConditionResult{Condition: c}
	if !d.ready("condition") {
		res.Err = ErrNoScreenImage
		return res
	}

	cond, err := d.LoadCondition(c.Path, load)
	if err != nil {
		d.logger.Warn("invalid condition", slog.String("path", c.Path), slog.String("err", err.Error()))
		res.Err = err
		return res
	}

	res.SearchArea = c.Type.Area(d.ScreenBounds(), c.Area, cond.FullSizeColor().Bounds().Size())
	res.Match = d.DetectCondition(cond, res.SearchArea, c.Threshold)
	res.Fulfilled = res.Match.Detected == c.ShouldBeDetected
	return res
}

// VerifyConditions checks conds in order and combines them with op.
//
// Evaluation stops as soon as the outcome is known: Or at the first
// fulfilled condition, And at the first unfulfilled one. An empty list is
// fulfilled for And and not for Or.
//
// Parameters:
//   - op: And or Or.
//   - conds: The conditions to check, in evaluation order.
//   - load: Reads condition images that are not cached.
//
// Returns:
//   - bool: Whether the combination is fulfilled.
//   - []ConditionResult: One result per evaluated condition, in order.
//     Conditions skipped by the early stop have no result.
//
// # Example Usage
//
//	ok, results := d.VerifyConditions(detection.And, []detection.Condition{
//	    {Path: "ok_button.png", Type: detection.WholeScreen, Threshold: 90, ShouldBeDetected: true},
//	    {Path: "spinner.png", Type: detection.WholeScreen, Threshold: 90},
//	}, cache.Load)
func (d *Detector) VerifyConditions(op ConditionOperator, conds []Condition, load LoaderFunc) (bool, []ConditionResult) {
	results := make([]ConditionResult, 0, len(conds))
	for _, c := range conds {
		res := d.CheckCondition(c, load)
		results = append(results, res)

		if op == Or && res.Fulfilled {
			return true, results
		}
		if op == And && !res.Fulfilled {
			return false, results
		}
	}
	return op == And, results
}
