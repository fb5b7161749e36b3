package detection

import (
	"fmt"
	"image"
	"strings"
)

// DetectionType selects the area an image condition is searched in.
type DetectionType int

const (
	// WholeScreen searches the full screen.
	WholeScreen DetectionType = iota
	// InArea searches a caller-provided area.
	InArea
	// Exact only checks the condition at its own position.
	Exact
)

var detectionTypeNames = map[DetectionType]string{
	WholeScreen: "whole_screen",
	InArea:      "in_area",
	Exact:       "exact",
}

func (t DetectionType) String() string {
	if name, ok := detectionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DetectionType(%d)", int(t))
}

// ParseDetectionType parses "whole_screen", "in_area" or "exact", case
// insensitively. An empty string is InArea.
func ParseDetectionType(s string) (DetectionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return InArea, nil
	}
	for t, name := range detectionTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown detection type %q (want whole_screen, in_area or exact)", s)
}

// Area resolves the full-size detection area for a condition of size
// condSize on a screen with the given bounds.
//
// For Exact, only requested.Min is used: the area is the condition's own
// rectangle placed there.
func (t DetectionType) Area(screen, requested image.Rectangle, condSize image.Point) image.Rectangle {
	switch t {
	case Exact:
		return image.Rectangle{Min: requested.Min, Max: requested.Min.Add(condSize)}
	case InArea:
		if !requested.Empty() {
			return requested
		}
	}
	return screen
}
