package match

import (
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CorrelationMap holds one score per placement of a condition inside a
// search region. The score at point p is the placement whose top-left corner
// is p, relative to the region origin.
//
// The map is a scratch buffer owned by a single search: Invalidate mutates
// it in place.
type CorrelationMap struct {
	m *mat.Dense
}

// NewCorrelationMap returns a zeroed map. Non-positive dimensions yield an
// empty map.
func NewCorrelationMap(rows, cols int) *CorrelationMap {
	if rows <= 0 || cols <= 0 {
		return &CorrelationMap{}
	}
	return &CorrelationMap{m: mat.NewDense(rows, cols, nil)}
}

// Bounds returns the placements covered by the map.
func (c *CorrelationMap) Bounds() image.Rectangle {
	if c.m == nil {
		return image.Rectangle{}
	}
	rows, cols := c.m.Dims()
	return image.Rect(0, 0, cols, rows)
}

// Empty reports whether the map has no placement.
func (c *CorrelationMap) Empty() bool {
	return c.m == nil
}

// At returns the score of the placement at p.
func (c *CorrelationMap) At(p image.Point) float64 {
	return c.m.At(p.Y, p.X)
}

// Set stores the score of the placement at p.
func (c *CorrelationMap) Set(p image.Point, v float64) {
	c.m.Set(p.Y, p.X, v)
}

// MaxLoc returns the highest score and its placement. Ties resolve to the
// first placement in row-major order.
func (c *CorrelationMap) MaxLoc() (float64, image.Point) {
	if c.m == nil {
		return 0, image.Point{}
	}
	raw := c.m.RawMatrix()
	best, bestIdx := 0.0, -1
	for row := 0; row < raw.Rows; row++ {
		line := raw.Data[row*raw.Stride : row*raw.Stride+raw.Cols]
		idx := floats.MaxIdx(line)
		if bestIdx < 0 || line[idx] > best {
			best = line[idx]
			bestIdx = row*raw.Cols + idx
		}
	}
	return best, image.Pt(bestIdx%raw.Cols, bestIdx/raw.Cols)
}

// Invalidate zeroes every placement inside r so it can never be selected
// again. r is clipped to the map.
func (c *CorrelationMap) Invalidate(r image.Rectangle) {
	r = r.Intersect(c.Bounds())
	if r.Empty() {
		return
	}
	c.m.Slice(r.Min.Y, r.Max.Y, r.Min.X, r.Max.X).(*mat.Dense).Zero()
}

// Correlator computes the normalized cross-correlation map of condition
// over region. Scores lie in [-1,1], 1 being a perfect match. The map has
// (H_region - H_condition + 1) rows and (W_region - W_condition + 1)
// columns; a condition larger than the region yields an empty map.
type Correlator interface {
	Correlate(region, condition *image.Gray) (*CorrelationMap, error)
}
