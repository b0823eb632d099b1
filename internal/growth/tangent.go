// Package growth measures how far a comb boundary moved between two aligned
// masks of the same frame, along the local perpendicular of the boundary.
package growth

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
)

// Contour is a closed, ordered boundary; the last point connects back to the first.
type Contour []geometry.Point

// Validate checks that the contour is usable for measurements.
func (c Contour) Validate() error {
	if len(c) == 0 {
		return &geometry.InvalidArgumentError{Arg: "contour", Reason: "empty contour"}
	}
	for i, p := range c {
		if !p.IsFinite() {
			return &geometry.InvalidArgumentError{Arg: "contour", Reason: fmt.Sprintf("point %d is not finite: %v", i, p)}
		}
	}
	return nil
}

// Nearest returns the index of the contour point closest to p, or -1 for
// an empty contour. Ties go to the lower index.
func (c Contour) Nearest(p geometry.Point) int {
	best, bestDist := -1, math.Inf(1)
	for i, q := range c {
		if d := q.Distance(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func checkWindow(c Contour, index, window int) error {
	if len(c) == 0 {
		return &geometry.InvalidArgumentError{Arg: "contour", Reason: "empty contour"}
	}
	if index < 0 || index >= len(c) {
		return &geometry.InvalidArgumentError{
			Arg:    "index",
			Reason: fmt.Sprintf("%d outside contour of length %d", index, len(c)),
		}
	}
	if window < 1 {
		return &geometry.InvalidArgumentError{Arg: "window", Reason: fmt.Sprintf("must be >= 1, got %d", window)}
	}
	return nil
}

// wrap maps any integer onto [0, n).
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Tangent estimates the unit tangent at index as the normalized difference
// between the mean of the window points after it and the mean of the window
// points before it. Indices wrap around the closed contour; contours shorter
// than the window simply reuse points.
func Tangent(c Contour, index, window int) (geometry.Point, error) {
	if err := checkWindow(c, index, window); err != nil {
		return geometry.Point{}, err
	}
	n := len(c)
	var before, after geometry.Point
	for k := 1; k <= window; k++ {
		before = before.Add(c[wrap(index-k, n)])
		after = after.Add(c[wrap(index+k, n)])
	}
	inv := 1 / float64(window)
	diff := after.Scale(inv).Sub(before.Scale(inv))

	norm := diff.Norm()
	if norm == 0 || !diff.IsFinite() {
		return geometry.Point{}, &DegenerateGeometryError{Index: index, Window: window}
	}
	return diff.Scale(1 / norm), nil
}

// Perpendicular returns the tangent at index rotated by 90 degrees.
func Perpendicular(c Contour, index, window int) (geometry.Point, error) {
	t, err := Tangent(c, index, window)
	if err != nil {
		return geometry.Point{}, err
	}
	return t.Rotate90(), nil
}
