package growth

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
)

// Direction selects which way along the perpendicular a search walks.
type Direction int

const (
	// Inward walks against the perpendicular.
	Inward Direction = -1
	// Outward walks along the perpendicular.
	Outward Direction = 1
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction { return -d }

func (d Direction) String() string {
	switch d {
	case Inward:
		return "inward"
	case Outward:
		return "outward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// probeDistance is how far AwayFromSelf steps to test which side the blob is on.
const probeDistance = 3

// Intersection is the result of FindIntersection. Found is false when the
// ray left the mask before the membership condition was met.
type Intersection struct {
	Point    image.Point
	Distance int
	Found    bool
}

// member is the membership test shared by the orientation probe and the
// search. Positions outside the mask are never members, for either polarity.
func member(m *mask.Mask, p geometry.Point, target uint8, antiTarget bool) bool {
	px := p.Pixel()
	v, ok := m.At(px.X, px.Y)
	if !ok {
		return false
	}
	return (v == target) != antiTarget
}

// AwayFromSelf picks the perpendicular direction pointing out of the target
// blob the contour surrounds. A short probe along the positive perpendicular
// that lands on target means positive points back into the blob. A probe
// leaving the mask counts as not target.
func AwayFromSelf(m *mask.Mask, c Contour, index int, target uint8, window int) (Direction, error) {
	if m == nil {
		return 0, &geometry.InvalidArgumentError{Arg: "mask", Reason: "nil mask"}
	}
	perp, err := Perpendicular(c, index, window)
	if err != nil {
		return 0, err
	}
	if member(m, c[index].Add(perp.Scale(probeDistance)), target, false) {
		return Inward, nil
	}
	return Outward, nil
}

// FindIntersection walks from contour point index along the perpendicular
// (oriented by dir) in steps of stepSize until the pixel under the walk is
// target, or anything but target when antiTarget is set. A coarse hit is
// refined by backing up one pixel at a time, so the result does not depend
// on stepSize. Leaving the mask first yields an Intersection with Found
// unset; that is an expected outcome, not an error.
//
// Positions are always computed as start + unit*distance from the integer
// distance, so long walks do not accumulate rounding drift.
func FindIntersection(m *mask.Mask, c Contour, index, stepSize int, dir Direction,
	target uint8, window int, antiTarget bool,
) (Intersection, error) {
	if m == nil {
		return Intersection{}, &geometry.InvalidArgumentError{Arg: "mask", Reason: "nil mask"}
	}
	if stepSize < 1 {
		return Intersection{}, &geometry.InvalidArgumentError{Arg: "step_size", Reason: fmt.Sprintf("must be >= 1, got %d", stepSize)}
	}
	if dir != Inward && dir != Outward {
		return Intersection{}, &geometry.InvalidArgumentError{Arg: "direction", Reason: fmt.Sprintf("must be -1 or 1, got %d", dir)}
	}
	perp, err := Perpendicular(c, index, window)
	if err != nil {
		return Intersection{}, err
	}

	start := c[index]
	unit := perp.Scale(float64(dir))
	at := func(d int) geometry.Point { return start.Add(unit.Scale(float64(d))) }
	matches := func(d int) bool { return member(m, at(d), target, antiTarget) }

	d := stepSize
	for {
		px := at(d).Pixel()
		if !m.InBounds(px.X, px.Y) {
			return Intersection{}, nil
		}
		if matches(d) {
			break
		}
		d += stepSize
	}

	// Back up to the first matching pixel of this run, never behind the start.
	d--
	for d > 0 && matches(d) {
		d--
	}
	d++

	return Intersection{Point: at(d).Pixel(), Distance: d, Found: true}, nil
}
