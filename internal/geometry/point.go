// Package geometry provides the 2D point type shared by the mask and growth
// packages together with a few polygon helpers for traced contours.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidArgument is matched by every InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a malformed value at an API boundary.
type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) work for wrapped values.
func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// Point is a 2D coordinate in image convention (X = column, Y = row).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromImagePoint converts an integer pixel coordinate.
func FromImagePoint(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

// PointFromSlice validates a raw coordinate pair.
func PointFromSlice(v []float64) (Point, error) {
	if len(v) != 2 {
		return Point{}, &InvalidArgumentError{
			Arg:    "point",
			Reason: fmt.Sprintf("expected 2 coordinates, got %d", len(v)),
		}
	}
	p := Point{X: v[0], Y: v[1]}
	if !p.IsFinite() {
		return Point{}, &InvalidArgumentError{Arg: "point", Reason: fmt.Sprintf("non-finite coordinate %v", v)}
	}
	return p, nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Point{}, &InvalidArgumentError{Arg: "point", Reason: fmt.Sprintf("cannot parse %q", s)}
		}
		vals = append(vals, f)
	}
	return PointFromSlice(vals)
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p * s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean length.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Norm() }

// Rotate90 rotates by 90 degrees: (x, y) -> (-y, x).
func (p Point) Rotate90() Point { return Point{X: -p.Y, Y: p.X} }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Pixel returns the pixel containing p (floor of both coordinates).
func (p Point) Pixel() image.Point {
	return image.Point{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
