package growth

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
)

// Params configures a growth measurement.
type Params struct {
	// StepSize is the coarse stride of the perpendicular walk in pixels.
	StepSize int `json:"step_size" yaml:"step_size"`
	// Window is the number of neighbours averaged on each side for the tangent.
	Window          int   `json:"window" yaml:"window"`
	TargetClass     uint8 `json:"target_class" yaml:"target_class"`
	BackgroundClass uint8 `json:"background_class" yaml:"background_class"`
}

// DefaultParams measures comb growth with unit steps and a ten point window.
func DefaultParams() Params {
	return Params{
		StepSize:        1,
		Window:          10,
		TargetClass:     mask.Comb,
		BackgroundClass: mask.Background,
	}
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.StepSize < 1 {
		return &geometry.InvalidArgumentError{Arg: "step_size", Reason: fmt.Sprintf("must be >= 1, got %d", p.StepSize)}
	}
	if p.Window < 1 {
		return &geometry.InvalidArgumentError{Arg: "window", Reason: fmt.Sprintf("must be >= 1, got %d", p.Window)}
	}
	if p.TargetClass == p.BackgroundClass {
		return &geometry.InvalidArgumentError{
			Arg:    "target_class",
			Reason: fmt.Sprintf("must differ from background class %d", p.BackgroundClass),
		}
	}
	return nil
}

// Change tells which way the boundary moved at a contour point.
type Change string

const (
	Grew    Change = "grew"
	Receded Change = "receded"
)

// Measurement is the growth observed at one contour point.
type Measurement struct {
	Index    int            `json:"index" yaml:"index"`
	Start    geometry.Point `json:"start" yaml:"start"`
	Point    image.Point    `json:"point" yaml:"point"`
	Distance int            `json:"distance" yaml:"distance"`
	Found    bool           `json:"found" yaml:"found"`
	Change   Change         `json:"change,omitempty" yaml:"change,omitempty"`
}

// Signed returns the distance, negative when the boundary receded.
// Measurements that found nothing report zero.
func (m Measurement) Signed() int {
	if !m.Found {
		return 0
	}
	if m.Change == Receded {
		return -m.Distance
	}
	return m.Distance
}

// MeasureGrowth measures how far the target boundary moved between m0 and m1
// at contour point index, along the local perpendicular.
//
// When the later mask still holds target at the contour point the blob grew
// there, and the walk heads away from the earlier blob until it meets the
// first pixel that is no longer target. Otherwise the blob receded and the
// walk heads back into it until it meets target again. A walk that leaves
// the mask is reported with Found unset.
func MeasureGrowth(m0, m1 *mask.Mask, c Contour, index int, p Params) (Measurement, error) {
	if err := p.Validate(); err != nil {
		return Measurement{}, err
	}
	if err := mask.SameShape(m0, m1); err != nil {
		return Measurement{}, err
	}
	if err := c.Validate(); err != nil {
		return Measurement{}, err
	}
	if err := checkWindow(c, index, p.Window); err != nil {
		return Measurement{}, err
	}
	return measureAt(m0, m1, c, index, p)
}

// measureAt skips the argument checks that Profile performs once per contour.
func measureAt(m0, m1 *mask.Mask, c Contour, index int, p Params) (Measurement, error) {
	start := c[index]
	res := Measurement{Index: index, Start: start}

	dir, err := AwayFromSelf(m0, c, index, p.TargetClass, p.Window)
	if err != nil {
		return res, err
	}

	px := start.Pixel()
	grew := m1.Is(px.X, px.Y, p.TargetClass)
	anti := true
	res.Change = Grew
	if !grew {
		dir = dir.Reverse()
		anti = false
		res.Change = Receded
	}

	hit, err := FindIntersection(m1, c, index, p.StepSize, dir, p.TargetClass, p.Window, anti)
	if err != nil {
		return res, err
	}
	res.Point = hit.Point
	res.Distance = hit.Distance
	res.Found = hit.Found
	return res, nil
}
