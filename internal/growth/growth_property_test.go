package growth

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/testutil"
)

// TestPerpendicular_Orthogonal verifies the perpendicular is a unit vector
// orthogonal to the tangent.
func TestPerpendicular_Orthogonal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("perpendicular is orthogonal unit vector", prop.ForAll(
		func(n, window int, r float64, offset int) bool {
			c := circle(n, 50, 50, r)
			index := offset % n

			tan, err := Tangent(c, index, window)
			if err != nil {
				return false
			}
			perp, err := Perpendicular(c, index, window)
			if err != nil {
				return false
			}

			return math.Abs(tan.Dot(perp)) < 1e-9 &&
				math.Abs(perp.Norm()-1) < 1e-9 &&
				math.Abs(tan.Norm()-1) < 1e-9
		},
		gen.IntRange(8, 200),
		gen.IntRange(1, 3),
		gen.Float64Range(5, 500),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// TestTangent_RotationInvariant verifies shifting the start of a closed
// contour does not change its tangents.
func TestTangent_RotationInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("tangent only depends on neighbours", prop.ForAll(
		func(n, window, shift, index int) bool {
			c := circle(n, 0, 0, 40)
			index %= n
			shift %= n
			rotated := append(append(Contour{}, c[shift:]...), c[:shift]...)

			a, errA := Tangent(c, index, window)
			b, errB := Tangent(rotated, (index-shift+n)%n, window)
			if errA != nil || errB != nil {
				return false
			}
			return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
		},
		gen.IntRange(10, 120),
		gen.IntRange(1, 4),
		gen.IntRange(0, 500),
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t)
}

// TestFindIntersection_StepSizeIndependent verifies refinement makes the
// result independent of the coarse step.
func TestFindIntersection_StepSizeIndependent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("same hit for every step size", prop.ForAll(
		func(edge, startX, row, step int) bool {
			if startX >= edge {
				return true
			}
			m := testutil.HalfPlane(80, 30, edge, mask.Comb)
			c := verticalLine(float64(startX), 30)

			ref, err := FindIntersection(m, c, row, 1, Inward, mask.Comb, 3, true)
			if err != nil {
				return false
			}
			got, err := FindIntersection(m, c, row, step, Inward, mask.Comb, 3, true)
			if err != nil {
				return false
			}
			return ref == got && got.Found && got.Distance == edge-startX
		},
		gen.IntRange(2, 70),
		gen.IntRange(0, 69),
		gen.IntRange(3, 26), // rows whose window does not wrap over the line ends
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

// TestFindIntersection_Terminates verifies a search with no match ends
// without a hit.
func TestFindIntersection_Terminates(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("empty mask never matches target", prop.ForAll(
		func(w, h, step int) bool {
			m := mask.New(w, h)
			c := circle(24, float64(w)/2, float64(h)/2, float64(min(w, h))/4)
			for _, dir := range []Direction{Inward, Outward} {
				hit, err := FindIntersection(m, c, 0, step, dir, mask.Comb, 2, false)
				if err != nil || hit.Found {
					return false
				}
			}
			return true
		},
		gen.IntRange(8, 120),
		gen.IntRange(8, 120),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

// TestMeasureGrowth_Concentric verifies concentric growth is measured as
// growth everywhere and shrinkage as recession everywhere.
func TestMeasureGrowth_Concentric(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sign follows radius change", prop.ForAll(
		func(r0, dr, step int) bool {
			r1 := r0 + dr
			// A boundary pixel of the earlier disk can still lie inside a disk
			// that is only one or two pixels smaller.
			if r1 < 1 || r1 > 45 || (dr > -3 && dr < 1) {
				return true
			}
			m0 := testutil.Disk(100, 100, 50, 50, r0, mask.Comb)
			m1 := testutil.Disk(100, 100, 50, 50, r1, mask.Comb)
			c := Contour(mask.LongestContour(m0, mask.Comb))

			p := paramsWith(step, 5)
			for i := 0; i < len(c); i += 7 {
				m, err := MeasureGrowth(m0, m1, c, i, p)
				if err != nil {
					return false
				}
				if !m.Found {
					continue
				}
				if dr > 0 && m.Signed() <= 0 {
					return false
				}
				if dr < 0 && m.Signed() >= 0 {
					return false
				}
			}
			return true
		},
		gen.IntRange(8, 30),
		gen.IntRange(-6, 10),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
