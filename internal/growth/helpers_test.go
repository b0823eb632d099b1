package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/testutil"
)

// circle returns n points evenly spaced on a circle.
func circle(n int, cx, cy, r float64) Contour {
	c := make(Contour, n)
	for i := range c {
		a := 2 * math.Pi * float64(i) / float64(n)
		c[i] = geometry.Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return c
}

// diskContour traces the comb disk of radius 10 at (50, 50) in a 100x100
// mask and returns the mask, the contour and the index of (60, 50).
func diskContour(t *testing.T) (*mask.Mask, Contour, int) {
	t.Helper()

	m0 := testutil.Disk(100, 100, 50, 50, 10, mask.Comb)
	c := Contour(mask.LongestContour(m0, mask.Comb))
	require.NotEmpty(t, c)

	for i, p := range c {
		if p == geometry.Pt(60, 50) {
			return m0, c, i
		}
	}
	t.Fatalf("contour does not pass through (60, 50)")
	return nil, nil, 0
}

func paramsWith(step, window int) Params {
	p := DefaultParams()
	p.StepSize = step
	p.Window = window
	return p
}
