package growth

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/testutil"
)

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero step", func(p *Params) { p.StepSize = 0 }},
		{"negative window", func(p *Params) { p.Window = -2 }},
		{"target equals background", func(p *Params) { p.TargetClass = p.BackgroundClass }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), geometry.ErrInvalidArgument)
		})
	}
}

func TestMeasureGrowth_Grew(t *testing.T) {
	m0, c, idx := diskContour(t)
	m1 := testutil.Disk(100, 100, 50, 50, 14, mask.Comb)

	for _, step := range []int{1, 3, 7} {
		got, err := MeasureGrowth(m0, m1, c, idx, paramsWith(step, 5))
		require.NoError(t, err)

		assert.True(t, got.Found, "step %d", step)
		assert.Equal(t, Grew, got.Change)
		// The walk stops on the first pixel past the new boundary.
		assert.Equal(t, image.Pt(65, 50), got.Point, "step %d", step)
		assert.Equal(t, 5, got.Distance, "step %d", step)
		assert.Equal(t, 5, got.Signed())
		assert.Equal(t, idx, got.Index)
		assert.Equal(t, geometry.Pt(60, 50), got.Start)
	}
}

func TestMeasureGrowth_Receded(t *testing.T) {
	m0, c, idx := diskContour(t)
	m1 := testutil.Disk(100, 100, 50, 50, 6, mask.Comb)

	for _, step := range []int{1, 3, 7} {
		got, err := MeasureGrowth(m0, m1, c, idx, paramsWith(step, 5))
		require.NoError(t, err)

		assert.True(t, got.Found, "step %d", step)
		assert.Equal(t, Receded, got.Change)
		assert.Equal(t, image.Pt(56, 50), got.Point, "step %d", step)
		assert.Equal(t, 4, got.Distance, "step %d", step)
		assert.Equal(t, -4, got.Signed())
	}
}

func TestMeasureGrowth_Unchanged(t *testing.T) {
	m0, c, idx := diskContour(t)

	got, err := MeasureGrowth(m0, m0, c, idx, paramsWith(1, 5))
	require.NoError(t, err)
	assert.True(t, got.Found)
	assert.Equal(t, Grew, got.Change)
	assert.Equal(t, 1, got.Distance)
}

func TestMeasureGrowth_GrowthReachesBorder(t *testing.T) {
	m0, c, idx := diskContour(t)
	m1 := testutil.Rect(100, 100, 0, 0, 100, 100, mask.Comb)

	got, err := MeasureGrowth(m0, m1, c, idx, paramsWith(2, 5))
	require.NoError(t, err)
	assert.False(t, got.Found)
	assert.Equal(t, 0, got.Signed())
	assert.Equal(t, Grew, got.Change)
}

func TestMeasureGrowth_CombVanished(t *testing.T) {
	m0, c, idx := diskContour(t)
	m1 := mask.New(100, 100)

	got, err := MeasureGrowth(m0, m1, c, idx, paramsWith(1, 5))
	require.NoError(t, err)
	assert.False(t, got.Found)
	assert.Equal(t, Receded, got.Change)
}

func TestMeasureGrowth_ShapeMismatch(t *testing.T) {
	m0, c, idx := diskContour(t)
	m1 := testutil.Disk(100, 90, 50, 50, 14, mask.Comb)

	_, err := MeasureGrowth(m0, m1, c, idx, DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, mask.ErrShapeMismatch)

	var sme *mask.ShapeMismatchError
	require.True(t, errors.As(err, &sme))
	assert.Equal(t, image.Pt(100, 100), sme.A)
	assert.Equal(t, image.Pt(100, 90), sme.B)
}

func TestMeasureGrowth_ShapeMismatchBeforeGeometry(t *testing.T) {
	// A degenerate contour must not mask the shape error.
	_, err := MeasureGrowth(mask.New(5, 5), mask.New(6, 5), Contour{geometry.Pt(1, 1)}, 0, DefaultParams())
	assert.ErrorIs(t, err, mask.ErrShapeMismatch)
}

func TestMeasureGrowth_Degenerate(t *testing.T) {
	m := mask.New(10, 10)
	_, err := MeasureGrowth(m, m, Contour{geometry.Pt(2, 2), geometry.Pt(2, 2)}, 1, DefaultParams())
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestMeasureGrowth_InvalidIndex(t *testing.T) {
	m0, c, _ := diskContour(t)
	_, err := MeasureGrowth(m0, m0, c, len(c), DefaultParams())
	assert.ErrorIs(t, err, geometry.ErrInvalidArgument)
}

func TestMeasureGrowth_CustomClasses(t *testing.T) {
	m0 := testutil.Disk(100, 100, 50, 50, 10, mask.Wood)
	m1 := testutil.Disk(100, 100, 50, 50, 14, mask.Wood)
	c := Contour(mask.LongestContour(m0, mask.Wood))
	require.NotEmpty(t, c)

	p := paramsWith(1, 5)
	p.TargetClass = mask.Wood
	idx := -1
	for i, pt := range c {
		if pt == geometry.Pt(60, 50) {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	got, err := MeasureGrowth(m0, m1, c, idx, p)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Distance)
}

func TestMeasureGrowth_Deterministic(t *testing.T) {
	m0, c, idx := diskContour(t)
	m1 := testutil.Disk(100, 100, 52, 49, 13, mask.Comb)

	first, err := MeasureGrowth(m0, m1, c, idx, paramsWith(3, 5))
	require.NoError(t, err)
	for range 5 {
		again, err := MeasureGrowth(m0, m1, c, idx, paramsWith(3, 5))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
