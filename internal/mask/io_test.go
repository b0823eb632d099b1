package mask

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	m := disk(30, 20, 10, 10, 5, Comb)
	m.Set(0, 0, Wood)

	for _, ext := range []string{".png", ".bmp", ".tif"} {
		path := filepath.Join(t.TempDir(), "mask"+ext)
		require.NoError(t, Save(m, path), ext)

		got, err := Load(path)
		require.NoError(t, err, ext)
		assert.Equal(t, m.Size(), got.Size(), ext)
		assert.Equal(t, m.Labels, got.Labels, ext)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)

	_, err = Load("mask.gif")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "load", le.Operation)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "decode", le.Operation)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o600))
	_, err = Load(bad)
	require.ErrorAs(t, err, &le)
	assert.Error(t, le.Unwrap())
}

func TestSave_Unsupported(t *testing.T) {
	err := Save(New(2, 2), filepath.Join(t.TempDir(), "mask.gif"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "save", le.Operation)
}

func TestFromImage(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Black, color.White, color.Gray{Y: 9}})
	pal.SetColorIndex(1, 0, 2)
	assert.Equal(t, []uint8{0, 2}, FromImage(pal).Labels)

	g16 := image.NewGray16(image.Rect(0, 0, 2, 1))
	g16.SetGray16(0, 0, color.Gray16{Y: 3})
	g16.SetGray16(1, 0, color.Gray16{Y: 4000})
	assert.Equal(t, []uint8{3, 255}, FromImage(g16).Labels)

	sub := image.NewGray(image.Rect(0, 0, 4, 4))
	sub.SetGray(2, 3, color.Gray{Y: Comb})
	cropped, ok := sub.SubImage(image.Rect(2, 2, 4, 4)).(*image.Gray)
	require.True(t, ok)
	m := FromImage(cropped)
	assert.Equal(t, image.Pt(2, 2), m.Size())
	assert.True(t, m.Is(0, 1, Comb))

	rgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.NRGBA{R: 7, G: 7, B: 7, A: 255})
	assert.Equal(t, []uint8{7}, FromImage(rgba).Labels)
}

func TestDownsample(t *testing.T) {
	m := New(8, 4)
	for y := range 4 {
		for x := range 4 {
			m.Set(x, y, Comb)
		}
	}

	out := Downsample(m, 2)
	assert.Equal(t, image.Pt(4, 2), out.Size())
	assert.Equal(t, []uint8{Comb, Comb, 0, 0, Comb, Comb, 0, 0}, out.Labels)

	assert.Equal(t, m.Labels, Downsample(m, 1).Labels)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a/b/frame.PNG"))
	assert.True(t, IsSupported("x.tiff"))
	assert.False(t, IsSupported("x.gif"))
	assert.False(t, IsSupported("noext"))
}
