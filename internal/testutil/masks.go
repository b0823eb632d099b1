package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/combgrowth/internal/mask"
)

// Disk returns a w x h background mask with a filled disk of class around
// (cx, cy). Pixels with dx*dx + dy*dy <= r*r belong to the disk.
func Disk(w, h, cx, cy, r int, class uint8) *mask.Mask {
	m := mask.New(w, h)
	PaintDisk(m, cx, cy, r, class)
	return m
}

// PaintDisk draws a filled disk onto m.
func PaintDisk(m *mask.Mask, cx, cy, r int, class uint8) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				m.Set(x, y, class)
			}
		}
	}
}

// Rect returns a w x h mask with the half-open rectangle [x0,x1) x [y0,y1) set to class.
func Rect(w, h, x0, y0, x1, y1 int, class uint8) *mask.Mask {
	m := mask.New(w, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, class)
		}
	}
	return m
}

// HalfPlane returns a w x h mask whose columns left of edge are class.
func HalfPlane(w, h, edge int, class uint8) *mask.Mask {
	return Rect(w, h, 0, 0, edge, h, class)
}

// WriteMask saves m as a PNG under dir and returns the path.
func WriteMask(t *testing.T, dir, name string, m *mask.Mask) string {
	t.Helper()

	require.NoError(t, EnsureDir(dir))
	if filepath.Ext(name) == "" {
		name += ".png"
	}
	path := filepath.Join(dir, name)
	require.NoError(t, mask.Save(m, path))
	return path
}

// FrameMask describes one mask file of a colony fixture.
type FrameMask struct {
	Date  string
	Frame int
	Side  string
	Mask  *mask.Mask
}

// ColonyTree writes a colony fixture below root:
//
//	root/<colony>/<date>/<masksFolder>/<name>.png
//	root/metadata.csv
//
// and returns the metadata path. File names are derived from date, frame
// and side so they are unique.
func ColonyTree(t *testing.T, root, colony, masksFolder string, frames []FrameMask) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("colony,date,beeframe,side,filename\n")
	for _, f := range frames {
		name := fmt.Sprintf("%s_%s_f%02d%s", colony, f.Date, f.Frame, f.Side)
		WriteMask(t, filepath.Join(root, colony, f.Date, masksFolder), name, f.Mask)
		fmt.Fprintf(&b, "%s,%s,%d,%s,%s.jpg\n", colony, f.Date, f.Frame, f.Side, name)
	}

	meta := filepath.Join(root, "metadata.csv")
	require.NoError(t, writeFile(meta, b.String()))
	return meta
}
