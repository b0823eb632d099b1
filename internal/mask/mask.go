// Package mask holds labeled segmentation masks of hive frames and the
// class-level operations the growth measurements are built on.
package mask

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
)

// ErrShapeMismatch is matched by every ShapeMismatchError.
var ErrShapeMismatch = errors.New("mask shape mismatch")

// ShapeMismatchError reports two masks that were expected to be pixel-aligned.
type ShapeMismatchError struct {
	A, B image.Point
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("mask shape mismatch: %dx%d vs %dx%d", e.A.X, e.A.Y, e.B.X, e.B.Y)
}

// Is makes errors.Is(err, ErrShapeMismatch) work for wrapped values.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// Mask is a 2D grid of class labels stored row-major.
// A Mask is never mutated once handed to the growth package, so it can be
// shared between goroutines without locking.
type Mask struct {
	Width  int
	Height int
	Labels []uint8
}

// New returns a background-filled mask.
func New(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Width: width, Height: height, Labels: make([]uint8, width*height)}
}

// FromLabels wraps an existing row-major label slice.
func FromLabels(width, height int, labels []uint8) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, &geometry.InvalidArgumentError{
			Arg:    "size",
			Reason: fmt.Sprintf("mask dimensions must be positive, got %dx%d", width, height),
		}
	}
	if len(labels) != width*height {
		return nil, &geometry.InvalidArgumentError{
			Arg:    "labels",
			Reason: fmt.Sprintf("expected %d labels for %dx%d, got %d", width*height, width, height, len(labels)),
		}
	}
	return &Mask{Width: width, Height: height, Labels: labels}, nil
}

// Size returns the mask dimensions as (width, height).
func (m *Mask) Size() image.Point { return image.Point{X: m.Width, Y: m.Height} }

// InBounds reports whether pixel (x, y) lies inside the mask.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the label at (x, y) and whether the pixel is inside the mask.
func (m *Mask) At(x, y int) (uint8, bool) {
	if !m.InBounds(x, y) {
		return 0, false
	}
	return m.Labels[y*m.Width+x], true
}

// Set writes a label; out-of-bounds writes are ignored.
func (m *Mask) Set(x, y int, label uint8) {
	if m.InBounds(x, y) {
		m.Labels[y*m.Width+x] = label
	}
}

// Is reports whether (x, y) is inside the mask and carries class.
func (m *Mask) Is(x, y int, class uint8) bool {
	v, ok := m.At(x, y)
	return ok && v == class
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := &Mask{Width: m.Width, Height: m.Height, Labels: make([]uint8, len(m.Labels))}
	copy(out.Labels, m.Labels)
	return out
}

// SameShape fails with a ShapeMismatchError unless a and b have equal dimensions.
func SameShape(a, b *Mask) error {
	if a == nil || b == nil {
		return &geometry.InvalidArgumentError{Arg: "mask", Reason: "nil mask"}
	}
	if a.Width != b.Width || a.Height != b.Height {
		return &ShapeMismatchError{A: a.Size(), B: b.Size()}
	}
	return nil
}

// ClassCounts returns per-class pixel counts; the slice is at least
// minLength long and grows to cover the largest label present.
func ClassCounts(m *Mask, minLength int) []int {
	counts := make([]int, max(minLength, 0))
	for _, v := range m.Labels {
		if int(v) >= len(counts) {
			counts = append(counts, make([]int, int(v)+1-len(counts))...)
		}
		counts[v]++
	}
	return counts
}

// Mirror returns a horizontally flipped copy.
func Mirror(m *Mask) *Mask {
	out := New(m.Width, m.Height)
	for y := range m.Height {
		row := m.Labels[y*m.Width : (y+1)*m.Width]
		dst := out.Labels[y*m.Width : (y+1)*m.Width]
		for x := range m.Width {
			dst[m.Width-1-x] = row[x]
		}
	}
	return out
}
