package mask

import (
	"image"
	"math"

	"github.com/MeKo-Tech/combgrowth/internal/mempool"
)

// Dilate grows every region of class with a square kernel and writes the
// class over whatever the dilation covers. Thin rims of a neighbouring class
// around comb borders are absorbed this way. Kernel sizes <= 1 return a copy.
func Dilate(m *Mask, class uint8, kernelSize int) *Mask {
	out := m.Clone()
	if kernelSize <= 1 {
		return out
	}
	lo := -(kernelSize - 1) / 2
	hi := kernelSize / 2

	// Separable max filter on the binary class mask: rows, then columns.
	rows := make([]bool, m.Width*m.Height)
	for y := range m.Height {
		for x := range m.Width {
			for k := lo; k <= hi; k++ {
				if m.Is(x+k, y, class) {
					rows[y*m.Width+x] = true
					break
				}
			}
		}
	}
	for y := range m.Height {
		for x := range m.Width {
			for k := lo; k <= hi; k++ {
				ny := y + k
				if ny >= 0 && ny < m.Height && rows[ny*m.Width+x] {
					out.Labels[y*m.Width+x] = class
					break
				}
			}
		}
	}
	return out
}

// Interior marks the area enclosed by the wooden frame: 1 for pixels that
// cannot reach the image border without crossing woodClass, 0 elsewhere.
// The wood itself is 0.
func Interior(m *Mask, woodClass uint8) *Mask {
	outside := mempool.GetBool(m.Width * m.Height)
	defer mempool.PutBool(outside)
	var stack []image.Point
	push := func(x, y int) {
		if !m.InBounds(x, y) {
			return
		}
		idx := y*m.Width + x
		if outside[idx] || m.Labels[idx] == woodClass {
			return
		}
		outside[idx] = true
		stack = append(stack, image.Pt(x, y))
	}
	for x := range m.Width {
		push(x, 0)
		push(x, m.Height-1)
	}
	for y := range m.Height {
		push(0, y)
		push(m.Width-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	out := New(m.Width, m.Height)
	for i, v := range m.Labels {
		if v != woodClass && !outside[i] {
			out.Labels[i] = 1
		}
	}
	return out
}

// DistanceToClass returns the Euclidean distance from pixel (x, y) to the
// nearest pixel of class and that pixel. ok is false when the class is absent.
func DistanceToClass(m *Mask, x, y int, class uint8) (float64, image.Point, bool) {
	if m.Is(x, y, class) {
		return 0, image.Pt(x, y), true
	}
	best := math.Inf(1)
	var nearest image.Point
	found := false
	for py := range m.Height {
		for px := range m.Width {
			if m.Labels[py*m.Width+px] != class {
				continue
			}
			if d := math.Hypot(float64(px-x), float64(py-y)); d < best {
				best, nearest, found = d, image.Pt(px, py), true
			}
		}
	}
	if !found {
		return 0, image.Point{}, false
	}
	return best, nearest, true
}
