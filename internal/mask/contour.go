package mask

import (
	"container/list"
	"image"
	"sort"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/mempool"
)

// Component is one 8-connected region of a single class.
type Component struct {
	Label int
	Count int
	Start image.Point // first pixel in raster order
	Box   image.Rectangle
}

// 8-neighbourhood in clockwise order for y-down images: E, SE, S, SW, W, NW, N, NE.
var (
	ndx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// Components labels the 8-connected regions of class. The returned label
// slice is row-major with 0 for pixels outside every component.
func Components(m *Mask, class uint8) ([]Component, []int) {
	labels := make([]int, m.Width*m.Height)
	return labelComponents(m, class, labels), labels
}

// labelComponents fills a zeroed labels buffer.
func labelComponents(m *Mask, class uint8, labels []int) []Component {
	var comps []Component
	next := 1
	for y := range m.Height {
		for x := range m.Width {
			idx := y*m.Width + x
			if m.Labels[idx] == class && labels[idx] == 0 {
				comps = append(comps, floodComponent(m, class, labels, x, y, next))
				next++
			}
		}
	}
	return comps
}

// floodComponent performs a BFS from a seed pixel and records its stats.
func floodComponent(m *Mask, class uint8, labels []int, sx, sy, label int) Component {
	c := Component{Label: label, Start: image.Pt(sx, sy), Box: image.Rect(sx, sy, sx+1, sy+1)}
	q := list.New()
	q.PushBack(sy*m.Width + sx)
	labels[sy*m.Width+sx] = label

	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%m.Width, ci/m.Width
		c.Count++
		c.Box = c.Box.Union(image.Rect(cx, cy, cx+1, cy+1))
		for i := range 8 {
			nx, ny := cx+ndx[i], cy+ndy[i]
			if !m.InBounds(nx, ny) {
				continue
			}
			ni := ny*m.Width + nx
			if m.Labels[ni] == class && labels[ni] == 0 {
				labels[ni] = label
				q.PushBack(ni)
			}
		}
	}
	return c
}

// Contours returns the outer boundary of every region of class as a closed
// point sequence, longest first. Every boundary pixel is kept so that
// neighbouring indices are neighbouring pixels.
func Contours(m *Mask, class uint8) [][]geometry.Point {
	labels := mempool.GetInt(m.Width * m.Height)
	defer mempool.PutInt(labels)
	comps := labelComponents(m, class, labels)
	out := make([][]geometry.Point, 0, len(comps))
	for _, c := range comps {
		pts := traceBoundary(labels, m.Width, m.Height, c.Label, c.Start)
		if len(pts) == 0 {
			continue
		}
		contour := make([]geometry.Point, len(pts))
		for i, p := range pts {
			contour[i] = geometry.FromImagePoint(p)
		}
		out = append(out, contour)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// LongestContour returns the longest contour of class, or nil if the class is absent.
func LongestContour(m *Mask, class uint8) []geometry.Point {
	cs := Contours(m, class)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// traceBoundary follows the outer boundary of a labeled region clockwise
// using Moore-neighbour tracing. start must be the region's first pixel in
// raster order, so its west neighbour is outside the region. Tracing stops
// when the walk is back at start and about to repeat its first move.
func traceBoundary(labels []int, w, h, label int, start image.Point) []image.Point {
	inside := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y*w+x] == label
	}
	if !inside(start.X, start.Y) {
		return nil
	}

	pts := []image.Point{start}
	c := start
	b := image.Pt(start.X-1, start.Y)
	var first image.Point
	maxSteps := 4*w*h + 8

	for step := 0; step < maxSteps; step++ {
		n, nb, ok := nextBoundaryPixel(inside, c, b)
		if !ok {
			break // isolated pixel
		}
		if step == 0 {
			first = n
		} else if c == start && n == first {
			break
		}
		pts = append(pts, n)
		c, b = n, nb
	}

	if len(pts) >= 2 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// nextBoundaryPixel scans the Moore neighbourhood of c clockwise starting
// just after the backtrack pixel b. It returns the next region pixel and
// the background pixel examined right before it, which becomes the new
// backtrack.
func nextBoundaryPixel(inside func(x, y int) bool, c, b image.Point) (image.Point, image.Point, bool) {
	bi := neighbourIndex(b.X-c.X, b.Y-c.Y)
	prev := b
	for k := 1; k <= 8; k++ {
		i := (bi + k) % 8
		n := image.Pt(c.X+ndx[i], c.Y+ndy[i])
		if inside(n.X, n.Y) {
			return n, prev, true
		}
		prev = n
	}
	return image.Point{}, b, false
}

func neighbourIndex(dx, dy int) int {
	for i := range 8 {
		if ndx[i] == dx && ndy[i] == dy {
			return i
		}
	}
	return 0
}
