package colony

import (
	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
)

// TargetContour returns the longest contour of class in m. ok is false when
// the class is absent or its contour has fewer than minPoints points.
func TargetContour(m *mask.Mask, class uint8, minPoints int) (growth.Contour, bool) {
	c := mask.LongestContour(m, class)
	if len(c) == 0 || len(c) < minPoints {
		return nil, false
	}
	return growth.Contour(c), true
}
