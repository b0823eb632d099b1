package growth

import (
	"errors"
	"fmt"
)

// ErrDegenerateGeometry is matched by every DegenerateGeometryError.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// DegenerateGeometryError reports a contour index whose tangent window
// averages to the same point on both sides, so no direction exists.
type DegenerateGeometryError struct {
	Index  int
	Window int
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate tangent at contour index %d (window %d): neighbour means coincide", e.Index, e.Window)
}

// Is makes errors.Is(err, ErrDegenerateGeometry) work for wrapped values.
func (e *DegenerateGeometryError) Is(target error) bool { return target == ErrDegenerateGeometry }
