package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
)

// ContourInfo describes one traced contour of a mask.
type ContourInfo struct {
	Index     int            `json:"index" yaml:"index"`
	Points    int            `json:"points" yaml:"points"`
	Area      float64        `json:"area" yaml:"area"`
	Perimeter float64        `json:"perimeter" yaml:"perimeter"`
	Centroid  geometry.Point `json:"centroid" yaml:"centroid"`
	Box       geometry.Box   `json:"box" yaml:"box"`
	// Simplified is the vertex count after polygon simplification, 0 when not requested.
	Simplified int `json:"simplified,omitempty" yaml:"simplified,omitempty"`
}

// DescribeContour computes the statistics of a contour. epsilon > 0 also
// records the simplified vertex count.
func DescribeContour(index int, pts []geometry.Point, epsilon float64) ContourInfo {
	info := ContourInfo{
		Index:     index,
		Points:    len(pts),
		Area:      geometry.Area(pts),
		Perimeter: geometry.Perimeter(pts),
		Centroid:  geometry.Centroid(pts),
		Box:       geometry.BoundingBox(pts),
	}
	if epsilon > 0 {
		info.Simplified = len(geometry.SimplifyPolygon(pts, epsilon))
	}
	return info
}

type contoursDoc struct {
	Mask     string        `json:"mask" yaml:"mask"`
	Class    string        `json:"class" yaml:"class"`
	Contours []ContourInfo `json:"contours" yaml:"contours"`
}

// WriteContours renders contour statistics of one mask.
func WriteContours(w io.Writer, format, maskPath, class string, infos []ContourInfo) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, contoursDoc{Mask: maskPath, Class: class, Contours: infos})
	case FormatYAML:
		return writeYAML(w, contoursDoc{Mask: maskPath, Class: class, Contours: infos})
	case FormatCSV:
		cw := csv.NewWriter(w)
		header := []string{"mask", "class", "index", "points", "area", "perimeter", "centroid_x", "centroid_y", "simplified"}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, c := range infos {
			rec := []string{
				maskPath, class, strconv.Itoa(c.Index), strconv.Itoa(c.Points),
				formatFloat(c.Area), formatFloat(c.Perimeter),
				formatFloat(c.Centroid.X), formatFloat(c.Centroid.Y), strconv.Itoa(c.Simplified),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatText, "":
		if len(infos) == 0 {
			_, err := fmt.Fprintf(w, "%s: no %s contours\n", maskPath, class)
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "index\tpoints\tarea\tperimeter\tcentroid\tbox\tsimplified")
		for _, c := range infos {
			fmt.Fprintf(tw, "%d\t%d\t%.1f\t%.1f\t%v\t%.0fx%.0f\t%d\n",
				c.Index, c.Points, c.Area, c.Perimeter, c.Centroid, c.Box.Width(), c.Box.Height(), c.Simplified)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
}
