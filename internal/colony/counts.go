package colony

import "github.com/MeKo-Tech/combgrowth/internal/mask"

// CountRow holds the per-class pixel counts of one date.
type CountRow struct {
	Date   string `json:"date" yaml:"date"`
	Frames int    `json:"frames" yaml:"frames"`
	Counts []int  `json:"counts" yaml:"counts"`
}

// CountTable is the class pixel count of every date of a colony.
type CountTable struct {
	Classes []string   `json:"classes" yaml:"classes"`
	Rows    []CountRow `json:"rows" yaml:"rows"`
}

// ClassCountTable counts the pixels of every class over all frames of each
// nest. Labels beyond classNames are counted under their numeric name.
func ClassCountTable(nests []Nest, classNames []string) CountTable {
	width := len(classNames)
	rows := make([]CountRow, 0, len(nests))
	for _, n := range nests {
		row := CountRow{Date: n.Date, Counts: make([]int, len(classNames))}
		for _, f := range n.Frames {
			if f == nil {
				continue
			}
			row.Frames++
			for v, c := range mask.ClassCounts(f, len(classNames)) {
				if v >= len(row.Counts) {
					row.Counts = append(row.Counts, make([]int, v+1-len(row.Counts))...)
				}
				row.Counts[v] += c
			}
		}
		width = max(width, len(row.Counts))
		rows = append(rows, row)
	}

	classes := make([]string, width)
	for v := range classes {
		classes[v] = mask.ClassName(classNames, uint8(v))
	}
	for i := range rows {
		if len(rows[i].Counts) < width {
			rows[i].Counts = append(rows[i].Counts, make([]int, width-len(rows[i].Counts))...)
		}
	}
	return CountTable{Classes: classes, Rows: rows}
}
