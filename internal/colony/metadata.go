// Package colony organizes per-colony, per-date frame masks and runs growth
// measurements across consecutive dates.
package colony

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// FramePosition is one row of the frame metadata table: which photo shows
// which side of which frame of a colony on a date.
type FramePosition struct {
	Colony   string `json:"colony" yaml:"colony"`
	Date     string `json:"date" yaml:"date"`
	Frame    int    `json:"beeframe" yaml:"beeframe"`
	Side     string `json:"side" yaml:"side"`
	Filename string `json:"filename" yaml:"filename"`
}

var requiredColumns = []string{"colony", "date", "beeframe", "side", "filename"}

// ReadMetadata parses the frame metadata CSV. Columns are matched by header
// name, extra columns are ignored. Rows without a frame number or side are
// not organized yet and are dropped.
func ReadMetadata(r io.Reader) ([]FramePosition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("metadata: empty file")
		}
		return nil, fmt.Errorf("metadata: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("metadata: missing column %q", c)
		}
	}

	var rows []FramePosition
	skipped := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("metadata: line %d: %w", line, err)
		}
		field := func(name string) string {
			i := cols[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		frame, ok := parseFrame(field("beeframe"))
		side := strings.ToLower(field("side"))
		if !ok || side == "" {
			skipped++
			continue
		}
		rows = append(rows, FramePosition{
			Colony:   field("colony"),
			Date:     field("date"),
			Frame:    frame,
			Side:     side,
			Filename: field("filename"),
		})
	}
	if skipped > 0 {
		slog.Debug("dropped unorganized metadata rows", "count", skipped)
	}
	return rows, nil
}

// ReadMetadataFile reads the metadata CSV at path.
func ReadMetadataFile(path string) ([]FramePosition, error) {
	f, err := os.Open(path) //nolint:gosec // G304: metadata path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadMetadata(f)
}

// parseFrame accepts "3" as well as "3.0", which spreadsheet exports produce
// for numeric columns with gaps.
func parseFrame(s string) (int, bool) {
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) || f <= 0 {
		return 0, false
	}
	return int(f), true
}

// OrganizedColonies returns the sorted, unique colony names in rows.
func OrganizedColonies(rows []FramePosition) []string {
	var names []string
	for _, r := range rows {
		names = append(names, r.Colony)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ForColony returns the rows of one colony.
func ForColony(rows []FramePosition, colony string) []FramePosition {
	var out []FramePosition
	for _, r := range rows {
		if r.Colony == colony {
			out = append(out, r)
		}
	}
	return out
}

// Dates returns the dates present in rows, sorted numerically where possible.
func Dates(rows []FramePosition) []string {
	var dates []string
	for _, r := range rows {
		dates = append(dates, r.Date)
	}
	sortDates(dates)
	return slices.Compact(dates)
}

// FrameFilename returns the extension-less file name of a frame side on a
// date. rows should belong to a single colony. When several photos claim
// the same slot the first one wins.
func FrameFilename(rows []FramePosition, date string, frame int, side string) (string, bool) {
	side = strings.ToLower(side)
	var matches []FramePosition
	for _, r := range rows {
		if r.Date == date && r.Frame == frame && r.Side == side {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	if len(matches) > 1 {
		slog.Warn("multiple images for frame position, taking first",
			"colony", matches[0].Colony, "date", date, "frame", frame, "side", side,
			"count", len(matches))
	}
	name := matches[0].Filename
	return strings.TrimSuffix(name, filepath.Ext(name)), true
}
