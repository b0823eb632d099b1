package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

var measurementHeader = []string{
	"run_id", "colony", "frame", "from", "to", "index",
	"start_x", "start_y", "point_x", "point_y", "distance", "signed_distance", "change", "found",
}

// writeCSV writes one row per measurement.
func writeCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(measurementHeader); err != nil {
		return err
	}
	for _, p := range r.Profiles {
		for _, m := range p.Measurements {
			row := []string{
				r.RunID,
				p.Colony,
				strconv.Itoa(p.Frame),
				p.From,
				p.To,
				strconv.Itoa(m.Index),
				formatFloat(m.Start.X),
				formatFloat(m.Start.Y),
				"",
				"",
				"",
				"",
				string(m.Change),
				strconv.FormatBool(m.Found),
			}
			if m.Found {
				row[8] = strconv.Itoa(m.Point.X)
				row[9] = strconv.Itoa(m.Point.Y)
				row[10] = strconv.Itoa(m.Distance)
				row[11] = strconv.Itoa(m.Signed())
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeText writes a summary per profile.
func writeText(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (step %d, window %d, target %d)\n",
		r.RunID, r.Params.StepSize, r.Params.Window, r.Params.TargetClass)
	if len(r.Profiles) == 0 {
		b.WriteString("no profiles\n")
	}
	for _, p := range r.Profiles {
		b.WriteString("\n")
		b.WriteString(profileTitle(p))
		b.WriteString("\n")
		writeSummary(&b, p.ContourLength, p.Summary)
		if len(p.Measurements) == 1 {
			writeMeasurement(&b, p.Measurements[0])
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func profileTitle(p Profile) string {
	if p.Colony != "" {
		return fmt.Sprintf("# %s frame %d: %s -> %s", p.Colony, p.Frame, p.From, p.To)
	}
	return fmt.Sprintf("# %s -> %s", p.From, p.To)
}

func writeSummary(b *strings.Builder, contourLength int, s growth.Summary) {
	fmt.Fprintf(b, "contour points: %d, measured: %d, grew: %d, receded: %d, not found: %d\n",
		contourLength, s.Measured, s.Grew, s.Receded, s.Missing)
	if s.Found > 0 {
		fmt.Fprintf(b, "signed distance: mean %.2f, sd %.2f, median %.1f, min %.0f, max %.0f\n",
			s.Mean, s.StdDev, s.Median, s.Min, s.Max)
	}
}

func writeMeasurement(b *strings.Builder, m growth.Measurement) {
	if !m.Found {
		fmt.Fprintf(b, "index %d at %v: %s, no edge before the mask border\n", m.Index, m.Start, m.Change)
		return
	}
	fmt.Fprintf(b, "index %d at %v: %s by %d px to (%d, %d)\n",
		m.Index, m.Start, m.Change, m.Distance, m.Point.X, m.Point.Y)
}

type countsDoc struct {
	Colony  string            `json:"colony" yaml:"colony"`
	Classes []string          `json:"classes" yaml:"classes"`
	Rows    []colony.CountRow `json:"rows" yaml:"rows"`
}

func newCountsDoc(name string, t colony.CountTable) countsDoc {
	return countsDoc{Colony: name, Classes: t.Classes, Rows: t.Rows}
}

// WriteCounts renders a class count table.
func WriteCounts(w io.Writer, format string, colonyName string, t colony.CountTable) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, newCountsDoc(colonyName, t))
	case FormatYAML:
		return writeYAML(w, newCountsDoc(colonyName, t))
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(append([]string{"colony", "date", "frames"}, t.Classes...)); err != nil {
			return err
		}
		for _, row := range t.Rows {
			rec := []string{colonyName, row.Date, strconv.Itoa(row.Frames)}
			for _, c := range row.Counts {
				rec = append(rec, strconv.Itoa(c))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "date\tframes")
		for _, c := range t.Classes {
			fmt.Fprintf(tw, "\t%s", c)
		}
		fmt.Fprintln(tw)
		for _, row := range t.Rows {
			fmt.Fprintf(tw, "%s\t%d", row.Date, row.Frames)
			for _, c := range row.Counts {
				fmt.Fprintf(tw, "\t%d", c)
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
}
