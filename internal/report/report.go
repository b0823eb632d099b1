// Package report renders growth measurements as text, JSON, CSV or YAML.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string { return []string{FormatText, FormatJSON, FormatCSV, FormatYAML} }

// ValidFormat reports whether f is a supported format.
func ValidFormat(f string) bool {
	for _, s := range Formats() {
		if f == s {
			return true
		}
	}
	return false
}

// Profile is one measured contour between two masks.
type Profile struct {
	Colony        string               `json:"colony,omitempty" yaml:"colony,omitempty"`
	Frame         int                  `json:"frame,omitempty" yaml:"frame,omitempty"`
	From          string               `json:"from" yaml:"from"`
	To            string               `json:"to" yaml:"to"`
	ContourLength int                  `json:"contour_length" yaml:"contour_length"`
	Measurements  []growth.Measurement `json:"measurements" yaml:"measurements"`
	Summary       growth.Summary       `json:"summary" yaml:"summary"`
}

// Report is the result of one run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Version   string        `json:"version,omitempty" yaml:"version,omitempty"`
	Params    growth.Params `json:"params" yaml:"params"`
	Profiles  []Profile     `json:"profiles" yaml:"profiles"`
}

// New starts a report with a fresh run ID.
func New(params growth.Params, version string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Version:   version,
		Params:    params,
	}
}

// AddSeries appends the profiles of a colony series.
func (r *Report) AddSeries(series []colony.FrameGrowth) {
	for _, fg := range series {
		r.Profiles = append(r.Profiles, Profile{
			Colony:        fg.Colony,
			Frame:         fg.Frame,
			From:          fg.From,
			To:            fg.To,
			ContourLength: fg.ContourLength,
			Measurements:  fg.Measurements,
			Summary:       fg.Summary,
		})
	}
}

// Write renders r in format.
func Write(w io.Writer, format string, r *Report) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatText, "":
		return writeText(w, r)
	}
	return fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
}
