package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
)

func sampleReport() *Report {
	ms := []growth.Measurement{
		{Index: 0, Start: geometry.Pt(60, 50), Point: image.Pt(65, 50), Distance: 5, Found: true, Change: growth.Grew},
		{Index: 1, Start: geometry.Pt(60, 51), Point: image.Pt(57, 51), Distance: 3, Found: true, Change: growth.Receded},
		{Index: 2, Start: geometry.Pt(59, 52), Change: growth.Grew},
	}
	r := New(growth.DefaultParams(), "test")
	r.AddSeries([]colony.FrameGrowth{{
		Colony: "CC1", Frame: 3, From: "20210615", To: "20210701",
		ContourLength: 3, Measurements: ms, Summary: growth.Summarize(ms),
	}})
	return r
}

func TestNew(t *testing.T) {
	a := New(growth.DefaultParams(), "v1")
	b := New(growth.DefaultParams(), "v1")

	_, err := uuid.Parse(a.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestWrite_JSON(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, r))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	require.Len(t, decoded.Profiles, 1)
	assert.Equal(t, r.Profiles[0].Measurements, decoded.Profiles[0].Measurements)
	assert.Equal(t, 10, decoded.Params.Window)
}

func TestWrite_YAML(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, r))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded["run_id"])
	assert.Contains(t, buf.String(), "contour_length: 3")
}

func TestWrite_CSV(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, r))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, measurementHeader, rows[0])
	assert.Equal(t, []string{r.RunID, "CC1", "3", "20210615", "20210701", "0", "60", "50", "65", "50", "5", "5", "grew", "true"}, rows[1])
	assert.Equal(t, "-3", rows[2][11])
	assert.Equal(t, []string{"", "", "", ""}, rows[3][8:12], "not found rows leave the hit empty")
	assert.Equal(t, "false", rows[3][13])
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "# CC1 frame 3: 20210615 -> 20210701")
	assert.Contains(t, out, "grew: 1, receded: 1, not found: 1")
	assert.Contains(t, out, "mean 1.00")
}

func TestWrite_TextSingleMeasurement(t *testing.T) {
	r := New(growth.DefaultParams(), "")
	r.Profiles = []Profile{{
		From: "t0.png", To: "t1.png", ContourLength: 80,
		Measurements: []growth.Measurement{{Index: 7, Start: geometry.Pt(60, 50), Point: image.Pt(65, 50), Distance: 5, Found: true, Change: growth.Grew}},
	}}
	r.Profiles[0].Summary = growth.Summarize(r.Profiles[0].Measurements)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", r))
	assert.Contains(t, buf.String(), "# t0.png -> t1.png")
	assert.Contains(t, buf.String(), "index 7 at (60, 50): grew by 5 px to (65, 50)")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.False(t, ValidFormat("xml"))
	assert.True(t, ValidFormat("csv"))
}

func TestWriteCounts(t *testing.T) {
	table := colony.CountTable{
		Classes: []string{"background", "comb"},
		Rows:    []colony.CountRow{{Date: "1", Frames: 2, Counts: []int{10, 5}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCounts(&buf, FormatCSV, "CC1", table))
	assert.Equal(t, "colony,date,frames,background,comb\nCC1,1,2,10,5\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, FormatText, "CC1", table))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"date", "frames", "background", "comb"}, strings.Fields(lines[0]))

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, FormatJSON, "CC1", table))
	var doc countsDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "CC1", doc.Colony)
	assert.Equal(t, table.Rows, doc.Rows)

	buf.Reset()
	require.NoError(t, WriteCounts(&buf, FormatYAML, "CC1", table))
	assert.Contains(t, buf.String(), "colony: CC1")

	assert.Error(t, WriteCounts(&buf, "xml", "CC1", table))
}
