package growth

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the signed distances of a profile. Statistics are
// computed over found measurements only and are zero when there are none.
type Summary struct {
	Measured int     `json:"measured" yaml:"measured"`
	Found    int     `json:"found" yaml:"found"`
	Grew     int     `json:"grew" yaml:"grew"`
	Receded  int     `json:"receded" yaml:"receded"`
	Missing  int     `json:"missing" yaml:"missing"`
	Mean     float64 `json:"mean" yaml:"mean"`
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	Median   float64 `json:"median" yaml:"median"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
}

// Summarize computes a Summary of ms.
func Summarize(ms []Measurement) Summary {
	s := Summary{Measured: len(ms)}
	vals := make([]float64, 0, len(ms))
	for _, m := range ms {
		if !m.Found {
			s.Missing++
			continue
		}
		switch m.Change {
		case Grew:
			s.Grew++
		case Receded:
			s.Receded++
		}
		vals = append(vals, float64(m.Signed()))
	}
	s.Found = len(vals)
	if len(vals) == 0 {
		return s
	}

	sort.Float64s(vals)
	s.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	return s
}
