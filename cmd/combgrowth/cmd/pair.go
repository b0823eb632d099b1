package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/config"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/report"
	"github.com/MeKo-Tech/combgrowth/internal/version"
)

// maskPair is an earlier and a later mask of the same frame plus the comb
// contour of the earlier one.
type maskPair struct {
	from, to     string
	m0, m1       *mask.Mask
	contour      growth.Contour
	params       growth.Params
	downsampling float64
}

func loadMask(path string, downsample float64) (*mask.Mask, error) {
	m, err := mask.Load(path)
	if err != nil {
		return nil, err
	}
	if downsample > 1 {
		m = mask.Downsample(m, downsample)
	}
	return m, nil
}

// loadPair loads both masks and traces the target contour of the first.
func loadPair(cfg *config.Config, args []string) (*maskPair, error) {
	if len(args) != 2 {
		return nil, errors.New("need two mask files: <earlier> <later>")
	}
	p := &maskPair{from: args[0], to: args[1], params: cfg.GrowthParams(), downsampling: cfg.Colony.Downsample}

	var err error
	if p.m0, err = loadMask(p.from, p.downsampling); err != nil {
		return nil, err
	}
	if p.m1, err = loadMask(p.to, p.downsampling); err != nil {
		return nil, err
	}
	if err := mask.SameShape(p.m0, p.m1); err != nil {
		return nil, err
	}

	c, ok := colony.TargetContour(p.m0, p.params.TargetClass, 1)
	if !ok {
		return nil, fmt.Errorf("no pixels of class %d in %s", p.params.TargetClass, p.from)
	}
	p.contour = c
	slog.Debug("contour traced", "mask", p.from, "class", p.params.TargetClass, "points", len(c))
	return p, nil
}

// toReport wraps measurements of the pair into a single-profile report.
func (p *maskPair) toReport(ms []growth.Measurement) *report.Report {
	r := report.New(p.params, version.Short())
	r.Profiles = append(r.Profiles, report.Profile{
		From:          p.from,
		To:            p.to,
		ContourLength: len(p.contour),
		Measurements:  ms,
		Summary:       growth.Summarize(ms),
	})
	return r
}
