package colony

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/progress"
)

// FrameGrowth is the growth profile of one frame between two dates.
type FrameGrowth struct {
	Colony        string               `json:"colony" yaml:"colony"`
	Frame         int                  `json:"frame" yaml:"frame"`
	From          string               `json:"from" yaml:"from"`
	To            string               `json:"to" yaml:"to"`
	ContourLength int                  `json:"contour_length" yaml:"contour_length"`
	Measurements  []growth.Measurement `json:"measurements" yaml:"measurements"`
	Summary       growth.Summary       `json:"summary" yaml:"summary"`
}

// SeriesOptions controls MeasureSeries.
type SeriesOptions struct {
	// MinContourPoints skips frames whose comb contour is shorter.
	MinContourPoints int
	Profile          growth.ProfileOptions
	// Progress reports one step per frame pair.
	Progress progress.Callback
}

type framePair struct {
	from, to Nest
	frame    int
}

// MeasureSeries profiles the comb growth of every frame between each pair
// of consecutive nests. Frames missing on either date, without comb, or
// with a contour shorter than MinContourPoints are skipped.
func MeasureSeries(ctx context.Context, nests []Nest, p growth.Params, opts SeriesOptions) ([]FrameGrowth, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cb := opts.Progress
	if cb == nil {
		cb = progress.NoOp{}
	}

	var pairs []framePair
	for i := 1; i < len(nests); i++ {
		from, to := nests[i-1], nests[i]
		for f := range min(len(from.Frames), len(to.Frames)) {
			if from.Frames[f] == nil || to.Frames[f] == nil {
				slog.Debug("frame missing on one date", "colony", from.Colony,
					"from", from.Date, "to", to.Date, "frame", f+1)
				continue
			}
			pairs = append(pairs, framePair{from: from, to: to, frame: f + 1})
		}
	}

	cb.OnStart(len(pairs))
	defer cb.OnComplete()

	var out []FrameGrowth
	for i, pair := range pairs {
		fg, ok, err := measurePair(ctx, pair, p, opts)
		if err != nil {
			cb.OnError(i+1, err)
			return nil, err
		}
		if ok {
			out = append(out, fg)
		}
		cb.OnProgress(i+1, len(pairs))
	}
	return out, nil
}

func measurePair(ctx context.Context, pair framePair, p growth.Params, opts SeriesOptions) (FrameGrowth, bool, error) {
	m0 := pair.from.Frames[pair.frame-1]
	m1 := pair.to.Frames[pair.frame-1]

	c, ok := TargetContour(m0, p.TargetClass, opts.MinContourPoints)
	if !ok {
		slog.Debug("no usable comb contour", "colony", pair.from.Colony,
			"date", pair.from.Date, "frame", pair.frame)
		return FrameGrowth{}, false, nil
	}

	ms, err := growth.Profile(ctx, m0, m1, c, p, opts.Profile)
	if err != nil {
		return FrameGrowth{}, false, fmt.Errorf("colony %s frame %d %s->%s: %w",
			pair.from.Colony, pair.frame, pair.from.Date, pair.to.Date, err)
	}
	return FrameGrowth{
		Colony:        pair.from.Colony,
		Frame:         pair.frame,
		From:          pair.from.Date,
		To:            pair.to.Date,
		ContourLength: len(c),
		Measurements:  ms,
		Summary:       growth.Summarize(ms),
	}, true, nil
}
