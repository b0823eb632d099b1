package growth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/progress"
)

// ProfileOptions controls how a contour is profiled.
type ProfileOptions struct {
	Workers  int               // Number of parallel workers (0 = runtime.NumCPU())
	Stride   int               // Measure every Stride-th contour point (0 = every point)
	Progress progress.Callback // Optional progress reporting
	Metrics  *Metrics          // Optional metrics sink
}

type profileJob struct {
	slot  int
	index int
}

type profileResult struct {
	slot        int
	measurement Measurement
	err         error
}

// Profile measures growth at every Stride-th point of the contour and
// returns the measurements in contour order. The masks are only read, so
// all workers share them. A point whose tangent is degenerate is kept as a
// not-found measurement; any other error aborts the profile.
func Profile(ctx context.Context, m0, m1 *mask.Mask, c Contour, p Params, opts ProfileOptions) ([]Measurement, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := mask.SameShape(m0, m1); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if opts.Stride < 0 {
		return nil, &geometry.InvalidArgumentError{Arg: "stride", Reason: fmt.Sprintf("must be >= 0, got %d", opts.Stride)}
	}
	if opts.Stride == 0 {
		opts.Stride = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	cb := opts.Progress
	if cb == nil {
		cb = progress.NoOp{}
	}

	indices := make([]int, 0, len(c)/opts.Stride+1)
	for i := 0; i < len(c); i += opts.Stride {
		indices = append(indices, i)
	}
	if opts.Workers > len(indices) {
		opts.Workers = len(indices)
	}

	began := time.Now()
	cb.OnStart(len(indices))
	defer cb.OnComplete()

	jobs := make(chan profileJob, len(indices))
	results := make(chan profileResult, len(indices))

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go profileWorker(ctx, m0, m1, c, p, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for slot, idx := range indices {
			select {
			case jobs <- profileJob{slot: slot, index: idx}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Measurement, len(indices))
	var firstErr error
	processed := 0
	for r := range results {
		processed++
		switch {
		case r.err == nil:
			out[r.slot] = r.measurement
			opts.Metrics.RecordMeasurement(r.measurement)
		case errors.Is(r.err, ErrDegenerateGeometry):
			slog.Debug("skipping contour point", "index", indices[r.slot], "error", r.err)
			out[r.slot] = Measurement{Index: indices[r.slot], Start: c[indices[r.slot]]}
			opts.Metrics.RecordDegenerate()
		default:
			cb.OnError(processed, r.err)
			if firstErr == nil {
				firstErr = fmt.Errorf("contour index %d: %w", indices[r.slot], r.err)
			}
		}
		cb.OnProgress(processed, len(indices))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	opts.Metrics.RecordProfile(time.Since(began))
	return out, nil
}

func profileWorker(
	ctx context.Context,
	m0, m1 *mask.Mask,
	c Contour,
	p Params,
	jobs <-chan profileJob,
	results chan<- profileResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			m, err := measureAt(m0, m1, c, job.index, p)
			select {
			case results <- profileResult{slot: job.slot, measurement: m, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
