package colony

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/combgrowth/internal/mask"
)

// DefaultFrames is the number of frames in a standard hive box.
const DefaultFrames = 10

// Frame sides as written in the metadata.
const (
	SideA = "a"
	SideB = "b"
)

// Loader reads the comb masks of a colony from the photo folder tree
// <Root>/<colony>/<date>/<MasksFolder>/<file>.png.
type Loader struct {
	Root        string
	MasksFolder string
	// CombineAB merges side B into side A so comb detected on either side counts.
	CombineAB bool
	// MirrorB flips side B horizontally before merging.
	MirrorB bool
	// Downsample shrinks masks by this factor with nearest-neighbour sampling (<= 1 disables).
	Downsample float64
	// Frames is the number of frame slots per nest; 0 means DefaultFrames.
	Frames int
}

// Nest holds the comb masks of one colony on one date. Frames[i] is frame
// i+1 and is nil when no mask exists for it.
type Nest struct {
	Colony string
	Date   string
	Frames []*mask.Mask
}

// Present returns the number of frames with a mask.
func (n Nest) Present() int {
	count := 0
	for _, f := range n.Frames {
		if f != nil {
			count++
		}
	}
	return count
}

func (l Loader) frames() int {
	if l.Frames > 0 {
		return l.Frames
	}
	return DefaultFrames
}

func (l Loader) masksDir(colony, date string) string {
	return filepath.Join(l.Root, colony, date, l.MasksFolder)
}

// loadSide returns the mask of one frame side, or nil when the metadata
// has no photo for it or its mask file does not exist.
func (l Loader) loadSide(rows []FramePosition, colony, date string, frame int, side string) (*mask.Mask, error) {
	name, ok := FrameFilename(rows, date, frame, side)
	if !ok {
		return nil, nil
	}
	path := filepath.Join(l.masksDir(colony, date), name+".png")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("mask file missing", "colony", colony, "date", date, "frame", frame, "side", side, "path", path)
		return nil, nil
	}
	m, err := mask.Load(path)
	if err != nil {
		return nil, err
	}
	if l.Downsample > 1 {
		m = mask.Downsample(m, l.Downsample)
	}
	return m, nil
}

// LoadNest loads every frame slot of colony on date. rows may contain
// other colonies; they are filtered out.
func (l Loader) LoadNest(ctx context.Context, rows []FramePosition, colony, date string) (Nest, error) {
	rows = ForColony(rows, colony)
	nest := Nest{Colony: colony, Date: date, Frames: make([]*mask.Mask, l.frames())}

	for i := range nest.Frames {
		if err := ctx.Err(); err != nil {
			return Nest{}, err
		}
		frame := i + 1

		a, err := l.loadSide(rows, colony, date, frame, SideA)
		if err != nil {
			return Nest{}, fmt.Errorf("colony %s date %s frame %d side a: %w", colony, date, frame, err)
		}
		if l.CombineAB {
			b, err := l.loadSide(rows, colony, date, frame, SideB)
			if err != nil {
				return Nest{}, fmt.Errorf("colony %s date %s frame %d side b: %w", colony, date, frame, err)
			}
			switch {
			case a != nil && b != nil:
				a, err = mask.CombineSides(a, b, l.MirrorB)
				if err != nil {
					return Nest{}, fmt.Errorf("colony %s date %s frame %d: %w", colony, date, frame, err)
				}
			case b != nil && l.MirrorB:
				a = mask.Mirror(b)
			case b != nil:
				a = b
			}
		}

		if a == nil {
			slog.Info("no valid mask for frame", "colony", colony, "date", date, "frame", frame)
		}
		nest.Frames[i] = a
	}
	return nest, nil
}

// LoadColony loads the nest of colony for every date in the metadata,
// oldest first.
func (l Loader) LoadColony(ctx context.Context, rows []FramePosition, colony string) ([]Nest, error) {
	rows = ForColony(rows, colony)
	if len(rows) == 0 {
		return nil, fmt.Errorf("colony %s: no organized metadata rows", colony)
	}
	dates := Dates(rows)
	nests := make([]Nest, 0, len(dates))
	for _, date := range dates {
		nest, err := l.LoadNest(ctx, rows, colony, date)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded nest", "colony", colony, "date", date, "frames", nest.Present())
		nests = append(nests, nest)
	}
	return nests, nil
}
