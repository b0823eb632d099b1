package colony

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/testutil"
)

const masksFolder = "warped_masks"

// sideFixture writes a colony with frame 1 on both sides, frame 2 only on
// side b and nothing for the other frames.
func sideFixture(t *testing.T) (string, []FramePosition) {
	t.Helper()

	root := t.TempDir()
	left := testutil.Rect(8, 4, 0, 0, 2, 4, mask.Comb)
	right := testutil.Rect(8, 4, 6, 0, 8, 4, mask.Wood)
	meta := testutil.ColonyTree(t, root, "CC1", masksFolder, []testutil.FrameMask{
		{Date: "20210615", Frame: 1, Side: "a", Mask: left},
		{Date: "20210615", Frame: 1, Side: "b", Mask: right},
		{Date: "20210615", Frame: 2, Side: "b", Mask: right},
	})
	rows, err := ReadMetadataFile(meta)
	require.NoError(t, err)
	return root, rows
}

func TestLoadNest_SideAOnly(t *testing.T) {
	root, rows := sideFixture(t)
	l := Loader{Root: root, MasksFolder: masksFolder}

	nest, err := l.LoadNest(context.Background(), rows, "CC1", "20210615")
	require.NoError(t, err)
	require.Len(t, nest.Frames, DefaultFrames)
	assert.Equal(t, 1, nest.Present())
	require.NotNil(t, nest.Frames[0])
	assert.True(t, nest.Frames[0].Is(0, 0, mask.Comb))
	assert.False(t, nest.Frames[0].Is(7, 0, mask.Wood))
	assert.Nil(t, nest.Frames[1])
}

func TestLoadNest_CombineAB(t *testing.T) {
	root, rows := sideFixture(t)
	l := Loader{Root: root, MasksFolder: masksFolder, CombineAB: true, Frames: 3}

	nest, err := l.LoadNest(context.Background(), rows, "CC1", "20210615")
	require.NoError(t, err)
	require.Len(t, nest.Frames, 3)

	f1 := nest.Frames[0]
	require.NotNil(t, f1)
	assert.True(t, f1.Is(0, 0, mask.Comb))
	assert.True(t, f1.Is(7, 0, mask.Wood))

	f2 := nest.Frames[1]
	require.NotNil(t, f2, "side b fills in for a missing side a")
	assert.True(t, f2.Is(7, 0, mask.Wood))
	assert.Nil(t, nest.Frames[2])
}

func TestLoadNest_MirrorB(t *testing.T) {
	root, rows := sideFixture(t)
	l := Loader{Root: root, MasksFolder: masksFolder, CombineAB: true, MirrorB: true}

	nest, err := l.LoadNest(context.Background(), rows, "CC1", "20210615")
	require.NoError(t, err)

	// Mirrored wood lands on the left, where side a already has comb.
	assert.True(t, nest.Frames[0].Is(0, 0, mask.Comb))
	assert.False(t, nest.Frames[0].Is(7, 0, mask.Wood))
	assert.True(t, nest.Frames[1].Is(0, 0, mask.Wood))
}

func TestLoadNest_Downsample(t *testing.T) {
	root, rows := sideFixture(t)
	l := Loader{Root: root, MasksFolder: masksFolder, Downsample: 2}

	nest, err := l.LoadNest(context.Background(), rows, "CC1", "20210615")
	require.NoError(t, err)
	assert.Equal(t, 4, nest.Frames[0].Width)
	assert.Equal(t, 2, nest.Frames[0].Height)
}

func TestLoadNest_MissingFileIsEmptySlot(t *testing.T) {
	root, rows := sideFixture(t)
	rows = append(rows, FramePosition{Colony: "CC1", Date: "20210615", Frame: 4, Side: "a", Filename: "gone.JPG"})
	l := Loader{Root: root, MasksFolder: masksFolder}

	nest, err := l.LoadNest(context.Background(), rows, "CC1", "20210615")
	require.NoError(t, err)
	assert.Nil(t, nest.Frames[3])
}

func TestLoadNest_ShapeMismatch(t *testing.T) {
	root := t.TempDir()
	meta := testutil.ColonyTree(t, root, "CC1", masksFolder, []testutil.FrameMask{
		{Date: "1", Frame: 1, Side: "a", Mask: mask.New(4, 4)},
		{Date: "1", Frame: 1, Side: "b", Mask: mask.New(5, 4)},
	})
	rows, err := ReadMetadataFile(meta)
	require.NoError(t, err)

	_, err = Loader{Root: root, MasksFolder: masksFolder, CombineAB: true}.LoadNest(context.Background(), rows, "CC1", "1")
	assert.ErrorIs(t, err, mask.ErrShapeMismatch)
}

func TestLoadNest_CorruptMask(t *testing.T) {
	root, rows := sideFixture(t)
	path := filepath.Join(root, "CC1", "20210615", masksFolder, "CC1_20210615_f01a.png")
	require.NoError(t, testutil.EnsureDir(filepath.Dir(path)))
	require.FileExists(t, path)
	require.NoError(t, writeCorrupt(path))

	_, err := Loader{Root: root, MasksFolder: masksFolder}.LoadNest(context.Background(), rows, "CC1", "20210615")
	var le *mask.LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLoadColony(t *testing.T) {
	root := t.TempDir()
	meta := testutil.ColonyTree(t, root, "CC1", masksFolder, []testutil.FrameMask{
		{Date: "20210701", Frame: 1, Side: "a", Mask: mask.New(4, 4)},
		{Date: "20210615", Frame: 1, Side: "a", Mask: mask.New(4, 4)},
	})
	rows, err := ReadMetadataFile(meta)
	require.NoError(t, err)
	l := Loader{Root: root, MasksFolder: masksFolder}

	nests, err := l.LoadColony(context.Background(), rows, "CC1")
	require.NoError(t, err)
	require.Len(t, nests, 2)
	assert.Equal(t, "20210615", nests[0].Date)
	assert.Equal(t, "20210701", nests[1].Date)

	_, err = l.LoadColony(context.Background(), rows, "SH9")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.LoadColony(ctx, rows, "CC1")
	assert.ErrorIs(t, err, context.Canceled)
}
