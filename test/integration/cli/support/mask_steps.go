package support

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
)

const maskSize = 100

func disk(cx, cy, r int) *mask.Mask {
	m := mask.New(maskSize, maskSize)
	for y := range maskSize {
		for x := range maskSize {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				m.Set(x, y, mask.Comb)
			}
		}
	}
	return m
}

func (testCtx *TestContext) aCombDiskSavedAs(r, cx, cy int, name string) error {
	return mask.Save(disk(cx, cy, r), filepath.Join(testCtx.TempDir, name))
}

func (testCtx *TestContext) anEmptyMaskSavedAs(name string) error {
	return mask.Save(mask.New(maskSize, maskSize), filepath.Join(testCtx.TempDir, name))
}

// aColonyWhoseFrameGrows writes root/<colony>/<date>/masks/*.png for two
// dates plus root/metadata.csv.
func (testCtx *TestContext) aColonyWhoseFrameGrows(name string, frame, r0, r1 int) error {
	var meta strings.Builder
	meta.WriteString("colony,date,beeframe,side,filename\n")
	for _, d := range []struct {
		date string
		r    int
	}{{"20210601", r0}, {"20210615", r1}} {
		file := fmt.Sprintf("%s_%s_f%02da", name, d.date, frame)
		dir := filepath.Join(testCtx.TempDir, name, d.date, "masks")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := mask.Save(disk(50, 50, d.r), filepath.Join(dir, file+".png")); err != nil {
			return err
		}
		fmt.Fprintf(&meta, "%s,%s,%d,%s,%s.jpg\n", name, d.date, frame, colony.SideA, file)
	}
	return writeFile(filepath.Join(testCtx.TempDir, "metadata.csv"), meta.String())
}

// RegisterMaskSteps registers the fixture steps.
func (testCtx *TestContext) RegisterMaskSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a comb disk of radius (\d+) at (\d+),(\d+) saved as "([^"]*)"$`, testCtx.aCombDiskSavedAs)
	sc.Step(`^an empty mask saved as "([^"]*)"$`, testCtx.anEmptyMaskSavedAs)
	sc.Step(`^a colony "([^"]*)" whose frame (\d+) grows from radius (\d+) to (\d+)$`, testCtx.aColonyWhoseFrameGrows)
}
