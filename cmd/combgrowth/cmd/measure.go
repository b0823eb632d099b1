package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/combgrowth/internal/geometry"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/report"
)

// measureCmd measures growth at a single contour point.
var measureCmd = &cobra.Command{
	Use:   "measure <earlier-mask> <later-mask>",
	Short: "Measure comb growth at one contour point",
	Long: `Measure how far the comb moved at one point of its contour.

The point is picked either by its index on the traced comb contour of the
earlier mask or by the contour point closest to a pixel coordinate.

Examples:
  combgrowth measure t0.png t1.png --index 120
  combgrowth measure t0.png t1.png --at 640,212 --step-size 3`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		index, _ := cmd.Flags().GetInt("index")
		at, _ := cmd.Flags().GetString("at")
		if (index < 0) == (at == "") {
			return errors.New("exactly one of --index or --at is required")
		}

		pair, err := loadPair(cfg, args)
		if err != nil {
			return err
		}

		if at != "" {
			pt, err := geometry.ParsePoint(at)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			index = pair.contour.Nearest(pt)
			slog.Debug("nearest contour point", "at", pt, "index", index, "point", pair.contour[index])
		}

		metrics := newRunMetrics(cfg)
		m, err := growth.MeasureGrowth(pair.m0, pair.m1, pair.contour, index, pair.params)
		if err != nil {
			if errors.Is(err, growth.ErrDegenerateGeometry) {
				metrics.growth.RecordDegenerate()
				_ = metrics.flush()
			}
			return err
		}
		metrics.growth.RecordMeasurement(m)

		w, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		if err := report.Write(w, cfg.Output.Format, pair.toReport([]growth.Measurement{m})); err != nil {
			_ = closeOut()
			return err
		}
		if err := closeOut(); err != nil {
			return err
		}
		return metrics.flush()
	},
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().Int("index", -1, "contour point index")
	measureCmd.Flags().String("at", "", "pixel coordinate x,y; the nearest contour point is measured")
}
