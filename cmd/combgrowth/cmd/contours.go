package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/report"
)

// contoursCmd lists the traced contours of the target class in a mask.
var contoursCmd = &cobra.Command{
	Use:   "contours <mask>",
	Short: "List the comb contours of a mask",
	Long: `Trace the outer contour of every 8-connected region of the target
class, longest first, and print its length, area, perimeter and centroid.

Examples:
  combgrowth contours t0.png
  combgrowth contours t0.png --simplify 2 --format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		epsilon, _ := cmd.Flags().GetFloat64("simplify")

		m, err := loadMask(args[0], cfg.Colony.Downsample)
		if err != nil {
			return err
		}
		target := cfg.GrowthParams().TargetClass

		var infos []report.ContourInfo
		for i, c := range mask.Contours(m, target) {
			infos = append(infos, report.DescribeContour(i, c, epsilon))
		}

		w, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		className := mask.DisplayName(mask.ClassName(cfg.ClassNames(), target))
		if err := report.WriteContours(w, cfg.Output.Format, args[0], className, infos); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	rootCmd.AddCommand(contoursCmd)

	contoursCmd.Flags().Float64("simplify", 0, "also report the vertex count after Douglas-Peucker simplification with this tolerance")
}
