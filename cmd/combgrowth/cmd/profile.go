package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/report"
)

// profileCmd measures growth along the whole contour.
var profileCmd = &cobra.Command{
	Use:   "profile <earlier-mask> <later-mask>",
	Short: "Measure comb growth along the whole contour",
	Long: `Measure the growth at every contour point (or every --stride-th point)
of the comb of the earlier mask and print the profile with its summary.

Examples:
  combgrowth profile t0.png t1.png
  combgrowth profile t0.png t1.png --stride 5 --format csv -o profile.csv`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		pair, err := loadPair(cfg, args)
		if err != nil {
			return err
		}

		metrics := newRunMetrics(cfg)
		opts := cfg.ProfileOptions()
		opts.Metrics = metrics.growth
		opts.Progress = newProgress(cmd, cfg, "profile")

		ms, err := growth.Profile(cmd.Context(), pair.m0, pair.m1, pair.contour, pair.params, opts)
		if err != nil {
			return err
		}
		r := pair.toReport(ms)
		slog.Info("profile measured", "from", pair.from, "to", pair.to,
			"points", len(ms), "found", r.Profiles[0].Summary.Found, "mean", r.Profiles[0].Summary.Mean)

		w, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		if err := report.Write(w, cfg.Output.Format, r); err != nil {
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
	rootCmd.AddCommand(profileCmd)
}
