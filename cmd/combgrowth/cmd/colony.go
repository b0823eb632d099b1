package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/config"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/report"
	"github.com/MeKo-Tech/combgrowth/internal/version"
)

// colonyNests reads the metadata and loads every dated nest of a colony.
func colonyNests(cmd *cobra.Command, cfg *config.Config, name string) ([]colony.Nest, error) {
	rows, err := colony.ReadMetadataFile(cfg.MetadataPath())
	if err != nil {
		return nil, err
	}
	nests, err := cfg.ColonyLoader().LoadColony(cmd.Context(), rows, name)
	if err != nil {
		return nil, err
	}
	slog.Info("colony loaded", "colony", name, "dates", len(nests))
	return nests, nil
}

var coloniesCmd = &cobra.Command{
	Use:   "colonies",
	Short: "List the colonies and their dates",
	Long: `List the colonies found in the metadata file, or, when there is none,
the colony folders under --root.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		dates := map[string][]string{}
		var names []string
		if _, err := os.Stat(cfg.MetadataPath()); err == nil {
			rows, err := colony.ReadMetadataFile(cfg.MetadataPath())
			if err != nil {
				return err
			}
			names = colony.OrganizedColonies(rows)
			for _, n := range names {
				dates[n] = colony.Dates(colony.ForColony(rows, n))
			}
		} else {
			slog.Debug("no metadata file, scanning folders", "root", cfg.Colony.Root)
			if names, err = colony.DiscoverColonies(cfg.Colony.Root); err != nil {
				return err
			}
			for _, n := range names {
				if dates[n], err = colony.DiscoverDates(filepath.Join(cfg.Colony.Root, n)); err != nil {
					return err
				}
			}
		}

		w, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "colony\tdates\tfirst\tlast")
		for _, n := range names {
			d := dates[n]
			first, last := "-", "-"
			if len(d) > 0 {
				first, last = d[0], d[len(d)-1]
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", n, len(d), first, last)
		}
		if err := tw.Flush(); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

var countsCmd = &cobra.Command{
	Use:   "counts <colony>",
	Short: "Count the pixels of every class per date",
	Long: `Load every dated nest of a colony and count the mask pixels of each
class over all frames.

Examples:
  combgrowth counts CC1 --root /data/colonies
  combgrowth counts CC1 --class-set comb --format csv`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		nests, err := colonyNests(cmd, cfg, args[0])
		if err != nil {
			return err
		}
		table := colony.ClassCountTable(nests, cfg.ClassNames())
		if strings.EqualFold(cfg.Output.Format, report.FormatText) {
			for i, c := range table.Classes {
				table.Classes[i] = mask.DisplayName(c)
			}
		}

		w, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		if err := report.WriteCounts(w, cfg.Output.Format, args[0], table); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

var seriesCmd = &cobra.Command{
	Use:   "series <colony>",
	Short: "Measure frame-by-frame comb growth over all dates of a colony",
	Long: `Load every dated nest of a colony and profile the comb growth of each
frame between consecutive dates. Frames missing on either date or with a
comb contour shorter than --min-contour-points are skipped.

Examples:
  combgrowth series CC1 --root /data/colonies --masks-folder warped_masks
  combgrowth series CC1 --combine-ab --mirror-b --format csv -o cc1.csv`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		nests, err := colonyNests(cmd, cfg, args[0])
		if err != nil {
			return err
		}

		metrics := newRunMetrics(cfg)
		opts := colony.SeriesOptions{
			MinContourPoints: cfg.Growth.MinContourPoints,
			Profile:          cfg.ProfileOptions(),
			Progress:         newProgress(cmd, cfg, "series"),
		}
		opts.Profile.Metrics = metrics.growth

		series, err := colony.MeasureSeries(cmd.Context(), nests, cfg.GrowthParams(), opts)
		if err != nil {
			return err
		}
		slog.Info("series measured", "colony", args[0], "profiles", len(series))

		r := report.New(cfg.GrowthParams(), version.Short())
		r.AddSeries(series)

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
	rootCmd.AddCommand(coloniesCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(seriesCmd)
}
