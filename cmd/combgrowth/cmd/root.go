package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/combgrowth/internal/config"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/progress"
	"github.com/MeKo-Tech/combgrowth/internal/version"
)

var (
	// Configuration loader of the running command.
	configLoader *config.Loader
	// Configuration of the running command.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "combgrowth",
	Short: "Measure honeybee comb growth between frame masks",
	Long: `combgrowth measures how far the comb on a honeybee frame grew or receded
between two segmentation masks of the same frame.

From each point of the comb contour of the earlier mask it walks along the
contour normal, away from the comb, until it leaves the comb of the later
mask. The walked distance is the local growth.

Examples:
  combgrowth measure t0.png t1.png --at 60,50
  combgrowth profile t0.png t1.png --format csv -o growth.csv
  combgrowth series CC1 --root /data/colonies --combine-ab
  combgrowth config init`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.Flags().GetBool("version")
		if v {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), version.String())
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

// flagBindings maps configuration keys to the persistent flags overriding them.
var flagBindings = []struct {
	key  string
	flag string
}{
	{"verbose", "verbose"},
	{"log_level", "log-level"},

	{"growth.step_size", "step-size"},
	{"growth.window", "window"},
	{"growth.target_class", "target-class"},
	{"growth.background_class", "background-class"},
	{"growth.stride", "stride"},
	{"growth.min_contour_points", "min-contour-points"},
	{"growth.workers", "workers"},
	{"growth.class_set", "class-set"},

	{"colony.root", "root"},
	{"colony.metadata_file", "metadata"},
	{"colony.masks_folder", "masks-folder"},
	{"colony.combine_ab", "combine-ab"},
	{"colony.mirror_b", "mirror-b"},
	{"colony.downsample", "downsample"},
	{"colony.frames", "frames"},

	{"output.format", "format"},
	{"output.file", "output"},
	{"output.metrics_file", "metrics-file"},
	{"output.progress", "progress"},
}

func init() {
	defaults := config.DefaultConfig()
	pf := rootCmd.PersistentFlags()

	// Global flags that apply to all commands
	pf.StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/combgrowth, /etc/combgrowth)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")

	pf.Int("step-size", defaults.Growth.StepSize, "coarse search step along the normal, in pixels")
	pf.Int("window", defaults.Growth.Window, "contour points on each side used for the tangent")
	pf.Int("target-class", defaults.Growth.TargetClass, "mask label of the comb")
	pf.Int("background-class", defaults.Growth.BackgroundClass, "mask label of the background")
	pf.Int("stride", defaults.Growth.Stride, "measure every n-th contour point")
	pf.Int("min-contour-points", defaults.Growth.MinContourPoints, "skip frames whose comb contour is shorter")
	pf.Int("workers", defaults.Growth.Workers, "parallel measurement workers (0 = number of CPUs)")
	pf.String("class-set", defaults.Growth.ClassSet, "label set of the masks (contents, comb, combined)")

	pf.String("root", defaults.Colony.Root, "directory holding one folder per colony")
	pf.String("metadata", defaults.Colony.MetadataFile, "frame metadata CSV, relative to --root")
	pf.String("masks-folder", defaults.Colony.MasksFolder, "mask folder inside each date directory")
	pf.Bool("combine-ab", defaults.Colony.CombineAB, "overlay both frame sides into one mask")
	pf.Bool("mirror-b", defaults.Colony.MirrorB, "mirror side b before combining")
	pf.Float64("downsample", defaults.Colony.Downsample, "shrink masks by this factor before measuring")
	pf.Int("frames", defaults.Colony.Frames, "frame slots per hive")

	pf.StringP("format", "f", defaults.Output.Format, "output format (text, json, csv, yaml)")
	pf.StringP("output", "o", "", "output file (default: stdout)")
	pf.String("metrics-file", "", "write Prometheus metrics to this file after the run")
	pf.Bool("progress", false, "print a progress bar to stderr")

	// Version flag for tests and usability
	pf.Bool("version", false, "print version information and exit")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		globalConfig = cfg
		setupLogging(cmd.ErrOrStderr(), cfg)
		return nil
	}
}

// loadConfig reads file, environment and defaults into a fresh viper with
// the command's flags bound on top.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	v := viper.New()
	for _, binding := range flagBindings {
		f := flags.Lookup(binding.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(binding.key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", binding.flag, err)
		}
	}

	configLoader = config.NewLoaderWithViper(v)
	cfg, err := configLoader.LoadWithFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the JSON slog handler. Logs go to stderr so they
// never mix with reports written to stdout.
func setupLogging(w io.Writer, cfg *config.Config) {
	var logLevel slog.Level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "info":
			logLevel = slog.LevelInfo
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// GetConfig returns the configuration of the running command.
func GetConfig() *config.Config {
	if globalConfig == nil {
		cfg := config.DefaultConfig()
		return &cfg
	}
	return globalConfig
}

// GetConfigLoader returns the configuration loader of the running command.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// runMetrics owns the registry of one command run.
type runMetrics struct {
	registry *prometheus.Registry
	growth   *growth.Metrics
	path     string
}

func newRunMetrics(cfg *config.Config) *runMetrics {
	reg := prometheus.NewRegistry()
	return &runMetrics{registry: reg, growth: growth.NewMetrics(reg), path: cfg.Output.MetricsFile}
}

// flush writes the metrics in the text exposition format when a metrics
// file is configured.
func (m *runMetrics) flush() error {
	if m.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	slog.Debug("metrics written", "path", m.path)
	return nil
}

// newProgress returns the console bar when progress output is enabled and
// periodic debug logging otherwise.
func newProgress(cmd *cobra.Command, cfg *config.Config, prefix string) progress.Callback {
	if cfg.Output.Progress {
		return progress.NewConsole(cmd.ErrOrStderr(), prefix+" ")
	}
	return progress.NewLog(slog.Default(), slog.LevelDebug, prefix+" ", 100)
}

// openOutput returns the configured output file, or the command's stdout.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.Output.File == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(cfg.Output.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
