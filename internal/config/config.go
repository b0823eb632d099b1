// Package config loads combgrowth settings from configuration files,
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MeKo-Tech/combgrowth/internal/colony"
	"github.com/MeKo-Tech/combgrowth/internal/growth"
	"github.com/MeKo-Tech/combgrowth/internal/mask"
	"github.com/MeKo-Tech/combgrowth/internal/report"
)

// Config represents the complete configuration for combgrowth. It includes
// settings for all commands and supports loading from configuration files,
// environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Growth measurement settings
	Growth GrowthConfig `mapstructure:"growth" yaml:"growth" json:"growth"`

	// Colony data layout
	Colony ColonyConfig `mapstructure:"colony" yaml:"colony" json:"colony"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// GrowthConfig contains the perpendicular growth search settings.
type GrowthConfig struct {
	StepSize         int    `mapstructure:"step_size" yaml:"step_size" json:"step_size"`
	Window           int    `mapstructure:"window" yaml:"window" json:"window"`
	TargetClass      int    `mapstructure:"target_class" yaml:"target_class" json:"target_class"`
	BackgroundClass  int    `mapstructure:"background_class" yaml:"background_class" json:"background_class"`
	Stride           int    `mapstructure:"stride" yaml:"stride" json:"stride"`
	MinContourPoints int    `mapstructure:"min_contour_points" yaml:"min_contour_points" json:"min_contour_points"`
	Workers          int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	ClassSet         string `mapstructure:"class_set" yaml:"class_set" json:"class_set"`
}

// ColonyConfig describes where colony masks live.
type ColonyConfig struct {
	Root         string  `mapstructure:"root" yaml:"root" json:"root"`
	MetadataFile string  `mapstructure:"metadata_file" yaml:"metadata_file" json:"metadata_file"`
	MasksFolder  string  `mapstructure:"masks_folder" yaml:"masks_folder" json:"masks_folder"`
	CombineAB    bool    `mapstructure:"combine_ab" yaml:"combine_ab" json:"combine_ab"`
	MirrorB      bool    `mapstructure:"mirror_b" yaml:"mirror_b" json:"mirror_b"`
	Downsample   float64 `mapstructure:"downsample" yaml:"downsample" json:"downsample"`
	Frames       int     `mapstructure:"frames" yaml:"frames" json:"frames"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format" json:"format"`
	File        string `mapstructure:"file" yaml:"file" json:"file"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
	Progress    bool   `mapstructure:"progress" yaml:"progress" json:"progress"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	p := growth.DefaultParams()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Growth: GrowthConfig{
			StepSize:         p.StepSize,
			Window:           p.Window,
			TargetClass:      int(p.TargetClass),
			BackgroundClass:  int(p.BackgroundClass),
			Stride:           1,
			MinContourPoints: 50,
			Workers:          0, // runtime.NumCPU()
			ClassSet:         "contents",
		},
		Colony: ColonyConfig{
			Root:         ".",
			MetadataFile: "metadata.csv",
			MasksFolder:  "masks",
			CombineAB:    false,
			MirrorB:      false,
			Downsample:   0,
			Frames:       colony.DefaultFrames,
		},
		Output: OutputConfig{
			Format: report.FormatText,
		},
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Output.Format != "" && !report.ValidFormat(c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			c.Output.Format, strings.Join(report.Formats(), ", "))
	}

	if c.Growth.StepSize <= 0 {
		return fmt.Errorf("invalid growth step size: %d (must be positive)", c.Growth.StepSize)
	}
	if c.Growth.Window <= 0 {
		return fmt.Errorf("invalid growth window: %d (must be positive)", c.Growth.Window)
	}
	if err := validateClass(c.Growth.TargetClass, "growth.target_class"); err != nil {
		return err
	}
	if err := validateClass(c.Growth.BackgroundClass, "growth.background_class"); err != nil {
		return err
	}
	if c.Growth.TargetClass == c.Growth.BackgroundClass {
		return fmt.Errorf("growth.target_class and growth.background_class must differ (both %d)", c.Growth.TargetClass)
	}
	if c.Growth.Stride <= 0 {
		return fmt.Errorf("invalid growth stride: %d (must be positive)", c.Growth.Stride)
	}
	if c.Growth.MinContourPoints < 0 {
		return fmt.Errorf("invalid min contour points: %d (must not be negative)", c.Growth.MinContourPoints)
	}
	if c.Growth.Workers < 0 {
		return fmt.Errorf("invalid growth workers: %d (must not be negative)", c.Growth.Workers)
	}
	if _, ok := mask.ClassSet(c.Growth.ClassSet); !ok {
		return fmt.Errorf("invalid class set: %s (must be one of: contents, comb, combined)", c.Growth.ClassSet)
	}

	if c.Colony.Frames <= 0 {
		return fmt.Errorf("invalid colony frames: %d (must be positive)", c.Colony.Frames)
	}
	if c.Colony.Downsample < 0 {
		return fmt.Errorf("invalid colony downsample: %.2f (must not be negative)", c.Colony.Downsample)
	}
	if c.Colony.MirrorB && !c.Colony.CombineAB {
		return errors.New("colony.mirror_b requires colony.combine_ab")
	}

	return nil
}

// validateClass validates that a class label fits into a mask pixel.
func validateClass(value int, name string) error {
	if value < 0 || value > 255 {
		return fmt.Errorf("invalid %s: %d (must be between 0 and 255)", name, value)
	}
	return nil
}

// GrowthParams converts the config to growth measurement parameters.
func (c *Config) GrowthParams() growth.Params {
	return growth.Params{
		StepSize:        c.Growth.StepSize,
		Window:          c.Growth.Window,
		TargetClass:     uint8(c.Growth.TargetClass),     //nolint:gosec // G115: range checked in Validate
		BackgroundClass: uint8(c.Growth.BackgroundClass), //nolint:gosec // G115: range checked in Validate
	}
}

// ProfileOptions converts the config to contour profile options.
func (c *Config) ProfileOptions() growth.ProfileOptions {
	return growth.ProfileOptions{
		Workers: c.Growth.Workers,
		Stride:  c.Growth.Stride,
	}
}

// ColonyLoader converts the config to a colony mask loader.
func (c *Config) ColonyLoader() colony.Loader {
	return colony.Loader{
		Root:        c.Colony.Root,
		MasksFolder: c.Colony.MasksFolder,
		CombineAB:   c.Colony.CombineAB,
		MirrorB:     c.Colony.MirrorB,
		Downsample:  c.Colony.Downsample,
		Frames:      c.Colony.Frames,
	}
}

// ClassNames returns the configured label set.
func (c *Config) ClassNames() []string {
	names, ok := mask.ClassSet(c.Growth.ClassSet)
	if !ok {
		return mask.ContentClasses()
	}
	return names
}

// MetadataPath resolves the metadata file; relative paths are taken from the colony root.
func (c *Config) MetadataPath() string {
	if filepath.IsAbs(c.Colony.MetadataFile) {
		return c.Colony.MetadataFile
	}
	return filepath.Join(c.Colony.Root, c.Colony.MetadataFile)
}
