// Package config loads the starbin runtime configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/starbin/track"
	"github.com/arloliu/starbin/writer"
)

// EnvKeyReplacer maps nested keys to STARBIN_* variable names: catalogue.output is read
// from STARBIN_CATALOGUE_OUTPUT.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// CatalogueConfig configures the star catalogue build.
type CatalogueConfig struct {
	Inputs         []string `mapstructure:"inputs"`
	Output         string   `mapstructure:"output"`
	MaxDistancePC  float64  `mapstructure:"max_distance_pc"`
	MaxApparentMag float64  `mapstructure:"max_apparent_mag"`
	MaxAbsoluteMag float64  `mapstructure:"max_absolute_mag"`
	Exclude        []string `mapstructure:"exclude"`
	ProgressEvery  int      `mapstructure:"progress_every"`
}

// TracksConfig configures the track grid build.
type TracksConfig struct {
	Manifest string `mapstructure:"manifest"`
	Output   string `mapstructure:"output"`
	Missing  string `mapstructure:"missing"`
}

// IsochronesConfig configures the isochrone build.
type IsochronesConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
}

// Config holds all runtime configuration.
// Values are populated from .starbin.yaml, STARBIN_* env vars, and CLI flags.
type Config struct {
	LogLevel       string           `mapstructure:"log_level"`
	Verbose        bool             `mapstructure:"verbose"`
	Report         bool             `mapstructure:"report"`
	ReportFile     string           `mapstructure:"report_file"`
	FlushThreshold int              `mapstructure:"flush_threshold"`
	Catalogue      CatalogueConfig  `mapstructure:"catalogue"`
	Tracks         TracksConfig     `mapstructure:"tracks"`
	Isochrones     IsochronesConfig `mapstructure:"isochrones"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("report", false)
	v.SetDefault("report_file", "")
	v.SetDefault("flush_threshold", writer.DefaultFlushThreshold)

	v.SetDefault("catalogue.inputs", []string{"athyg_v30-1.csv.gz", "athyg_v30-2.csv.gz"})
	v.SetDefault("catalogue.output", "star_catalog.bin")
	v.SetDefault("catalogue.max_distance_pc", 50.0)
	v.SetDefault("catalogue.max_apparent_mag", 6.0)
	v.SetDefault("catalogue.max_absolute_mag", 1.0)
	v.SetDefault("catalogue.exclude", []string{"Sol"})
	v.SetDefault("catalogue.progress_every", 100000)

	v.SetDefault("tracks.manifest", "tracks.toml")
	v.SetDefault("tracks.output", "star_tracks.bin")
	v.SetDefault("tracks.missing", "fail")

	v.SetDefault("isochrones.input", "MIST_v1.2_feh_p0.00_afe_p0.0_vvcrit0.4_basic.iso")
	v.SetDefault("isochrones.output", "star_evolution_tracks.bin")
}

// Load reads configuration from v, applying built-in defaults for any values not set by
// config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values no build can run with.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.FlushThreshold < 0 {
		return fmt.Errorf("flush_threshold must be >= 0, got %d", c.FlushThreshold)
	}
	if c.Catalogue.ProgressEvery < 0 {
		return fmt.Errorf("catalogue.progress_every must be >= 0, got %d", c.Catalogue.ProgressEvery)
	}
	if _, err := track.ParseMissingPolicy(c.Tracks.Missing); err != nil {
		return fmt.Errorf("tracks.missing: %w", err)
	}

	return nil
}

// Reporting reports whether a build should collect a report: --report prints it, a
// report file receives it.
func (c Config) Reporting() bool {
	return c.Report || c.ReportFile != ""
}

// Level returns the effective log level: debug when Verbose is set.
func (c Config) Level() string {
	if c.Verbose {
		return "debug"
	}

	return c.LogLevel
}
