// Package config loads and validates the YAML configuration shared by the
// tracker, the descriptor engine and the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-supernode/pkg/algorithms"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration
type Config struct {
	Workers    int              `yaml:"workers" validate:"gte=1,lte=1024"`
	Tracking   TrackingConfig   `yaml:"tracking"`
	Descriptor DescriptorConfig `yaml:"descriptor"`
	Detection  DetectionConfig  `yaml:"detection"`
	Data       DataConfig       `yaml:"data"`
	Output     OutputConfig     `yaml:"output"`
	Layout     LayoutConfig     `yaml:"layout"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TrackingConfig configures community correspondence across snapshots
type TrackingConfig struct {
	// Threshold is the minimum adjusted similarity admitted as a correspondence
	Threshold float64 `yaml:"threshold" validate:"gte=0,lte=1"`
	// UniversePolicy is one of per-pair, cumulative, global, fixed
	UniversePolicy string `yaml:"universe_policy" validate:"oneof=per-pair cumulative global fixed"`
	// UniverseSize is only read by the fixed policy
	UniverseSize int `yaml:"universe_size" validate:"gte=0,required_if=UniversePolicy fixed"`
	// QuietDegenerate logs degenerate cells at DEBUG instead of WARN
	QuietDegenerate bool `yaml:"quiet_degenerate"`
}

// DescriptorConfig configures supernode descriptor computation
type DescriptorConfig struct {
	RadiusRange float64                    `yaml:"radius_range" validate:"gt=0"`
	Epsilon     float64                    `yaml:"epsilon" validate:"gt=0,lt=1"`
	PageRank    algorithms.PageRankOptions `yaml:"pagerank"`
}

// DetectionConfig configures partition generation from edge lists
type DetectionConfig struct {
	// Method is label-propagation or components
	Method        string `yaml:"method" validate:"oneof=label-propagation components"`
	MaxIterations int    `yaml:"max_iterations" validate:"gt=0"`
	// Overwrite replaces partition files that already exist
	Overwrite bool `yaml:"overwrite"`
}

// DataConfig locates per-snapshot input files. Patterns are relative to Root
// and expand {date} to the snapshot's date key.
type DataConfig struct {
	Root             string   `yaml:"root" validate:"required"`
	PartitionPattern string   `yaml:"partition_pattern" validate:"required,contains={date}"`
	EdgesPattern     string   `yaml:"edges_pattern" validate:"required,contains={date}"`
	Dates            []string `yaml:"dates" validate:"omitempty,dive,required"`
	// CacheSize bounds how many parsed partitions are kept between stages; 0
	// disables the cache
	CacheSize int `yaml:"cache_size" validate:"gte=0"`
}

// OutputConfig selects result sinks. Empty paths disable a sink.
type OutputConfig struct {
	CorrespondenceCSV string `yaml:"correspondence_csv"`
	SQLitePath        string `yaml:"sqlite_path"`
	ArchiveDir        string `yaml:"archive_dir"`
	PlacementDir      string `yaml:"placement_dir"`
	MetricsTextfile   string `yaml:"metrics_textfile"`
}

// LayoutConfig sizes the polar canvas used for placement exports
type LayoutConfig struct {
	Width   float64 `yaml:"width" validate:"gt=0"`
	Height  float64 `yaml:"height" validate:"gt=0"`
	Padding float64 `yaml:"padding" validate:"gte=0"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Workers: 1,
		Tracking: TrackingConfig{
			Threshold:      0,
			UniversePolicy: "per-pair",
		},
		Descriptor: DescriptorConfig{
			RadiusRange: 150,
			Epsilon:     1e-10,
			PageRank:    algorithms.DefaultPageRankOptions(),
		},
		Detection: DetectionConfig{
			Method:        "label-propagation",
			MaxIterations: 100,
		},
		Data: DataConfig{
			Root:             ".",
			PartitionPattern: "{date}/handle/rank{date}.csv",
			EdgesPattern:     "{date}/handle/edges{date}.csv",
		},
		Output: OutputConfig{
			CorrespondenceCSV: "community_changes.csv",
		},
		Layout: LayoutConfig{
			Width:   800,
			Height:  800,
			Padding: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. Keys
// absent from the file keep their default values. LOG_LEVEL overrides
// logging.level.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
