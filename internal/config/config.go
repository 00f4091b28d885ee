// Package config handles helix configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Config holds all helix settings.
type Config struct {
	Map      MapConfig      `yaml:"map"`
	Tiling   TilingConfig   `yaml:"tiling"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MapConfig holds the map documents and their world scale.
type MapConfig struct {
	Name    string `yaml:"name"`
	Tileset string `yaml:"tileset"` // Path to the tileset JSON
	Path    string `yaml:"path"`    // Path to the map JSON

	// Tile size in world units. Cells, boxes and quads are expressed in these.
	TileWidth  float32 `yaml:"tile_width"`
	TileHeight float32 `yaml:"tile_height"`

	MaxRegionTiles int  `yaml:"max_region_tiles"`
	Validate       bool `yaml:"validate"`  // Check documents against the JSON schemas
	FirstGID       int  `yaml:"first_gid"` // 0 uses the map's first tileset
}

// TilingConfig holds auto-tiling settings.
type TilingConfig struct {
	Seed uint64 `yaml:"seed"` // Seed of the random sprite and frame pools
}

// SnapshotConfig holds snapshot output settings.
type SnapshotConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // zstd level: fastest, default, better, best
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console or json, file output only
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			TileWidth:      1,
			TileHeight:     1,
			MaxRegionTiles: 10000,
			Validate:       true,
		},
		Tiling: TilingConfig{
			Seed: 1,
		},
		Snapshot: SnapshotConfig{
			Path:  "map.snapshot.zst",
			Level: "default",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
	}
}

// Validate checks values that would make a load fail later.
func (c *Config) Validate() error {
	var errs []error
	if c.Map.TileWidth <= 0 || c.Map.TileHeight <= 0 {
		errs = append(errs, fmt.Errorf("map tile size must be positive, got %vx%v", c.Map.TileWidth, c.Map.TileHeight))
	}
	if c.Map.MaxRegionTiles < 0 {
		errs = append(errs, fmt.Errorf("map max_region_tiles must not be negative, got %d", c.Map.MaxRegionTiles))
	}
	if c.Map.FirstGID < 0 {
		errs = append(errs, fmt.Errorf("map first_gid must not be negative, got %d", c.Map.FirstGID))
	}
	if c.Snapshot.Level != "" {
		if ok, _ := zstd.EncoderLevelFromString(c.Snapshot.Level); !ok {
			errs = append(errs, fmt.Errorf("unknown snapshot level %q", c.Snapshot.Level))
		}
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
