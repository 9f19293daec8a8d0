package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// Config holds the mesher configuration.
type Config struct {
	SectionSize  int      `yaml:"section_size"`  // 16, or 32 for large chunks
	ChunkHeight  int      `yaml:"chunk_height"`  // sections per chunk
	Storage      string   `yaml:"storage"`       // "planar", "planar_limited" or "cubic"
	ViewDistance int      `yaml:"view_distance"` // chunks around the origin to mesh
	Frames       int      `yaml:"frames"`        // 0 = until the queue drains
	FrameRateHz  int      `yaml:"frame_rate_hz"`
	BlocksPath   string   `yaml:"blocks_path"`
	ModelsPath   string   `yaml:"models_path"`
	AtlasTile    int      `yaml:"atlas_tile"`
	FlatLayers   []string `yaml:"flat_layers"` // bottom to top
	DumpPath     string   `yaml:"dump_path"`   // empty disables the mesh dump
	LogLevel     string   `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SectionSize:  world.SectionSize,
		ChunkHeight:  16,
		Storage:      world.Planar.String(),
		ViewDistance: 4,
		FrameRateHz:  60,
		BlocksPath:   "assets/blocks.yaml",
		ModelsPath:   "assets/models.json",
		AtlasTile:    16,
		FlatLayers:   []string{"bedrock", "dirt", "dirt", "grass_block"},
		LogLevel:     "info",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["section-size"] {
		cfg.SectionSize = fromFile.SectionSize
	}
	if !explicitFlags["chunk-height"] {
		cfg.ChunkHeight = fromFile.ChunkHeight
	}
	if !explicitFlags["storage"] {
		cfg.Storage = fromFile.Storage
	}
	if !explicitFlags["view-distance"] {
		cfg.ViewDistance = fromFile.ViewDistance
	}
	if !explicitFlags["frames"] {
		cfg.Frames = fromFile.Frames
	}
	if !explicitFlags["fps"] {
		cfg.FrameRateHz = fromFile.FrameRateHz
	}
	if !explicitFlags["blocks"] {
		cfg.BlocksPath = fromFile.BlocksPath
	}
	if !explicitFlags["models"] {
		cfg.ModelsPath = fromFile.ModelsPath
	}
	if !explicitFlags["atlas-tile"] {
		cfg.AtlasTile = fromFile.AtlasTile
	}
	if !explicitFlags["layers"] {
		cfg.FlatLayers = fromFile.FlatLayers
	}
	if !explicitFlags["dump"] {
		cfg.DumpPath = fromFile.DumpPath
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if !world.ValidSectionSize(c.SectionSize) {
		errs = append(errs, fmt.Errorf("section_size %d: want 16 or 32", c.SectionSize))
	}
	if c.ChunkHeight <= 0 {
		errs = append(errs, fmt.Errorf("chunk_height %d: must be positive", c.ChunkHeight))
	}
	if _, err := world.ParseStorageKind(c.Storage); err != nil {
		errs = append(errs, err)
	}
	if c.ViewDistance < 0 {
		errs = append(errs, fmt.Errorf("view_distance %d: must not be negative", c.ViewDistance))
	}
	if c.FrameRateHz <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate_hz %d: must be positive", c.FrameRateHz))
	}
	if c.AtlasTile <= 0 {
		errs = append(errs, fmt.Errorf("atlas_tile %d: must be positive", c.AtlasTile))
	}
	if c.BlocksPath == "" {
		errs = append(errs, errors.New("blocks_path is empty"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
