// Package config handles exporter configuration loading and management.
package config

import (
	"github.com/Faultbox/wolfmap/internal/exporter"
)

// Config holds all exporter settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds game data file locations.
type DataConfig struct {
	Dir       string `yaml:"dir"`       // Directory with GAMEMAPS, MAPHEAD and VSWAP
	Extension string `yaml:"extension"` // WL6, WL1, SOD...
	Palette   string `yaml:"palette"`
}

// ExportConfig holds what to export and how.
type ExportConfig struct {
	Map           int        `yaml:"map"`
	All           bool       `yaml:"all"`
	OutputDir     string     `yaml:"output_dir"`
	Floors        bool       `yaml:"floors"`
	Ceilings      bool       `yaml:"ceilings"`
	TextureFormat string     `yaml:"texture_format"`
	TextureScale  int        `yaml:"texture_scale"`
	FloorColor    [3]float32 `yaml:"floor_color"`
	CeilingColor  [3]float32 `yaml:"ceiling_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := exporter.DefaultOptions()
	return &Config{
		Data: DataConfig{
			Dir:       opts.DataDir,
			Extension: opts.Extension,
			Palette:   opts.PalettePath,
		},
		Export: ExportConfig{
			Map:           0,
			All:           false,
			OutputDir:     opts.OutputDir,
			Floors:        opts.Floors,
			Ceilings:      opts.Ceilings,
			TextureFormat: opts.TextureFormat,
			TextureScale:  opts.TextureScale,
			FloorColor:    opts.FloorColor,
			CeilingColor:  opts.CeilingColor,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ExportOptions converts the configuration into exporter options.
func (c *Config) ExportOptions() exporter.Options {
	return exporter.Options{
		DataDir:       c.Data.Dir,
		Extension:     c.Data.Extension,
		PalettePath:   c.Data.Palette,
		OutputDir:     c.Export.OutputDir,
		Floors:        c.Export.Floors,
		Ceilings:      c.Export.Ceilings,
		TextureFormat: c.Export.TextureFormat,
		TextureScale:  c.Export.TextureScale,
		FloorColor:    c.Export.FloorColor,
		CeilingColor:  c.Export.CeilingColor,
	}
}
