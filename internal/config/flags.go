package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagIn        = flag.String("in", "", "Path to the game data")
	flagMap       = flag.Int("map", -1, "Map number to export (0-based)")
	flagAll       = flag.Bool("all", false, "Export every map")
	flagOut       = flag.String("out", "", "Path to export the OBJ data to")
	flagNoFloor   = flag.Bool("nofloor", false, "Disable exporting of floor faces")
	flagNoCeiling = flag.Bool("noceiling", false, "Disable exporting of ceiling faces")
	flagFormat    = flag.String("format", "", "Texture image format (png or bmp)")
	flagScale     = flag.Int("scale", 0, "Texture upscale factor")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagIn != "" {
		cfg.Data.Dir = *flagIn
	}
	if *flagMap >= 0 {
		cfg.Export.Map = *flagMap
	}
	if *flagAll {
		cfg.Export.All = true
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
	if *flagNoFloor {
		cfg.Export.Floors = false
	}
	if *flagNoCeiling {
		cfg.Export.Ceilings = false
	}
	if *flagFormat != "" {
		cfg.Export.TextureFormat = *flagFormat
	}
	if *flagScale > 0 {
		cfg.Export.TextureScale = *flagScale
	}
}
