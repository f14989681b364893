// wolfexport converts Wolfenstein 3D maps to Wavefront OBJ meshes.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/wolfmap/internal/config"
	"github.com/Faultbox/wolfmap/internal/exporter"
	"github.com/Faultbox/wolfmap/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	command := "export"
	var args []string
	if rest := config.Args(); len(rest) > 0 {
		command, args = rest[0], rest[1:]
	}

	switch command {
	case "export":
		err = cmdExport(cfg)
	case "info":
		err = cmdInfo(cfg)
	case "textures":
		err = cmdTextures(cfg)
	case "config":
		err = cmdConfig(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		logger.Sync()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wolfexport - Wolfenstein 3D map to OBJ converter

Usage:
  wolfexport [options] [command]

Commands:
  export              Export the selected map, or every map with -all (default)
  info                List the maps in the archive
  textures            Export every wall texture
  config [path]       Write the effective configuration
  help                Show this help

Options:
  -in <dir>           Path to the game data
  -map <n>            Map number to export (0-based)
  -all                Export every map
  -out <dir>          Output directory (default export)
  -nofloor            Disable exporting of floor faces
  -noceiling          Disable exporting of ceiling faces
  -format png|bmp     Texture image format
  -scale <n>          Texture upscale factor
  -config <file>      Config file (default wolfmap.yaml)
  -debug              Enable debug logging

Examples:
  wolfexport -in ~/wolf3d -map 0
  wolfexport -in ~/wolf3d -all -out meshes -noceiling
  wolfexport -in ~/wolf3d info`)
}

func cmdExport(cfg *config.Config) error {
	opts := cfg.ExportOptions()

	var results []*exporter.Result
	var err error
	if cfg.Export.All {
		results, err = exporter.ExportAll(opts)
	} else {
		var res *exporter.Result
		res, err = exporter.Export(cfg.Export.Map, opts)
		if res != nil {
			results = append(results, res)
		}
	}

	for _, res := range results {
		fmt.Printf("map %02d %-16s rooms %3d  doors %3d  pushwalls %3d  faces %5d  textures %3d",
			res.Map, res.Name, res.Rooms, res.Doors, res.Pushwalls, res.Faces, len(res.Textures))
		if n := len(res.Diagnostics); n > 0 {
			fmt.Printf("  warnings %d", n)
		}
		fmt.Println()
	}
	return err
}

func cmdInfo(cfg *config.Config) error {
	opts := cfg.ExportOptions()

	archive, err := exporter.OpenArchive(opts)
	if err != nil {
		return err
	}
	defer archive.Close()

	maps := archive.Maps
	fmt.Printf("Maps:     %s\n", opts.GameMapsPath())
	fmt.Printf("Textures: %s (%d walls)\n", opts.VSwapPath(), archive.Walls.WallCount())
	fmt.Printf("RLEW tag: 0x%04X\n", maps.Head().RLEWTag)
	fmt.Println()

	for i := 0; i < maps.Count(); i++ {
		if maps.Head().Offsets[i] == 0 {
			fmt.Printf("  %2d  (empty)\n", i)
			continue
		}
		info, err := maps.Info(i)
		if err != nil {
			fmt.Printf("  %2d  error: %v\n", i, err)
			continue
		}
		fmt.Printf("  %2d  %-16s %dx%d\n", i, info.Name, info.Width, info.Height)
	}
	return nil
}

func cmdTextures(cfg *config.Config) error {
	opts := cfg.ExportOptions()

	archive, err := exporter.OpenArchive(opts)
	if err != nil {
		return err
	}
	defer archive.Close()

	names, err := archive.ExportTextures(opts)
	fmt.Printf("Exported %d textures to %s\n", len(names), opts.OutputDir)
	return err
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved configuration to %s\n", config.ConfigDir())
		return nil
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		return err
	}
	fmt.Printf("Saved configuration to %s\n", args[0])
	return nil
}
