// Package exporter turns decoded maps into OBJ meshes with MTL materials
// and texture images.
package exporter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/wolfmap/pkg/formats"
)

// ErrUnknownTextureFormat is returned for texture formats other than png and bmp.
var ErrUnknownTextureFormat = errors.New("unknown texture format")

// Texture image formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Options controls one export run.
type Options struct {
	DataDir     string // Directory holding GAMEMAPS, MAPHEAD and VSWAP
	Extension   string // Data file extension, e.g. WL6
	PalettePath string
	OutputDir   string

	Floors   bool
	Ceilings bool

	TextureFormat string
	TextureScale  int

	FloorColor   [3]float32
	CeilingColor [3]float32
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DataDir:       ".",
		Extension:     "WL6",
		PalettePath:   filepath.Join("palettes", "Wolf3D.pal"),
		OutputDir:     "export",
		Floors:        true,
		Ceilings:      true,
		TextureFormat: FormatPNG,
		TextureScale:  1,
		FloorColor:    [3]float32{112.0 / 256, 112.0 / 256, 112.0 / 256},
		CeilingColor:  [3]float32{56.0 / 256, 56.0 / 256, 56.0 / 256},
	}
}

// Validate checks option values that would otherwise fail mid-export.
func (o Options) Validate() error {
	switch strings.ToLower(o.TextureFormat) {
	case FormatPNG, FormatBMP:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTextureFormat, o.TextureFormat)
	}
	if o.TextureScale < 1 {
		return fmt.Errorf("texture scale must be at least 1, got %d", o.TextureScale)
	}
	if o.OutputDir == "" {
		return errors.New("output directory is empty")
	}
	return nil
}

// GameMapsPath returns the path of the GAMEMAPS archive.
func (o Options) GameMapsPath() string {
	return filepath.Join(o.DataDir, formats.GameMapName+"."+o.Extension)
}

// VSwapPath returns the path of the VSWAP archive.
func (o Options) VSwapPath() string {
	return formats.CompanionPath(o.GameMapsPath(), formats.VSwapName)
}

// MeshName returns the OBJ file name for a map.
func MeshName(index int) string {
	return fmt.Sprintf("map%02d.obj", index)
}

// MaterialLibName returns the MTL file name for a map.
func MaterialLibName(index int) string {
	return fmt.Sprintf("map%02d.mtl", index)
}
