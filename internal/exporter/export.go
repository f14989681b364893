package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/wolfmap/internal/level"
	"github.com/Faultbox/wolfmap/internal/logger"
	"github.com/Faultbox/wolfmap/pkg/formats"
)

// Result summarises one exported map.
type Result struct {
	Map          int
	Name         string
	Rooms        int
	Doors        int
	Pushwalls    int
	Faces        int
	Textures     []string // Image base names in first-use order
	Diagnostics  []level.Diagnostic
	MeshPath     string
	MaterialPath string
}

// Archive is an opened set of map and texture data files with the palette
// bound.
type Archive struct {
	Maps  *formats.Maps
	Walls *formats.VSwap
}

// OpenArchive opens the GAMEMAPS, MAPHEAD and VSWAP files named by opts and
// binds the palette. Everything opened is closed again on failure.
func OpenArchive(opts Options) (*Archive, error) {
	maps, err := formats.OpenMaps(opts.GameMapsPath())
	if err != nil {
		return nil, fmt.Errorf("opening maps: %w", err)
	}

	walls, err := formats.OpenVSwap(opts.VSwapPath())
	if err != nil {
		maps.Close()
		return nil, fmt.Errorf("opening textures: %w", err)
	}

	palette, err := formats.LoadPalette(opts.PalettePath)
	if err != nil {
		maps.Close()
		walls.Close()
		return nil, fmt.Errorf("loading palette: %w", err)
	}
	walls.SetPalette(palette)

	return &Archive{Maps: maps, Walls: walls}, nil
}

// Close closes both archives.
func (a *Archive) Close() error {
	return multierr.Append(a.Maps.Close(), a.Walls.Close())
}

// Export writes the mesh, material library and textures of the map at
// index into opts.OutputDir. An invalid index fails before anything is
// written.
func (a *Archive) Export(index int, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	gm, err := a.Maps.Load(index)
	if err != nil {
		return nil, err
	}
	return exportMap(gm, index, a.Walls, opts)
}

// ExportAll exports every valid map. A failed map is logged and does not
// stop the others; the returned error combines all failures.
func (a *Archive) ExportAll(opts Options) ([]*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var results []*Result
	var errs error
	for i := 0; i < a.Maps.Count(); i++ {
		if a.Maps.Head().Offsets[i] == 0 {
			continue
		}
		res, err := a.Export(i, opts)
		if err != nil {
			logger.Error("map export failed", zap.Int("map", i), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("map %d: %w", i, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// ExportTextures writes every wall page of the archive as an image and
// returns the image base names.
func (a *Archive) ExportTextures(opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	textures := newTextureLibrary(a.Walls, opts)
	for i := 0; i < a.Walls.WallCount(); i++ {
		if _, err := textures.material(WallPrefix, i); err != nil {
			return textures.names, err
		}
	}
	return textures.names, nil
}

// Export opens the archive, exports one map and closes the archive.
func Export(index int, opts Options) (res *Result, err error) {
	a, err := OpenArchive(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, a.Close())
	}()
	return a.Export(index, opts)
}

// ExportAll opens the archive, exports every map and closes the archive.
func ExportAll(opts Options) (results []*Result, err error) {
	a, err := OpenArchive(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, a.Close())
	}()
	return a.ExportAll(opts)
}

// exportMap reconstructs rooms, synthesizes geometry and writes the files
// for one decoded map.
func exportMap(gm *formats.GameMap, index int, src TextureSource, opts Options) (*Result, error) {
	rooms, diags := level.Reconstruct(gm)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	textures := newTextureLibrary(src, opts)
	synth := newSynthesizer(gm, textures, opts)
	if err := synth.build(rooms); err != nil {
		return nil, fmt.Errorf("synthesizing geometry: %w", err)
	}

	mtlName := MaterialLibName(index)
	synth.mesh.AddMaterialLib(mtlName)

	res := &Result{
		Map:          index,
		Name:         gm.Name,
		Rooms:        len(rooms),
		Doors:        len(synth.doors),
		Pushwalls:    len(synth.pushwalls),
		Faces:        synth.mesh.FaceCount(),
		Textures:     textures.names,
		Diagnostics:  diags,
		MeshPath:     filepath.Join(opts.OutputDir, MeshName(index)),
		MaterialPath: filepath.Join(opts.OutputDir, mtlName),
	}

	if err := writeFile(res.MaterialPath, func(w io.Writer) error {
		_, err := textures.materials.WriteTo(w)
		return err
	}); err != nil {
		return nil, fmt.Errorf("writing %s: %w", mtlName, err)
	}
	if err := writeFile(res.MeshPath, func(w io.Writer) error {
		_, err := synth.mesh.WriteTo(w)
		return err
	}); err != nil {
		return nil, fmt.Errorf("writing %s: %w", MeshName(index), err)
	}

	logger.Info("exported map",
		zap.Int("map", index),
		zap.String("name", gm.Name),
		zap.Int("rooms", res.Rooms),
		zap.Int("doors", res.Doors),
		zap.Int("pushwalls", res.Pushwalls),
		zap.Int("faces", res.Faces),
		zap.Int("textures", len(res.Textures)),
		zap.Int("diagnostics", len(diags)))

	return res, nil
}
