package exporter

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/wolfmap/internal/logger"
	"github.com/Faultbox/wolfmap/pkg/obj"
)

// Texture name prefixes. Walls and door leaves share one page index space
// but are named apart.
const (
	WallPrefix = "wall"
	DoorPrefix = "door"
)

// Flat material names.
const (
	FloorMaterial   = "floor"
	CeilingMaterial = "ceiling"
)

// TextureSource decodes wall pages. *formats.VSwap implements it.
type TextureSource interface {
	Wall(index int) (image.Image, error)
}

// TextureName returns the material and image base name for a page.
func TextureName(prefix string, id int) string {
	return fmt.Sprintf("%s%03d", prefix, id)
}

// textureLibrary writes each referenced texture once and keeps the
// material library in step with the images on disk.
type textureLibrary struct {
	src       TextureSource
	dir       string
	format    string
	scale     int
	materials *obj.Library
	names     []string // In first-use order
}

func newTextureLibrary(src TextureSource, opts Options) *textureLibrary {
	t := &textureLibrary{
		src:       src,
		dir:       opts.OutputDir,
		format:    strings.ToLower(opts.TextureFormat),
		scale:     opts.TextureScale,
		materials: obj.NewLibrary(),
	}
	if t.format == "" {
		t.format = FormatPNG
	}
	if t.scale < 1 {
		t.scale = 1
	}

	fc, cc := opts.FloorColor, opts.CeilingColor
	t.materials.AddMaterial(FloorMaterial).SetDiffuse(fc[0], fc[1], fc[2])
	t.materials.AddMaterial(CeilingMaterial).SetDiffuse(cc[0], cc[1], cc[2])
	return t
}

// material returns the material name for a page, exporting the image and
// registering the material on first use.
func (t *textureLibrary) material(prefix string, id int) (string, error) {
	name := TextureName(prefix, id)
	if t.materials.Has(name) {
		return name, nil
	}

	img, err := t.src.Wall(id)
	if err != nil {
		return "", fmt.Errorf("decoding texture %s: %w", name, err)
	}
	if t.scale > 1 {
		img = upscale(img, t.scale)
	}

	file := name + "." + t.format
	logger.Info("exporting texture", zap.String("name", name), zap.String("file", file))
	if err := writeFile(filepath.Join(t.dir, file), func(w io.Writer) error {
		return t.encode(w, img)
	}); err != nil {
		return "", fmt.Errorf("writing texture %s: %w", name, err)
	}

	t.materials.AddMaterial(name).SetColorTexture(file)
	t.names = append(t.names, name)
	return name, nil
}

func (t *textureLibrary) encode(w io.Writer, img image.Image) error {
	switch t.format {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTextureFormat, t.format)
	}
}

// upscale enlarges img by an integer factor without filtering.
func upscale(img image.Image, factor int) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
