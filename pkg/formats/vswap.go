package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/Faultbox/wolfmap/pkg/cursor"
)

// VSWAP format errors.
var (
	ErrNoPalette       = errors.New("no palette bound")
	ErrNotWallTexture  = errors.New("not a wall texture index")
	ErrTruncatedVSwap  = errors.New("truncated VSWAP data")
	ErrInvalidWallPage = errors.New("invalid wall page length")
)

// VSwapName is the base name of the page archive.
const VSwapName = "VSWAP"

// TextureSize is the edge length of a wall texture in pixels.
const TextureSize = 64

// VSwap is an opened VSWAP page archive.
// Pages [0, SpriteStart) are wall textures.
type VSwap struct {
	r           *cursor.Reader
	ChunkCount  uint16
	SpriteStart uint16
	SoundStart  uint16
	Offsets     []uint32
	Lengths     []uint16
	palette     color.Palette
}

// OpenVSwap opens a VSWAP file.
func OpenVSwap(path string) (*VSwap, error) {
	r, err := cursor.Open(path)
	if err != nil {
		return nil, err
	}
	v, err := NewVSwap(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	return v, nil
}

// NewVSwap reads the page directory from r.
func NewVSwap(r *cursor.Reader) (*VSwap, error) {
	header, err := r.ReadUint16Array(3)
	if err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedVSwap)
	}

	v := &VSwap{
		r:           r,
		ChunkCount:  header[0],
		SpriteStart: header[1],
		SoundStart:  header[2],
	}

	if v.Offsets, err = r.ReadUint32Array(int(v.ChunkCount)); err != nil {
		return nil, fmt.Errorf("%w: reading offsets", ErrTruncatedVSwap)
	}
	if v.Lengths, err = r.ReadUint16Array(int(v.ChunkCount)); err != nil {
		return nil, fmt.Errorf("%w: reading lengths", ErrTruncatedVSwap)
	}
	if v.SpriteStart > v.ChunkCount {
		return nil, fmt.Errorf("%w: sprite start %d beyond %d chunks", ErrTruncatedVSwap, v.SpriteStart, v.ChunkCount)
	}

	return v, nil
}

// Close closes the archive.
func (v *VSwap) Close() error {
	return v.r.Close()
}

// SetPalette binds the palette used to decode wall pages.
func (v *VSwap) SetPalette(p color.Palette) {
	v.palette = p
}

// WallCount returns the number of wall texture pages.
func (v *VSwap) WallCount() int {
	return int(v.SpriteStart)
}

// Wall decodes wall page index to an RGB raster.
func (v *VSwap) Wall(index int) (image.Image, error) {
	if v.palette == nil {
		return nil, ErrNoPalette
	}
	if index < 0 || index >= v.WallCount() {
		return nil, fmt.Errorf("%w: %d (walls are 0-%d)", ErrNotWallTexture, index, v.WallCount()-1)
	}
	if v.Lengths[index] != TextureSize*TextureSize {
		return nil, fmt.Errorf("%w: page %d is %d bytes", ErrInvalidWallPage, index, v.Lengths[index])
	}

	if _, err := v.r.Seek(int64(v.Offsets[index]), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to page %d: %w", index, err)
	}
	data, err := v.r.Read(int(v.Lengths[index]))
	if err != nil {
		return nil, fmt.Errorf("reading page %d: %w", index, err)
	}

	return decodeWallPage(data, v.palette), nil
}

// decodeWallPage converts a column-major page to an image.
// Byte x*64+y holds the pixel at column x, row y.
func decodeWallPage(data []byte, palette color.Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TextureSize, TextureSize))
	for x := 0; x < TextureSize; x++ {
		for y := 0; y < TextureSize; y++ {
			idx := int(data[x*TextureSize+y])
			if idx >= len(palette) {
				continue
			}
			img.Set(x, y, palette[idx])
		}
	}
	return img
}
