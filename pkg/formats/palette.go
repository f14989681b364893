package formats

import (
	"errors"
	"fmt"
	"image/color"
	"os"
)

// ErrInvalidPalette is returned for palette data of the wrong size.
var ErrInvalidPalette = errors.New("invalid palette data")

// PaletteSize is the byte size of a raw 256-entry RGB palette.
const PaletteSize = 256 * 3

// ParsePalette parses a raw RGB triplet table.
func ParsePalette(data []byte) (color.Palette, error) {
	if len(data) != PaletteSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPalette, PaletteSize, len(data))
	}

	palette := make(color.Palette, 256)
	for i := range palette {
		palette[i] = color.RGBA{
			R: data[i*3],
			G: data[i*3+1],
			B: data[i*3+2],
			A: 255,
		}
	}
	return palette, nil
}

// LoadPalette reads a raw palette file from disk.
func LoadPalette(path string) (color.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}
	return ParsePalette(data)
}
