package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/wolfmap/pkg/cursor"
	"github.com/Faultbox/wolfmap/pkg/encoding"
)

// GAMEMAPS format errors.
var (
	ErrInvalidMapIndex  = errors.New("invalid map index")
	ErrTruncatedMapHead = errors.New("truncated MAPHEAD data")
)

// Layout constants for the map archive.
const (
	MapPlanes     = 3  // Planes stored per map
	UsedPlanes    = 2  // Planes decoded: structure and object
	MapNameLength = 16 // Fixed length of the map name field

	MapHeadName = "MAPHEAD"
	GameMapName = "GAMEMAPS"
)

// Plane indices into GameMap.Tiles.
const (
	WallPlane   = 0 // Walls, floors and doors
	ObjectPlane = 1 // Actors, items, pushwall markers
)

// MapHead is the parsed MAPHEAD index.
type MapHead struct {
	RLEWTag uint16
	Offsets []uint32 // Trailing unused slots removed
}

// Count returns the number of addressable maps.
func (h *MapHead) Count() int {
	return len(h.Offsets)
}

// MapInfo is the per-map header found at a MAPHEAD offset.
type MapInfo struct {
	PlaneStart  [MapPlanes]uint32
	PlaneLength [MapPlanes]uint16
	Width       uint16
	Height      uint16
	Name        string
}

// GameMap is a decoded map: tile codes indexed as Tiles[plane][y][x].
type GameMap struct {
	Name   string
	Width  int
	Height int
	Tiles  [UsedPlanes][][]uint16
}

// InBounds reports whether (x, y) lies on the map.
func (m *GameMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Tile returns the code at (x, y) on the given plane.
// Out-of-bounds coordinates return 0.
func (m *GameMap) Tile(plane, x, y int) uint16 {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.Tiles[plane][y][x]
}

// ParseMapHead parses MAPHEAD data.
func ParseMapHead(data []byte) (*MapHead, error) {
	r := cursor.New(data)

	tag, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("%w: reading rlew tag", ErrTruncatedMapHead)
	}
	offsets, err := r.ReadUint32Array(0)
	if err != nil {
		return nil, fmt.Errorf("%w: reading offsets", ErrTruncatedMapHead)
	}

	// Drop unused slots from the end of the table.
	last := -1
	for i, off := range offsets {
		if off != 0 {
			last = i
		}
	}

	return &MapHead{
		RLEWTag: tag,
		Offsets: offsets[:last+1],
	}, nil
}

// ParseMapHeadFile parses a MAPHEAD file from disk.
func ParseMapHeadFile(path string) (*MapHead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MAPHEAD file: %w", err)
	}
	return ParseMapHead(data)
}

// CompanionPath returns the path of a sibling data file that shares
// base's directory and extension, e.g. GAMEMAPS.WL6 -> MAPHEAD.WL6.
func CompanionPath(base, name string) string {
	return filepath.Join(filepath.Dir(base), name+filepath.Ext(base))
}

// Maps is an opened GAMEMAPS archive.
type Maps struct {
	r    *cursor.Reader
	head *MapHead
}

// OpenMaps opens a GAMEMAPS file and its MAPHEAD companion.
func OpenMaps(path string) (*Maps, error) {
	head, err := ParseMapHeadFile(CompanionPath(path, MapHeadName))
	if err != nil {
		return nil, err
	}

	r, err := cursor.Open(path)
	if err != nil {
		return nil, err
	}
	return NewMaps(head, r), nil
}

// NewMaps wraps an already parsed header and a reader over GAMEMAPS data.
func NewMaps(head *MapHead, r *cursor.Reader) *Maps {
	return &Maps{r: r, head: head}
}

// Close closes the archive.
func (m *Maps) Close() error {
	return m.r.Close()
}

// Head returns the parsed MAPHEAD.
func (m *Maps) Head() *MapHead {
	return m.head
}

// Count returns the number of addressable maps.
func (m *Maps) Count() int {
	return m.head.Count()
}

func (m *Maps) checkIndex(index int) error {
	if index < 0 || index >= m.head.Count() {
		return fmt.Errorf("%w: %d (archive has %d maps)", ErrInvalidMapIndex, index, m.head.Count())
	}
	if m.head.Offsets[index] == 0 {
		return fmt.Errorf("%w: %d is an empty slot", ErrInvalidMapIndex, index)
	}
	return nil
}

// Info reads the header of the map at index.
func (m *Maps) Info(index int) (*MapInfo, error) {
	if err := m.checkIndex(index); err != nil {
		return nil, err
	}

	if _, err := m.r.Seek(int64(m.head.Offsets[index]), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to map %d: %w", index, err)
	}

	starts, err := m.r.ReadUint32Array(MapPlanes)
	if err != nil {
		return nil, fmt.Errorf("reading plane starts: %w", err)
	}
	lengths, err := m.r.ReadUint16Array(MapPlanes)
	if err != nil {
		return nil, fmt.Errorf("reading plane lengths: %w", err)
	}
	size, err := m.r.ReadUint16Array(2)
	if err != nil {
		return nil, fmt.Errorf("reading map size: %w", err)
	}
	name, err := m.r.ReadText(MapNameLength)
	if err != nil {
		return nil, fmt.Errorf("reading map name: %w", err)
	}

	info := &MapInfo{
		Width:  size[0],
		Height: size[1],
		Name:   encoding.FixedStringToUTF8(name),
	}
	copy(info.PlaneStart[:], starts)
	copy(info.PlaneLength[:], lengths)
	return info, nil
}

// Load reads and decompresses the structure and object planes of the map at index.
func (m *Maps) Load(index int) (*GameMap, error) {
	info, err := m.Info(index)
	if err != nil {
		return nil, err
	}

	gm := &GameMap{
		Name:   info.Name,
		Width:  int(info.Width),
		Height: int(info.Height),
	}

	for plane := 0; plane < UsedPlanes; plane++ {
		if _, err := m.r.Seek(int64(info.PlaneStart[plane]), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seeking to plane %d: %w", plane, err)
		}
		raw, err := m.r.Read(int(info.PlaneLength[plane]))
		if err != nil {
			return nil, fmt.Errorf("reading plane %d: %w", plane, err)
		}
		tiles, err := ExpandPlane(raw, m.head.RLEWTag, gm.Width, gm.Height)
		if err != nil {
			return nil, fmt.Errorf("map %d plane %d: %w", index, plane, err)
		}
		gm.Tiles[plane] = tiles
	}

	return gm, nil
}
