package level

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/wolfmap/internal/logger"
	"github.com/Faultbox/wolfmap/pkg/formats"
)

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Direction is a unit step between adjoining tiles.
type Direction struct {
	Name   string
	DX, DY int
}

// Cardinal directions. North is towards y = 0.
var (
	West  = Direction{"west", -1, 0}
	East  = Direction{"east", 1, 0}
	North = Direction{"north", 0, -1}
	South = Direction{"south", 0, 1}
)

// searchOrder is used for floor markers and pushwalls.
var searchOrder = []Direction{West, East, North, South}

// Room is a set of tiles sharing a floor code.
type Room struct {
	Code  uint16
	Tiles []Point // In discovery order
	seen  map[Point]bool
}

// Contains reports whether p belongs to the room.
func (r *Room) Contains(p Point) bool {
	return r.seen[p]
}

// Rooms maps floor codes to rooms.
type Rooms map[uint16]*Room

// Sorted returns rooms in ascending floor code order.
func (rs Rooms) Sorted() []*Room {
	out := make([]*Room, 0, len(rs))
	for _, r := range rs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// RoomOf returns the room containing p, if any.
func (rs Rooms) RoomOf(p Point) (*Room, bool) {
	for _, r := range rs {
		if r.Contains(p) {
			return r, true
		}
	}
	return nil, false
}

// DiagnosticKind classifies a reconstruction problem.
type DiagnosticKind int

const (
	MissingAdjacentRoom DiagnosticKind = iota
)

// String returns the kind name.
func (k DiagnosticKind) String() string {
	switch k {
	case MissingAdjacentRoom:
		return "MissingAdjacentRoom"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Diagnostic is a non-fatal problem found while grouping tiles.
type Diagnostic struct {
	Kind DiagnosticKind
	At   Point
	Code uint16
	What string // "floor marker", "door" or "pushwall"
}

// String describes the diagnostic.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: no floor code next to %s %d at %d,%d", d.Kind, d.What, d.Code, d.At.X, d.At.Y)
}

type reconstructor struct {
	gm          *formats.GameMap
	rooms       Rooms
	diagnostics []Diagnostic
}

// Reconstruct groups the map's navigable tiles into rooms by floor code.
// Floor markers, doors and pushwalls join the first adjoining room found.
func Reconstruct(gm *formats.GameMap) (Rooms, []Diagnostic) {
	rc := &reconstructor{gm: gm, rooms: make(Rooms)}

	for y := 0; y < gm.Height; y++ {
		for x := 0; x < gm.Width; x++ {
			rc.classify(x, y)
		}
	}

	return rc.rooms, rc.diagnostics
}

func (rc *reconstructor) classify(x, y int) {
	code := rc.gm.Tile(formats.WallPlane, x, y)

	if IsFloor(code) {
		rc.add(code, Point{x, y})
		return
	}

	if IsFloorMarker(code) {
		if !rc.attach(x, y, searchOrder...) {
			rc.report(x, y, code, "floor marker")
		}
		return
	}

	switch axis, _ := Door(code); axis {
	case AxisEW:
		rc.attachDoor(x, y, code, West, East)
		return
	case AxisNS:
		rc.attachDoor(x, y, code, North, South)
		return
	}

	if IsPushwall(rc.gm.Tile(formats.ObjectPlane, x, y)) {
		if !rc.attach(x, y, searchOrder...) {
			rc.report(x, y, code, "pushwall")
		}
	}
}

// attachDoor records a door in the room on its primary side, falling back
// to the opposite side. A door borders two rooms but joins only one.
func (rc *reconstructor) attachDoor(x, y int, code uint16, primary, fallback Direction) {
	if rc.attach(x, y, primary) {
		return
	}
	logger.Debug("door has no room on primary side",
		zap.Int("x", x), zap.Int("y", y), zap.String("side", primary.Name))
	if !rc.attach(x, y, fallback) {
		rc.report(x, y, code, "door")
	}
}

// attach adds (x, y) to the room of the first adjoining floor tile in dirs.
func (rc *reconstructor) attach(x, y int, dirs ...Direction) bool {
	for _, d := range dirs {
		nx, ny := x+d.DX, y+d.DY
		if !rc.gm.InBounds(nx, ny) {
			continue
		}
		if code := rc.gm.Tile(formats.WallPlane, nx, ny); IsFloor(code) {
			rc.add(code, Point{x, y})
			return true
		}
	}
	return false
}

func (rc *reconstructor) add(code uint16, p Point) {
	room, ok := rc.rooms[code]
	if !ok {
		room = &Room{Code: code, seen: make(map[Point]bool)}
		rc.rooms[code] = room
	}
	if room.seen[p] {
		return
	}
	room.seen[p] = true
	room.Tiles = append(room.Tiles, p)
}

func (rc *reconstructor) report(x, y int, code uint16, what string) {
	d := Diagnostic{Kind: MissingAdjacentRoom, At: Point{x, y}, Code: code, What: what}
	rc.diagnostics = append(rc.diagnostics, d)
	logger.Warn("could not find floor code for tile",
		zap.String("tile", what), zap.Int("x", x), zap.Int("y", y), zap.Uint16("code", code))
}
