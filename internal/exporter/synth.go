package exporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/wolfmap/internal/geometry"
	"github.com/Faultbox/wolfmap/internal/level"
	"github.com/Faultbox/wolfmap/pkg/formats"
	"github.com/Faultbox/wolfmap/pkg/obj"
)

// surface is a run of faces sharing one material.
type surface struct {
	material string
	faces    []geometry.Face
}

// piece is a freestanding door or pushwall.
type piece []surface

// roomGroups collects a room's faces by material.
type roomGroups map[string][]geometry.Face

func (g roomGroups) add(material string, faces ...geometry.Face) {
	g[material] = append(g[material], faces...)
}

// wallMaterials returns the wall material names in sorted order.
func (g roomGroups) wallMaterials() []string {
	var names []string
	for name := range g {
		if strings.HasPrefix(name, WallPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// synthesizer accumulates the geometry of one map.
type synthesizer struct {
	gm       *formats.GameMap
	textures *textureLibrary
	floors   bool
	ceilings bool

	mesh      *obj.File
	doors     []piece
	pushwalls []piece
}

func newSynthesizer(gm *formats.GameMap, textures *textureLibrary, opts Options) *synthesizer {
	return &synthesizer{
		gm:       gm,
		textures: textures,
		floors:   opts.Floors,
		ceilings: opts.Ceilings,
		mesh:     obj.New(),
	}
}

// build emits every room in ascending floor code order, then doors, then
// pushwalls.
func (s *synthesizer) build(rooms level.Rooms) error {
	for _, room := range rooms.Sorted() {
		groups := make(roomGroups)
		for _, p := range room.Tiles {
			if err := s.tile(groups, p.X, p.Y); err != nil {
				return err
			}
		}
		if err := s.writeRoom(room.Code, groups); err != nil {
			return err
		}
	}

	for i, door := range s.doors {
		if err := s.writePiece(fmt.Sprintf("Door_%d", i+1), door); err != nil {
			return err
		}
	}
	for i, pw := range s.pushwalls {
		if err := s.writePiece(fmt.Sprintf("Pushwall_%d", i+1), pw); err != nil {
			return err
		}
	}
	return nil
}

func (s *synthesizer) tile(groups roomGroups, x, y int) error {
	if s.floors {
		groups.add(FloorMaterial, geometry.Floor(x, y))
	}
	if s.ceilings {
		groups.add(CeilingMaterial, geometry.Ceiling(x, y))
	}

	code := s.gm.Tile(formats.WallPlane, x, y)
	if axis, index := level.Door(code); axis != level.AxisNone {
		return s.door(groups, x, y, axis, index)
	}
	if level.IsWall(code) && level.IsPushwall(s.gm.Tile(formats.ObjectPlane, x, y)) {
		return s.pushwall(x, y, code)
	}
	return s.walls(groups, x, y)
}

// door emits a double-sided leaf through the tile centre and the two frame
// faces on the walls the leaf slides into.
func (s *synthesizer) door(groups roomGroups, x, y int, axis level.Axis, index int) error {
	leafID, sideID := level.DoorTextures(axis, index)
	leaf, err := s.textures.material(DoorPrefix, leafID)
	if err != nil {
		return err
	}
	side, err := s.textures.material(WallPrefix, sideID)
	if err != nil {
		return err
	}

	fx, fy := float32(x), float32(y)
	if axis == level.AxisEW {
		s.doors = append(s.doors, piece{{leaf, []geometry.Face{
			geometry.Wall(fx+0.5, fy, fx+0.5, fy+1, false),
			geometry.Wall(fx+0.5, fy+1, fx+0.5, fy, true),
		}}})
		groups.add(side,
			geometry.Wall(fx, fy, fx+1, fy, false),
			geometry.Wall(fx+1, fy+1, fx, fy+1, false),
		)
		return nil
	}

	s.doors = append(s.doors, piece{{leaf, []geometry.Face{
		geometry.Wall(fx, fy+0.5, fx+1, fy+0.5, false),
		geometry.Wall(fx+1, fy+0.5, fx, fy+0.5, true),
	}}})
	groups.add(side,
		geometry.Wall(fx, fy+1, fx, fy, false),
		geometry.Wall(fx+1, fy, fx+1, fy+1, false),
	)
	return nil
}

// pushwall emits the four outward faces of a movable wall block.
func (s *synthesizer) pushwall(x, y int, code uint16) error {
	ew, err := s.textures.material(WallPrefix, level.WallTexture(code, level.FacingEW))
	if err != nil {
		return err
	}
	ns, err := s.textures.material(WallPrefix, level.WallTexture(code, level.FacingNS))
	if err != nil {
		return err
	}

	fx, fy := float32(x), float32(y)
	s.pushwalls = append(s.pushwalls, piece{
		{ns, []geometry.Face{
			geometry.Wall(fx, fy+1, fx+1, fy+1, false),
			geometry.Wall(fx+1, fy, fx, fy, false),
		}},
		{ew, []geometry.Face{
			geometry.Wall(fx, fy, fx, fy+1, false),
			geometry.Wall(fx+1, fy+1, fx+1, fy, false),
		}},
	})
	return nil
}

// walls emits an inward face on each edge shared with a solid wall.
func (s *synthesizer) walls(groups roomGroups, x, y int) error {
	fx, fy := float32(x), float32(y)
	edges := []struct {
		dir    level.Direction
		facing level.Facing
		face   geometry.Face
	}{
		{level.West, level.FacingEW, geometry.Wall(fx, fy+1, fx, fy, false)},
		{level.East, level.FacingEW, geometry.Wall(fx+1, fy, fx+1, fy+1, false)},
		{level.North, level.FacingNS, geometry.Wall(fx, fy, fx+1, fy, false)},
		{level.South, level.FacingNS, geometry.Wall(fx+1, fy+1, fx, fy+1, false)},
	}

	for _, e := range edges {
		nx, ny := x+e.dir.DX, y+e.dir.DY
		if !s.gm.InBounds(nx, ny) {
			continue
		}
		code := s.gm.Tile(formats.WallPlane, nx, ny)
		if !level.IsWall(code) || level.IsPushwall(s.gm.Tile(formats.ObjectPlane, nx, ny)) {
			continue
		}
		name, err := s.textures.material(WallPrefix, level.WallTexture(code, e.facing))
		if err != nil {
			return err
		}
		groups.add(name, e.face)
	}
	return nil
}

func (s *synthesizer) writeRoom(code uint16, groups roomGroups) error {
	name := fmt.Sprintf("Room_%d", code)
	s.mesh.AddObjectName(name)
	s.mesh.AddGroup(name)

	order := groups.wallMaterials()
	order = append(order, FloorMaterial, CeilingMaterial)
	for _, material := range order {
		if err := s.writeSurface(surface{material, groups[material]}); err != nil {
			return err
		}
	}
	return nil
}

func (s *synthesizer) writePiece(name string, p piece) error {
	s.mesh.AddObjectName(name)
	s.mesh.AddGroup(name)
	for _, surf := range p {
		if err := s.writeSurface(surf); err != nil {
			return err
		}
	}
	return nil
}

func (s *synthesizer) writeSurface(surf surface) error {
	if len(surf.faces) == 0 {
		return nil
	}
	s.mesh.UseMaterial(surf.material)
	for _, f := range surf.faces {
		if err := s.mesh.AddFaceData(f.Vertices[:], f.UVs[:], f.Normals[:]); err != nil {
			return fmt.Errorf("%s: %w", surf.material, err)
		}
	}
	return nil
}
