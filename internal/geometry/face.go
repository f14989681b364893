// Package geometry builds the unit quads a tile map is made of.
//
// World space has y up. A tile (x, y) on the map covers x..x+1 on the world
// x axis and y..y+1 on the world z axis; walls are one unit high.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face is a planar quad with flat shading.
type Face struct {
	Vertices [4]mgl32.Vec3
	UVs      [4]mgl32.Vec2
	Normals  [4]mgl32.Vec3
}

var (
	canonicalUVs = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	mirroredUVs  = [4]mgl32.Vec2{{1, 0}, {0, 0}, {0, 1}, {1, 1}}
)

// Wall returns a vertical quad from (x1, z1) to (x2, z2), wound
// bottom-left, bottom-right, top-right, top-left. The face is visible from
// the left of the direction of travel. reverse mirrors the UVs horizontally.
func Wall(x1, z1, x2, z2 float32, reverse bool) Face {
	var f Face
	f.Vertices = [4]mgl32.Vec3{
		{x1, 0, z1},
		{x2, 0, z2},
		{x2, 1, z2},
		{x1, 1, z1},
	}
	f.UVs = canonicalUVs
	if reverse {
		f.UVs = mirroredUVs
	}
	f.setNormal(mgl32.Vec3{z1 - z2, 0, x2 - x1}.Normalize())
	return f
}

// Flat returns a horizontal quad at height y spanning the corners
// (x1, z1) and (x2, z2). The normal points up when x2 > x1.
func Flat(x1, z1, x2, z2, y float32) Face {
	var f Face
	f.Vertices = [4]mgl32.Vec3{
		{x1, y, z1},
		{x2, y, z1},
		{x2, y, z2},
		{x1, y, z2},
	}
	f.UVs = canonicalUVs
	var up float32 = 1
	if x2 < x1 {
		up = -1
	}
	f.setNormal(mgl32.Vec3{0, up, 0})
	return f
}

// Floor returns the upward facing floor quad of tile (x, y).
func Floor(x, y int) Face {
	fx, fy := float32(x), float32(y)
	return Flat(fx, fy+1, fx+1, fy, 0)
}

// Ceiling returns the downward facing ceiling quad of tile (x, y).
func Ceiling(x, y int) Face {
	fx, fy := float32(x), float32(y)
	return Flat(fx+1, fy+1, fx, fy, 1)
}

// Normal returns the face normal.
func (f Face) Normal() mgl32.Vec3 {
	return f.Normals[0]
}

// Winding returns the normal implied by the counter-clockwise vertex order.
func (f Face) Winding() mgl32.Vec3 {
	e1 := f.Vertices[1].Sub(f.Vertices[0])
	e2 := f.Vertices[2].Sub(f.Vertices[1])
	return e1.Cross(e2).Normalize()
}

func (f *Face) setNormal(n mgl32.Vec3) {
	for i := range f.Normals {
		f.Normals[i] = n
	}
}
