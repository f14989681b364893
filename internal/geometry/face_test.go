package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWall_Normals(t *testing.T) {
	tests := []struct {
		name     string
		face     Face
		expected mgl32.Vec3
	}{
		{"west edge faces east", Wall(2, 4, 2, 3, false), mgl32.Vec3{1, 0, 0}},
		{"east edge faces west", Wall(3, 3, 3, 4, false), mgl32.Vec3{-1, 0, 0}},
		{"north edge faces south", Wall(2, 3, 3, 3, false), mgl32.Vec3{0, 0, 1}},
		{"south edge faces north", Wall(3, 4, 2, 4, false), mgl32.Vec3{0, 0, -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i, n := range tc.face.Normals {
				if !n.ApproxEqual(tc.expected) {
					t.Errorf("normal %d = %v, expected %v", i, n, tc.expected)
				}
			}
			if !tc.face.Winding().ApproxEqual(tc.face.Normal()) {
				t.Errorf("winding %v disagrees with normal %v", tc.face.Winding(), tc.face.Normal())
			}
		})
	}
}

func TestWall_Layout(t *testing.T) {
	f := Wall(1, 2, 1.5, 2, false)

	expected := [4]mgl32.Vec3{{1, 0, 2}, {1.5, 0, 2}, {1.5, 1, 2}, {1, 1, 2}}
	if f.Vertices != expected {
		t.Errorf("vertices = %v, expected %v", f.Vertices, expected)
	}
	if f.UVs != canonicalUVs {
		t.Errorf("uvs = %v, expected canonical order", f.UVs)
	}
}

func TestWall_ReverseMirrorsUVs(t *testing.T) {
	front := Wall(1.5, 1, 1.5, 2, false)
	back := Wall(1.5, 2, 1.5, 1, true)

	for i := range front.UVs {
		if back.UVs[i][0] != 1-front.UVs[i][0] || back.UVs[i][1] != front.UVs[i][1] {
			t.Errorf("uv %d: %v is not the mirror of %v", i, back.UVs[i], front.UVs[i])
		}
	}
	if !front.Normal().Add(back.Normal()).ApproxEqual(mgl32.Vec3{}) {
		t.Errorf("door leaf sides should face opposite ways: %v, %v", front.Normal(), back.Normal())
	}
}

func TestFlat(t *testing.T) {
	floor := Floor(3, 5)
	ceiling := Ceiling(3, 5)

	if floor.Normal() != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("floor normal = %v, expected up", floor.Normal())
	}
	if ceiling.Normal() != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("ceiling normal = %v, expected down", ceiling.Normal())
	}

	for name, f := range map[string]Face{"floor": floor, "ceiling": ceiling} {
		if !f.Winding().ApproxEqual(f.Normal()) {
			t.Errorf("%s winding %v disagrees with normal %v", name, f.Winding(), f.Normal())
		}
		for _, v := range f.Vertices {
			if v[0] < 3 || v[0] > 4 || v[2] < 5 || v[2] > 6 {
				t.Errorf("%s vertex %v outside tile footprint", name, v)
			}
		}
	}
	for _, v := range floor.Vertices {
		if v[1] != 0 {
			t.Errorf("floor vertex %v not at y=0", v)
		}
	}
	for _, v := range ceiling.Vertices {
		if v[1] != 1 {
			t.Errorf("ceiling vertex %v not at y=1", v)
		}
	}
}
