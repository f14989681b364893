package exporter

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"testing"

	"github.com/Faultbox/wolfmap/internal/level"
	"github.com/Faultbox/wolfmap/pkg/formats"
)

// fakeTextures serves solid pages and counts decode requests.
type fakeTextures struct {
	calls map[int]int
}

func (f *fakeTextures) Wall(index int) (image.Image, error) {
	if f.calls == nil {
		f.calls = make(map[int]int)
	}
	f.calls[index]++
	img := image.NewRGBA(image.Rect(0, 0, formats.TextureSize, formats.TextureSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: uint8(index), A: 255}), image.Point{}, draw.Src)
	return img, nil
}

// createTestMap builds a map from structure rows and optional object rows.
func createTestMap(structure, objects [][]uint16) *formats.GameMap {
	height, width := len(structure), len(structure[0])
	gm := &formats.GameMap{Name: "test", Width: width, Height: height}
	gm.Tiles[formats.WallPlane] = structure
	if objects == nil {
		objects = make([][]uint16, height)
		for y := range objects {
			objects[y] = make([]uint16, width)
		}
	}
	gm.Tiles[formats.ObjectPlane] = objects
	return gm
}

func testOptions(t *testing.T) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()
	return opts
}

// runSynth reconstructs and synthesizes gm, returning the synthesizer and
// the serialized mesh.
func runSynth(t *testing.T, gm *formats.GameMap, opts Options) (*synthesizer, *fakeTextures, string) {
	t.Helper()
	src := &fakeTextures{}
	rooms, _ := level.Reconstruct(gm)
	s := newSynthesizer(gm, newTextureLibrary(src, opts), opts)
	if err := s.build(rooms); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.mesh.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	return s, src, buf.String()
}

// meshSummary is the object and material structure of an OBJ text.
type meshSummary struct {
	objects   []string
	materials map[string][]string       // object -> materials in use order
	faces     map[string]map[string]int // object -> material -> face count
}

func summarize(text string) meshSummary {
	sum := meshSummary{
		materials: make(map[string][]string),
		faces:     make(map[string]map[string]int),
	}
	var object, material string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "o "):
			object = strings.TrimPrefix(line, "o ")
			sum.objects = append(sum.objects, object)
			sum.faces[object] = make(map[string]int)
		case strings.HasPrefix(line, "usemtl "):
			material = strings.TrimPrefix(line, "usemtl ")
			sum.materials[object] = append(sum.materials[object], material)
		case strings.HasPrefix(line, "f "):
			sum.faces[object][material]++
		}
	}
	return sum
}

func TestSynthesizer_EnclosedRoom(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 1, 1},
		{1, 108, 1},
		{1, 1, 1},
	}, nil)

	s, _, text := runSynth(t, gm, testOptions(t))
	sum := summarize(text)

	if len(sum.objects) != 1 || sum.objects[0] != "Room_108" {
		t.Fatalf("expected only Room_108, got %v", sum.objects)
	}
	faces := sum.faces["Room_108"]
	if faces[FloorMaterial] != 1 || faces[CeilingMaterial] != 1 {
		t.Errorf("expected 1 floor and 1 ceiling, got %d and %d", faces[FloorMaterial], faces[CeilingMaterial])
	}
	// Code 1 walls: (1-1)*2+0 north/south, (1-1)*2+1 east/west.
	if faces["wall000"] != 2 || faces["wall001"] != 2 {
		t.Errorf("expected 2 wall000 and 2 wall001 faces, got %v", faces)
	}
	if s.mesh.FaceCount() != 6 {
		t.Errorf("expected 6 faces, got %d", s.mesh.FaceCount())
	}

	expected := []string{"wall000", "wall001", FloorMaterial, CeilingMaterial}
	got := sum.materials["Room_108"]
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("material order = %v, expected %v", got, expected)
	}
}

func TestSynthesizer_DistinctWalls(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 3, 1},
		{1, 108, 2},
		{1, 4, 1},
	}, nil)

	s, _, text := runSynth(t, gm, testOptions(t))
	faces := summarize(text).faces["Room_108"]

	for _, name := range []string{"wall001", "wall003", "wall004", "wall006"} {
		if faces[name] != 1 {
			t.Errorf("expected 1 face with %s, got %d", name, faces[name])
		}
	}
	if len(s.textures.names) != 4 {
		t.Errorf("expected 4 textures, got %v", s.textures.names)
	}
}

func TestSynthesizer_TextureDedup(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 1, 1, 1, 1},
		{1, 108, 1, 109, 1},
		{1, 1, 1, 1, 1},
	}, nil)

	opts := testOptions(t)
	s, src, _ := runSynth(t, gm, opts)

	for id, n := range src.calls {
		if n != 1 {
			t.Errorf("texture %d decoded %d times", id, n)
		}
	}
	if len(src.calls) != 2 {
		t.Errorf("expected 2 decoded textures, got %d", len(src.calls))
	}
	// floor, ceiling, wall001, wall000
	if s.textures.materials.Len() != 4 {
		t.Errorf("expected 4 materials, got %d", s.textures.materials.Len())
	}

	entries, err := os.ReadDir(opts.OutputDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 image files, got %d", len(entries))
	}
}

func TestSynthesizer_EastWestDoor(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 1, 1, 1, 1},
		{1, 108, 90, 108, 1},
		{1, 1, 1, 1, 1},
	}, nil)

	s, _, text := runSynth(t, gm, testOptions(t))
	sum := summarize(text)

	if len(s.doors) != 1 {
		t.Fatalf("expected 1 door, got %d", len(s.doors))
	}
	door := s.doors[0]
	if len(door) != 1 || door[0].material != "door099" {
		t.Fatalf("expected one door099 surface, got %+v", door)
	}
	leaves := door[0].faces
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaf faces, got %d", len(leaves))
	}
	for i := range leaves[0].UVs {
		a, b := leaves[0].UVs[i], leaves[1].UVs[i]
		if b[0] != 1-a[0] || b[1] != a[1] {
			t.Errorf("leaf uv %d: %v does not mirror %v", i, b, a)
		}
	}

	room := sum.faces["Room_108"]
	if room["wall100"] != 2 {
		t.Errorf("expected 2 door frame faces, got %d", room["wall100"])
	}
	// The door tile's own neighbours get no faces.
	if room["wall000"] != 4 || room["wall001"] != 2 {
		t.Errorf("unexpected wall faces %v", room)
	}
	if sum.faces["Door_1"]["door099"] != 2 {
		t.Errorf("expected Door_1 with 2 leaves, got %v", sum.faces["Door_1"])
	}
}

func TestSynthesizer_NorthSouthDoor(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 1, 1},
		{1, 110, 1},
		{1, 93, 1},
		{1, 110, 1},
		{1, 1, 1},
	}, nil)

	s, _, text := runSynth(t, gm, testOptions(t))
	sum := summarize(text)

	if len(s.doors) != 1 || s.doors[0][0].material != "door104" {
		t.Fatalf("expected one door104, got %+v", s.doors)
	}
	if sum.faces["Room_110"]["wall101"] != 2 {
		t.Errorf("expected 2 door frame faces, got %v", sum.faces["Room_110"])
	}
	leaf := s.doors[0][0].faces[0]
	for _, v := range leaf.Vertices {
		if v[2] != 2.5 {
			t.Errorf("leaf vertex %v not on the tile centre line", v)
		}
	}
}

func TestSynthesizer_Pushwall(t *testing.T) {
	gm := createTestMap(
		[][]uint16{
			{1, 1, 1, 1},
			{1, 5, 108, 1},
			{1, 1, 1, 1},
		},
		[][]uint16{
			{0, 0, 0, 0},
			{0, level.PushwallCode, 0, 0},
			{0, 0, 0, 0},
		},
	)

	s, _, text := runSynth(t, gm, testOptions(t))
	sum := summarize(text)

	if len(s.pushwalls) != 1 {
		t.Fatalf("expected 1 pushwall, got %d", len(s.pushwalls))
	}
	pw := sum.faces["Pushwall_1"]
	if pw["wall008"] != 2 || pw["wall009"] != 2 {
		t.Errorf("expected 2 faces each of wall008 and wall009, got %v", pw)
	}

	room := sum.faces["Room_108"]
	if room["wall008"] != 0 || room["wall009"] != 0 {
		t.Error("room should not face the pushwall")
	}
	if room[FloorMaterial] != 2 || room["wall000"] != 2 || room["wall001"] != 1 {
		t.Errorf("unexpected room faces %v", room)
	}
	if s.mesh.FaceCount() != 11 {
		t.Errorf("expected 11 faces, got %d", s.mesh.FaceCount())
	}
}

func TestSynthesizer_FlatsDisabled(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 1, 1},
		{1, 108, 1},
		{1, 1, 1},
	}, nil)

	opts := testOptions(t)
	opts.Floors = false
	opts.Ceilings = false
	s, _, text := runSynth(t, gm, opts)

	if strings.Contains(text, "usemtl floor") || strings.Contains(text, "usemtl ceiling") {
		t.Error("flats should not be emitted")
	}
	if s.mesh.FaceCount() != 4 {
		t.Errorf("expected 4 faces, got %d", s.mesh.FaceCount())
	}
}

func TestSynthesizer_RoomOrder(t *testing.T) {
	gm := createTestMap([][]uint16{
		{1, 1, 1, 1, 1},
		{1, 120, 1, 108, 1},
		{1, 91, 1, 1, 1},
		{1, 120, 1, 1, 1},
		{1, 1, 1, 1, 1},
	}, nil)

	_, _, text := runSynth(t, gm, testOptions(t))
	sum := summarize(text)

	expected := "Room_108,Room_120,Door_1"
	if strings.Join(sum.objects, ",") != expected {
		t.Errorf("objects = %v, expected %s", sum.objects, expected)
	}
}
