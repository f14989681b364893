// Package obj writes Wavefront OBJ meshes and MTL material libraries.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrIndexMismatch is returned when a face's UV or normal list does not
// match its vertex list in length.
var ErrIndexMismatch = errors.New("face index lists differ in length")

// File accumulates an OBJ mesh. Vertices, UVs and normals are pooled and
// deduplicated; indices are 1-based and stable in insertion order.
type File struct {
	mtlLibs []string

	vertices    []mgl32.Vec3
	vertexIndex map[mgl32.Vec3]int
	uvs         []mgl32.Vec2
	uvIndex     map[mgl32.Vec2]int
	normals     []mgl32.Vec3
	normalIndex map[mgl32.Vec3]int

	commands []string
	faces    int
}

// New creates an empty OBJ file.
func New() *File {
	return &File{
		vertexIndex: make(map[mgl32.Vec3]int),
		uvIndex:     make(map[mgl32.Vec2]int),
		normalIndex: make(map[mgl32.Vec3]int),
	}
}

// AddVertex returns the index of v, appending it if unseen.
func (f *File) AddVertex(v mgl32.Vec3) int {
	v = canonVec3(v)
	if idx, ok := f.vertexIndex[v]; ok {
		return idx
	}
	f.vertices = append(f.vertices, v)
	f.vertexIndex[v] = len(f.vertices)
	return len(f.vertices)
}

// AddUV returns the index of uv, appending it if unseen.
func (f *File) AddUV(uv mgl32.Vec2) int {
	for i := range uv {
		if uv[i] == 0 {
			uv[i] = 0
		}
	}
	if idx, ok := f.uvIndex[uv]; ok {
		return idx
	}
	f.uvs = append(f.uvs, uv)
	f.uvIndex[uv] = len(f.uvs)
	return len(f.uvs)
}

// AddNormal returns the index of n, appending it if unseen.
func (f *File) AddNormal(n mgl32.Vec3) int {
	n = canonVec3(n)
	if idx, ok := f.normalIndex[n]; ok {
		return idx
	}
	f.normals = append(f.normals, n)
	f.normalIndex[n] = len(f.normals)
	return len(f.normals)
}

// AddFace appends a face by index. uvs and normals may be nil; otherwise
// they must have the same length as vertices.
func (f *File) AddFace(vertices, uvs, normals []int) error {
	if uvs != nil && len(uvs) != len(vertices) {
		return fmt.Errorf("%w: %d vertices, %d uvs", ErrIndexMismatch, len(vertices), len(uvs))
	}
	if normals != nil && len(normals) != len(vertices) {
		return fmt.Errorf("%w: %d vertices, %d normals", ErrIndexMismatch, len(vertices), len(normals))
	}

	var sb strings.Builder
	sb.WriteString("f")
	for i, v := range vertices {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(v))
		if uvs != nil {
			sb.WriteString("/")
			sb.WriteString(strconv.Itoa(uvs[i]))
		}
		if normals != nil {
			if uvs == nil {
				sb.WriteString("/")
			}
			sb.WriteString("/")
			sb.WriteString(strconv.Itoa(normals[i]))
		}
	}
	f.commands = append(f.commands, sb.String())
	f.faces++
	return nil
}

// AddFaceData pools the given values and appends a face referencing them.
func (f *File) AddFaceData(vertices []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3) error {
	if uvs != nil && len(uvs) != len(vertices) {
		return fmt.Errorf("%w: %d vertices, %d uvs", ErrIndexMismatch, len(vertices), len(uvs))
	}
	if normals != nil && len(normals) != len(vertices) {
		return fmt.Errorf("%w: %d vertices, %d normals", ErrIndexMismatch, len(vertices), len(normals))
	}

	vi := make([]int, len(vertices))
	for i, v := range vertices {
		vi[i] = f.AddVertex(v)
	}
	var ti, ni []int
	if uvs != nil {
		ti = make([]int, len(uvs))
		for i, uv := range uvs {
			ti[i] = f.AddUV(uv)
		}
	}
	if normals != nil {
		ni = make([]int, len(normals))
		for i, n := range normals {
			ni[i] = f.AddNormal(n)
		}
	}
	return f.AddFace(vi, ti, ni)
}

// AddMaterialLib references an MTL file.
func (f *File) AddMaterialLib(name string) {
	f.mtlLibs = append(f.mtlLibs, name)
}

// AddComment appends a comment line.
func (f *File) AddComment(text string) {
	f.commands = append(f.commands, "# "+text)
}

// AddObjectName starts a named object.
func (f *File) AddObjectName(name string) {
	f.commands = append(f.commands, "o "+name)
}

// AddGroup starts a named group.
func (f *File) AddGroup(name string) {
	f.commands = append(f.commands, "g "+name)
}

// UseMaterial binds subsequent faces to a material.
func (f *File) UseMaterial(name string) {
	f.commands = append(f.commands, "usemtl "+name)
}

// VertexCount returns the number of pooled vertices.
func (f *File) VertexCount() int { return len(f.vertices) }

// UVCount returns the number of pooled texture coordinates.
func (f *File) UVCount() int { return len(f.uvs) }

// NormalCount returns the number of pooled normals.
func (f *File) NormalCount() int { return len(f.normals) }

// FaceCount returns the number of faces added.
func (f *File) FaceCount() int { return f.faces }

// WriteTo serializes the mesh as OBJ text.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	if len(f.mtlLibs) > 0 {
		fmt.Fprintf(cw, "mtllib %s\n", strings.Join(f.mtlLibs, " "))
	}
	for _, v := range f.vertices {
		fmt.Fprintf(cw, "v %s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}
	for _, uv := range f.uvs {
		fmt.Fprintf(cw, "vt %s %s\n", formatFloat(uv[0]), formatFloat(uv[1]))
	}
	for _, n := range f.normals {
		fmt.Fprintf(cw, "vn %s %s %s\n", formatFloat(n[0]), formatFloat(n[1]), formatFloat(n[2]))
	}
	for _, cmd := range f.commands {
		fmt.Fprintln(cw, cmd)
	}

	return cw.finish()
}

// canonVec3 folds negative zero into zero so it shares a pool slot.
func canonVec3(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		if v[i] == 0 {
			v[i] = 0
		}
	}
	return v
}

func formatFloat(v float32) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// countingWriter tracks bytes written and the first error.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) finish() (int64, error) {
	if c.err != nil {
		return c.n, c.err
	}
	return c.n, c.w.Flush()
}
