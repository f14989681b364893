package obj

import (
	"bufio"
	"fmt"
	"io"
)

// Material is a single newmtl block.
type Material struct {
	Name    string
	Diffuse *[3]float32 // Kd, nil when unset
	Texture string      // map_Kd, empty when unset
}

// SetDiffuse sets the diffuse reflectivity.
func (m *Material) SetDiffuse(r, g, b float32) *Material {
	m.Diffuse = &[3]float32{r, g, b}
	return m
}

// SetColorTexture sets the diffuse texture map.
func (m *Material) SetColorTexture(file string) *Material {
	m.Texture = file
	return m
}

// Library accumulates an MTL file. Material names are unique.
type Library struct {
	materials []*Material
	byName    map[string]*Material
}

// NewLibrary creates an empty material library.
func NewLibrary() *Library {
	return &Library{byName: make(map[string]*Material)}
}

// AddMaterial starts a new material, or returns the existing one with that name.
func (l *Library) AddMaterial(name string) *Material {
	if m, ok := l.byName[name]; ok {
		return m
	}
	m := &Material{Name: name}
	l.materials = append(l.materials, m)
	l.byName[name] = m
	return m
}

// Has reports whether a material with the given name exists.
func (l *Library) Has(name string) bool {
	_, ok := l.byName[name]
	return ok
}

// Materials returns materials in insertion order.
func (l *Library) Materials() []*Material {
	return l.materials
}

// Len returns the number of materials.
func (l *Library) Len() int {
	return len(l.materials)
}

// WriteTo serializes the library as MTL text.
func (l *Library) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	for i, m := range l.materials {
		if i > 0 {
			fmt.Fprintln(cw)
		}
		fmt.Fprintf(cw, "newmtl %s\n", m.Name)
		if m.Diffuse != nil {
			fmt.Fprintf(cw, "Kd %s %s %s\n", formatFloat(m.Diffuse[0]), formatFloat(m.Diffuse[1]), formatFloat(m.Diffuse[2]))
		}
		if m.Texture != "" {
			fmt.Fprintf(cw, "map_Kd %s\n", m.Texture)
		}
	}

	return cw.finish()
}
