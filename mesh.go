package mesh2gltf

import (
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
)

// Indices and batch ids are written as unsigned shorts.
const maxShortValue = 65535

// Material is either a flat RGBA color or an external texture reference.
type Material interface {
	isMaterial()
}

type FlatColor struct {
	R, G, B, A float32
}

func (FlatColor) isMaterial() {}

type TextureRef struct {
	URI string
}

func (TextureRef) isMaterial() {}

// View is a material-tagged contiguous range into the shared index sequence.
type View struct {
	Offset   int
	Count    int
	Material Material
}

// Mesh is the input container. Attribute streams are flat and parallel:
// 3 floats per vertex for positions and normals, 2 for texture coordinates,
// 4 bytes RGBA per vertex for colors. An all-zero color stream means the
// mesh carries no vertex colors.
type Mesh struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Colors    []byte
	BatchIDs  []uint32
	Indices   []uint32
	Views     []View
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// HasColors reports whether any vertex color byte is non-zero.
func (m *Mesh) HasColors() bool {
	for _, c := range m.Colors {
		if c != 0 {
			return true
		}
	}
	return false
}

// Validate rejects malformed meshes before any buffer bytes are written.
func (m *Mesh) Validate(useBatchIDs bool) error {
	if len(m.Positions) == 0 {
		return errors.New("mesh has no positions")
	}
	if len(m.Positions)%3 != 0 {
		return errors.Errorf("position length %d is not a multiple of 3", len(m.Positions))
	}
	vc := m.VertexCount()
	if len(m.Normals) != vc*3 {
		return errors.Errorf("normal length %d does not match %d vertices", len(m.Normals), vc)
	}
	if len(m.TexCoords) != vc*2 {
		return errors.Errorf("texcoord length %d does not match %d vertices", len(m.TexCoords), vc)
	}
	if len(m.Colors) != 0 && len(m.Colors) != vc*4 {
		return errors.Errorf("color length %d does not match %d vertices", len(m.Colors), vc)
	}
	if useBatchIDs && len(m.BatchIDs) != 0 && len(m.BatchIDs) != vc {
		return errors.Errorf("batch id length %d does not match %d vertices", len(m.BatchIDs), vc)
	}
	for i, b := range m.BatchIDs {
		if b > maxShortValue {
			return errors.Errorf("batch id %d at vertex %d exceeds unsigned short range", b, i)
		}
	}
	if len(m.Indices) == 0 {
		return errors.New("mesh has no indices")
	}
	for i, idx := range m.Indices {
		if idx > maxShortValue {
			return errors.Errorf("index %d at %d exceeds unsigned short range", idx, i)
		}
		if int(idx) >= vc {
			return errors.Errorf("index %d at %d out of range for %d vertices", idx, i, vc)
		}
	}
	if len(m.Views) == 0 {
		return errors.New("mesh has no views")
	}
	for i, v := range m.Views {
		if v.Offset < 0 || v.Count <= 0 || v.Offset+v.Count > len(m.Indices) {
			return errors.Errorf("view %d range [%d,%d) out of index bounds %d", i, v.Offset, v.Offset+v.Count, len(m.Indices))
		}
		if v.Material == nil {
			return errors.Errorf("view %d has no material", i)
		}
	}
	return nil
}

// BoundingBox computes the axis-aligned bounds of all positions.
func (m *Mesh) BoundingBox() *vec3d.Box {
	bbx := vec3d.MinBox
	for i := 0; i+2 < len(m.Positions); i += 3 {
		bbx.Extend(&vec3d.T{float64(m.Positions[i]), float64(m.Positions[i+1]), float64(m.Positions[i+2])})
	}
	return &bbx
}

// Center returns the bounding box center.
func (m *Mesh) Center() vec3d.T {
	bbx := m.BoundingBox()
	return vec3d.T{
		(bbx.Min[0] + bbx.Max[0]) / 2,
		(bbx.Min[1] + bbx.Max[1]) / 2,
		(bbx.Min[2] + bbx.Max[2]) / 2,
	}
}

// RecenterInPlace subtracts the bounding box center from every position and
// returns it, so the caller can carry the offset in a CESIUM_RTC extension.
func (m *Mesh) RecenterInPlace() vec3d.T {
	c := m.Center()
	for i := 0; i+2 < len(m.Positions); i += 3 {
		m.Positions[i] -= float32(c[0])
		m.Positions[i+1] -= float32(c[1])
		m.Positions[i+2] -= float32(c[2])
	}
	return c
}
