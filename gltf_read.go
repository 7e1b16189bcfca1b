package mesh2gltf

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// FromDocument reads a built asset description back into the input model:
// each primitive becomes one view, attribute streams are decoded from the
// buffer through their accessors. The counterpart of BuildDocument, mainly
// for verification of packed assets.
func FromDocument(doc *gltf.Document) (*Mesh, error) {
	if len(doc.Meshes) == 0 {
		return nil, errors.New("document has no meshes")
	}
	m := &Mesh{}
	read := make(map[uint32]bool)
	for _, prim := range doc.Meshes[0].Primitives {
		if prim.Indices == nil {
			continue
		}
		start := len(m.Indices)
		err := readAccessor(doc, doc.Accessors[*prim.Indices], func(res interface{}) {
			switch v := res.(type) {
			case *uint16:
				m.Indices = append(m.Indices, uint32(*v))
			case *uint32:
				m.Indices = append(m.Indices, *v)
			}
		})
		if err != nil {
			return nil, err
		}

		if idx, ok := prim.Attributes[gltf.POSITION]; ok && !read[idx] {
			err = readAccessor(doc, doc.Accessors[idx], func(res interface{}) {
				v := res.(*[3]float32)
				m.Positions = append(m.Positions, v[0], v[1], v[2])
			})
			if err != nil {
				return nil, err
			}
			read[idx] = true
		}
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok && !read[idx] {
			err = readAccessor(doc, doc.Accessors[idx], func(res interface{}) {
				v := res.(*[3]float32)
				m.Normals = append(m.Normals, v[0], v[1], v[2])
			})
			if err != nil {
				return nil, err
			}
			read[idx] = true
		}
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && !read[idx] {
			err = readAccessor(doc, doc.Accessors[idx], func(res interface{}) {
				v := res.(*[2]float32)
				m.TexCoords = append(m.TexCoords, v[0], v[1])
			})
			if err != nil {
				return nil, err
			}
			read[idx] = true
		}
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok && !read[idx] {
			err = readAccessor(doc, doc.Accessors[idx], func(res interface{}) {
				v := res.(*[4]uint8)
				m.Colors = append(m.Colors, v[0], v[1], v[2], v[3])
			})
			if err != nil {
				return nil, err
			}
			read[idx] = true
		}
		for _, name := range []string{BatchIDAttribute, LegacyBatchIDAttribute} {
			if idx, ok := prim.Attributes[name]; ok && !read[idx] {
				err = readAccessor(doc, doc.Accessors[idx], func(res interface{}) {
					m.BatchIDs = append(m.BatchIDs, uint32(*res.(*uint16)))
				})
				if err != nil {
					return nil, err
				}
				read[idx] = true
			}
		}

		var mat Material = FlatColor{R: 1, G: 1, B: 1, A: 1}
		if prim.Material != nil {
			mat = materialFromDocument(doc, *prim.Material)
		}
		m.Views = append(m.Views, View{
			Offset:   start,
			Count:    len(m.Indices) - start,
			Material: mat,
		})
	}
	return m, nil
}

func materialFromDocument(doc *gltf.Document, idx uint32) Material {
	mt := doc.Materials[idx]
	pbr := mt.PBRMetallicRoughness
	if pbr == nil {
		return FlatColor{R: 1, G: 1, B: 1, A: 1}
	}
	if pbr.BaseColorTexture != nil {
		tex := doc.Textures[pbr.BaseColorTexture.Index]
		if tex.Source != nil {
			return TextureRef{URI: doc.Images[*tex.Source].URI}
		}
	}
	if pbr.BaseColorFactor != nil {
		f := *pbr.BaseColorFactor
		return FlatColor{R: f[0], G: f[1], B: f[2], A: f[3]}
	}
	return FlatColor{R: 1, G: 1, B: 1, A: 1}
}

// readAccessor walks an accessor's elements, decoding each into a fixed
// little-endian scratch value handed to process.
func readAccessor(doc *gltf.Document, acc *gltf.Accessor, process func(interface{})) error {
	if acc.BufferView == nil {
		return errors.New("accessor has no buffer view")
	}
	bv := doc.BufferViews[*acc.BufferView]
	buffer := doc.Buffers[bv.Buffer]
	bf := bytes.NewBuffer(buffer.Data[bv.ByteOffset+acc.ByteOffset : bv.ByteOffset+bv.ByteLength])

	var scratch interface{}
	switch acc.Type {
	case gltf.AccessorScalar:
		switch acc.ComponentType {
		case gltf.ComponentUshort:
			scratch = new(uint16)
		case gltf.ComponentUint:
			scratch = new(uint32)
		case gltf.ComponentFloat:
			scratch = new(float32)
		}
	case gltf.AccessorVec2:
		switch acc.ComponentType {
		case gltf.ComponentUshort:
			scratch = &[2]uint16{}
		case gltf.ComponentFloat:
			scratch = &[2]float32{}
		}
	case gltf.AccessorVec3:
		switch acc.ComponentType {
		case gltf.ComponentUshort:
			scratch = &[3]uint16{}
		case gltf.ComponentFloat:
			scratch = &[3]float32{}
		}
	case gltf.AccessorVec4:
		switch acc.ComponentType {
		case gltf.ComponentUbyte:
			scratch = &[4]uint8{}
		case gltf.ComponentUshort:
			scratch = &[4]uint16{}
		case gltf.ComponentFloat:
			scratch = &[4]float32{}
		}
	}
	if scratch == nil {
		return errors.Errorf("unsupported accessor type %v/%v", acc.Type, acc.ComponentType)
	}

	for i := uint32(0); i < acc.Count; i++ {
		if err := binary.Read(bf, binary.LittleEndian, scratch); err != nil {
			return errors.Wrap(err, "read accessor element")
		}
		process(scratch)
	}
	return nil
}
