package mesh2gltf

import (
	"math"

	mst "github.com/flywave/go-mst"
	"github.com/pkg/errors"
)

// FromMstMesh flattens an mst mesh container into the converter's input
// model: node vertex pools are concatenated, each face group becomes one
// view tagged with its material, and the group's batch id is spread over the
// vertices it references. mst textures are embedded binary payloads with no
// URI, so every material maps to its flat base color.
func FromMstMesh(mh *mst.Mesh) (*Mesh, error) {
	m := &Mesh{}
	for ni, nd := range mh.Nodes {
		base := uint32(len(m.Positions) / 3)
		for _, v := range nd.Vertices {
			m.Positions = append(m.Positions, v[0], v[1], v[2])
		}
		if len(nd.Normals) == len(nd.Vertices) {
			for _, n := range nd.Normals {
				m.Normals = append(m.Normals, n[0], n[1], n[2])
			}
		} else {
			m.Normals = append(m.Normals, make([]float32, 3*len(nd.Vertices))...)
		}
		if len(nd.TexCoords) == len(nd.Vertices) {
			for _, t := range nd.TexCoords {
				m.TexCoords = append(m.TexCoords, t[0], t[1])
			}
		} else {
			m.TexCoords = append(m.TexCoords, make([]float32, 2*len(nd.Vertices))...)
		}
		if len(nd.Colors) == len(nd.Vertices) {
			for _, c := range nd.Colors {
				m.Colors = append(m.Colors, c[0], c[1], c[2], 255)
			}
		} else {
			m.Colors = append(m.Colors, make([]byte, 4*len(nd.Vertices))...)
		}
		m.BatchIDs = append(m.BatchIDs, make([]uint32, len(nd.Vertices))...)

		for gi, fg := range nd.FaceGroup {
			if fg.Batchid < 0 || int(fg.Batchid) >= len(mh.Materials) {
				return nil, errors.Errorf("node %d group %d references material %d of %d", ni, gi, fg.Batchid, len(mh.Materials))
			}
			start := len(m.Indices)
			for _, f := range fg.Faces {
				for _, v := range f.Vertex {
					idx := base + v
					m.Indices = append(m.Indices, idx)
					if int(idx) < len(m.BatchIDs) {
						m.BatchIDs[idx] = uint32(fg.Batchid)
					}
				}
			}
			m.Views = append(m.Views, View{
				Offset:   start,
				Count:    len(m.Indices) - start,
				Material: materialFromMst(mh.Materials[fg.Batchid]),
			})
		}
	}
	fillFlatNormals(m)
	return m, nil
}

func materialFromMst(mtl mst.MeshMaterial) Material {
	color := mtl.GetColor()
	var transparency float32
	switch mt := mtl.(type) {
	case *mst.BaseMaterial:
		transparency = mt.Transparency
	case *mst.TextureMaterial:
		transparency = mt.Transparency
	case *mst.LambertMaterial:
		transparency = mt.Transparency
	case *mst.PhongMaterial:
		transparency = mt.Transparency
	case *mst.PbrMaterial:
		transparency = mt.Transparency
	}
	return FlatColor{
		R: float32(color[0]) / 255,
		G: float32(color[1]) / 255,
		B: float32(color[2]) / 255,
		A: 1 - transparency,
	}
}

// fillFlatNormals assigns per-face normals to vertices whose source node
// carried none, left as zero vectors by the flattening above.
func fillFlatNormals(m *Mesh) {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if !zeroNormal(m, i0) && !zeroNormal(m, i1) && !zeroNormal(m, i2) {
			continue
		}
		var e1, e2, n [3]float32
		for c := 0; c < 3; c++ {
			e1[c] = m.Positions[i1*3+uint32(c)] - m.Positions[i0*3+uint32(c)]
			e2[c] = m.Positions[i2*3+uint32(c)] - m.Positions[i0*3+uint32(c)]
		}
		n[0] = e1[1]*e2[2] - e1[2]*e2[1]
		n[1] = e1[2]*e2[0] - e1[0]*e2[2]
		n[2] = e1[0]*e2[1] - e1[1]*e2[0]
		length := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
		if length > 0 {
			n[0] /= length
			n[1] /= length
			n[2] /= length
		}
		for _, idx := range []uint32{i0, i1, i2} {
			if zeroNormal(m, idx) {
				copy(m.Normals[idx*3:idx*3+3], n[:])
			}
		}
	}
}

func zeroNormal(m *Mesh, idx uint32) bool {
	o := idx * 3
	return m.Normals[o] == 0 && m.Normals[o+1] == 0 && m.Normals[o+2] == 0
}
