package mesh2gltf

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

var opaqueWhite = [4]float32{1, 1, 1, 1}

// materialBuilder appends material entries per view. All textured materials
// share a single sampler, created lazily on the first texture reference.
type materialBuilder struct {
	doc     *gltf.Document
	sampler *uint32
}

func (b *materialBuilder) add(mat Material) (uint32, error) {
	switch mt := mat.(type) {
	case FlatColor:
		factor := [4]float32{mt.R, mt.G, mt.B, mt.A}
		gm := &gltf.Material{
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &factor,
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		}
		if mt.A < 1 {
			gm.AlphaMode = gltf.AlphaBlend
			gm.DoubleSided = true
		}
		b.doc.Materials = append(b.doc.Materials, gm)
	case TextureRef:
		factor := opaqueWhite
		b.doc.Materials = append(b.doc.Materials, &gltf.Material{
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor:  &factor,
				BaseColorTexture: &gltf.TextureInfo{Index: b.addTexture(mt.URI)},
				MetallicFactor:   gltf.Float(0),
				RoughnessFactor:  gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		})
	default:
		return 0, errors.Errorf("unsupported material type %T", mat)
	}
	return uint32(len(b.doc.Materials) - 1), nil
}

func (b *materialBuilder) addTexture(uri string) uint32 {
	if b.sampler == nil {
		b.doc.Samplers = append(b.doc.Samplers, &gltf.Sampler{
			MagFilter: gltf.MagLinear,
			MinFilter: gltf.MinLinear,
			WrapS:     gltf.WrapRepeat,
			WrapT:     gltf.WrapRepeat,
		})
		b.sampler = gltf.Index(uint32(len(b.doc.Samplers) - 1))
	}
	b.doc.Images = append(b.doc.Images, &gltf.Image{URI: uri})
	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{
		Sampler: b.sampler,
		Source:  gltf.Index(uint32(len(b.doc.Images) - 1)),
	})
	return uint32(len(b.doc.Textures) - 1)
}
