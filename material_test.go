package mesh2gltf

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatColorTransparency(t *testing.T) {
	doc := gltf.NewDocument()
	mb := &materialBuilder{doc: doc}

	idx, err := mb.add(FlatColor{R: 0.2, G: 0.4, B: 0.6, A: 0.5})
	require.NoError(t, err)
	mtl := doc.Materials[idx]
	assert.Equal(t, gltf.AlphaBlend, mtl.AlphaMode)
	assert.True(t, mtl.DoubleSided)
	assert.Equal(t, [4]float32{0.2, 0.4, 0.6, 0.5}, *mtl.PBRMetallicRoughness.BaseColorFactor)
	assert.Nil(t, mtl.PBRMetallicRoughness.BaseColorTexture)

	idx, err = mb.add(FlatColor{R: 1, G: 1, B: 1, A: 1})
	require.NoError(t, err)
	mtl = doc.Materials[idx]
	assert.Equal(t, gltf.AlphaOpaque, mtl.AlphaMode)
	assert.False(t, mtl.DoubleSided)
	assert.Empty(t, doc.Samplers)
}

func TestTexturedMaterialsShareOneSampler(t *testing.T) {
	doc := gltf.NewDocument()
	mb := &materialBuilder{doc: doc}

	first, err := mb.add(TextureRef{URI: "wall.png"})
	require.NoError(t, err)
	flat, err := mb.add(FlatColor{R: 1, A: 1})
	require.NoError(t, err)
	second, err := mb.add(TextureRef{URI: "roof.jpg"})
	require.NoError(t, err)

	require.Len(t, doc.Materials, 3)
	require.Len(t, doc.Samplers, 1)
	require.Len(t, doc.Images, 2)
	require.Len(t, doc.Textures, 2)
	assert.Equal(t, "wall.png", doc.Images[0].URI)
	assert.Equal(t, "roof.jpg", doc.Images[1].URI)

	sampler := doc.Samplers[0]
	assert.Equal(t, gltf.MagLinear, sampler.MagFilter)
	assert.Equal(t, gltf.MinLinear, sampler.MinFilter)
	assert.Equal(t, gltf.WrapRepeat, sampler.WrapS)
	assert.Equal(t, gltf.WrapRepeat, sampler.WrapT)

	for _, tex := range doc.Textures {
		require.NotNil(t, tex.Sampler)
		assert.Equal(t, uint32(0), *tex.Sampler)
	}

	mtl := doc.Materials[first]
	require.NotNil(t, mtl.PBRMetallicRoughness.BaseColorTexture)
	assert.Equal(t, uint32(0), mtl.PBRMetallicRoughness.BaseColorTexture.Index)
	assert.Equal(t, opaqueWhite, *mtl.PBRMetallicRoughness.BaseColorFactor)
	assert.Equal(t, gltf.AlphaOpaque, mtl.AlphaMode)

	assert.Nil(t, doc.Materials[flat].PBRMetallicRoughness.BaseColorTexture)
	assert.Equal(t, uint32(1), doc.Materials[second].PBRMetallicRoughness.BaseColorTexture.Index)
}

func TestMixedMaterialsInOneMesh(t *testing.T) {
	m := &Mesh{
		Positions: make([]float32, 6*3),
		Normals:   make([]float32, 6*3),
		TexCoords: make([]float32, 6*2),
		Indices:   []uint32{0, 1, 2, 3, 4, 5},
		Views: []View{
			{Offset: 0, Count: 3, Material: TextureRef{URI: "atlas.png"}},
			{Offset: 3, Count: 3, Material: FlatColor{G: 1, A: 0.25}},
		},
	}
	doc, err := BuildDocument(m, nil, noBatchOptions())
	require.NoError(t, err)

	require.Len(t, doc.Materials, 2)
	require.Len(t, doc.Samplers, 1)
	require.Len(t, doc.Images, 1)
	require.Len(t, doc.Textures, 1)
	assert.NotNil(t, doc.Materials[0].PBRMetallicRoughness.BaseColorTexture)
	assert.Nil(t, doc.Materials[1].PBRMetallicRoughness.BaseColorTexture)
	assert.Equal(t, gltf.AlphaBlend, doc.Materials[1].AlphaMode)
	assert.True(t, doc.Materials[1].DoubleSided)
}
