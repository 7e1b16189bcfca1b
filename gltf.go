package mesh2gltf

import (
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// Batch id attribute semantics. Exactly one of the two is active per
// conversion, selected by Options.Deprecated.
const (
	BatchIDAttribute       = "_BATCHID"
	LegacyBatchIDAttribute = "BATCHID"
)

// RTCExtension is the georeferencing extension carrying the translation that
// was subtracted from all positions upstream.
const RTCExtension = "CESIUM_RTC"

type RTCCenter struct {
	Center [3]float64 `json:"center"`
}

// UpAxis selects the root node transform. The default Y converts the Z-up
// input convention to glTF's Y-up; Z leaves the model as-is.
type UpAxis int

const (
	UpAxisY UpAxis = iota
	UpAxisZ
)

var (
	identityMatrix = [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	// Column-major 90 degree rotation about X, Z-up to Y-up.
	zUpToYUpMatrix = [16]float32{
		1, 0, 0, 0,
		0, 0, -1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}
)

func rootMatrix(axis UpAxis) ([16]float32, error) {
	switch axis {
	case UpAxisY:
		return zUpToYUpMatrix, nil
	case UpAxisZ:
		return identityMatrix, nil
	}
	return [16]float32{}, errors.Errorf("unsupported up axis %d", axis)
}

type Options struct {
	UseBatchIDs      bool
	RelativeToCenter bool
	Deprecated       bool
	UpAxis           UpAxis

	// Reserved. Accepted but without effect on the output.
	Quantization       bool
	TextureCompression string
}

func DefaultOptions() *Options {
	return &Options{
		UseBatchIDs: true,
		UpAxis:      UpAxisY,
	}
}

// BuildDocument assembles the complete glTF asset description for a mesh:
// one buffer with the packed attribute and index streams, buffer views and
// accessors over it, one material and primitive per view, a single mesh
// under a single root node. The center is serialized into a CESIUM_RTC
// extension when RelativeToCenter is set; computing and subtracting it is
// the caller's job (see Mesh.RecenterInPlace).
func BuildDocument(m *Mesh, center *vec3d.T, opts *Options) (*gltf.Document, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := m.Validate(opts.UseBatchIDs); err != nil {
		return nil, err
	}
	matrix, err := rootMatrix(opts.UpAxis)
	if err != nil {
		return nil, err
	}
	if opts.RelativeToCenter && center == nil {
		return nil, errors.New("relative to center requested without a center")
	}

	vc := uint32(m.VertexCount())
	useBatchIDs := opts.UseBatchIDs && len(m.BatchIDs) > 0

	posData, posMin, posMax := encodeFloats(m.Positions, 3)
	nrmData, nrmMin, nrmMax := encodeFloats(m.Normals, 3)
	uvData, uvMin, uvMax := encodeFloats(m.TexCoords, 2)

	segs := []*segment{
		{name: segPosition, data: posData, target: gltf.TargetArrayBuffer,
			componentType: gltf.ComponentFloat, accessorType: gltf.AccessorVec3,
			count: vc, min: posMin, max: posMax},
		{name: segNormal, data: nrmData, target: gltf.TargetArrayBuffer,
			componentType: gltf.ComponentFloat, accessorType: gltf.AccessorVec3,
			count: vc, min: nrmMin, max: nrmMax},
		{name: segTexCoord, data: uvData, target: gltf.TargetArrayBuffer,
			componentType: gltf.ComponentFloat, accessorType: gltf.AccessorVec2,
			count: vc, min: uvMin, max: uvMax},
		nil,
		nil,
		{name: segIndex, data: encodeShorts(m.Indices), target: gltf.TargetElementArrayBuffer,
			componentType: gltf.ComponentUshort, accessorType: gltf.AccessorScalar,
			count: uint32(len(m.Indices))},
	}
	if m.HasColors() {
		clrData, clrMin, clrMax := encodeColors(m.Colors)
		segs[3] = &segment{name: segColor, data: clrData, target: gltf.TargetArrayBuffer,
			componentType: gltf.ComponentUbyte, accessorType: gltf.AccessorVec4,
			count: vc, min: clrMin, max: clrMax, normalized: true}
	}
	if useBatchIDs {
		bidMin, bidMax := scalarExtrema(m.BatchIDs, 0, len(m.BatchIDs))
		segs[4] = &segment{name: segBatchID, data: encodeShorts(m.BatchIDs), target: gltf.TargetArrayBuffer,
			componentType: gltf.ComponentUshort, accessorType: gltf.AccessorScalar,
			count: vc, min: bidMin, max: bidMax}
	}
	layout := planLayout(segs)

	doc := gltf.NewDocument()
	doc.Asset.Generator = "flywave/go-mesh2gltf"
	doc.Buffers = []*gltf.Buffer{{
		ByteLength: uint32(len(layout.data)),
		Data:       layout.data,
	}}
	layout.emitBufferViews(doc)

	attrs := map[string]uint32{
		gltf.POSITION:   emitAttributeAccessor(doc, layout.find(segPosition)),
		gltf.NORMAL:     emitAttributeAccessor(doc, layout.find(segNormal)),
		gltf.TEXCOORD_0: emitAttributeAccessor(doc, layout.find(segTexCoord)),
	}
	if s := layout.find(segColor); s != nil {
		attrs[gltf.COLOR_0] = emitAttributeAccessor(doc, s)
	}
	if s := layout.find(segBatchID); s != nil {
		name := BatchIDAttribute
		if opts.Deprecated {
			name = LegacyBatchIDAttribute
		}
		attrs[name] = emitAttributeAccessor(doc, s)
	}

	mb := &materialBuilder{doc: doc}
	idxSeg := layout.find(segIndex)
	prims := make([]*gltf.Primitive, 0, len(m.Views))
	for _, view := range m.Views {
		indexAcc := emitIndexAccessor(doc, idxSeg, m.Indices, view)
		matIdx, err := mb.add(view.Material)
		if err != nil {
			return nil, err
		}
		prims = append(prims, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(indexAcc),
			Material:   gltf.Index(matIdx),
			Mode:       gltf.PrimitiveTriangles,
		})
	}

	doc.Meshes = []*gltf.Mesh{{Name: "mesh", Primitives: prims}}
	doc.Nodes = []*gltf.Node{{
		Name:   "rootNode",
		Mesh:   gltf.Index(0),
		Matrix: matrix,
	}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if opts.RelativeToCenter {
		doc.Extensions = gltf.Extensions{
			RTCExtension: RTCCenter{Center: [3]float64{center[0], center[1], center[2]}},
		}
		doc.ExtensionsUsed = append(doc.ExtensionsUsed, RTCExtension)
	}
	return doc, nil
}

// Convert runs the full pipeline: validate, recenter when requested, build
// the asset description and pack it into a GLB blob.
func Convert(m *Mesh, opts *Options) ([]byte, error) {
	return ConvertWithPacker(m, opts, GlbPacker{})
}

// ConvertWithPacker is Convert with a caller-supplied packer. The packer is
// invoked exactly once and its result or failure is returned unchanged.
func ConvertWithPacker(m *Mesh, opts *Options, packer Packer) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	// reject bad input and configuration before mutating the mesh
	if err := m.Validate(opts.UseBatchIDs); err != nil {
		return nil, err
	}
	if _, err := rootMatrix(opts.UpAxis); err != nil {
		return nil, err
	}
	var center *vec3d.T
	if opts.RelativeToCenter {
		c := m.RecenterInPlace()
		center = &c
	}
	doc, err := BuildDocument(m, center, opts)
	if err != nil {
		return nil, err
	}
	return packer.Pack(doc)
}
