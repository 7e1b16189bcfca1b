package mesh2gltf

import (
	"github.com/qmuntal/gltf"
)

// emitBufferViews appends one buffer view per placed segment, in layout
// order, all referencing buffer 0.
func (l *bufferLayout) emitBufferViews(doc *gltf.Document) {
	for i := range l.placed {
		s := &l.placed[i]
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: s.byteOffset,
			ByteLength: uint32(len(s.data)),
			Target:     s.target,
		})
	}
}

// emitAttributeAccessor appends the accessor covering a whole attribute
// segment and returns its index.
func emitAttributeAccessor(doc *gltf.Document, s *placedSegment) uint32 {
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(s.viewIndex),
		ComponentType: s.componentType,
		Count:         s.count,
		Type:          s.accessorType,
		Min:           s.min,
		Max:           s.max,
		Normalized:    s.normalized,
	})
	return uint32(len(doc.Accessors) - 1)
}

// emitIndexAccessor appends an index accessor scoped to one view: its byte
// offset is the view's index offset scaled by the component size and its
// bounds cover only the view's own sub-range.
func emitIndexAccessor(doc *gltf.Document, s *placedSegment, indices []uint32, view View) uint32 {
	min, max := scalarExtrema(indices, view.Offset, view.Count)
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(s.viewIndex),
		ByteOffset:    uint32(view.Offset) * s.componentType.ByteSize(),
		ComponentType: s.componentType,
		Count:         uint32(view.Count),
		Type:          gltf.AccessorScalar,
		Min:           min,
		Max:           max,
	})
	return uint32(len(doc.Accessors) - 1)
}
