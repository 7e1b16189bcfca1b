package mesh2gltf

import (
	"github.com/qmuntal/gltf"
)

// Segment names, in their fixed buffer order.
const (
	segPosition = "positions"
	segNormal   = "normals"
	segTexCoord = "texcoords"
	segColor    = "colors"
	segBatchID  = "batchIds"
	segIndex    = "indices"
)

// segment is one byte-packed attribute or index stream waiting for a slot in
// the output buffer.
type segment struct {
	name          string
	data          []byte
	target        gltf.Target
	componentType gltf.ComponentType
	accessorType  gltf.AccessorType
	count         uint32
	min           []float32
	max           []float32
	normalized    bool
}

type placedSegment struct {
	segment
	byteOffset uint32
	viewIndex  uint32
}

type bufferLayout struct {
	placed []placedSegment
	data   []byte
}

// planLayout concatenates the present segments in order, assigning each its
// running byte offset and a sequential buffer view index. Absent optional
// segments are passed as nil and leave no trace in the layout.
func planLayout(segs []*segment) *bufferLayout {
	l := &bufferLayout{}
	offset := uint32(0)
	for _, s := range segs {
		if s == nil {
			continue
		}
		l.placed = append(l.placed, placedSegment{
			segment:    *s,
			byteOffset: offset,
			viewIndex:  uint32(len(l.placed)),
		})
		l.data = append(l.data, s.data...)
		offset += uint32(len(s.data))
	}
	return l
}

func (l *bufferLayout) find(name string) *placedSegment {
	for i := range l.placed {
		if l.placed[i].name == name {
			return &l.placed[i]
		}
	}
	return nil
}
