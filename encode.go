package mesh2gltf

import (
	"bytes"
	"encoding/binary"
)

// encodeFloats packs a flat float32 stream little-endian and returns the
// per-component extrema over len/arity tuples.
func encodeFloats(values []float32, arity int) ([]byte, []float32, []float32) {
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, values)
	min, max := floatExtrema(values, arity)
	return buf.Bytes(), min, max
}

func floatExtrema(values []float32, arity int) ([]float32, []float32) {
	min := make([]float32, arity)
	max := make([]float32, arity)
	for i, v := range values {
		c := i % arity
		if i < arity || v < min[c] {
			min[c] = v
		}
		if i < arity || v > max[c] {
			max[c] = v
		}
	}
	return min, max
}

// encodeColors packs RGBA bytes as-is (one unsigned byte per component).
func encodeColors(colors []byte) ([]byte, []float32, []float32) {
	data := make([]byte, len(colors))
	copy(data, colors)
	min := make([]float32, 4)
	max := make([]float32, 4)
	for i, v := range colors {
		c := i % 4
		f := float32(v)
		if i < 4 || f < min[c] {
			min[c] = f
		}
		if i < 4 || f > max[c] {
			max[c] = f
		}
	}
	return data, min, max
}

// encodeShorts narrows a scalar stream to unsigned shorts. Range checks
// happen in Mesh.Validate before encoding starts.
func encodeShorts(values []uint32) []byte {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
	}
	return data
}

// scalarExtrema scans a sub-range of a scalar stream, so per-view index
// accessors report bounds local to their own view.
func scalarExtrema(values []uint32, offset, count int) ([]float32, []float32) {
	min := values[offset]
	max := values[offset]
	for _, v := range values[offset+1 : offset+count] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return []float32{float32(min)}, []float32{float32(max)}
}
