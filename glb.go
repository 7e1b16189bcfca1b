package mesh2gltf

import (
	"bytes"

	"github.com/qmuntal/gltf"
)

// Packer turns a finished asset description into a binary glTF blob.
type Packer interface {
	Pack(doc *gltf.Document) ([]byte, error)
}

// GlbPacker packs through the gltf binary encoder.
type GlbPacker struct{}

func (GlbPacker) Pack(doc *gltf.Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	e := gltf.NewEncoder(buf)
	e.AsBinary = true
	if err := e.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
