package mesh

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexSize is the encoded size of a Vertex in bytes.
const VertexSize = 24

// Vertex is one output vertex. Pos is section-local.
type Vertex struct {
	Pos   mgl32.Vec3
	UV    mgl32.Vec2
	Light uint16 // PackLight(block, ao, sky)
	Tint  int16
}

// PackLight packs block light, ambient occlusion and sky light into
// 12 bits: block<<8 | ao<<4 | sky.
func PackLight(block, ao, sky uint8) uint16 {
	return uint16(block&0xF)<<8 | uint16(ao&0xF)<<4 | uint16(sky&0xF)
}

// UnpackLight reverses PackLight.
func UnpackLight(l uint16) (block, ao, sky uint8) {
	return uint8(l>>8) & 0xF, uint8(l>>4) & 0xF, uint8(l) & 0xF
}

// AppendVertices appends the little-endian encoding of vs to dst.
func AppendVertices(dst []byte, vs []Vertex) []byte {
	for _, v := range vs {
		for _, f := range v.Pos {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
		for _, f := range v.UV {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
		dst = binary.LittleEndian.AppendUint16(dst, v.Light)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(v.Tint))
	}
	return dst
}

// AppendIndices appends the little-endian encoding of idx to dst.
func AppendIndices(dst []byte, idx []uint32) []byte {
	for _, i := range idx {
		dst = binary.LittleEndian.AppendUint32(dst, i)
	}
	return dst
}
