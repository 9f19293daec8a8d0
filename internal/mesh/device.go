package mesh

import "github.com/OCharnyshevich/minecraft-renderer/internal/world"

// BufferUsage tells the device how a buffer is bound.
type BufferUsage uint8

const (
	VertexBuffer BufferUsage = iota
	IndexBuffer
)

func (u BufferUsage) String() string {
	if u == IndexBuffer {
		return "index"
	}
	return "vertex"
}

// Buffer is a device-side buffer.
type Buffer interface {
	Size() int
}

// Device creates device-side buffers. Implementations must copy contents
// before returning; the slice is reused by the caller.
type Device interface {
	CreateBuffer(label string, usage BufferUsage, contents []byte) Buffer
}

// Mesh is the geometry of one section. Draw the opaque pair first, then
// the transparent pair. Counts are index counts.
type Mesh struct {
	Pos                 world.SectionPos
	OpaqueVertices      Buffer
	OpaqueIndices       Buffer
	TransparentVertices Buffer
	TransparentIndices  Buffer
	OpaqueCount         uint32
	TransparentCount    uint32
}

// Empty reports whether the mesh has nothing to draw.
func (m Mesh) Empty() bool {
	return m.OpaqueCount == 0 && m.TransparentCount == 0
}

// MemoryBuffer is a Buffer held in host memory.
type MemoryBuffer struct {
	Label string
	Usage BufferUsage
	Data  []byte
}

// Size returns the buffer length in bytes.
func (b *MemoryBuffer) Size() int { return len(b.Data) }

// MemoryDevice creates MemoryBuffers. It stands in for a GPU in tools and
// tests.
type MemoryDevice struct {
	Buffers int
	Bytes   int
}

// CreateBuffer copies contents into a new MemoryBuffer.
func (d *MemoryDevice) CreateBuffer(label string, usage BufferUsage, contents []byte) Buffer {
	d.Buffers++
	d.Bytes += len(contents)
	return &MemoryBuffer{Label: label, Usage: usage, Data: append([]byte(nil), contents...)}
}
