package mesh

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/minecraft-renderer/internal/atlas"
	"github.com/OCharnyshevich/minecraft-renderer/internal/gamedata"
	"github.com/OCharnyshevich/minecraft-renderer/internal/model"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// BlockStates resolves stored state indices.
type BlockStates interface {
	State(id world.StateID) (gamedata.BlockState, bool)
}

// Models supplies baked geometry per state.
type Models interface {
	Model(id world.StateID) (*model.BakedModel, bool)
}

// Sprites maps sprite names to atlas rectangles.
type Sprites interface {
	Sprite(name string) atlas.Rect
}

type layer struct {
	vertices []Vertex
	indices  []uint32
}

func (l *layer) reset() {
	l.vertices = l.vertices[:0]
	l.indices = l.indices[:0]
}

// Tessellator turns sections into meshes. It keeps four scratch buffers
// (opaque and transparent vertices and indices) that are reused across
// calls, so one Tessellator must not mesh two sections concurrently.
type Tessellator struct {
	states  BlockStates
	models  Models
	sprites Sprites
	log     *slog.Logger

	opaque      layer
	transparent layer
	scratch     []byte
	warned      map[world.StateID]struct{}
}

// NewTessellator creates a Tessellator.
func NewTessellator(states BlockStates, models Models, sprites Sprites, log *slog.Logger) *Tessellator {
	return &Tessellator{
		states:  states,
		models:  models,
		sprites: sprites,
		log:     log,
		warned:  make(map[world.StateID]struct{}),
	}
}

// TessellateSection appends the geometry of the section at pos to the
// scratch buffers. Neighbors in missing chunks are treated as open.
// The chunk heightmap must be current; columns above it are skipped.
func (t *Tessellator) TessellateSection(st *world.Storage, pos world.SectionPos) error {
	chunk, err := st.GetChunk(pos.Chunk())
	if err != nil {
		return fmt.Errorf("tessellate section: %w", err)
	}
	sec := chunk.Section(int(pos.Y))
	if sec == nil {
		return fmt.Errorf("tessellate section %d: %w", pos.Y, world.ErrPositionOutOfBounds)
	}
	if sec.IsEmpty() {
		return nil
	}
	nb, err := GatherNeighborhood(st, pos)
	if err != nil {
		return fmt.Errorf("tessellate section: %w", err)
	}

	size := sec.Size()
	base := int(pos.Y) * size
	hm := chunk.Heightmap()
	var c cells
	for x := 0; x < size; x++ {
		for z := 0; z < size; z++ {
			top := min(hm.Top(x, z)-base, size-1)
			for y := 0; y <= top; y++ {
				id := sec.Get(x, y, z)
				if id == world.Air {
					continue
				}
				t.tessellateVoxel(nb, &c, id, x, y, z)
			}
		}
	}
	return nil
}

func (t *Tessellator) tessellateVoxel(nb *Neighborhood, c *cells, id world.StateID, x, y, z int) {
	self, ok := t.states.State(id)
	if !ok {
		t.warnOnce(id, "voxel state not in registry")
		return
	}
	mdl, ok := t.models.Model(id)
	if !ok {
		t.warnOnce(id, "block state has no baked model")
		return
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				cl := &c[cellIndex(dx, dy, dz)]
				cl.Sample = nb.At(x+dx, y+dy, z+dz)
				cl.info, cl.known = gamedata.BlockState{}, false
				if cl.Present {
					cl.info, cl.known = t.states.State(cl.State)
				}
			}
		}
	}

	mask := occlusionMask(self, c)
	lights := blendCorners(c)
	dst := &t.opaque
	if self.IsTransparent() {
		dst = &t.transparent
	}

	origin := mgl32.Vec3{float32(x), float32(y), float32(z)}
	for i := range mdl.Quads {
		q := &mdl.Quads[i]
		if q.CullFace != nil && mask&q.CullFace.Mask() != 0 {
			continue
		}
		t.emitQuad(dst, mdl, q, c, &lights, origin)
	}
}

func (t *Tessellator) emitQuad(dst *layer, mdl *model.BakedModel, q *model.Quad, c *cells, lights *cornerLights, origin mgl32.Vec3) {
	rect := t.sprites.Sprite(mdl.ResolveTexture(q.Texture))
	face := model.NearestDirection(q.Normal)
	if q.AOFace != nil {
		face = *q.AOFace
	}

	var total [4]float32
	base := uint32(len(dst.vertices))
	for i, p := range q.Positions {
		ao := uint8(MaxAO)
		if mdl.AmbientOcclusion {
			ao = cornerAO(c, face, p)
		}
		bl := trilinear(&lights.block, p)
		sl := trilinear(&lights.sky, p)
		total[i] = bl + sl

		u, v := rect.Map(q.UVs[i][0], q.UVs[i][1])
		dst.vertices = append(dst.vertices, Vertex{
			Pos:   origin.Add(p),
			UV:    mgl32.Vec2{u, v},
			Light: PackLight(quantizeLight(bl), ao, quantizeLight(sl)),
			Tint:  int16(q.TintIndex),
		})
	}

	// Both triangles share the brighter diagonal.
	if total[0]+total[2] >= total[1]+total[3] {
		dst.indices = append(dst.indices, base, base+1, base+2, base, base+2, base+3)
	} else {
		dst.indices = append(dst.indices, base+1, base+2, base+3, base+1, base+3, base)
	}
}

func (t *Tessellator) warnOnce(id world.StateID, msg string) {
	if _, seen := t.warned[id]; seen {
		return
	}
	t.warned[id] = struct{}{}
	t.log.Warn(msg, "state", id)
}

// Pending returns the number of buffered opaque and transparent indices.
func (t *Tessellator) Pending() (opaque, transparent int) {
	return len(t.opaque.indices), len(t.transparent.indices)
}

// Build uploads the scratch buffers through dev and clears them, keeping
// their capacity.
func (t *Tessellator) Build(dev Device, pos world.SectionPos) Mesh {
	m := Mesh{
		Pos:              pos,
		OpaqueCount:      uint32(len(t.opaque.indices)),
		TransparentCount: uint32(len(t.transparent.indices)),
	}
	m.OpaqueVertices = t.upload(dev, "opaque vertices", VertexBuffer, func(b []byte) []byte { return AppendVertices(b, t.opaque.vertices) })
	m.OpaqueIndices = t.upload(dev, "opaque indices", IndexBuffer, func(b []byte) []byte { return AppendIndices(b, t.opaque.indices) })
	m.TransparentVertices = t.upload(dev, "transparent vertices", VertexBuffer, func(b []byte) []byte { return AppendVertices(b, t.transparent.vertices) })
	m.TransparentIndices = t.upload(dev, "transparent indices", IndexBuffer, func(b []byte) []byte { return AppendIndices(b, t.transparent.indices) })

	t.opaque.reset()
	t.transparent.reset()
	return m
}

// Reset drops any buffered geometry without uploading it.
func (t *Tessellator) Reset() {
	t.opaque.reset()
	t.transparent.reset()
}

func (t *Tessellator) upload(dev Device, label string, usage BufferUsage, encode func([]byte) []byte) Buffer {
	t.scratch = encode(t.scratch[:0])
	return dev.CreateBuffer(label, usage, t.scratch)
}
