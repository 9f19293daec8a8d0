package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OCharnyshevich/minecraft-renderer/internal/mesh"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// Stats counts the work done by a Renderer.
type Stats struct {
	Frames   int
	Chunks   int // chunks meshed, including re-meshes
	Sections int // non-empty section meshes built
	Indices  int
}

// Renderer schedules chunk meshing. It is not safe for concurrent use:
// storage, the tessellator and the mesh cache are owned by the goroutine
// calling Tick or Run.
type Renderer struct {
	storage *world.Storage
	factory world.ChunkFactory
	tess    *mesh.Tessellator
	dev     mesh.Device
	log     *slog.Logger

	queue  []world.ChunkPos
	queued *world.ChunkMap[struct{}]
	meshes *world.ChunkMap[[]mesh.Mesh]
	stats  Stats
}

// New creates a Renderer. factory fills chunks that are not yet stored; a
// nil factory creates empty chunks.
func New(st *world.Storage, factory world.ChunkFactory, tess *mesh.Tessellator, dev mesh.Device, log *slog.Logger) *Renderer {
	return &Renderer{
		storage: st,
		factory: factory,
		tess:    tess,
		dev:     dev,
		log:     log,
		queued:  world.NewChunkMap[struct{}](),
		meshes:  world.NewChunkMap[[]mesh.Mesh](),
	}
}

// Request queues pos for meshing. It returns false when pos is already
// queued.
func (r *Renderer) Request(pos world.ChunkPos) bool {
	if r.queued.Contains(pos.X, pos.Z) {
		return false
	}
	r.queued.SetChunk(pos.X, pos.Z, struct{}{})
	r.queue = append(r.queue, pos)
	return true
}

// RequestRadius queues every chunk within radius of center (chessboard
// distance), nearest rings first.
func (r *Renderer) RequestRadius(center world.ChunkPos, radius int) {
	for ring := 0; ring <= radius; ring++ {
		for dx := -ring; dx <= ring; dx++ {
			for dz := -ring; dz <= ring; dz++ {
				if max(abs(dx), abs(dz)) != ring {
					continue
				}
				r.Request(center.Offset(int32(dx), int32(dz)))
			}
		}
	}
}

// Pending returns the number of queued chunks.
func (r *Renderer) Pending() int { return len(r.queue) }

// Tick meshes at most one queued chunk. It reports the chunk handled and
// false when the queue was empty.
func (r *Renderer) Tick() (world.ChunkPos, bool, error) {
	r.stats.Frames++
	if len(r.queue) == 0 {
		return world.ChunkPos{}, false, nil
	}
	pos := r.queue[0]
	r.queue = r.queue[1:]
	r.queued.DeleteChunk(pos.X, pos.Z)

	c, created, err := r.storage.GetOrCreateChunk(pos, r.factory)
	if err != nil {
		return pos, true, fmt.Errorf("load chunk %v: %w", pos, err)
	}

	meshes := make([]mesh.Mesh, 0, c.Height())
	for i, sec := range c.Sections {
		if sec.IsEmpty() {
			continue
		}
		sp := world.SectionPos{X: pos.X, Y: int32(i), Z: pos.Z}
		if err := r.tess.TessellateSection(r.storage, sp); err != nil {
			r.tess.Reset()
			return pos, true, fmt.Errorf("mesh section %v: %w", sp, err)
		}
		m := r.tess.Build(r.dev, sp)
		if m.Empty() {
			continue
		}
		meshes = append(meshes, m)
		r.stats.Sections++
		r.stats.Indices += int(m.OpaqueCount + m.TransparentCount)
	}
	r.meshes.SetChunk(pos.X, pos.Z, meshes)
	r.stats.Chunks++

	if created {
		r.requeueNeighbors(pos)
	}
	r.log.Debug("chunk meshed", "pos", pos, "sections", len(meshes), "created", created)
	return pos, true, nil
}

// requeueNeighbors re-meshes already meshed neighbors whose borders were
// built against a missing chunk.
func (r *Renderer) requeueNeighbors(pos world.ChunkPos) {
	nearby := r.storage.GetNearbyChunks(pos)
	for _, d := range world.Directions {
		if nearby[d] == nil {
			continue
		}
		n := nearby[d].Pos
		if r.meshes.Contains(n.X, n.Z) {
			r.Request(n)
		}
	}
}

// Mesh returns the cached section meshes of pos.
func (r *Renderer) Mesh(pos world.ChunkPos) ([]mesh.Mesh, bool) {
	return r.meshes.GetChunkPos(pos.X, pos.Z)
}

// Meshed returns the number of chunks with cached meshes.
func (r *Renderer) Meshed() int { return r.meshes.Len() }

// Unload drops pos from storage, the mesh cache and the queue. Meshed
// neighbors are re-queued so their borders are rebuilt without it.
func (r *Renderer) Unload(pos world.ChunkPos) {
	r.requeueNeighbors(pos)
	if _, err := r.storage.RemoveChunk(pos); err != nil {
		r.log.Debug("unload chunk", "pos", pos, "error", err)
	}
	r.meshes.DeleteChunk(pos.X, pos.Z)
	if _, ok := r.queued.DeleteChunk(pos.X, pos.Z); !ok {
		return
	}
	for i, p := range r.queue {
		if p == pos {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			break
		}
	}
}

// Stats returns the counters accumulated so far.
func (r *Renderer) Stats() Stats { return r.stats }

// Run ticks once per interval. It stops after frames ticks, or when the
// queue drains if frames is zero or less, or when ctx is done. A failed
// tick is logged and the loop continues.
func (r *Renderer) Run(ctx context.Context, frames int, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for frame := 0; frames <= 0 || frame < frames; frame++ {
		if frames <= 0 && len(r.queue) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if pos, _, err := r.Tick(); err != nil {
				r.log.Error("tick failed", "pos", pos, "error", err)
			}
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
