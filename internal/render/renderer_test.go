package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/OCharnyshevich/minecraft-renderer/internal/atlas"
	"github.com/OCharnyshevich/minecraft-renderer/internal/gamedata"
	"github.com/OCharnyshevich/minecraft-renderer/internal/mesh"
	"github.com/OCharnyshevich/minecraft-renderer/internal/model"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world/gen"
)

func newTestRenderer(t *testing.T, dev mesh.Device) (*Renderer, *world.Storage) {
	t.Helper()
	b := gamedata.NewBuilder()
	if err := b.AddBlock(gamedata.BlockDef{Name: "stone", FullBlock: true}); err != nil {
		t.Fatal(err)
	}
	reg, err := b.Freeze()
	if err != nil {
		t.Fatal(err)
	}
	stone, _ := reg.StateByName("stone")

	models := model.NewCatalog(reg.Len())
	models.Set(stone, model.Cube(map[string]string{"all": "stone"}, -1))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tess := mesh.NewTessellator(reg, models, atlas.New(16, models.TextureNames()), log)

	st, err := world.NewStorage(world.Planar, world.StorageOptions{Height: 2, SectionSize: world.SectionSize, Classifier: reg})
	if err != nil {
		t.Fatal(err)
	}
	flat := gen.NewFlatGenerator([]world.StateID{stone, stone}, 2, world.SectionSize, reg)
	if dev == nil {
		dev = &mesh.MemoryDevice{}
	}
	return New(st, flat.Generate, tess, dev, log), st
}

func tick(t *testing.T, r *Renderer) world.ChunkPos {
	t.Helper()
	pos, ok, err := r.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !ok {
		t.Fatal("Tick: queue empty")
	}
	return pos
}

func indices(ms []mesh.Mesh) uint32 {
	var n uint32
	for _, m := range ms {
		n += m.OpaqueCount + m.TransparentCount
	}
	return n
}

func TestTickIsFIFOAndDeduplicated(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	order := []world.ChunkPos{{X: 2}, {Z: -1}, {X: 5, Z: 5}}
	for _, p := range order {
		if !r.Request(p) {
			t.Errorf("Request(%v) = false, want true", p)
		}
	}
	if r.Request(order[1]) {
		t.Error("duplicate Request = true, want false")
	}
	if got := r.Pending(); got != 3 {
		t.Fatalf("Pending() = %d, want 3", got)
	}

	for i, want := range order {
		if got := tick(t, r); got != want {
			t.Errorf("tick %d meshed %v, want %v", i, got, want)
		}
		if got := r.Pending(); got != len(order)-i-1 {
			t.Errorf("tick %d: Pending() = %d, want %d", i, got, len(order)-i-1)
		}
	}
	if _, ok, _ := r.Tick(); ok {
		t.Error("Tick on empty queue reported work")
	}
	if got := r.Stats().Frames; got != 4 {
		t.Errorf("Frames = %d, want 4", got)
	}
}

func TestRequestRadiusNearestFirst(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	center := world.ChunkPos{X: 3, Z: -2}
	r.RequestRadius(center, 2)
	if got := r.Pending(); got != 25 {
		t.Fatalf("Pending() = %d, want 25", got)
	}
	last := 0
	for r.Pending() > 0 {
		p := tick(t, r)
		d := max(abs(int(p.X-center.X)), abs(int(p.Z-center.Z)))
		if d < last {
			t.Errorf("%v at ring %d after ring %d", p, d, last)
		}
		last = d
	}
}

func TestTickCachesNonEmptySections(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	r.Request(world.ChunkPos{})
	tick(t, r)

	ms, ok := r.Mesh(world.ChunkPos{})
	if !ok {
		t.Fatal("Mesh: not cached")
	}
	if len(ms) != 1 {
		t.Fatalf("meshes = %d, want 1 (upper section is empty)", len(ms))
	}
	// Two layers alone in the world: top, bottom and four open sides.
	if got, want := indices(ms), uint32((256+256+4*16*2)*6); got != want {
		t.Errorf("indices = %d, want %d", got, want)
	}
}

func TestNewNeighborRequeuesMeshedChunk(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	origin := world.ChunkPos{}
	r.Request(origin)
	tick(t, r)
	before, _ := r.Mesh(origin)

	r.Request(world.ChunkPos{X: 1})
	tick(t, r)
	if got := r.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}
	if got := tick(t, r); got != origin {
		t.Fatalf("re-meshed %v, want %v", got, origin)
	}
	after, _ := r.Mesh(origin)
	if got, want := indices(after), indices(before)-16*2*6; got != want {
		t.Errorf("indices after neighbor = %d, want %d", got, want)
	}

	// An existing chunk does not trigger re-meshing again.
	r.Request(world.ChunkPos{X: 1})
	tick(t, r)
	if got := r.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestUnload(t *testing.T) {
	r, st := newTestRenderer(t, nil)
	a, b := world.ChunkPos{}, world.ChunkPos{X: 4}
	r.Request(a)
	tick(t, r)
	r.Request(b)

	r.Unload(a)
	r.Unload(b)
	if _, ok := r.Mesh(a); ok {
		t.Error("mesh still cached after Unload")
	}
	if _, err := st.GetChunk(a); !errors.Is(err, world.ErrChunkDoesNotExist) {
		t.Errorf("GetChunk after Unload: err = %v, want ErrChunkDoesNotExist", err)
	}
	if got := r.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
	if !r.Request(b) {
		t.Error("Request after Unload = false, want true")
	}
}

func TestUnloadRequeuesMeshedNeighbors(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	a, b := world.ChunkPos{}, world.ChunkPos{X: 1}
	r.Request(a)
	r.Request(b)
	tick(t, r)
	tick(t, r)
	tick(t, r) // a again, now bordered by b
	if got := r.Pending(); got != 0 {
		t.Fatalf("Pending() = %d, want 0", got)
	}
	joined, _ := r.Mesh(a)

	r.Unload(b)
	if got := r.Pending(); got != 1 {
		t.Fatalf("Pending() after Unload = %d, want 1", got)
	}
	if got := tick(t, r); got != a {
		t.Fatalf("re-meshed %v, want %v", got, a)
	}
	alone, _ := r.Mesh(a)
	if got, want := indices(alone), indices(joined)+16*2*6; got != want {
		t.Errorf("indices after neighbor unload = %d, want %d", got, want)
	}
	if got := r.Meshed(); got != 1 {
		t.Errorf("Meshed() = %d, want 1", got)
	}
}

func TestTickFactoryFailure(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	r.factory = func(world.ChunkPos) *world.Chunk { return nil }
	r.Request(world.ChunkPos{})
	if _, ok, err := r.Tick(); !ok || err == nil {
		t.Errorf("Tick() = %v, %v, want true and an error", ok, err)
	}
	if r.Meshed() != 0 {
		t.Errorf("Meshed() = %d, want 0", r.Meshed())
	}
}

func TestRunDrainsQueue(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	r.RequestRadius(world.ChunkPos{}, 1)
	if err := r.Run(context.Background(), 0, time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", r.Pending())
	}
	if r.Meshed() != 9 {
		t.Errorf("Meshed() = %d, want 9", r.Meshed())
	}
}

func TestRunFrameBudget(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	r.RequestRadius(world.ChunkPos{}, 1)
	if err := r.Run(context.Background(), 3, time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := r.Stats().Frames; got != 3 {
		t.Errorf("Frames = %d, want 3", got)
	}
	if got := r.Pending(); got < 6 {
		t.Errorf("Pending() = %d, want at least 6", got)
	}
}

func TestRunCancelled(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	r.Request(world.ChunkPos{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, 10, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestDumpDeviceRoundTrip(t *testing.T) {
	var out bytes.Buffer
	mem := &mesh.MemoryDevice{}
	dump, err := NewDumpDevice(mem, &out)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRenderer(t, dump)
	r.Request(world.ChunkPos{})
	tick(t, r)
	if err := dump.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	recs, err := ReadDump(&out)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if len(recs) != 4 || dump.Records != 4 || mem.Buffers != 4 {
		t.Fatalf("records = %d/%d, inner buffers = %d, want 4", len(recs), dump.Records, mem.Buffers)
	}
	ms, _ := r.Mesh(world.ChunkPos{})
	want := ms[0].OpaqueVertices.(*mesh.MemoryBuffer)
	if recs[0].Label != want.Label || recs[0].Usage != mesh.VertexBuffer || !bytes.Equal(recs[0].Data, want.Data) {
		t.Errorf("record 0 = %q/%v/%d bytes, want %q/vertex/%d bytes", recs[0].Label, recs[0].Usage, len(recs[0].Data), want.Label, len(want.Data))
	}
	if recs[1].Usage != mesh.IndexBuffer {
		t.Errorf("record 1 usage = %v, want index", recs[1].Usage)
	}
}
