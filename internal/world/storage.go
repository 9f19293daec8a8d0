package world

import (
	"fmt"
	"iter"
	"math/bits"
)

// StorageKind selects a chunk storage strategy.
type StorageKind uint8

const (
	// Planar is unbounded in X/Z with a fixed column height.
	Planar StorageKind = iota
	// PlanarLimited is a bounded planar world. Declared only.
	PlanarLimited
	// Cubic addresses sections in three dimensions. Declared only.
	Cubic
)

var storageKindNames = [...]string{"planar", "planar_limited", "cubic"}

func (k StorageKind) String() string {
	if int(k) < len(storageKindNames) {
		return storageKindNames[k]
	}
	return fmt.Sprintf("StorageKind(%d)", k)
}

// ParseStorageKind converts a config name into a StorageKind.
func ParseStorageKind(s string) (StorageKind, error) {
	for i, name := range storageKindNames {
		if name == s {
			return StorageKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown storage kind %q", s)
}

// StorageOptions configures a Storage.
type StorageOptions struct {
	Height      int // sections per chunk
	SectionSize int // 16 or 32
	Classifier  Classifier
}

// ChunkFactory builds the chunk for a position on first access.
type ChunkFactory func(pos ChunkPos) *Chunk

// Storage is the chunk store. The strategy is fixed at construction and
// every operation switches on it.
type Storage struct {
	kind   StorageKind
	planar *planarStorage
}

// NewStorage creates a Storage of the given kind.
func NewStorage(kind StorageKind, opts StorageOptions) (*Storage, error) {
	if !ValidSectionSize(opts.SectionSize) {
		return nil, fmt.Errorf("section size %d: %w", opts.SectionSize, ErrPositionOutOfBounds)
	}
	if opts.Height <= 0 {
		return nil, fmt.Errorf("chunk height %d: %w", opts.Height, ErrPositionOutOfBounds)
	}
	switch kind {
	case Planar:
		return &Storage{kind: kind, planar: newPlanarStorage(opts)}, nil
	default:
		return nil, fmt.Errorf("new storage %s: %w", kind, ErrStorageKindUnsupported)
	}
}

// Kind returns the storage strategy.
func (s *Storage) Kind() StorageKind { return s.kind }

// Height returns the number of sections per chunk.
func (s *Storage) Height() int { return s.planar.opts.Height }

// SectionSize returns the section edge length.
func (s *Storage) SectionSize() int { return s.planar.opts.SectionSize }

// Len returns the number of loaded chunks.
func (s *Storage) Len() int { return s.planar.chunks.Len() }

// NewEmptyChunk creates an all-air chunk shaped for this storage.
func (s *Storage) NewEmptyChunk(pos ChunkPos) *Chunk {
	o := s.planar.opts
	return NewChunk(pos, o.Height, o.SectionSize, o.Classifier)
}

// SetChunk inserts or replaces the chunk at pos.
func (s *Storage) SetChunk(pos ChunkPos, c *Chunk) error {
	switch s.kind {
	case Planar:
		return s.planar.setChunk(pos, c)
	}
	return ErrStorageKindUnsupported
}

// GetChunk returns the chunk at pos.
func (s *Storage) GetChunk(pos ChunkPos) (*Chunk, error) {
	switch s.kind {
	case Planar:
		return s.planar.getChunk(pos)
	}
	return nil, ErrStorageKindUnsupported
}

// GetChunkMut returns the chunk at pos for in-place mutation. Chunks are
// held by pointer, so it shares its result with GetChunk.
func (s *Storage) GetChunkMut(pos ChunkPos) (*Chunk, error) {
	return s.GetChunk(pos)
}

// GetOrCreateChunk returns the chunk at pos, building and storing it with
// factory when absent. A nil factory creates an empty chunk. created
// reports whether the factory ran.
func (s *Storage) GetOrCreateChunk(pos ChunkPos, factory ChunkFactory) (c *Chunk, created bool, err error) {
	switch s.kind {
	case Planar:
		if factory == nil {
			factory = s.NewEmptyChunk
		}
		return s.planar.getOrCreateChunk(pos, factory)
	}
	return nil, false, ErrStorageKindUnsupported
}

// RemoveChunk deletes and returns the chunk at pos.
func (s *Storage) RemoveChunk(pos ChunkPos) (*Chunk, error) {
	switch s.kind {
	case Planar:
		c, ok := s.planar.chunks.DeleteChunk(pos.X, pos.Z)
		if !ok {
			return nil, fmt.Errorf("remove chunk %s: %w", pos, ErrChunkDoesNotExist)
		}
		return c, nil
	}
	return nil, ErrStorageKindUnsupported
}

// GetNearbyChunks returns the six axis neighbors of pos indexed by
// Direction; absent neighbors are nil. Planar chunks span the full height,
// so Up and Down are always nil.
func (s *Storage) GetNearbyChunks(pos ChunkPos) [6]*Chunk {
	var out [6]*Chunk
	if s.kind != Planar {
		return out
	}
	for _, d := range Directions {
		if d.Axis() == AxisY {
			continue
		}
		dx, _, dz := d.Offset()
		if c, ok := s.planar.chunks.GetChunkPos(pos.X+int32(dx), pos.Z+int32(dz)); ok {
			out[d] = c
		}
	}
	return out
}

// GetSection returns the section at pos.
func (s *Storage) GetSection(pos SectionPos) (*Section, error) {
	c, err := s.GetChunk(pos.Chunk())
	if err != nil {
		return nil, err
	}
	sec := c.Section(int(pos.Y))
	if sec == nil {
		return nil, fmt.Errorf("section %d of chunk %s: %w", pos.Y, pos.Chunk(), ErrPositionOutOfBounds)
	}
	return sec, nil
}

// Chunks iterates over every loaded chunk.
func (s *Storage) Chunks() iter.Seq2[ChunkPos, *Chunk] {
	return s.planar.chunks.All()
}

// BlockAt returns the state at world coordinates. A position above or below
// the world resolves to air.
func (s *Storage) BlockAt(x, y, z int) (StateID, error) {
	c, lx, lz, err := s.chunkAt(x, z)
	if err != nil {
		return Air, err
	}
	return c.GetBlockAtPos(lx, y, lz), nil
}

// SetBlockAt stores state at world coordinates.
func (s *Storage) SetBlockAt(x, y, z int, state StateID) error {
	c, lx, lz, err := s.chunkAt(x, z)
	if err != nil {
		return err
	}
	if y < 0 || y >= c.MaxY() {
		return fmt.Errorf("set block y=%d: %w", y, ErrPositionOutOfBounds)
	}
	c.SetBlockAtPos(lx, y, lz, state)
	return nil
}

// SetLightAt stores both light nibbles at world coordinates.
func (s *Storage) SetLightAt(x, y, z int, block, sky uint8) error {
	c, lx, lz, err := s.chunkAt(x, z)
	if err != nil {
		return err
	}
	if y < 0 || y >= c.MaxY() {
		return fmt.Errorf("set light y=%d: %w", y, ErrPositionOutOfBounds)
	}
	sec := c.Sections[y/c.size]
	sec.SetBlockLight(lx, y%c.size, lz, block)
	sec.SetSkyLight(lx, y%c.size, lz, sky)
	return nil
}

func (s *Storage) chunkAt(x, z int) (*Chunk, int, int, error) {
	shift := bits.TrailingZeros(uint(s.SectionSize()))
	mask := s.SectionSize() - 1
	c, err := s.GetChunk(ChunkPos{X: int32(x >> shift), Z: int32(z >> shift)})
	if err != nil {
		return nil, 0, 0, err
	}
	return c, x & mask, z & mask, nil
}

type planarStorage struct {
	opts   StorageOptions
	chunks *ChunkMap[*Chunk]
}

func newPlanarStorage(opts StorageOptions) *planarStorage {
	return &planarStorage{opts: opts, chunks: NewChunkMap[*Chunk]()}
}

func (p *planarStorage) setChunk(pos ChunkPos, c *Chunk) error {
	if c == nil {
		p.chunks.DeleteChunk(pos.X, pos.Z)
		return nil
	}
	if c.Height() != p.opts.Height || c.SectionSize() != p.opts.SectionSize {
		return fmt.Errorf("set chunk %s: shape %dx%d, want %dx%d: %w",
			pos, c.Height(), c.SectionSize(), p.opts.Height, p.opts.SectionSize, ErrPositionOutOfBounds)
	}
	c.Pos = pos
	p.chunks.SetChunk(pos.X, pos.Z, c)
	return nil
}

func (p *planarStorage) getChunk(pos ChunkPos) (*Chunk, error) {
	c, ok := p.chunks.GetChunkPos(pos.X, pos.Z)
	if !ok {
		return nil, fmt.Errorf("get chunk %s: %w", pos, ErrChunkDoesNotExist)
	}
	return c, nil
}

func (p *planarStorage) getOrCreateChunk(pos ChunkPos, factory ChunkFactory) (*Chunk, bool, error) {
	if c, ok := p.chunks.GetChunkPos(pos.X, pos.Z); ok {
		return c, false, nil
	}
	c := factory(pos)
	if c == nil {
		return nil, false, fmt.Errorf("create chunk %s: factory returned nil: %w", pos, ErrChunkDoesNotExist)
	}
	if err := p.setChunk(pos, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}
