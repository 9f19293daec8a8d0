package world

import "fmt"

// ChunkPos identifies a chunk column by its X and Z chunk coordinates.
type ChunkPos struct{ X, Z int32 }

func (p ChunkPos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Z) }

// Offset returns the chunk position shifted by (dx, dz).
func (p ChunkPos) Offset(dx, dz int32) ChunkPos {
	return ChunkPos{X: p.X + dx, Z: p.Z + dz}
}

// SectionPos identifies one section: a chunk column plus a vertical section index.
type SectionPos struct{ X, Y, Z int32 }

// Chunk returns the column containing the section.
func (p SectionPos) Chunk() ChunkPos { return ChunkPos{X: p.X, Z: p.Z} }

// Classifier tells the heightmap which states let light and sight through.
type Classifier interface {
	IsTransparent(state StateID) bool
}

// ColumnHeight records the topmost occupied Y per kind, -1 when none.
type ColumnHeight struct {
	Opaque      int
	Transparent int
}

// Top returns the highest occupied Y of either kind.
func (c ColumnHeight) Top() int {
	return max(c.Opaque, c.Transparent)
}

// Heightmap holds one ColumnHeight per (x, z) column, indexed x*N + z.
type Heightmap struct {
	size    int
	columns []ColumnHeight
}

func newHeightmap(size int) Heightmap {
	cols := make([]ColumnHeight, size*size)
	for i := range cols {
		cols[i] = ColumnHeight{Opaque: -1, Transparent: -1}
	}
	return Heightmap{size: size, columns: cols}
}

// Column returns the heights of column (x, z).
func (h *Heightmap) Column(x, z int) ColumnHeight {
	return h.columns[x*h.size+z]
}

// Top returns the highest occupied Y in column (x, z), or -1.
func (h *Heightmap) Top(x, z int) int {
	return h.columns[x*h.size+z].Top()
}

// Chunk is a vertical stack of sections addressed by a 2D position.
type Chunk struct {
	Pos       ChunkPos
	Sections  []*Section
	size      int
	heightmap Heightmap
	classify  Classifier
}

// NewChunk creates an all-air chunk with height sections of edge size.
// classify may be nil, in which case every non-air state counts as opaque.
func NewChunk(pos ChunkPos, height, size int, classify Classifier) *Chunk {
	sections := make([]*Section, height)
	for i := range sections {
		sections[i] = NewSection(size)
	}
	return &Chunk{
		Pos:       pos,
		Sections:  sections,
		size:      size,
		heightmap: newHeightmap(size),
		classify:  classify,
	}
}

// SectionSize returns the edge length of each section.
func (c *Chunk) SectionSize() int { return c.size }

// Height returns the number of sections in the chunk.
func (c *Chunk) Height() int { return len(c.Sections) }

// MaxY returns one past the highest valid world Y.
func (c *Chunk) MaxY() int { return len(c.Sections) * c.size }

// Heightmap returns the column heightmap.
func (c *Chunk) Heightmap() *Heightmap { return &c.heightmap }

// Section returns the section with vertical index i, or nil when out of range.
func (c *Chunk) Section(i int) *Section {
	if i < 0 || i >= len(c.Sections) {
		return nil
	}
	return c.Sections[i]
}

// GetBlockAtPos returns the state at local (x, z) and world y. Positions
// outside the chunk's vertical range are air.
func (c *Chunk) GetBlockAtPos(x, y, z int) StateID {
	if y < 0 || y >= c.MaxY() {
		return Air
	}
	return c.Sections[y/c.size].Get(x, y%c.size, z)
}

// SetBlockAtPos stores state at local (x, z) and world y and updates the
// heightmap. It panics when y is outside the chunk's vertical range.
func (c *Chunk) SetBlockAtPos(x, y, z int, state StateID) {
	if y < 0 || y >= c.MaxY() {
		panic(fmt.Sprintf("world: y %d outside chunk range [0,%d)", y, c.MaxY()))
	}
	c.Sections[y/c.size].Set(x, y%c.size, z, state)

	col := &c.heightmap.columns[x*c.size+z]
	if state == Air {
		if y == col.Opaque || y == col.Transparent {
			c.rescanColumn(x, z)
		}
		return
	}
	transparent := c.transparent(state)
	// A column top replaced by the other kind no longer bounds its kind.
	if (transparent && y == col.Opaque) || (!transparent && y == col.Transparent) {
		c.rescanColumn(x, z)
		return
	}
	if transparent {
		col.Transparent = max(col.Transparent, y)
	} else {
		col.Opaque = max(col.Opaque, y)
	}
}

// RecomputeHeightmap rebuilds every column from the section data. Callers
// that write sections directly must call it before meshing.
func (c *Chunk) RecomputeHeightmap() {
	for x := 0; x < c.size; x++ {
		for z := 0; z < c.size; z++ {
			c.rescanColumn(x, z)
		}
	}
}

func (c *Chunk) rescanColumn(x, z int) {
	col := ColumnHeight{Opaque: -1, Transparent: -1}
	for y := c.MaxY() - 1; y >= 0; y-- {
		state := c.Sections[y/c.size].Get(x, y%c.size, z)
		if state == Air {
			continue
		}
		if c.transparent(state) {
			if col.Transparent < 0 {
				col.Transparent = y
			}
		} else if col.Opaque < 0 {
			col.Opaque = y
		}
		if col.Opaque >= 0 && col.Transparent >= 0 {
			break
		}
	}
	c.heightmap.columns[x*c.size+z] = col
}

func (c *Chunk) transparent(state StateID) bool {
	return c.classify != nil && c.classify.IsTransparent(state)
}
