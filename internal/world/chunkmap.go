package world

import "iter"

// InnerChunkPosToHash packs chunk coordinates into a single map key. Both
// coordinates keep their full 32-bit two's-complement range.
func InnerChunkPosToHash(x, z int32) int64 {
	return int64(uint32(x)) | int64(z)<<32
}

// HashToInnerChunkPos reverses InnerChunkPosToHash.
func HashToInnerChunkPos(key int64) (x, z int32) {
	return int32(uint32(key)), int32(key >> 32)
}

// ChunkMap is a sparse index from chunk coordinates to values held in a
// dense slice. Removal swaps the last value into the vacated slot, so slot
// order changes across deletions and is never exposed.
type ChunkMap[T any] struct {
	values []T
	keys   []int64
	slots  map[int64]int
}

// NewChunkMap creates an empty ChunkMap.
func NewChunkMap[T any]() *ChunkMap[T] {
	return &ChunkMap[T]{slots: make(map[int64]int)}
}

// Len returns the number of stored values.
func (m *ChunkMap[T]) Len() int { return len(m.values) }

// SetChunk inserts v at (x, z) or replaces the value already there.
func (m *ChunkMap[T]) SetChunk(x, z int32, v T) {
	key := InnerChunkPosToHash(x, z)
	if i, ok := m.slots[key]; ok {
		m.values[i] = v
		return
	}
	m.slots[key] = len(m.values)
	m.values = append(m.values, v)
	m.keys = append(m.keys, key)
}

// SetChunkOption inserts or replaces v when ok is true and deletes the
// entry at (x, z) otherwise.
func (m *ChunkMap[T]) SetChunkOption(x, z int32, v T, ok bool) {
	if ok {
		m.SetChunk(x, z, v)
		return
	}
	m.DeleteChunk(x, z)
}

// DeleteChunk removes the value at (x, z) and returns it.
func (m *ChunkMap[T]) DeleteChunk(x, z int32) (T, bool) {
	var zero T
	key := InnerChunkPosToHash(x, z)
	i, ok := m.slots[key]
	if !ok {
		return zero, false
	}
	removed := m.values[i]
	last := len(m.values) - 1
	if i != last {
		m.values[i] = m.values[last]
		m.keys[i] = m.keys[last]
		m.slots[m.keys[i]] = i
	}
	m.values[last] = zero
	m.values = m.values[:last]
	m.keys = m.keys[:last]
	delete(m.slots, key)
	return removed, true
}

// GetChunkPos returns the value at (x, z).
func (m *ChunkMap[T]) GetChunkPos(x, z int32) (T, bool) {
	if i, ok := m.slots[InnerChunkPosToHash(x, z)]; ok {
		return m.values[i], true
	}
	var zero T
	return zero, false
}

// GetChunkPosMut returns a pointer to the value at (x, z), or nil. The
// pointer is invalidated by the next insertion or deletion.
func (m *ChunkMap[T]) GetChunkPosMut(x, z int32) *T {
	if i, ok := m.slots[InnerChunkPosToHash(x, z)]; ok {
		return &m.values[i]
	}
	return nil
}

// Contains reports whether (x, z) holds a value.
func (m *ChunkMap[T]) Contains(x, z int32) bool {
	_, ok := m.slots[InnerChunkPosToHash(x, z)]
	return ok
}

// All iterates over every stored position and value in slot order.
// The map must not be mutated during iteration.
func (m *ChunkMap[T]) All() iter.Seq2[ChunkPos, T] {
	return func(yield func(ChunkPos, T) bool) {
		for i, key := range m.keys {
			x, z := HashToInnerChunkPos(key)
			if !yield(ChunkPos{X: x, Z: z}, m.values[i]) {
				return
			}
		}
	}
}
