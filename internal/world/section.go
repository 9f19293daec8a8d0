package world

import "fmt"

// StateID is the stored voxel word: an index into the block-state table.
type StateID uint16

// Air is the reserved state every voxel starts as.
const Air StateID = 0

// Supported section edge lengths.
const (
	SectionSize      = 16
	LargeSectionSize = 32
)

// ValidSectionSize reports whether n is a supported section edge length.
func ValidSectionSize(n int) bool {
	return n == SectionSize || n == LargeSectionSize
}

// Section holds the voxel states and light of an N×N×N cube.
// Index = y*N² + x*N + z. Light packs sky light in the high nibble and
// block light in the low nibble.
type Section struct {
	size   int
	states []StateID
	light  []uint8
	nonAir int
}

// NewSection creates an all-air, unlit section of edge length size.
func NewSection(size int) *Section {
	if !ValidSectionSize(size) {
		panic(fmt.Sprintf("world: invalid section size %d", size))
	}
	n := size * size * size
	return &Section{
		size:   size,
		states: make([]StateID, n),
		light:  make([]uint8, n),
	}
}

// Size returns the edge length of the section.
func (s *Section) Size() int { return s.size }

// Index returns the flat array index of local (x, y, z). It panics when
// the position is outside the section.
func (s *Section) Index(x, y, z int) int { return s.index(x, y, z) }

// Get returns the state at local (x, y, z).
func (s *Section) Get(x, y, z int) StateID {
	return s.states[s.index(x, y, z)]
}

// Set stores state at local (x, y, z).
func (s *Section) Set(x, y, z int, state StateID) {
	i := s.index(x, y, z)
	prev := s.states[i]
	switch {
	case prev == Air && state != Air:
		s.nonAir++
	case prev != Air && state == Air:
		s.nonAir--
	}
	s.states[i] = state
}

// BlockLight returns the block light nibble at local (x, y, z).
func (s *Section) BlockLight(x, y, z int) uint8 {
	return s.light[s.index(x, y, z)] & 0xF
}

// SkyLight returns the sky light nibble at local (x, y, z).
func (s *Section) SkyLight(x, y, z int) uint8 {
	return s.light[s.index(x, y, z)] >> 4
}

// Light returns both light nibbles at local (x, y, z).
func (s *Section) Light(x, y, z int) (block, sky uint8) {
	l := s.light[s.index(x, y, z)]
	return l & 0xF, l >> 4
}

// SetBlockLight stores the low four bits of v as block light.
func (s *Section) SetBlockLight(x, y, z int, v uint8) {
	i := s.index(x, y, z)
	s.light[i] = s.light[i]&0xF0 | v&0xF
}

// SetSkyLight stores the low four bits of v as sky light.
func (s *Section) SetSkyLight(x, y, z int, v uint8) {
	i := s.index(x, y, z)
	s.light[i] = s.light[i]&0x0F | (v&0xF)<<4
}

// Fill sets every voxel to state.
func (s *Section) Fill(state StateID) {
	for i := range s.states {
		s.states[i] = state
	}
	if state == Air {
		s.nonAir = 0
	} else {
		s.nonAir = len(s.states)
	}
}

// FillSkyLight sets the sky light of every voxel to v.
func (s *Section) FillSkyLight(v uint8) {
	for i := range s.light {
		s.light[i] = s.light[i]&0x0F | (v&0xF)<<4
	}
}

// IsEmpty reports whether every voxel is air.
func (s *Section) IsEmpty() bool { return s.nonAir == 0 }

// NonAir returns the number of non-air voxels.
func (s *Section) NonAir() int { return s.nonAir }

func (s *Section) index(x, y, z int) int {
	n := s.size
	if uint(x) >= uint(n) || uint(y) >= uint(n) || uint(z) >= uint(n) {
		panic(fmt.Sprintf("world: section coordinate (%d,%d,%d) out of range [0,%d)", x, y, z, n))
	}
	return y*n*n + x*n + z
}
