package mesh

import (
	"fmt"

	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// Neighborhood is the 3×3×3 block of sections around a target section.
// Slot index is sy*9 + sx*3 + sz with each s in {0,1,2} for offsets
// -1, 0, +1, following the section's own y, x, z ordering.
type Neighborhood struct {
	size     int
	sections [27]*world.Section
	present  [27]bool // owning chunk exists
}

// GatherNeighborhood resolves the sections around pos, including diagonal
// chunks. The target section itself must exist.
func GatherNeighborhood(st *world.Storage, pos world.SectionPos) (*Neighborhood, error) {
	center, err := st.GetChunk(pos.Chunk())
	if err != nil {
		return nil, err
	}
	if center.Section(int(pos.Y)) == nil {
		return nil, fmt.Errorf("gather section %d: %w", pos.Y, world.ErrPositionOutOfBounds)
	}

	n := &Neighborhood{size: st.SectionSize()}
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			c := center
			if dx != 0 || dz != 0 {
				c, err = st.GetChunk(pos.Chunk().Offset(dx, dz))
				if err != nil {
					continue
				}
			}
			for dy := int32(-1); dy <= 1; dy++ {
				i := slot(int(dx)+1, int(dy)+1, int(dz)+1)
				n.present[i] = true
				n.sections[i] = c.Section(int(pos.Y + dy))
			}
		}
	}
	return n, nil
}

// Center returns the target section.
func (n *Neighborhood) Center() *world.Section { return n.sections[13] }

// Size returns the section edge length.
func (n *Neighborhood) Size() int { return n.size }

// Sample is what the neighborhood knows about one voxel.
type Sample struct {
	State   world.StateID
	Block   uint8
	Sky     uint8
	Present bool // the owning chunk exists
	Lit     bool // light data is available
}

// At samples the voxel at target-local (x, y, z), each in [-1, size].
// A voxel in a missing chunk is not present. A voxel above or below the
// world in an existing chunk is present air without light.
func (n *Neighborhood) At(x, y, z int) Sample {
	sx, lx := n.split(x)
	sy, ly := n.split(y)
	sz, lz := n.split(z)
	i := slot(sx, sy, sz)
	if !n.present[i] {
		return Sample{}
	}
	sec := n.sections[i]
	if sec == nil {
		return Sample{State: world.Air, Present: true}
	}
	block, sky := sec.Light(lx, ly, lz)
	return Sample{
		State:   sec.Get(lx, ly, lz),
		Block:   block,
		Sky:     sky,
		Present: true,
		Lit:     true,
	}
}

func (n *Neighborhood) split(v int) (int, int) {
	switch {
	case v < 0:
		return 0, v + n.size
	case v >= n.size:
		return 2, v - n.size
	default:
		return 1, v
	}
}

func slot(sx, sy, sz int) int {
	return sy*9 + sx*3 + sz
}
