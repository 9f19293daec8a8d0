package gen

import (
	"testing"

	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

const (
	bedrock world.StateID = 1
	stone   world.StateID = 2
	dirt    world.StateID = 3
	grass   world.StateID = 4
)

func TestFlatGeneratorLayers(t *testing.T) {
	g := NewFlatGenerator([]world.StateID{bedrock, stone, stone, dirt, grass}, 4, world.SectionSize, nil)
	c := g.Generate(world.ChunkPos{X: 3, Z: -2})

	if c.Pos != (world.ChunkPos{X: 3, Z: -2}) {
		t.Errorf("Pos = %v, want (3,-2)", c.Pos)
	}

	tests := []struct {
		y     int
		block world.StateID
		name  string
	}{
		{0, bedrock, "bedrock"},
		{1, stone, "stone"},
		{2, stone, "stone"},
		{3, dirt, "dirt"},
		{4, grass, "grass"},
		{5, world.Air, "air"},
		{63, world.Air, "air"},
	}
	for _, tt := range tests {
		for _, xz := range [][2]int{{0, 0}, {15, 15}, {7, 3}} {
			if got := c.GetBlockAtPos(xz[0], tt.y, xz[1]); got != tt.block {
				t.Errorf("block at (%d,%d,%d) = %d, want %d (%s)", xz[0], tt.y, xz[1], got, tt.block, tt.name)
			}
		}
	}

	if got := g.HeightAt(0, 0); got != 4 {
		t.Errorf("HeightAt = %d, want 4", got)
	}
	if got := c.Heightmap().Top(5, 5); got != 4 {
		t.Errorf("heightmap top = %d, want 4", got)
	}
}

func TestFlatGeneratorSkyLight(t *testing.T) {
	g := NewFlatGenerator([]world.StateID{stone, stone, stone}, 2, world.SectionSize, nil)
	c := g.Generate(world.ChunkPos{})

	if got := c.Sections[0].SkyLight(0, 2, 0); got != 0 {
		t.Errorf("sky light inside ground = %d, want 0", got)
	}
	if got := c.Sections[0].SkyLight(0, 3, 0); got != 15 {
		t.Errorf("sky light above ground = %d, want 15", got)
	}
	if got := c.Sections[1].SkyLight(9, 9, 9); got != 15 {
		t.Errorf("sky light in upper section = %d, want 15", got)
	}
}

func TestFlatGeneratorDeterministic(t *testing.T) {
	g := NewFlatGenerator([]world.StateID{bedrock, dirt}, 2, world.LargeSectionSize, nil)
	a := g.Generate(world.ChunkPos{X: 1})
	b := g.Generate(world.ChunkPos{X: 1})
	for i := range a.Sections {
		for y := 0; y < world.LargeSectionSize; y++ {
			for x := 0; x < world.LargeSectionSize; x++ {
				for z := 0; z < world.LargeSectionSize; z++ {
					if a.Sections[i].Get(x, y, z) != b.Sections[i].Get(x, y, z) {
						t.Fatalf("section %d differs at (%d,%d,%d)", i, x, y, z)
					}
				}
			}
		}
	}
}
