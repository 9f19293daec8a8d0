package gen

import "github.com/OCharnyshevich/minecraft-renderer/internal/world"

// FlatGenerator builds superflat chunks: Layers[0] at y=0, Layers[1] at
// y=1 and so on, with full sky light above the top layer.
type FlatGenerator struct {
	layers   []world.StateID
	height   int
	size     int
	classify world.Classifier
}

// NewFlatGenerator creates a FlatGenerator for chunks of height sections of
// the given edge size. Layers beyond the chunk top are dropped.
func NewFlatGenerator(layers []world.StateID, height, size int, classify world.Classifier) *FlatGenerator {
	if limit := height * size; len(layers) > limit {
		layers = layers[:limit]
	}
	return &FlatGenerator{layers: layers, height: height, size: size, classify: classify}
}

// Generate is a world.ChunkFactory.
func (g *FlatGenerator) Generate(pos world.ChunkPos) *world.Chunk {
	c := world.NewChunk(pos, g.height, g.size, g.classify)

	for y, state := range g.layers {
		sec := c.Sections[y/g.size]
		ly := y % g.size
		for x := 0; x < g.size; x++ {
			for z := 0; z < g.size; z++ {
				sec.Set(x, ly, z, state)
			}
		}
	}

	top := g.HeightAt(0, 0)
	for i, sec := range c.Sections {
		base := i * g.size
		if base > top {
			sec.FillSkyLight(15)
			continue
		}
		for ly := 0; ly < g.size; ly++ {
			y := base + ly
			if y <= top {
				continue
			}
			for x := 0; x < g.size; x++ {
				for z := 0; z < g.size; z++ {
					sec.SetSkyLight(x, ly, z, 15)
				}
			}
		}
	}

	c.RecomputeHeightmap()
	return c
}

// HeightAt returns the Y of the top layer, or -1 without layers.
func (g *FlatGenerator) HeightAt(_, _ int) int {
	return len(g.layers) - 1
}
