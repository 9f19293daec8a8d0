package model

import (
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/minecraft-renderer/internal/atlas"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// Quad is one textured face of a baked model. Positions and Normal are in
// voxel-local space, UVs in sprite-local space.
type Quad struct {
	Positions [4]mgl32.Vec3
	UVs       [4]mgl32.Vec2
	Normal    mgl32.Vec3
	CullFace  *world.Direction // face is hidden when this side is occluded
	AOFace    *world.Direction // side sampled for ambient occlusion
	TintIndex int              // -1 when untinted
	Texture   string           // sprite name or #variable
}

// BakedModel is the geometry of one block state.
type BakedModel struct {
	Quads            []Quad
	AmbientOcclusion bool
	Textures         map[string]string
}

// maxTextureDepth bounds #variable chains so cycles resolve to Missing.
const maxTextureDepth = 16

// ResolveTexture follows #variable references through the model's texture
// map and returns a sprite name. Broken or cyclic chains give atlas.Missing.
func (m *BakedModel) ResolveTexture(ref string) string {
	name := ref
	for depth := 0; strings.HasPrefix(name, "#"); depth++ {
		if depth >= maxTextureDepth {
			return atlas.Missing
		}
		next, ok := m.Textures[name[1:]]
		if !ok {
			return atlas.Missing
		}
		name = next
	}
	if name == "" {
		return atlas.Missing
	}
	return name
}

// Catalog maps block states to baked models.
type Catalog struct {
	models []*BakedModel
}

// NewCatalog creates an empty catalog for n states.
func NewCatalog(n int) *Catalog {
	return &Catalog{models: make([]*BakedModel, n)}
}

// Set assigns m to state id, growing the catalog when needed.
func (c *Catalog) Set(id world.StateID, m *BakedModel) {
	if int(id) >= len(c.models) {
		grown := make([]*BakedModel, int(id)+1)
		copy(grown, c.models)
		c.models = grown
	}
	c.models[id] = m
}

// Model returns the baked model of state id.
func (c *Catalog) Model(id world.StateID) (*BakedModel, bool) {
	if int(id) >= len(c.models) || c.models[id] == nil {
		return nil, false
	}
	return c.models[id], true
}

// Len returns the number of states with a model.
func (c *Catalog) Len() int {
	n := 0
	for _, m := range c.models {
		if m != nil {
			n++
		}
	}
	return n
}

// TextureNames returns every sprite name referenced by the catalog's quads,
// sorted and without duplicates.
func (c *Catalog) TextureNames() []string {
	seen := make(map[string]struct{})
	for _, m := range c.models {
		if m == nil {
			continue
		}
		for _, q := range m.Quads {
			if name := m.ResolveTexture(q.Texture); name != atlas.Missing {
				seen[name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
