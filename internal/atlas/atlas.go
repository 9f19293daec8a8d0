package atlas

import "sort"

// Missing is the sprite every unresolved texture falls back to.
const Missing = "missing"

// Rect is a UV rectangle inside the atlas, in [0,1] texture space.
type Rect struct {
	U0, V0, U1, V1 float32
}

// Map converts a sprite-local UV in [0,1] into atlas UV.
func (r Rect) Map(u, v float32) (float32, float32) {
	return r.U0 + u*(r.U1-r.U0), r.V0 + v*(r.V1-r.V0)
}

// Atlas lays square sprites out on a grid. Slot 0 always holds Missing.
type Atlas struct {
	tile    int
	cols    int
	names   []string
	sprites map[string]Rect
}

// New builds an atlas of tile-pixel sprites for names. Duplicates are
// folded and the layout is independent of input order.
func New(tile int, names []string) *Atlas {
	uniq := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" && n != Missing {
			uniq[n] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(uniq)+1)
	sorted = append(sorted, Missing)
	rest := make([]string, 0, len(uniq))
	for n := range uniq {
		rest = append(rest, n)
	}
	sort.Strings(rest)
	sorted = append(sorted, rest...)

	cols := 1
	for cols*cols < len(sorted) {
		cols++
	}

	a := &Atlas{
		tile:    tile,
		cols:    cols,
		names:   sorted,
		sprites: make(map[string]Rect, len(sorted)),
	}
	step := 1 / float32(cols)
	for i, n := range sorted {
		col, row := i%cols, i/cols
		a.sprites[n] = Rect{
			U0: float32(col) * step,
			V0: float32(row) * step,
			U1: float32(col+1) * step,
			V1: float32(row+1) * step,
		}
	}
	return a
}

// Lookup returns the rectangle of the named sprite.
func (a *Atlas) Lookup(name string) (Rect, bool) {
	r, ok := a.sprites[name]
	return r, ok
}

// Sprite returns the rectangle of the named sprite or the Missing sprite.
func (a *Atlas) Sprite(name string) Rect {
	if r, ok := a.sprites[name]; ok {
		return r
	}
	return a.sprites[Missing]
}

// Len returns the number of sprites including Missing.
func (a *Atlas) Len() int { return len(a.names) }

// Names returns the sprite names in slot order.
func (a *Atlas) Names() []string { return a.names }

// Size returns the atlas edge length in pixels.
func (a *Atlas) Size() int { return a.cols * a.tile }
