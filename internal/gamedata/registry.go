package gamedata

import (
	"errors"
	"fmt"
	"math"

	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// AirName is the block registered at ID 0 with state 0.
const AirName = "air"

// Builder collects block definitions. Freeze expands them into an
// immutable Registry; the builder must not be used afterwards.
type Builder struct {
	defs  []BlockDef
	names map[string]struct{}
}

// NewBuilder creates a Builder with air already registered.
func NewBuilder() *Builder {
	b := &Builder{names: make(map[string]struct{})}
	b.defs = append(b.defs, BlockDef{Name: AirName, Transparent: true})
	b.names[AirName] = struct{}{}
	return b
}

// AddBlock registers a block definition. Redefining air is ignored.
func (b *Builder) AddBlock(def BlockDef) error {
	if def.Name == "" {
		return errors.New("block without name")
	}
	if def.Name == AirName {
		return nil
	}
	if _, dup := b.names[def.Name]; dup {
		return fmt.Errorf("duplicate block %q", def.Name)
	}
	for _, p := range def.Properties {
		if p.Name == "" || len(p.Values) == 0 {
			return fmt.Errorf("block %q: property %q has no values", def.Name, p.Name)
		}
	}
	for _, side := range def.Culls {
		if _, err := world.ParseDirection(side); err != nil {
			return fmt.Errorf("block %q: %w", def.Name, err)
		}
	}
	b.names[def.Name] = struct{}{}
	b.defs = append(b.defs, def)
	return nil
}

// Freeze expands every property permutation into the state table.
func (b *Builder) Freeze() (*Registry, error) {
	r := &Registry{
		byName:      make(map[string]int, len(b.defs)),
		stateByName: make(map[string]world.StateID),
	}

	next := 0
	for id, def := range b.defs {
		count := 1
		strides := make([]int, len(def.Properties))
		for i := len(def.Properties) - 1; i >= 0; i-- {
			strides[i] = count
			count *= len(def.Properties[i].Values)
		}
		if next+count > math.MaxUint16+1 {
			return nil, fmt.Errorf("block %q: state table exceeds %d entries", def.Name, math.MaxUint16+1)
		}

		blk := Block{
			ID:          id,
			Name:        def.Name,
			Transparent: def.Transparent,
			FullBlock:   def.FullBlock,
			EmitLight:   def.EmitLight,
			Properties:  def.Properties,
			FirstState:  world.StateID(next),
			StateCount:  count,
			Strides:     strides,
			cullMask:    cullMask(def),
		}
		r.blocks = append(r.blocks, blk)
		r.byName[def.Name] = id
		r.stateByName[def.Name] = blk.FirstState

		values := make([]int, len(def.Properties))
		for offset := 0; offset < count; offset++ {
			for i, p := range def.Properties {
				values[i] = offset / strides[i] % len(p.Values)
			}
			st := BlockState{
				index:       world.StateID(next + offset),
				block:       id,
				name:        stateName(def.Name, def.Properties, values),
				transparent: def.Transparent,
				fullBlock:   def.FullBlock,
				cullMask:    blk.cullMask,
				emitLight:   uint8(min(max(def.EmitLight, 0), 15)),
			}
			r.states = append(r.states, st)
			r.stateByName[st.name] = st.index
		}
		next += count
	}
	return r, nil
}

func cullMask(def BlockDef) uint8 {
	if def.Culls == nil {
		if def.FullBlock {
			return 0x3F
		}
		return 0
	}
	var m uint8
	for _, side := range def.Culls {
		d, _ := world.ParseDirection(side)
		m |= d.Mask()
	}
	return m
}

// Registry is the frozen block and state table. State 0 is air.
type Registry struct {
	blocks      []Block
	states      []BlockState
	byName      map[string]int
	stateByName map[string]world.StateID
}

// ByID returns the block with the given ID.
func (r *Registry) ByID(id int) (Block, bool) {
	if id < 0 || id >= len(r.blocks) {
		return Block{}, false
	}
	return r.blocks[id], true
}

// ByName returns the block with the given name.
func (r *Registry) ByName(name string) (Block, bool) {
	id, ok := r.byName[name]
	if !ok {
		return Block{}, false
	}
	return r.blocks[id], true
}

// All returns every block in ID order.
func (r *Registry) All() []Block { return r.blocks }

// Len returns the number of states.
func (r *Registry) Len() int { return len(r.states) }

// State returns the state stored as id.
func (r *Registry) State(id world.StateID) (BlockState, bool) {
	if int(id) >= len(r.states) {
		return BlockState{}, false
	}
	return r.states[id], true
}

// StateByName resolves a state name such as "slab[type=top]". A bare block
// name resolves to the block's default state.
func (r *Registry) StateByName(name string) (world.StateID, bool) {
	id, ok := r.stateByName[name]
	return id, ok
}

// IsTransparent implements world.Classifier. Unknown states count as opaque.
func (r *Registry) IsTransparent(id world.StateID) bool {
	st, ok := r.State(id)
	return ok && st.transparent
}

// Value returns the value of property prop for state id.
func (r *Registry) Value(id world.StateID, prop string) (string, bool) {
	st, ok := r.State(id)
	if !ok {
		return "", false
	}
	blk := r.blocks[st.block]
	i := blk.propertyIndex(prop)
	if i < 0 {
		return "", false
	}
	p := blk.Properties[i]
	return p.Values[int(id-blk.FirstState)/blk.Strides[i]%len(p.Values)], true
}

// WithProperty returns the sibling of state id whose property prop is set
// to value, keeping every other property.
func (r *Registry) WithProperty(id world.StateID, prop, value string) (world.StateID, bool) {
	st, ok := r.State(id)
	if !ok {
		return 0, false
	}
	blk := r.blocks[st.block]
	i := blk.propertyIndex(prop)
	if i < 0 {
		return 0, false
	}
	p := blk.Properties[i]
	want := -1
	for j, v := range p.Values {
		if v == value {
			want = j
			break
		}
	}
	if want < 0 {
		return 0, false
	}
	cur := int(id-blk.FirstState) / blk.Strides[i] % len(p.Values)
	return world.StateID(int(id) + (want-cur)*blk.Strides[i]), true
}
