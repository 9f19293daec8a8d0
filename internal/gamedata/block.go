package gamedata

import (
	"strings"

	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// Property is a named block property and its allowed values.
type Property struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// BlockDef describes a block before the registry is frozen.
type BlockDef struct {
	Name        string     `yaml:"name"`
	Transparent bool       `yaml:"transparent"`
	FullBlock   bool       `yaml:"full_block"`
	Culls       []string   `yaml:"culls"` // defaults to every side for full blocks
	EmitLight   int        `yaml:"emit_light"`
	Properties  []Property `yaml:"properties"`
}

// Block is a frozen block type. Its states occupy the contiguous range
// [FirstState, FirstState+StateCount) and a property value moves the
// state index by Strides[i].
type Block struct {
	ID          int
	Name        string
	Transparent bool
	FullBlock   bool
	EmitLight   int
	Properties  []Property
	FirstState  world.StateID
	StateCount  int
	Strides     []int
	cullMask    uint8
}

// DefaultState returns the first state of the block.
func (b Block) DefaultState() world.StateID { return b.FirstState }

func (b Block) propertyIndex(name string) int {
	for i, p := range b.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// BlockState is one property permutation of a block.
type BlockState struct {
	index       world.StateID
	block       int
	name        string
	transparent bool
	fullBlock   bool
	cullMask    uint8
	emitLight   uint8
}

// Index returns the stable state index stored in sections.
func (s BlockState) Index() world.StateID { return s.index }

// Block returns the owning block's ID.
func (s BlockState) Block() int { return s.block }

// Name returns the state name, e.g. "slab[type=top]".
func (s BlockState) Name() string { return s.name }

// IsTransparent reports whether light and sight pass through the state.
func (s BlockState) IsTransparent() bool { return s.transparent }

// IsFullBlock reports whether the state fills its whole voxel.
func (s BlockState) IsFullBlock() bool { return s.fullBlock }

// CullsSide reports whether the state hides the neighbor face touching side d.
func (s BlockState) CullsSide(d world.Direction) bool { return s.cullMask&d.Mask() != 0 }

// EmitLight returns the block light level emitted by the state.
func (s BlockState) EmitLight() uint8 { return s.emitLight }

func stateName(block string, props []Property, values []int) string {
	if len(props) == 0 {
		return block
	}
	var sb strings.Builder
	sb.WriteString(block)
	sb.WriteByte('[')
	for i, p := range props {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Name)
		sb.WriteByte('=')
		sb.WriteString(p.Values[values[i]])
	}
	sb.WriteByte(']')
	return sb.String()
}
