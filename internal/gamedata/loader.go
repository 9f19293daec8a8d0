package gamedata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk block catalog.
type Catalog struct {
	Blocks []BlockDef `yaml:"blocks"`
}

// Parse builds a frozen Registry from a YAML block catalog.
func Parse(data []byte) (*Registry, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse block catalog: %w", err)
	}
	b := NewBuilder()
	for _, def := range cat.Blocks {
		if err := b.AddBlock(def); err != nil {
			return nil, fmt.Errorf("block catalog: %w", err)
		}
	}
	return b.Freeze()
}

// LoadFile reads and parses the block catalog at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block catalog: %w", err)
	}
	return Parse(data)
}
