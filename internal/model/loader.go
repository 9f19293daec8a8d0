package model

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/OCharnyshevich/minecraft-renderer/internal/gamedata"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

//go:embed models.schema.json
var catalogSchemaText string

var catalogSchema = jsonschema.MustCompileString("models.schema.json", catalogSchemaText)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type catalogFile struct {
	Models map[string]modelDef `json:"models"`
}

type modelDef struct {
	Parent           string            `json:"parent"`
	From             *mgl32.Vec3             `json:"from"`
	To               *mgl32.Vec3             `json:"to"`
	Textures         map[string]string `json:"textures"`
	AmbientOcclusion *bool             `json:"ambient_occlusion"`
	TintIndex        *int              `json:"tint_index"`
	Quads            []quadDef         `json:"quads"`
}

type quadDef struct {
	Positions [4]mgl32.Vec3 `json:"positions"`
	UVs       [4]mgl32.Vec2 `json:"uvs"`
	Normal    *mgl32.Vec3   `json:"normal"`
	CullFace  string  `json:"cullface"`
	AOFace    string  `json:"aoface"`
	TintIndex *int    `json:"tint_index"`
	Texture   string  `json:"texture"`
}

// Load validates and decodes a JSON model catalog and binds each entry to
// registry states. A key naming a block applies to all of its states; a
// full state name such as "stone_slab[type=top]" overrides that one state.
// Keys matching nothing in the registry are logged and skipped.
func Load(data []byte, reg *gamedata.Registry, log *slog.Logger) (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	if err := catalogSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate model catalog: %w", err)
	}
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model catalog: %w", err)
	}

	// Block-wide entries first so state entries win.
	names := make([]string, 0, len(file.Models))
	for name := range file.Models {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := strings.Contains(names[i], "["), strings.Contains(names[j], "[")
		if si != sj {
			return sj
		}
		return names[i] < names[j]
	})

	cat := NewCatalog(reg.Len())
	for _, name := range names {
		m, err := file.Models[name].bake()
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		if blk, ok := reg.ByName(name); ok {
			for i := 0; i < blk.StateCount; i++ {
				cat.Set(blk.FirstState+world.StateID(i), m)
			}
			continue
		}
		if id, ok := reg.StateByName(name); ok {
			cat.Set(id, m)
			continue
		}
		log.Warn("model for unknown block state", "name", name)
	}
	log.Debug("loaded model catalog", "entries", len(names), "states", cat.Len())
	return cat, nil
}

// LoadFile reads and loads the model catalog at path.
func LoadFile(path string, reg *gamedata.Registry, log *slog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	return Load(data, reg, log)
}

func (d modelDef) bake() (*BakedModel, error) {
	tint := -1
	if d.TintIndex != nil {
		tint = *d.TintIndex
	}

	var m *BakedModel
	switch d.Parent {
	case "cube":
		m = Cube(d.Textures, tint)
	case "box":
		from, to := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}
		if d.From != nil {
			from = *d.From
		}
		if d.To != nil {
			to = *d.To
		}
		m = Box(from, to, d.Textures, tint)
	case "cross":
		m = Cross(d.Textures, tint)
	default:
		m = &BakedModel{AmbientOcclusion: true, Textures: withDefaults(d.Textures, nil)}
	}
	if d.AmbientOcclusion != nil {
		m.AmbientOcclusion = *d.AmbientOcclusion
	}

	for _, qd := range d.Quads {
		q := Quad{
			Positions: qd.Positions,
			UVs:       qd.UVs,
			TintIndex: tint,
			Texture:   qd.Texture,
		}
		if qd.TintIndex != nil {
			q.TintIndex = *qd.TintIndex
		}
		if qd.Normal != nil {
			q.Normal = *qd.Normal
		} else {
			q.Normal = FaceNormal(qd.Positions)
		}
		if qd.CullFace != "" {
			dir, err := world.ParseDirection(qd.CullFace)
			if err != nil {
				return nil, err
			}
			q.CullFace = &dir
		}
		if qd.AOFace != "" {
			dir, err := world.ParseDirection(qd.AOFace)
			if err != nil {
				return nil, err
			}
			q.AOFace = &dir
		}
		m.Quads = append(m.Quads, q)
	}
	return m, nil
}
