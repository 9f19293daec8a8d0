package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// faceCorners lists the unit-cube corners of each face counter-clockwise
// as seen from outside. 0 selects the box minimum, 1 the maximum.
var faceCorners = [6][4][3]uint8{
	world.Down:  {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	world.Up:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	world.North: {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	world.South: {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	world.West:  {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	world.East:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
}

// boxTextureDefaults lets a single "all" texture, or top/bottom/side,
// cover every face of a box.
var boxTextureDefaults = map[string]string{
	"down":   "#bottom",
	"up":     "#top",
	"north":  "#side",
	"south":  "#side",
	"west":   "#side",
	"east":   "#side",
	"bottom": "#all",
	"top":    "#all",
	"side":   "#all",
}

// Box builds an axis-aligned box from `from` to `to` (voxel-local, in [0,1]).
// Each face uses texture "#<direction>"; faces lying on the voxel boundary
// carry a cullface.
func Box(from, to mgl32.Vec3, textures map[string]string, tint int) *BakedModel {
	m := &BakedModel{
		AmbientOcclusion: true,
		Textures:         withDefaults(textures, boxTextureDefaults),
	}
	for _, d := range world.Directions {
		var q Quad
		for i, c := range faceCorners[d] {
			for axis := 0; axis < 3; axis++ {
				if c[axis] == 0 {
					q.Positions[i][axis] = from[axis]
				} else {
					q.Positions[i][axis] = to[axis]
				}
			}
			q.UVs[i] = faceUV(d, q.Positions[i])
		}
		dx, dy, dz := d.Offset()
		q.Normal = mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
		q.Texture = "#" + d.String()
		q.TintIndex = tint
		face := d
		q.AOFace = &face
		if onBoundary(d, from, to) {
			q.CullFace = &face
		}
		m.Quads = append(m.Quads, q)
	}
	return m
}

// Cube builds a full unit cube.
func Cube(textures map[string]string, tint int) *BakedModel {
	return Box(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}, textures, tint)
}

// Cross builds the two-plane sprite shape used by plants. Each plane is
// emitted for both sides and ambient occlusion is off.
func Cross(textures map[string]string, tint int) *BakedModel {
	planes := [4][4]mgl32.Vec3{
		{{0, 0, 0}, {1, 0, 1}, {1, 1, 1}, {0, 1, 0}},
		{{0, 0, 0}, {0, 1, 0}, {1, 1, 1}, {1, 0, 1}},
		{{1, 0, 0}, {0, 0, 1}, {0, 1, 1}, {1, 1, 0}},
		{{1, 0, 0}, {1, 1, 0}, {0, 1, 1}, {0, 0, 1}},
	}
	m := &BakedModel{Textures: withDefaults(textures, nil)}
	for _, p := range planes {
		q := Quad{Positions: p, Texture: "#cross", TintIndex: tint}
		for i, pos := range p {
			// Horizontal distance from the plane start gives u.
			u := math32.Abs(pos[0]-p[0][0]) + math32.Abs(pos[2]-p[0][2])
			q.UVs[i] = mgl32.Vec2{u / 2, 1 - pos[1]}
		}
		q.Normal = FaceNormal(p)
		m.Quads = append(m.Quads, q)
	}
	return m
}

// FaceNormal returns the unit normal of a counter-clockwise quad, or the
// zero vector when the first three corners are collinear.
func FaceNormal(p [4]mgl32.Vec3) mgl32.Vec3 {
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// NearestDirection returns the face direction closest to normal n.
func NearestDirection(n mgl32.Vec3) world.Direction {
	ax, ay, az := math32.Abs(n[0]), math32.Abs(n[1]), math32.Abs(n[2])
	switch {
	case ay >= ax && ay >= az:
		if n[1] < 0 {
			return world.Down
		}
		return world.Up
	case az >= ax:
		if n[2] < 0 {
			return world.North
		}
		return world.South
	default:
		if n[0] < 0 {
			return world.West
		}
		return world.East
	}
}

func faceUV(d world.Direction, p mgl32.Vec3) mgl32.Vec2 {
	switch d.Axis() {
	case world.AxisY:
		return mgl32.Vec2{p[0], p[2]}
	case world.AxisZ:
		return mgl32.Vec2{p[0], 1 - p[1]}
	default:
		return mgl32.Vec2{p[2], 1 - p[1]}
	}
}

func onBoundary(d world.Direction, from, to mgl32.Vec3) bool {
	axis := int(d.Axis())
	if d.Positive() {
		return to[axis] >= 1
	}
	return from[axis] <= 0
}

func withDefaults(textures, defaults map[string]string) map[string]string {
	out := make(map[string]string, len(textures)+len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range textures {
		out[k] = v
	}
	return out
}
