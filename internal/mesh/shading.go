package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/minecraft-renderer/internal/gamedata"
	"github.com/OCharnyshevich/minecraft-renderer/internal/world"
)

// MaxAO is the ambient occlusion value of an unoccluded corner.
const MaxAO = 3

// cell is one of the 27 voxels around (and including) the voxel being meshed.
type cell struct {
	Sample
	info  gamedata.BlockState
	known bool // info came from the registry
}

// cells holds a voxel's neighborhood, indexed by cellIndex.
type cells [27]cell

func cellIndex(dx, dy, dz int) int {
	return slot(dx+1, dy+1, dz+1)
}

const selfCell = 13

// solid reports whether c is a full opaque block for AO purposes.
func (c *cell) solid() bool {
	return c.Present && c.known && c.info.IsFullBlock() && !c.info.IsTransparent()
}

// occlusionMask returns a bit per Direction set when that face is hidden.
// A face is hidden by an opaque neighbor that culls the touching side, or
// by a transparent neighbor of the same block when self is transparent.
// Missing neighbors never hide a face.
func occlusionMask(self gamedata.BlockState, c *cells) uint8 {
	var mask uint8
	for _, d := range world.Directions {
		dx, dy, dz := d.Offset()
		n := &c[cellIndex(dx, dy, dz)]
		if !n.Present || !n.known {
			continue
		}
		if n.info.IsTransparent() {
			if self.IsTransparent() && n.info.Block() == self.Block() {
				mask |= d.Mask()
			}
			continue
		}
		if n.info.CullsSide(d.Opposite()) {
			mask |= d.Mask()
		}
	}
	return mask
}

// cornerAO returns the ambient occlusion of the vertex at voxel-local p on
// a face pointing along face. Two solid sides fully occlude the corner
// regardless of the diagonal.
func cornerAO(c *cells, face world.Direction, p mgl32.Vec3) uint8 {
	var off [3]int
	off[0], off[1], off[2] = face.Offset()

	normal := int(face.Axis())
	var tangents [2]int
	k := 0
	for axis := 0; axis < 3; axis++ {
		if axis != normal {
			tangents[k] = axis
			k++
		}
	}

	side1, side2, corner := off, off, off
	s1 := sign(p[tangents[0]])
	s2 := sign(p[tangents[1]])
	side1[tangents[0]] += s1
	side2[tangents[1]] += s2
	corner[tangents[0]] += s1
	corner[tangents[1]] += s2

	a := c[cellIndex(side1[0], side1[1], side1[2])].solid()
	b := c[cellIndex(side2[0], side2[1], side2[2])].solid()
	if a && b {
		return 0
	}
	occ := 0
	if a {
		occ++
	}
	if b {
		occ++
	}
	if c[cellIndex(corner[0], corner[1], corner[2])].solid() {
		occ++
	}
	return uint8(MaxAO - occ)
}

func sign(v float32) int {
	if v > 0.5 {
		return 1
	}
	return -1
}

// cornerLights holds the blended light at the eight voxel corners, indexed
// cx<<2 | cy<<1 | cz.
type cornerLights struct {
	block [8]float32
	sky   [8]float32
}

// blendCorners averages light at every voxel corner over the voxel itself
// and each lit neighbor touching that corner. A neighbor contributes to a
// channel only when its value there is non-zero, so dark neighbors don't
// pull the average down.
func blendCorners(c *cells) cornerLights {
	var out cornerLights
	self := &c[selfCell]
	for ci := 0; ci < 8; ci++ {
		sx := (ci>>2&1)*2 - 1
		sy := (ci>>1&1)*2 - 1
		sz := (ci&1)*2 - 1

		sumB, sumS := float32(self.Block), float32(self.Sky)
		nB, nS := float32(1), float32(1)
		for m := 1; m < 8; m++ {
			dx := (m >> 2 & 1) * sx
			dy := (m >> 1 & 1) * sy
			dz := (m & 1) * sz
			n := &c[cellIndex(dx, dy, dz)]
			if !n.Lit {
				continue
			}
			if n.Block > 0 {
				sumB += float32(n.Block)
				nB++
			}
			if n.Sky > 0 {
				sumS += float32(n.Sky)
				nS++
			}
		}
		out.block[ci] = sumB / nB
		out.sky[ci] = sumS / nS
	}
	return out
}

// trilinear interpolates eight corner values at voxel-local p. Corner i
// sits at (i>>2&1, i>>1&1, i&1).
func trilinear(v *[8]float32, p mgl32.Vec3) float32 {
	fx := clamp01(p[0])
	fy := clamp01(p[1])
	fz := clamp01(p[2])
	x0 := mgl32.Vec4{v[0], v[1], v[2], v[3]}
	x1 := mgl32.Vec4{v[4], v[5], v[6], v[7]}
	cx := x0.Add(x1.Sub(x0).Mul(fx))
	y0 := mgl32.Vec2{cx[0], cx[1]}
	y1 := mgl32.Vec2{cx[2], cx[3]}
	cy := y0.Add(y1.Sub(y0).Mul(fy))
	return cy[0] + (cy[1]-cy[0])*fz
}

// quantizeLight rounds an interpolated light value to a nibble.
func quantizeLight(v float32) uint8 {
	r := math32.Floor(v + 0.5)
	return uint8(math32.Max(0, math32.Min(15, r)))
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
