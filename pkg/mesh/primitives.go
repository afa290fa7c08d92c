package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/phyllo/pkg/math"
)

// Box returns an axis-aligned box of the given size centred on the origin.
// Each side has its own four vertices so faces stay flat-shaded.
func Box(width, height, depth float32) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2
	m := &Mesh{}

	// Each side as four corners, counter-clockwise seen from outside.
	sides := [6][4]math.Vec3{
		{{X: hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: hz}},     // +X
		{{X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: hz}, {X: -hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: -hz}}, // -X
		{{X: -hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}},     // +Y
		{{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: hz}, {X: -hx, Y: -hy, Z: hz}}, // -Y
		{{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz}},     // +Z
		{{X: hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}}, // -Z
	}
	for _, s := range sides {
		a := m.AddVertex(s[0])
		b := m.AddVertex(s[1])
		c := m.AddVertex(s[2])
		d := m.AddVertex(s[3])
		m.AddQuad(a, b, c, d)
	}
	return m
}

// Prism returns a closed prism with a regular polygonal cross-section of the
// given circumradius, extruded along +Y from y=0 to y=height.
// sides below 3 are raised to 3.
func Prism(sides int, radius, height float32) *Mesh {
	if sides < 3 {
		sides = 3
	}
	m := &Mesh{}

	ring := make([]math.Vec3, sides)
	for i := range ring {
		s, c := math32.Sincos(2 * math32.Pi * float32(i) / float32(sides))
		ring[i] = math.Vec3{X: radius * c, Z: -radius * s}
	}

	// Walls
	for i := 0; i < sides; i++ {
		p0 := ring[i]
		p1 := ring[(i+1)%sides]
		a := m.AddVertex(p0)
		b := m.AddVertex(p1)
		c := m.AddVertex(math.Vec3{X: p1.X, Y: height, Z: p1.Z})
		d := m.AddVertex(math.Vec3{X: p0.X, Y: height, Z: p0.Z})
		m.AddQuad(a, b, c, d)
	}

	// Caps as triangle fans around their centres.
	bottom := m.AddVertex(math.Vec3{})
	top := m.AddVertex(math.Vec3{Y: height})
	base := uint32(len(m.Vertices))
	for _, p := range ring {
		m.AddVertex(p)
	}
	for _, p := range ring {
		m.AddVertex(math.Vec3{X: p.X, Y: height, Z: p.Z})
	}
	n := uint32(sides)
	for i := uint32(0); i < n; i++ {
		j := (i + 1) % n
		m.AddFace(bottom, base+j, base+i)
		m.AddFace(top, base+n+i, base+n+j)
	}
	return m
}
