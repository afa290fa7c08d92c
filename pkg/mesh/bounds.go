package mesh

import "github.com/Faultbox/phyllo/pkg/math"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns bounds that any point will extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows the bounds to contain p.
func (b *Bounds) Extend(p math.Vec3) {
	if p.X < b.Min[0] {
		b.Min[0] = p.X
	}
	if p.Y < b.Min[1] {
		b.Min[1] = p.Y
	}
	if p.Z < b.Min[2] {
		b.Min[2] = p.Z
	}
	if p.X > b.Max[0] {
		b.Max[0] = p.X
	}
	if p.Y > b.Max[1] {
		b.Max[1] = p.Y
	}
	if p.Z > b.Max[2] {
		b.Max[2] = p.Z
	}
}

// Size returns the extent along each axis.
func (b Bounds) Size() math.Vec3 {
	if b.Empty() {
		return math.Vec3{}
	}
	return math.Vec3{X: b.Max[0] - b.Min[0], Y: b.Max[1] - b.Min[1], Z: b.Max[2] - b.Min[2]}
}
