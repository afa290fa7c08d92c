package mesh

import (
	"sort"

	"github.com/Faultbox/phyllo/pkg/math"
)

// FaceUV holds the texture coordinates of a face's three corners.
type FaceUV [3]math.Vec2

// FaceNormal returns the unit normal of triangle (a, b, c) following its
// counter-clockwise winding. Degenerate triangles return the zero vector.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// PlanarUV projects a triangle onto the two axes along which its normal is
// smallest. This is a cheap planar projection per face, not an unwrap:
// neighbouring faces with different dominant axes get unrelated UVs.
func PlanarUV(a, b, c math.Vec3) FaceUV {
	n := FaceNormal(a, b, c).Abs()
	axes := []int{0, 1, 2}
	sort.SliceStable(axes, func(i, j int) bool {
		return n.Component(axes[i]) < n.Component(axes[j])
	})
	u, v := axes[0], axes[1]
	return FaceUV{
		{X: a.Component(u), Y: a.Component(v)},
		{X: b.Component(u), Y: b.Component(v)},
		{X: c.Component(u), Y: c.Component(v)},
	}
}

// AssignUVs fills m.UVs with one planar projection per face.
func (m *Mesh) AssignUVs() {
	m.UVs = make([]FaceUV, len(m.Faces))
	for i, f := range m.Faces {
		m.UVs[i] = PlanarUV(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
	}
}
