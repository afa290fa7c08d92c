package math

// parallelEpsilon is how close |tangent·reference| may get to 1 before the
// fallback reference axis is used.
const parallelEpsilon = 1e-4

// Frame is an orthonormal right-handed basis placed at Origin.
// Local X maps to Binormal, local Y to Tangent and local Z to Normal.
type Frame struct {
	Origin   Vec3
	Binormal Vec3
	Tangent  Vec3
	Normal   Vec3
}

// FrameFromTangent builds a frame around tangent using +Z as the reference
// axis, or +X when the tangent is (nearly) parallel to +Z. A zero tangent
// is treated as +Y.
func FrameFromTangent(origin, tangent Vec3) Frame {
	t := tangent.Normalize()
	if t == (Vec3{}) {
		t = UnitY
	}

	ref := UnitZ
	if d := t.Dot(ref); d > 1-parallelEpsilon || d < -(1-parallelEpsilon) {
		ref = UnitX
	}

	n := ref.Sub(t.Scale(t.Dot(ref))).Normalize()
	b := t.Cross(n)

	return Frame{Origin: origin, Binormal: b, Tangent: t, Normal: n}
}

// Matrix returns the local-to-world transform of the frame.
func (f Frame) Matrix() Mat4 {
	return FromBasis(f.Binormal, f.Tangent, f.Normal, f.Origin)
}

// Offset returns the point at (x, y) in the frame's Binormal/Normal plane.
func (f Frame) Offset(x, y float32) Vec3 {
	return f.Origin.Add(f.Binormal.Scale(x)).Add(f.Normal.Scale(y))
}
