package mesh

import "github.com/Faultbox/phyllo/pkg/math"

// VertexNormals returns one normal per buffer vertex, averaging the
// area-weighted normals of the faces that use it. Vertices that no face
// references get +Y.
func (b *Buffer) VertexNormals() []math.Vec3 {
	normals := make([]math.Vec3, b.VertexCount())
	for i := 0; i+2 < len(b.Indices); i += 3 {
		ia, ib, ic := int(b.Indices[i]), int(b.Indices[i+1]), int(b.Indices[i+2])
		pa, pb, pc := b.Position(ia), b.Position(ib), b.Position(ic)

		// Unnormalized cross product weights by face area
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[ia] = normals[ia].Add(n)
		normals[ib] = normals[ib].Add(n)
		normals[ic] = normals[ic].Add(n)
	}
	for i, n := range normals {
		if n = n.Normalize(); n == (math.Vec3{}) {
			n = math.UnitY
		}
		normals[i] = n
	}
	return normals
}

// FaceUVs returns a planar projection for every triangle of the buffer.
func (b *Buffer) FaceUVs() []FaceUV {
	uvs := make([]FaceUV, 0, b.FaceCount())
	for i := 0; i+2 < len(b.Indices); i += 3 {
		uvs = append(uvs, PlanarUV(
			b.Position(int(b.Indices[i])),
			b.Position(int(b.Indices[i+1])),
			b.Position(int(b.Indices[i+2])),
		))
	}
	return uvs
}
