// Package mesh holds indexed triangle meshes and the append-only builder that
// merges many transformed meshes into one flat, multi-material buffer.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/phyllo/pkg/math"
)

// Mesh errors.
var (
	ErrIndexOutOfRange = errors.New("face index out of range")
	ErrNonFinite       = errors.New("non-finite value")
	ErrFinished        = errors.New("builder already finished")
	ErrInvalidGroups   = errors.New("material groups do not partition the index buffer")
	ErrInvalidColor    = errors.New("invalid color")
)

// Face is a triangle referencing three vertices of its mesh.
type Face [3]uint32

// Mesh is an indexed triangle mesh. Face indices are 0-based into Vertices.
type Mesh struct {
	Vertices []math.Vec3
	Faces    []Face
	UVs      []FaceUV // Optional, one entry per face (see AssignUVs)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// AddVertex appends v and returns its index.
func (m *Mesh) AddVertex(v math.Vec3) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

// AddFace appends the triangle (a, b, c).
func (m *Mesh) AddFace(a, b, c uint32) {
	m.Faces = append(m.Faces, Face{a, b, c})
}

// AddQuad appends the quad a-b-c-d (counter-clockwise) as two triangles.
func (m *Mesh) AddQuad(a, b, c, d uint32) {
	m.Faces = append(m.Faces, Face{a, b, c}, Face{a, c, d})
}

// Validate checks that every face index is a valid vertex index and that
// every vertex is finite.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx >= n {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, n)
			}
		}
	}
	for i, v := range m.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d is %v", ErrNonFinite, i, v)
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	for _, v := range m.Vertices {
		b.Extend(v)
	}
	return b
}
