package mesh

import (
	"fmt"

	"github.com/Faultbox/phyllo/pkg/math"
)

// Group is a contiguous range of the index buffer drawn with one material.
type Group struct {
	Slot       int // Material slot bound by the renderer
	StartIndex int // First index in Buffer.Indices
	IndexCount int // Number of indices (three per triangle)
}

// End returns the index one past the group's last index.
func (g Group) End() int {
	return g.StartIndex + g.IndexCount
}

// Buffer is a merged mesh ready for upload or export: flat positions and
// colors (three floats per vertex), a flat index array and material groups.
type Buffer struct {
	Vertices []float32
	Colors   []float32
	Indices  []uint32
	Groups   []Group
}

// VertexCount returns the number of vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices) / 3
}

// FaceCount returns the number of triangles.
func (b *Buffer) FaceCount() int {
	return len(b.Indices) / 3
}

// Position returns vertex i.
func (b *Buffer) Position(i int) math.Vec3 {
	return math.Vec3{X: b.Vertices[3*i], Y: b.Vertices[3*i+1], Z: b.Vertices[3*i+2]}
}

// Color returns the color of vertex i.
func (b *Buffer) Color(i int) Color {
	return Color{R: b.Colors[3*i], G: b.Colors[3*i+1], B: b.Colors[3*i+2]}
}

// Bounds returns the bounding box of all vertices.
func (b *Buffer) Bounds() Bounds {
	bounds := EmptyBounds()
	for i := 0; i < b.VertexCount(); i++ {
		bounds.Extend(b.Position(i))
	}
	return bounds
}

// Validate checks the buffer invariants: parallel color array, indices in
// range, and groups that partition the index array in order.
func (b *Buffer) Validate() error {
	if len(b.Vertices)%3 != 0 || len(b.Colors) != len(b.Vertices) || len(b.Indices)%3 != 0 {
		return fmt.Errorf("malformed buffer: %d position floats, %d color floats, %d indices",
			len(b.Vertices), len(b.Colors), len(b.Indices))
	}
	n := uint32(b.VertexCount())
	for i, idx := range b.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d is %d, vertex count %d", ErrIndexOutOfRange, i, idx, n)
		}
	}
	next := 0
	for i, g := range b.Groups {
		if g.StartIndex != next || g.IndexCount <= 0 {
			return fmt.Errorf("%w: group %d starts at %d with %d indices, expected start %d",
				ErrInvalidGroups, i, g.StartIndex, g.IndexCount, next)
		}
		next = g.End()
	}
	if next != len(b.Indices) {
		return fmt.Errorf("%w: groups cover %d of %d indices", ErrInvalidGroups, next, len(b.Indices))
	}
	return nil
}

// Builder accumulates transformed meshes into a Buffer. It is append-only
// and order-preserving; a Builder must not be shared between goroutines.
type Builder struct {
	buf      Buffer
	finished bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Reserve grows the internal arrays for the given number of additional
// vertices and triangles.
func (b *Builder) Reserve(vertices, faces int) {
	b.buf.Vertices = grow(b.buf.Vertices, 3*vertices)
	b.buf.Colors = grow(b.buf.Colors, 3*vertices)
	b.buf.Indices = grow(b.buf.Indices, 3*faces)
}

// VertexCount returns the number of vertices appended so far.
func (b *Builder) VertexCount() int {
	return b.buf.VertexCount()
}

// Append transforms m by transform, rebases its faces onto the vertices
// already in the builder and paints every new vertex with color. Faces are
// recorded under slot: consecutive appends to the same slot extend one group,
// a different slot opens a new group.
func (b *Builder) Append(m *Mesh, transform math.Mat4, color Color, slot int) error {
	if b.finished {
		return ErrFinished
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if !transform.IsFinite() {
		return fmt.Errorf("%w: transform", ErrNonFinite)
	}

	offset := uint32(b.buf.VertexCount())
	for _, v := range m.Vertices {
		p := transform.TransformPoint(v)
		b.buf.Vertices = append(b.buf.Vertices, p.X, p.Y, p.Z)
		b.buf.Colors = append(b.buf.Colors, color.R, color.G, color.B)
	}

	if len(m.Faces) == 0 {
		return nil
	}
	start := len(b.buf.Indices)
	for _, f := range m.Faces {
		b.buf.Indices = append(b.buf.Indices, f[0]+offset, f[1]+offset, f[2]+offset)
	}
	count := len(b.buf.Indices) - start

	if n := len(b.buf.Groups); n > 0 && b.buf.Groups[n-1].Slot == slot {
		b.buf.Groups[n-1].IndexCount += count
	} else {
		b.buf.Groups = append(b.buf.Groups, Group{Slot: slot, StartIndex: start, IndexCount: count})
	}
	return nil
}

// Finish freezes the builder and returns the merged buffer. Later appends
// fail with ErrFinished.
func (b *Builder) Finish() *Buffer {
	b.finished = true
	out := b.buf
	return &out
}

func grow[T any](s []T, n int) []T {
	if n <= 0 || cap(s)-len(s) >= n {
		return s
	}
	out := make([]T, len(s), len(s)+n)
	copy(out, s)
	return out
}
