// Package flower arranges copies of one shape on a phyllotaxis spiral.
package flower

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/phyllo/pkg/leaf"
	"github.com/Faultbox/phyllo/pkg/math"
	"github.com/Faultbox/phyllo/pkg/mesh"
	"github.com/Faultbox/phyllo/pkg/phyllotaxis"
)

// Slot is the material slot of every instance.
const Slot = 0

// minScale replaces a zero growth ratio so the first instance is not
// collapsed to a plane.
const minScale = 0.001

// ErrUnknownShape is returned for an unrecognised shape name.
var ErrUnknownShape = errors.New("unknown flower shape")

// Shape selects the instanced geometry.
type Shape int

const (
	ShapeLeaf Shape = iota
	ShapeBox
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeLeaf:
		return "leaf"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape parses "leaf" or "box".
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "leaf":
		return ShapeLeaf, nil
	case "box":
		return ShapeBox, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Params configures the arrangement.
type Params struct {
	Strategy  phyllotaxis.Strategy
	Placement phyllotaxis.Params
	RotateZ   float32 // Base roll in degrees
	RotateY   float32 // Base yaw in degrees
	Shape     Shape
	BoxSize   float32 // Edge length when Shape is ShapeBox
	Color     mesh.Color
}

// Generate builds Placement.Count instances of the shape. Instance i sits at
// the strategy's position, is rolled by -(RotateZ + 100·i/n)° about Z, then
// yawed by -(RotateY + 200·i/n)° about Y, and stretched along Y by 8·i/n.
func Generate(lp leaf.Params, fp Params) (*mesh.Buffer, error) {
	if err := fp.Placement.Validate(); err != nil {
		return nil, err
	}
	if !math.IsFinite(fp.RotateZ) || !math.IsFinite(fp.RotateY) {
		return nil, fmt.Errorf("%w: rotation (%v, %v)", phyllotaxis.ErrInvalidParam, fp.RotateZ, fp.RotateY)
	}
	if !math.IsFinite(fp.BoxSize) || fp.BoxSize < 0 {
		return nil, fmt.Errorf("%w: box_size=%v", phyllotaxis.ErrInvalidParam, fp.BoxSize)
	}

	var shape *mesh.Mesh
	switch fp.Shape {
	case ShapeLeaf:
		m, err := leaf.Build(lp)
		if err != nil {
			return nil, fmt.Errorf("leaf: %w", err)
		}
		shape = m
	case ShapeBox:
		shape = mesh.Box(fp.BoxSize, fp.BoxSize, fp.BoxSize)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(fp.Shape))
	}

	n := fp.Placement.Count
	place := fp.Strategy.Func()

	b := mesh.NewBuilder()
	b.Reserve(n*shape.VertexCount(), n*shape.FaceCount())
	for i := 0; i < n; i++ {
		if err := b.Append(shape, Transform(place(i, fp.Placement), fp, i), fp.Color, Slot); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}

// Transform returns the instance matrix of element i placed at pos.
func Transform(pos math.Vec3, fp Params, i int) math.Mat4 {
	n := float32(max(fp.Placement.Count, 1))
	fi := float32(i)

	ratio := fi / n
	if ratio == 0 {
		ratio = minScale
	}
	roll := -math.Radians(fp.RotateZ + fi*100/n)
	yaw := -math.Radians(fp.RotateY + fi*200/n)

	return math.TranslateVec(pos).
		Mul(math.RotateZ(roll)).
		Mul(math.RotateY(yaw)).
		Mul(math.Scale(1, 8*ratio, 1))
}
