// Package palm generates a palm tree: a trunk of prism segments and a crown
// of leaves spiralling around a curve.
package palm

import (
	"errors"
	"fmt"

	"github.com/Faultbox/phyllo/pkg/curve"
	"github.com/Faultbox/phyllo/pkg/leaf"
	"github.com/Faultbox/phyllo/pkg/math"
	"github.com/Faultbox/phyllo/pkg/mesh"
	"github.com/Faultbox/phyllo/pkg/phyllotaxis"
)

// Material slots in the generated buffer.
const (
	Foliage = 0
	Trunk   = 1
)

// DefaultTrunkSides is used when Params.TrunkSides is 0.
const DefaultTrunkSides = 6

// Validation errors.
var (
	ErrNilCurve     = errors.New("nil trunk curve")
	ErrInvalidNum   = errors.New("invalid instance count")
	ErrInvalidStart = errors.New("invalid foliage start")
	ErrInvalidTrunk = errors.New("invalid trunk parameter")
	ErrNonFinite    = errors.New("non-finite palm parameter")
)

// Params configures the palm.
type Params struct {
	Angle             float32    // Divergence angle in degrees
	Spread            float32    // Radial offset of leaves from the trunk
	Num               int        // Total instances, trunk and foliage
	Growth            float32    // 0 = uniform t, 1 = uniform arc length
	FoliageStartAt    int        // First instance index that is a leaf
	TrunkRegular      bool       // Constant trunk radius when true
	AngleOpen         float32    // Leaf opening angle at the crown tip (degrees)
	StartingAngleOpen float32    // Leaf opening angle at the crown base (degrees)
	TrunkRadius       float32    // Radius of the first trunk segment
	TrunkTaper        float32    // Radius factor reached at the last segment when not regular
	TrunkSides        int        // Prism sides, 0 = DefaultTrunkSides
	FoliageColor      mesh.Color // Colour of the first leaf
	FoliageTipColor   mesh.Color // Colour of the last leaf
	TrunkColor        mesh.Color
}

// Validate reports the first invalid field.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float32
	}{
		{"angle", p.Angle},
		{"spread", p.Spread},
		{"growth", p.Growth},
		{"angle_open", p.AngleOpen},
		{"starting_angle_open", p.StartingAngleOpen},
		{"trunk_radius", p.TrunkRadius},
		{"trunk_taper", p.TrunkTaper},
	}
	for _, f := range fields {
		if !math.IsFinite(f.v) {
			return fmt.Errorf("%w: %s=%v", ErrNonFinite, f.name, f.v)
		}
	}
	switch {
	case p.Num < 0:
		return fmt.Errorf("%w: %d", ErrInvalidNum, p.Num)
	case p.FoliageStartAt < 0:
		return fmt.Errorf("%w: %d", ErrInvalidStart, p.FoliageStartAt)
	case p.Spread < 0:
		return fmt.Errorf("%w: spread=%v", phyllotaxis.ErrInvalidSpread, p.Spread)
	case p.TrunkRadius < 0:
		return fmt.Errorf("%w: radius=%v", ErrInvalidTrunk, p.TrunkRadius)
	case p.TrunkTaper < 0:
		return fmt.Errorf("%w: taper=%v", ErrInvalidTrunk, p.TrunkTaper)
	case p.TrunkSides < 0:
		return fmt.Errorf("%w: sides=%d", ErrInvalidTrunk, p.TrunkSides)
	}
	return nil
}

// TrunkCount returns how many instances are trunk segments.
func (p Params) TrunkCount() int {
	return min(max(p.FoliageStartAt, 0), max(p.Num, 0))
}

// FoliageCount returns how many instances are leaves.
func (p Params) FoliageCount() int {
	return max(p.Num, 0) - p.TrunkCount()
}

func (p Params) sides() int {
	if p.TrunkSides == 0 {
		return DefaultTrunkSides
	}
	return p.TrunkSides
}

// Result is a generated palm with its per-material vertex counters.
// Vertices [0, FoliageVertices) belong to the foliage, the rest to the trunk.
type Result struct {
	Buffer          *mesh.Buffer
	FoliageVertices int
	TotalVertices   int
}

// Generate builds the palm buffer. See Build.
func Generate(lp leaf.Params, pp Params, c *curve.CatmullRom) (*mesh.Buffer, error) {
	res, err := Build(lp, pp, c)
	if err != nil {
		return nil, err
	}
	return res.Buffer, nil
}

// Build validates every input and then instances Num elements along c.
// Instance i sits at curve parameter t_i; indices below FoliageStartAt are
// trunk segments and the rest are leaves. All leaves are appended before the
// trunk so the buffer holds at most two groups, Foliage then Trunk.
func Build(lp leaf.Params, pp Params, c *curve.CatmullRom) (*Result, error) {
	if c == nil {
		return nil, ErrNilCurve
	}
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	if err := lp.Validate(); err != nil {
		return nil, fmt.Errorf("leaf: %w", err)
	}

	trunkN, foliageN := pp.TrunkCount(), pp.FoliageCount()

	var leafMesh *mesh.Mesh
	if foliageN > 0 {
		var err error
		if leafMesh, err = leaf.Build(lp); err != nil {
			return nil, fmt.Errorf("leaf: %w", err)
		}
	}

	sides := pp.sides()
	// A prism has 6·sides+2 vertices and 4·sides triangles.
	vertices, faces := trunkN*(6*max(sides, 3)+2), trunkN*4*max(sides, 3)
	if leafMesh != nil {
		vertices += foliageN * leafMesh.VertexCount()
		faces += foliageN * leafMesh.FaceCount()
	}
	b := mesh.NewBuilder()
	b.Reserve(vertices, faces)

	for i := trunkN; i < pp.Num; i++ {
		frac := crownFraction(i, trunkN, pp.Num)
		if err := b.Append(leafMesh, leafTransform(c, pp, i, frac), pp.FoliageColor.Lerp(pp.FoliageTipColor, frac), Foliage); err != nil {
			return nil, err
		}
	}
	foliageVertices := b.VertexCount()

	for i := 0; i < trunkN; i++ {
		segment, transform := trunkSegment(c, pp, i, trunkN, sides)
		if err := b.Append(segment, transform, pp.TrunkColor, Trunk); err != nil {
			return nil, err
		}
	}

	buf := b.Finish()
	return &Result{
		Buffer:          buf,
		FoliageVertices: foliageVertices,
		TotalVertices:   buf.VertexCount(),
	}, nil
}

// SampleT returns the curve parameter of instance i. Growth blends the
// uniform parameter i/num toward the arc-length-uniform one.
func SampleT(c *curve.CatmullRom, pp Params, i int) float32 {
	if pp.Num <= 0 {
		return 0
	}
	f := float32(i) / float32(pp.Num)
	g := math.Clamp(pp.Growth, 0, 1)
	if g == 0 {
		return f
	}
	return math.Lerp(f, c.TAtFraction(f), g)
}

// crownFraction is 0 for the first leaf and 1 for the last.
func crownFraction(i, start, num int) float32 {
	span := num - 1 - start
	if span <= 0 {
		return 0
	}
	return float32(i-start) / float32(span)
}

// leafTransform places leaf i: offset from the curve by the Vogel spiral in
// the frame's normal plane, spun by i·angle around the tangent and tilted
// away from it by the opening angle.
func leafTransform(c *curve.CatmullRom, pp Params, i int, frac float32) math.Mat4 {
	frame := c.Frame(SampleT(c, pp, i))
	off := phyllotaxis.SimpleAt(i, phyllotaxis.Params{Angle: pp.Angle, Spread: pp.Spread})
	frame.Origin = frame.Offset(off.X, off.Y)

	spiral := math.QuatFromAxisAngle(math.UnitY, float32(i)*math.Radians(pp.Angle))
	open := math.QuatFromAxisAngle(math.UnitX, -math.Radians(math.Lerp(pp.StartingAngleOpen, pp.AngleOpen, frac)))
	return frame.Matrix().Mul(spiral.Mul(open).ToMat4())
}

// trunkSegment returns the prism for trunk instance i and its transform.
// The segment spans from sample i to sample i+1.
func trunkSegment(c *curve.CatmullRom, pp Params, i, trunkN, sides int) (*mesh.Mesh, math.Mat4) {
	frame := c.Frame(SampleT(c, pp, i))
	next := c.Point(SampleT(c, pp, i+1))
	height := frame.Origin.Distance(next)

	radius := pp.TrunkRadius
	if !pp.TrunkRegular && trunkN > 1 {
		radius *= math.Lerp(1, pp.TrunkTaper, float32(i)/float32(trunkN-1))
	}

	spin := math.RotateY(float32(i) * math.Radians(pp.Angle))
	return mesh.Prism(sides, radius, height), frame.Matrix().Mul(spin)
}

// DefaultCurvePoints is the trunk curve used when none is configured,
// ordered from the root up.
func DefaultCurvePoints() []math.Vec3 {
	return []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 60, Z: 0},
		{X: -40, Y: 100, Z: 0},
		{X: -40, Y: 150, Z: 0},
	}
}
