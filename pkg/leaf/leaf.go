// Package leaf builds a parametric leaf blade mesh.
//
// The blade lies in a local frame with the spine along +Y, the width along X
// and the face normal along +Z. A flat petiole of constant width runs from
// the origin to StemLength; the blade continues from there to
// StemLength+Length, tapering to a point. The lateral half width is always
// BladeWidth·(1−u²); Inclination and CurvatureBorder only move vertices
// along Z.
package leaf

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/phyllo/pkg/math"
	"github.com/Faultbox/phyllo/pkg/mesh"
)

// DefaultSectionVertices is used when Params.SectionVertices is 0.
const DefaultSectionVertices = 2

// Validation errors.
var (
	ErrInvalidDensity     = errors.New("density must be at least 2")
	ErrNegativeLength     = errors.New("negative length")
	ErrInvalidInclination = errors.New("inclination must be in [0, 1]")
	ErrInvalidSection     = errors.New("section vertices must be 0 or at least 2")
	ErrNonFinite          = errors.New("non-finite leaf parameter")
)

// Params describes the leaf shape.
type Params struct {
	Length          float32 `yaml:"length"`           // Blade length
	StemLength      float32 `yaml:"stem_length"`      // Petiole length
	StemWidth       float32 `yaml:"stem_width"`       // Petiole full width
	BladeWidth      float32 `yaml:"blade_width"`      // Half width at the blade base
	BladeLift       float32 `yaml:"blade_lift"`       // Arch height of the spine
	Density         int     `yaml:"density"`          // Cross-sections along the blade
	Curvature       float32 `yaml:"curvature"`        // Quadratic droop of the spine
	CurvatureBorder float32 `yaml:"curvature_border"` // Quadratic curl of the edges
	Inclination     float32 `yaml:"inclination"`      // 1 = flat, 0 = edges raised by the half width
	SectionVertices int     `yaml:"section_vertices"` // Vertices per cross-section, 0 = 2
}

// Validate checks p before any geometry is built.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float32
	}{
		{"length", p.Length},
		{"stem_length", p.StemLength},
		{"stem_width", p.StemWidth},
		{"blade_width", p.BladeWidth},
		{"blade_lift", p.BladeLift},
		{"curvature", p.Curvature},
		{"curvature_border", p.CurvatureBorder},
		{"inclination", p.Inclination},
	}
	for _, f := range fields {
		if !math.IsFinite(f.v) {
			return fmt.Errorf("%w: %s=%v", ErrNonFinite, f.name, f.v)
		}
	}
	if p.Density < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidDensity, p.Density)
	}
	switch {
	case p.Length < 0:
		return fmt.Errorf("%w: length=%v", ErrNegativeLength, p.Length)
	case p.StemLength < 0:
		return fmt.Errorf("%w: stem_length=%v", ErrNegativeLength, p.StemLength)
	case p.StemWidth < 0:
		return fmt.Errorf("%w: stem_width=%v", ErrNegativeLength, p.StemWidth)
	case p.BladeWidth < 0:
		return fmt.Errorf("%w: blade_width=%v", ErrNegativeLength, p.BladeWidth)
	}
	if p.Inclination < 0 || p.Inclination > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidInclination, p.Inclination)
	}
	if p.SectionVertices < 0 || p.SectionVertices == 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSection, p.SectionVertices)
	}
	return nil
}

// Columns returns the number of vertices per cross-section.
func (p Params) Columns() int {
	if p.SectionVertices == 0 {
		return DefaultSectionVertices
	}
	return p.SectionVertices
}

// FaceCount returns the number of triangles Build produces for p.
func (p Params) FaceCount() int {
	c := p.Columns()
	n := 0
	if p.StemLength > 0 {
		n += 2 * (c - 1)
	}
	if p.Length > 0 {
		n += 2 * (c - 1) * (p.Density - 1)
	}
	return n
}

// Build generates the leaf mesh. The result carries no colour; call
// (*mesh.Mesh).AssignUVs when texture coordinates are needed.
func Build(p Params) (*mesh.Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c := p.Columns()
	m := &mesh.Mesh{}

	if p.StemLength > 0 {
		half := p.StemWidth / 2
		bottom := section(m, c, func(side float32) math.Vec3 {
			return math.Vec3{X: side * half}
		})
		top := section(m, c, func(side float32) math.Vec3 {
			return math.Vec3{X: side * half, Y: p.StemLength}
		})
		strip(m, bottom, top, c)
	}

	if p.Length <= 0 {
		return m, nil
	}

	// Folding needs a spine vertex between the edges; a two-vertex section
	// stays flat.
	var fold float32
	if c > 2 {
		fold = math32.Sqrt(1 - p.Inclination*p.Inclination)
	}
	prev := uint32(0)
	for k := 0; k < p.Density; k++ {
		u := float32(k) / float32(p.Density-1)
		s := u * p.Length
		y := p.StemLength + s
		w := p.BladeWidth * (1 - u*u)
		spine := p.BladeLift*math32.Sin(math32.Pi*u) - p.Curvature*s*s
		rise := w*fold + p.CurvatureBorder*s*s

		cur := section(m, c, func(side float32) math.Vec3 {
			return math.Vec3{
				X: side * w,
				Y: y,
				Z: spine + math32.Abs(side)*rise,
			}
		})
		if k > 0 {
			strip(m, prev, cur, c)
		}
		prev = cur
	}
	return m, nil
}

// section appends c vertices with side running from -1 to 1 and returns the
// index of the first one.
func section(m *mesh.Mesh, c int, at func(side float32) math.Vec3) uint32 {
	first := uint32(m.VertexCount())
	for j := 0; j < c; j++ {
		side := 2*float32(j)/float32(c-1) - 1
		m.AddVertex(at(side))
	}
	return first
}

// strip joins two consecutive sections with quads wound so the normal faces +Z.
func strip(m *mesh.Mesh, lower, upper uint32, c int) {
	for j := uint32(0); j < uint32(c-1); j++ {
		m.AddQuad(lower+j, lower+j+1, upper+j+1, upper+j)
	}
}
