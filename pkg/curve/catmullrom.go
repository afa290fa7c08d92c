// Package curve samples smooth curves through control points.
package curve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/phyllo/pkg/math"
)

// ArcDivisions is the resolution of the arc-length table.
const ArcDivisions = 200

// Curve errors.
var (
	ErrTooFewPoints = errors.New("curve needs at least 2 control points")
	ErrNonFinite    = errors.New("non-finite control point")
)

// CatmullRom is a uniform Catmull-Rom spline. It passes through every
// control point and is C¹ continuous. The first and last points are
// duplicated to supply the missing neighbours at the ends.
type CatmullRom struct {
	points []math.Vec3
	arc    []float32 // cumulative length at t = i/ArcDivisions
}

// New builds a spline through points. The slice is copied.
func New(points []math.Vec3) (*CatmullRom, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: point %d", ErrNonFinite, i)
		}
	}

	c := &CatmullRom{points: append([]math.Vec3(nil), points...)}
	c.arc = c.arcTable()
	return c, nil
}

// Points returns a copy of the control points.
func (c *CatmullRom) Points() []math.Vec3 {
	return append([]math.Vec3(nil), c.points...)
}

// Sample returns the position and unit tangent at t. t is clamped to [0, 1].
// Where the derivative vanishes (coincident control points) the tangent is
// the zero vector.
func (c *CatmullRom) Sample(t float32) (pos, tangent math.Vec3) {
	seg, local := c.locate(t)
	p0, p1, p2, p3 := c.neighbours(seg)
	return interpolate(p0, p1, p2, p3, local), derivative(p0, p1, p2, p3, local).Normalize()
}

// Point returns the position at t.
func (c *CatmullRom) Point(t float32) math.Vec3 {
	p, _ := c.Sample(t)
	return p
}

// Frame returns the orientation frame at t. See math.FrameFromTangent for
// the reference-axis policy.
func (c *CatmullRom) Frame(t float32) math.Frame {
	p, tan := c.Sample(t)
	return math.FrameFromTangent(p, tan)
}

// Length returns the approximate arc length of the whole curve.
func (c *CatmullRom) Length() float32 {
	return c.arc[len(c.arc)-1]
}

// TAtFraction maps u, a fraction of the total arc length, to the curve
// parameter reaching that distance. u is clamped to [0, 1].
func (c *CatmullRom) TAtFraction(u float32) float32 {
	u = math.Clamp(u, 0, 1)
	total := c.Length()
	if total == 0 {
		return u
	}
	target := u * total

	i := sort.Search(len(c.arc), func(i int) bool { return c.arc[i] >= target })
	switch {
	case i == 0:
		return 0
	case i >= len(c.arc):
		return 1
	}

	lo, hi := c.arc[i-1], c.arc[i]
	frac := float32(0)
	if hi > lo {
		frac = (target - lo) / (hi - lo)
	}
	return (float32(i-1) + frac) / ArcDivisions
}

func (c *CatmullRom) arcTable() []float32 {
	arc := make([]float32, ArcDivisions+1)
	prev := c.Point(0)
	for i := 1; i <= ArcDivisions; i++ {
		p := c.Point(float32(i) / ArcDivisions)
		arc[i] = arc[i-1] + p.Distance(prev)
		prev = p
	}
	return arc
}

// locate maps t to a segment index and a local parameter in [0, 1].
func (c *CatmullRom) locate(t float32) (int, float32) {
	segments := len(c.points) - 1
	x := math.Clamp(t, 0, 1) * float32(segments)
	seg := int(x)
	if seg >= segments {
		seg = segments - 1
	}
	return seg, x - float32(seg)
}

func (c *CatmullRom) neighbours(seg int) (p0, p1, p2, p3 math.Vec3) {
	last := len(c.points) - 1
	at := func(i int) math.Vec3 {
		if i < 0 {
			i = 0
		}
		if i > last {
			i = last
		}
		return c.points[i]
	}
	return at(seg - 1), at(seg), at(seg + 1), at(seg + 2)
}

// interpolate evaluates 0.5·(2p1 + (p2−p0)t + (2p0−5p1+4p2−p3)t² + (3p1−p0−3p2+p3)t³).
func interpolate(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	t3 := t2 * t
	v := p1.Scale(2).
		Add(p2.Sub(p0).Scale(t)).
		Add(p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(t2)).
		Add(p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(t3))
	return v.Scale(0.5)
}

func derivative(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	v := p2.Sub(p0).
		Add(p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(2 * t)).
		Add(p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(3 * t2))
	return v.Scale(0.5)
}
