package palm

import (
	stdmath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/phyllo/pkg/curve"
	"github.com/Faultbox/phyllo/pkg/leaf"
	"github.com/Faultbox/phyllo/pkg/math"
	"github.com/Faultbox/phyllo/pkg/mesh"
)

// radius returns the largest distance from the Y axis among vertices [lo, hi).
func radius(buf *mesh.Buffer, lo, hi int) float32 {
	r := float32(0)
	for i := lo; i < hi; i++ {
		p := buf.Position(i)
		r = max(r, math.Vec2{X: p.X, Y: p.Z}.Length())
	}
	return r
}

func assertColor(t *testing.T, want, got mesh.Color) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1e-6)
	assert.InDelta(t, want.G, got.G, 1e-6)
	assert.InDelta(t, want.B, got.B, 1e-6)
}

func testLeaf() leaf.Params {
	return leaf.Params{
		Length:          50,
		StemLength:      20,
		StemWidth:       0.2,
		BladeWidth:      0.8,
		BladeLift:       1.5,
		Density:         11,
		Curvature:       0.04,
		CurvatureBorder: 0.005,
		Inclination:     0.9,
	}
}

func testParams() Params {
	return Params{
		Angle:             137.5,
		Spread:            0.1,
		Num:               120,
		Growth:            0.12,
		FoliageStartAt:    40,
		AngleOpen:         36.17438,
		StartingAngleOpen: 47,
		TrunkRadius:       3,
		TrunkTaper:        0.6,
		FoliageColor:      mesh.Color{R: 0.3, G: 0.63, B: 0.47},
		FoliageTipColor:   mesh.Color{R: 0.94, G: 1},
		TrunkColor:        mesh.Color{R: 0.5, G: 0.35, B: 0.2},
	}
}

func testCurve(t *testing.T) *curve.CatmullRom {
	t.Helper()
	c, err := curve.New(DefaultCurvePoints())
	require.NoError(t, err)
	return c
}

func TestGroupsPartitionIndices(t *testing.T) {
	res, err := Build(testLeaf(), testParams(), testCurve(t))
	require.NoError(t, err)
	buf := res.Buffer
	require.NoError(t, buf.Validate())

	require.Len(t, buf.Groups, 2)
	assert.Equal(t, Foliage, buf.Groups[0].Slot)
	assert.Equal(t, Trunk, buf.Groups[1].Slot)
	assert.Zero(t, buf.Groups[0].StartIndex)
	assert.Equal(t, buf.Groups[0].End(), buf.Groups[1].StartIndex)
	assert.Equal(t, len(buf.Indices), buf.Groups[1].End())
}

func TestVertexCounters(t *testing.T) {
	lp, pp := testLeaf(), testParams()
	res, err := Build(lp, pp, testCurve(t))
	require.NoError(t, err)

	leafMesh, err := leaf.Build(lp)
	require.NoError(t, err)
	sides := DefaultTrunkSides
	assert.Equal(t, 80*leafMesh.VertexCount(), res.FoliageVertices)
	assert.Equal(t, res.FoliageVertices+40*(6*sides+2), res.TotalVertices)
	assert.Equal(t, res.Buffer.VertexCount(), res.TotalVertices)

	// Foliage indices only reference foliage vertices and vice versa.
	buf := res.Buffer
	for _, idx := range buf.Indices[:buf.Groups[0].IndexCount] {
		assert.Less(t, int(idx), res.FoliageVertices)
	}
	for _, idx := range buf.Indices[buf.Groups[1].StartIndex:] {
		assert.GreaterOrEqual(t, int(idx), res.FoliageVertices)
	}
}

func TestEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		slots  []int
	}{
		{"num zero", func(p *Params) { p.Num = 0 }, nil},
		{"trunk only", func(p *Params) { p.FoliageStartAt = p.Num }, []int{Trunk}},
		{"start beyond num", func(p *Params) { p.FoliageStartAt = p.Num + 10 }, []int{Trunk}},
		{"foliage only", func(p *Params) { p.FoliageStartAt = 0 }, []int{Foliage}},
		{"single leaf", func(p *Params) { p.Num = 1; p.FoliageStartAt = 0 }, []int{Foliage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := testParams()
			tt.mutate(&pp)
			buf, err := Generate(testLeaf(), pp, testCurve(t))
			require.NoError(t, err)
			require.NoError(t, buf.Validate())

			var slots []int
			for _, g := range buf.Groups {
				slots = append(slots, g.Slot)
			}
			assert.Equal(t, tt.slots, slots)
			if tt.slots == nil {
				assert.Zero(t, buf.VertexCount())
				assert.Empty(t, buf.Indices)
			}
		})
	}
}

func TestColors(t *testing.T) {
	pp := testParams()
	res, err := Build(testLeaf(), pp, testCurve(t))
	require.NoError(t, err)
	buf := res.Buffer

	assertColor(t, pp.FoliageColor, buf.Color(0))
	assertColor(t, pp.FoliageTipColor, buf.Color(res.FoliageVertices-1))
	assert.Equal(t, pp.TrunkColor, buf.Color(res.FoliageVertices))
	assert.Equal(t, pp.TrunkColor, buf.Color(res.TotalVertices-1))
}

func TestTrunkFollowsCurve(t *testing.T) {
	pp := testParams()
	pp.FoliageStartAt = pp.Num
	pp.TrunkRegular = true
	c := testCurve(t)
	buf, err := Generate(testLeaf(), pp, c)
	require.NoError(t, err)

	b := buf.Bounds()
	assert.InDelta(t, 0, b.Min[1], 4)
	assert.InDelta(t, 150, b.Max[1], 4)
	// The last span overshoots x = -40 slightly before settling.
	assert.InDelta(t, -40, b.Min[0], 8)
}

func TestTrunkTaper(t *testing.T) {
	pp := testParams()
	pp.Num = 2
	pp.FoliageStartAt = 2
	pp.TrunkSides = 4
	c, err := curve.New([]math.Vec3{{}, {Y: 10}})
	require.NoError(t, err)

	width := func(regular bool) (first, last float32) {
		pp.TrunkRegular = regular
		buf, err := Generate(testLeaf(), pp, c)
		require.NoError(t, err)
		n := buf.VertexCount() / 2
		return radius(buf, 0, n), radius(buf, n, 2*n)
	}

	f, l := width(true)
	assert.InDelta(t, 3, f, 1e-4)
	assert.InDelta(t, 3, l, 1e-4)

	f, l = width(false)
	assert.InDelta(t, 3, f, 1e-4)
	assert.InDelta(t, 1.8, l, 1e-4)
}

func TestLeavesOpenOutward(t *testing.T) {
	pp := testParams()
	pp.Num = 2
	pp.FoliageStartAt = 0
	pp.Spread = 0
	pp.Angle = 0
	pp.StartingAngleOpen = 0
	pp.AngleOpen = 90
	c, err := curve.New([]math.Vec3{{}, {Y: 10}})
	require.NoError(t, err)
	lp := leaf.Params{Density: 2, Length: 10, BladeWidth: 1, Inclination: 1}

	res, err := Build(lp, pp, c)
	require.NoError(t, err)
	buf := res.Buffer
	require.Equal(t, 8, buf.VertexCount())

	// First leaf is closed: it runs straight up the tangent.
	tip0 := buf.Position(3)
	base0 := buf.Position(0).Add(buf.Position(1)).Scale(0.5)
	assert.InDelta(t, 10, tip0.Y-base0.Y, 1e-3)

	// Last leaf is opened by 90°: its spine lies in the normal plane.
	tip1 := buf.Position(7)
	base1 := buf.Position(4).Add(buf.Position(5)).Scale(0.5)
	assert.InDelta(t, 0, tip1.Y-base1.Y, 1e-3)
	assert.InDelta(t, 10, tip1.Sub(base1).Length(), 1e-3)
}

func TestValidation(t *testing.T) {
	nan := float32(stdmath.NaN())
	c := testCurve(t)

	_, err := Build(testLeaf(), testParams(), nil)
	assert.ErrorIs(t, err, ErrNilCurve)

	tests := []struct {
		name   string
		mutate func(*Params)
		err    error
	}{
		{"negative num", func(p *Params) { p.Num = -1 }, ErrInvalidNum},
		{"negative start", func(p *Params) { p.FoliageStartAt = -1 }, ErrInvalidStart},
		{"negative radius", func(p *Params) { p.TrunkRadius = -1 }, ErrInvalidTrunk},
		{"negative sides", func(p *Params) { p.TrunkSides = -3 }, ErrInvalidTrunk},
		{"nan growth", func(p *Params) { p.Growth = nan }, ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := testParams()
			tt.mutate(&pp)
			buf, err := Generate(testLeaf(), pp, c)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, buf)
		})
	}

	lp := testLeaf()
	lp.Density = 1
	_, err = Generate(lp, testParams(), c)
	assert.ErrorIs(t, err, leaf.ErrInvalidDensity)
}

func TestDeterministic(t *testing.T) {
	c := testCurve(t)
	a, err := Generate(testLeaf(), testParams(), c)
	require.NoError(t, err)
	b, err := Generate(testLeaf(), testParams(), c)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("buffers differ (-a +b):\n%s", diff)
	}
}

func TestSampleT(t *testing.T) {
	c := testCurve(t)
	pp := testParams()

	pp.Growth = 0
	assert.Equal(t, float32(0.25), SampleT(c, pp, 30))

	pp.Growth = 1
	assert.InDelta(t, c.TAtFraction(0.25), SampleT(c, pp, 30), 1e-6)

	pp.Growth = 5
	assert.InDelta(t, c.TAtFraction(0.25), SampleT(c, pp, 30), 1e-6)

	pp.Num = 0
	assert.Zero(t, SampleT(c, pp, 3))
}
