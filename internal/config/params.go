package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/phyllo/pkg/curve"
	"github.com/Faultbox/phyllo/pkg/export"
	"github.com/Faultbox/phyllo/pkg/flower"
	"github.com/Faultbox/phyllo/pkg/leaf"
	"github.com/Faultbox/phyllo/pkg/math"
	"github.com/Faultbox/phyllo/pkg/mesh"
	"github.com/Faultbox/phyllo/pkg/palm"
	"github.com/Faultbox/phyllo/pkg/phyllotaxis"
)

// Kinds of generated models.
const (
	KindPalm   = "palm"
	KindLeaf   = "leaf"
	KindFlower = "flower"
)

// ErrUnknownKind is returned for a variant kind other than palm, leaf or flower.
var ErrUnknownKind = errors.New("unknown model kind")

// PalmParams converts the palm and trunk sections.
func (c *Config) PalmParams() (palm.Params, error) {
	return palmParams(c.Palm, c.Trunk)
}

func palmParams(p PalmConfig, t TrunkConfig) (palm.Params, error) {
	foliage, err := mesh.ParseHexColor(p.FoliageColor)
	if err != nil {
		return palm.Params{}, fmt.Errorf("palm.foliage_color: %w", err)
	}
	tip, err := mesh.ParseHexColor(p.FoliageTipColor)
	if err != nil {
		return palm.Params{}, fmt.Errorf("palm.foliage_tip_color: %w", err)
	}
	trunk, err := mesh.ParseHexColor(t.Color)
	if err != nil {
		return palm.Params{}, fmt.Errorf("trunk.color: %w", err)
	}

	pp := palm.Params{
		Angle:             p.Angle,
		Spread:            p.Spread,
		Num:               p.Num,
		Growth:            p.Growth,
		FoliageStartAt:    p.FoliageStartAt,
		TrunkRegular:      t.Regular,
		AngleOpen:         p.AngleOpen,
		StartingAngleOpen: p.StartingAngleOpen,
		TrunkRadius:       t.Radius,
		TrunkTaper:        t.Taper,
		TrunkSides:        t.Sides,
		FoliageColor:      foliage,
		FoliageTipColor:   tip,
		TrunkColor:        trunk,
	}
	return pp, pp.Validate()
}

// Curve builds the trunk curve. An empty point list uses the stock curve.
func (c *Config) Curve() (*curve.CatmullRom, error) {
	return trunkCurve(c.Trunk)
}

func trunkCurve(t TrunkConfig) (*curve.CatmullRom, error) {
	if len(t.Curve) == 0 {
		return curve.New(palm.DefaultCurvePoints())
	}
	pts := make([]math.Vec3, len(t.Curve))
	for i, p := range t.Curve {
		pts[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	c, err := curve.New(pts)
	if err != nil {
		return nil, fmt.Errorf("trunk.curve: %w", err)
	}
	return c, nil
}

// FlowerParams converts the flower section and returns its leaf shape.
func (c *Config) FlowerParams() (leaf.Params, flower.Params, error) {
	fp, err := flowerParams(c.Flower)
	return c.Flower.Leaf, fp, err
}

func flowerParams(f FlowerConfig) (flower.Params, error) {
	strategy, err := phyllotaxis.ParseStrategy(f.Strategy)
	if err != nil {
		return flower.Params{}, fmt.Errorf("flower.strategy: %w", err)
	}
	shape, err := flower.ParseShape(f.Shape)
	if err != nil {
		return flower.Params{}, fmt.Errorf("flower.shape: %w", err)
	}
	color, err := mesh.ParseHexColor(f.Color)
	if err != nil {
		return flower.Params{}, fmt.Errorf("flower.color: %w", err)
	}

	fp := flower.Params{
		Strategy: strategy,
		Placement: phyllotaxis.Params{
			Angle:   f.Angle,
			Spread:  f.Spread,
			Extrude: f.Extrude,
			Count:   f.Num,
		},
		RotateZ: f.RotateZ,
		RotateY: f.RotateY,
		Shape:   shape,
		BoxSize: f.BoxSize,
		Color:   color,
	}
	return fp, fp.Placement.Validate()
}

// Format returns the configured export format.
func (c *Config) Format() (export.Format, error) {
	return export.ParseFormat(c.Export.Format)
}

// Exporter returns the configured exporter. Palm slot names are used for
// material names.
func (c *Config) Exporter() (export.Exporter, error) {
	f, err := c.Format()
	if err != nil {
		return nil, err
	}
	exp, err := export.New(f, []string{"foliage", "trunk"})
	if err != nil {
		return nil, err
	}
	switch e := exp.(type) {
	case *export.OBJ:
		e.UVs = c.Export.UVs
	case *export.JSON:
		e.Indent = c.Export.Indent
	}
	return exp, nil
}

// Resolve returns a copy of c with the variant's sections applied. The copy
// carries no variants of its own.
func (c *Config) Resolve(v Variant) *Config {
	out := *c
	out.Batch.Variants = nil
	if v.Leaf != nil {
		out.Leaf = *v.Leaf
	}
	if v.Palm != nil {
		out.Palm = *v.Palm
	}
	if v.Trunk != nil {
		out.Trunk = *v.Trunk
	}
	if v.Flower != nil {
		out.Flower = *v.Flower
	}
	return &out
}

// Validate converts every section once and reports the first error.
func (c *Config) Validate() error {
	if err := c.Leaf.Validate(); err != nil {
		return fmt.Errorf("leaf: %w", err)
	}
	if _, err := c.PalmParams(); err != nil {
		return err
	}
	if _, err := c.Curve(); err != nil {
		return err
	}
	if err := c.Flower.Leaf.Validate(); err != nil {
		return fmt.Errorf("flower.leaf: %w", err)
	}
	if _, _, err := c.FlowerParams(); err != nil {
		return err
	}
	if _, err := c.Format(); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	for i, v := range c.Batch.Variants {
		switch v.Kind {
		case KindPalm, KindLeaf, KindFlower:
		default:
			return fmt.Errorf("batch.variants[%d]: %w: %q", i, ErrUnknownKind, v.Kind)
		}
		if err := c.Resolve(v).Validate(); err != nil {
			return fmt.Errorf("batch.variants[%d] %s: %w", i, v.Name, err)
		}
	}
	return nil
}
