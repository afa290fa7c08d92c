// Package config handles generator presets: loading, defaults and
// conversion into generator parameters.
package config

import (
	"github.com/Faultbox/phyllo/pkg/leaf"
)

// Config holds every generator preset.
type Config struct {
	Leaf    leaf.Params   `yaml:"leaf"` // Palm leaf shape
	Palm    PalmConfig    `yaml:"palm"`
	Trunk   TrunkConfig   `yaml:"trunk"`
	Flower  FlowerConfig  `yaml:"flower"`
	Export  ExportConfig  `yaml:"export"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`

	// Path is the file the config was loaded from, empty for pure defaults.
	Path string `yaml:"-"`
}

// PalmConfig holds the palm crown settings.
type PalmConfig struct {
	Angle             float32 `yaml:"angle"`
	Spread            float32 `yaml:"spread"`
	Num               int     `yaml:"num"`
	Growth            float32 `yaml:"growth"`
	FoliageStartAt    int     `yaml:"foliage_start_at"`
	AngleOpen         float32 `yaml:"angle_open"`
	StartingAngleOpen float32 `yaml:"starting_angle_open"`
	FoliageColor      string  `yaml:"foliage_color"`
	FoliageTipColor   string  `yaml:"foliage_tip_color"`
}

// TrunkConfig holds the trunk shape and its curve.
type TrunkConfig struct {
	Regular bool         `yaml:"regular"`
	Radius  float32      `yaml:"radius"`
	Taper   float32      `yaml:"taper"`
	Sides   int          `yaml:"sides"`
	Color   string       `yaml:"color"`
	Curve   [][3]float32 `yaml:"curve"` // Control points, root first
}

// FlowerConfig holds the spiral arrangement settings.
type FlowerConfig struct {
	Leaf     leaf.Params `yaml:"leaf"`
	Strategy string      `yaml:"strategy"` // simple, conical, apple, approximate
	Angle    float32     `yaml:"angle"`
	Spread   float32     `yaml:"spread"`
	Extrude  float32     `yaml:"extrude"`
	Num      int         `yaml:"num"`
	RotateZ  float32     `yaml:"rotate_z"`
	RotateY  float32     `yaml:"rotate_y"`
	Shape    string      `yaml:"shape"` // leaf or box
	BoxSize  float32     `yaml:"box_size"`
	Color    string      `yaml:"color"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Format string `yaml:"format"` // obj or json
	Dir    string `yaml:"dir"`
	UVs    bool   `yaml:"uvs"`
	Indent bool   `yaml:"indent"`
}

// BatchConfig holds settings for generating many variants at once.
type BatchConfig struct {
	Workers  int       `yaml:"workers"`
	Variants []Variant `yaml:"variants"`
}

// Variant is one batch job. Nil sections fall back to the top-level presets.
// Sections read from a file are decoded over the top-level section, so a
// variant only lists the keys it changes. A section set in code replaces the
// preset whole.
type Variant struct {
	Name   string        `yaml:"name"`
	Kind   string        `yaml:"kind"` // palm, leaf or flower
	Leaf   *leaf.Params  `yaml:"leaf,omitempty"`
	Palm   *PalmConfig   `yaml:"palm,omitempty"`
	Trunk  *TrunkConfig  `yaml:"trunk,omitempty"`
	Flower *FlowerConfig `yaml:"flower,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock palm and flower presets.
func Default() *Config {
	return &Config{
		Leaf: leaf.Params{
			Length:          50,
			StemLength:      20,
			StemWidth:       0.2,
			BladeWidth:      0.8,
			BladeLift:       1.5,
			Density:         11,
			Curvature:       0.04,
			CurvatureBorder: 0.005,
			Inclination:     0.9,
		},
		Palm: PalmConfig{
			Angle:             137.5,
			Spread:            0.1,
			Num:               406,
			Growth:            0.12,
			FoliageStartAt:    40,
			AngleOpen:         36.17438,
			StartingAngleOpen: 47,
			FoliageColor:      "#4ca078",
			FoliageTipColor:   "#efff00",
		},
		Trunk: TrunkConfig{
			Regular: false,
			Radius:  2.5,
			Taper:   0.6,
			Sides:   6,
			Color:   "#7a5230",
			Curve: [][3]float32{
				{0, 0, 0},
				{0, 60, 0},
				{-40, 100, 0},
				{-40, 150, 0},
			},
		},
		Flower: FlowerConfig{
			Leaf: leaf.Params{
				Length:          24,
				StemLength:      1,
				StemWidth:       0.7,
				BladeWidth:      0.5,
				BladeLift:       1.5,
				Density:         21,
				Curvature:       0.05,
				CurvatureBorder: 0.05,
				Inclination:     0.7,
			},
			Strategy: "conical",
			Angle:    137.5,
			Spread:   0.4,
			Extrude:  0.5,
			Num:      3,
			RotateZ:  2,
			RotateY:  2,
			Shape:    "leaf",
			BoxSize:  1,
			Color:    "#34ac0f",
		},
		Export: ExportConfig{
			Format: "obj",
			Dir:    ".",
			UVs:    true,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
