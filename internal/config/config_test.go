package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Faultbox/phyllo/pkg/export"
	"github.com/Faultbox/phyllo/pkg/flower"
	"github.com/Faultbox/phyllo/pkg/leaf"
	"github.com/Faultbox/phyllo/pkg/mesh"
	"github.com/Faultbox/phyllo/pkg/phyllotaxis"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Leaf.Length != 50 {
		t.Errorf("expected leaf length 50, got %v", cfg.Leaf.Length)
	}
	if cfg.Leaf.Density != 11 {
		t.Errorf("expected leaf density 11, got %d", cfg.Leaf.Density)
	}
	if cfg.Palm.Num != 406 {
		t.Errorf("expected palm num 406, got %d", cfg.Palm.Num)
	}
	if cfg.Palm.FoliageStartAt != 40 {
		t.Errorf("expected foliage start 40, got %d", cfg.Palm.FoliageStartAt)
	}
	if cfg.Palm.Angle != 137.5 {
		t.Errorf("expected angle 137.5, got %v", cfg.Palm.Angle)
	}
	if cfg.Trunk.Regular {
		t.Error("expected tapering trunk by default")
	}
	if len(cfg.Trunk.Curve) != 4 || cfg.Trunk.Curve[0] != [3]float32{0, 0, 0} {
		t.Errorf("expected root-first stock curve, got %v", cfg.Trunk.Curve)
	}
	if cfg.Flower.Strategy != "conical" {
		t.Errorf("expected conical flower, got %s", cfg.Flower.Strategy)
	}
	if cfg.Export.Format != "obj" {
		t.Errorf("expected obj export, got %s", cfg.Export.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Path != "" {
		t.Errorf("expected no path for defaults, got %s", cfg.Path)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
leaf:
  length: 30
  density: 7
  inclination: 0.5

palm:
  num: 200
  foliage_start_at: 20
  foliage_color: "#112233"

trunk:
  regular: true
  sides: 8
  curve:
    - [0, 0, 0]
    - [0, 80, 10]

flower:
  strategy: apple
  num: 50

logging:
  level: "debug"
  log_file: "phyllo.log"
`)

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Leaf.Length != 30 || cfg.Leaf.Density != 7 || cfg.Leaf.Inclination != 0.5 {
		t.Errorf("leaf not loaded: %+v", cfg.Leaf)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Leaf.StemLength != 20 {
		t.Errorf("expected default stem length 20, got %v", cfg.Leaf.StemLength)
	}
	if cfg.Palm.Num != 200 || cfg.Palm.FoliageStartAt != 20 {
		t.Errorf("palm not loaded: %+v", cfg.Palm)
	}
	if cfg.Palm.FoliageColor != "#112233" {
		t.Errorf("expected foliage color #112233, got %s", cfg.Palm.FoliageColor)
	}
	if !cfg.Trunk.Regular || cfg.Trunk.Sides != 8 {
		t.Errorf("trunk not loaded: %+v", cfg.Trunk)
	}
	if len(cfg.Trunk.Curve) != 2 || cfg.Trunk.Curve[1] != [3]float32{0, 80, 10} {
		t.Errorf("curve not loaded: %v", cfg.Trunk.Curve)
	}
	if cfg.Flower.Strategy != "apple" || cfg.Flower.Num != 50 {
		t.Errorf("flower not loaded: %+v", cfg.Flower)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "phyllo.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":      "palm:\n  num: not a number\n  invalid syntax here\n",
		"unknown key": "palm:\n  nmu: 3\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, content)
			if err := loadFromFile(Default(), path); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := writeConfig(t, "")
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Palm.Num != 406 {
		t.Errorf("expected defaults to survive an empty file, got num %d", cfg.Palm.Num)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/phyllo.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
	if _, err := Load(Overrides{ConfigPath: "/nonexistent/path/phyllo.yaml"}); err == nil {
		t.Error("expected error for explicit missing config, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("palm:\n  num: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestOverrides(t *testing.T) {
	tests := []struct {
		name   string
		o      Overrides
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug",
			o:    Overrides{Debug: true},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "log file",
			o:    Overrides{LogFile: "run.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "format and dir",
			o:    Overrides{Format: "json", OutputDir: "out"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Format != "json" || cfg.Export.Dir != "out" {
					t.Errorf("export not overridden: %+v", cfg.Export)
				}
			},
		},
		{
			name: "workers",
			o:    Overrides{Workers: 9},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 9 {
					t.Errorf("expected 9 workers, got %d", cfg.Batch.Workers)
				}
			},
		},
		{
			name: "zero values",
			o:    Overrides{},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "info" || cfg.Batch.Workers != 4 {
					t.Errorf("zero overrides changed config: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.o.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	var o Overrides
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.Register(fs)

	if err := fs.Parse([]string{"-c", "x.yaml", "--debug", "-f", "json", "--workers", "3"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if o.ConfigPath != "x.yaml" || !o.Debug || o.Format != "json" || o.Workers != 3 {
		t.Errorf("flags not bound: %+v", o)
	}
}

func TestLoadPriority(t *testing.T) {
	path := writeConfig(t, `
export:
  format: json
  dir: from-file
batch:
  workers: 2
`)

	cfg, err := Load(Overrides{ConfigPath: path, OutputDir: "from-flag"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Dir != "from-flag" {
		t.Errorf("expected dir from flag, got %s", cfg.Export.Dir)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("expected format json from file, got %s", cfg.Export.Format)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("expected 2 workers from file, got %d", cfg.Batch.Workers)
	}
	if cfg.Palm.Num != 406 {
		t.Errorf("expected default num 406, got %d", cfg.Palm.Num)
	}
	if cfg.Path != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Palm.Num = 77
	cfg.Trunk.Curve = append(cfg.Trunk.Curve, [3]float32{-40, 200, 5})
	cfg.Batch.Variants = []Variant{{Name: "short", Kind: KindPalm, Palm: &PalmConfig{Num: 10}}}

	path := filepath.Join(t.TempDir(), "nested", FileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(Overrides{ConfigPath: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Palm.Num != 77 {
		t.Errorf("expected num 77, got %d", loaded.Palm.Num)
	}
	if len(loaded.Trunk.Curve) != 5 {
		t.Errorf("expected 5 curve points, got %d", len(loaded.Trunk.Curve))
	}
	if len(loaded.Batch.Variants) != 1 || loaded.Batch.Variants[0].Palm.Num != 10 {
		t.Errorf("variants not round-tripped: %+v", loaded.Batch.Variants)
	}
	if loaded.Batch.Variants[0].Leaf != nil {
		t.Error("absent variant section should stay nil")
	}
}

func TestPalmParams(t *testing.T) {
	cfg := Default()
	pp, err := cfg.PalmParams()
	if err != nil {
		t.Fatalf("PalmParams: %v", err)
	}
	want, _ := mesh.ParseHexColor("#4ca078")
	if pp.FoliageColor != want {
		t.Errorf("expected foliage color %v, got %v", want, pp.FoliageColor)
	}
	if pp.Num != 406 || pp.TrunkSides != 6 || pp.TrunkRegular {
		t.Errorf("unexpected palm params: %+v", pp)
	}

	cfg.Trunk.Color = "brown"
	if _, err := cfg.PalmParams(); !errors.Is(err, mesh.ErrInvalidColor) {
		t.Errorf("expected invalid color error, got %v", err)
	}
}

func TestCurve(t *testing.T) {
	cfg := Default()
	c, err := cfg.Curve()
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if got := c.Point(1); got.Y != 150 {
		t.Errorf("expected curve to end at y=150, got %v", got)
	}

	cfg.Trunk.Curve = nil
	if _, err := cfg.Curve(); err != nil {
		t.Errorf("empty curve should use stock points: %v", err)
	}

	cfg.Trunk.Curve = [][3]float32{{1, 2, 3}}
	if _, err := cfg.Curve(); err == nil {
		t.Error("expected error for single control point")
	}
}

func TestFlowerParams(t *testing.T) {
	cfg := Default()
	lp, fp, err := cfg.FlowerParams()
	if err != nil {
		t.Fatalf("FlowerParams: %v", err)
	}
	if lp.Density != 21 {
		t.Errorf("expected flower leaf density 21, got %d", lp.Density)
	}
	if fp.Strategy != phyllotaxis.Conical || fp.Shape != flower.ShapeLeaf {
		t.Errorf("unexpected flower params: %+v", fp)
	}
	if fp.Placement.Count != 3 || fp.Placement.Extrude != 0.5 {
		t.Errorf("unexpected placement: %+v", fp.Placement)
	}

	cfg.Flower.Strategy = "fibonacci"
	if _, _, err := cfg.FlowerParams(); !errors.Is(err, phyllotaxis.ErrUnknownStrategy) {
		t.Errorf("expected unknown strategy, got %v", err)
	}
}

func TestExporter(t *testing.T) {
	cfg := Default()
	cfg.Export.UVs = false
	exp, err := cfg.Exporter()
	if err != nil {
		t.Fatalf("Exporter: %v", err)
	}
	obj, ok := exp.(*export.OBJ)
	if !ok {
		t.Fatalf("expected *export.OBJ, got %T", exp)
	}
	if obj.UVs {
		t.Error("expected UVs disabled")
	}

	cfg.Export.Format = "json"
	cfg.Export.Indent = true
	exp, err = cfg.Exporter()
	if err != nil {
		t.Fatalf("Exporter: %v", err)
	}
	if j, ok := exp.(*export.JSON); !ok || !j.Indent {
		t.Errorf("expected indented JSON exporter, got %#v", exp)
	}

	cfg.Export.Format = "fbx"
	if _, err := cfg.Exporter(); !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("expected unknown format, got %v", err)
	}
}

func TestResolveAndValidateVariants(t *testing.T) {
	cfg := Default()
	short := leaf.Params{Length: 5, Density: 3, Inclination: 1}
	cfg.Batch.Variants = []Variant{
		{Name: "short-leaf", Kind: KindLeaf, Leaf: &short},
		{Name: "plain", Kind: KindFlower},
	}

	r := cfg.Resolve(cfg.Batch.Variants[0])
	if r.Leaf != short {
		t.Errorf("variant leaf not applied: %+v", r.Leaf)
	}
	if r.Palm != cfg.Palm {
		t.Error("absent variant section should keep the base preset")
	}
	if r.Batch.Variants != nil {
		t.Error("resolved config should carry no variants")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid variants rejected: %v", err)
	}

	cfg.Batch.Variants = append(cfg.Batch.Variants, Variant{Name: "odd", Kind: "cactus"})
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected unknown kind, got %v", err)
	}

	bad := leaf.Params{Density: 1}
	cfg.Batch.Variants = []Variant{{Name: "bad", Kind: KindLeaf, Leaf: &bad}}
	if err := cfg.Validate(); !errors.Is(err, leaf.ErrInvalidDensity) {
		t.Errorf("expected invalid density, got %v", err)
	}
}

func TestLoadPartialVariant(t *testing.T) {
	path := writeConfig(t, `
leaf:
  length: 30

trunk:
  sides: 8

batch:
  variants:
    - name: dense
      kind: leaf
      leaf:
        density: 21
    - name: thin
      kind: palm
      trunk:
        radius: 1
      flower:
        leaf:
          length: 4
    - name: plain
      kind: leaf
`)

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Batch.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(cfg.Batch.Variants))
	}

	dense := cfg.Resolve(cfg.Batch.Variants[0])
	if dense.Leaf.Density != 21 {
		t.Errorf("expected density 21, got %d", dense.Leaf.Density)
	}
	// Unset keys come from the file's leaf section, then the defaults.
	if dense.Leaf.Length != 30 || dense.Leaf.StemLength != 20 || dense.Leaf.BladeWidth != 0.8 {
		t.Errorf("variant leaf lost the preset: %+v", dense.Leaf)
	}
	if n := dense.Leaf.FaceCount(); n == 0 {
		t.Error("variant leaf should produce faces")
	}

	thin := cfg.Resolve(cfg.Batch.Variants[1])
	if thin.Trunk.Radius != 1 || thin.Trunk.Sides != 8 || len(thin.Trunk.Curve) != 4 {
		t.Errorf("variant trunk lost the preset: %+v", thin.Trunk)
	}
	if thin.Flower.Leaf.Length != 4 || thin.Flower.Leaf.Density != 21 || thin.Flower.Num != cfg.Flower.Num {
		t.Errorf("variant flower lost the preset: %+v", thin.Flower)
	}
	if cfg.Batch.Variants[2].Leaf != nil {
		t.Error("absent variant section should stay nil")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("partial variants rejected: %v", err)
	}
}

func TestLoadVariantUnknownKey(t *testing.T) {
	path := writeConfig(t, `
batch:
  variants:
    - name: typo
      kind: leaf
      leaf:
        densty: 21
`)
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for unknown variant key")
	}
}
