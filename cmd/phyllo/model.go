package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/phyllo/internal/config"
	"github.com/Faultbox/phyllo/internal/generate"
	"github.com/Faultbox/phyllo/internal/logger"
	"github.com/Faultbox/phyllo/pkg/export"
)

// modelFlags are per-command shortcuts for the most tuned presets.
type modelFlags struct {
	out      string
	num      int
	start    int
	growth   float32
	density  int
	length   float32
	strategy string
	shape    string
}

func (a *app) newModelCmd(kind, short string) *cobra.Command {
	var f modelFlags

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, a.cfg, kind)
			return a.runModel(cmd, kind, f.out)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.out, "out", "", `Output file, "-" for stdout (default <dir>/<kind>-<id>.<format>)`)
	fs.IntVar(&f.density, "density", 0, "Leaf cross-sections")
	fs.Float32Var(&f.length, "length", 0, "Leaf blade length")
	switch kind {
	case config.KindPalm:
		fs.IntVar(&f.num, "num", 0, "Total trunk and leaf instances")
		fs.IntVar(&f.start, "foliage-start", 0, "First instance that is a leaf")
		fs.Float32Var(&f.growth, "growth", 0, "Blend from uniform to arc-length sampling [0,1]")
	case config.KindFlower:
		fs.IntVar(&f.num, "num", 0, "Number of instances")
		fs.StringVar(&f.strategy, "strategy", "", "Placement: simple, conical, apple or approximate")
		fs.StringVar(&f.shape, "shape", "", "Instance shape: leaf or box")
	}
	return cmd
}

// apply copies explicitly set flags into cfg.
func (f modelFlags) apply(cmd *cobra.Command, cfg *config.Config, kind string) {
	changed := cmd.Flags().Changed
	lp := &cfg.Leaf
	if kind == config.KindFlower {
		lp = &cfg.Flower.Leaf
	}
	if changed("density") {
		lp.Density = f.density
	}
	if changed("length") {
		lp.Length = f.length
	}

	switch kind {
	case config.KindPalm:
		if changed("num") {
			cfg.Palm.Num = f.num
		}
		if changed("foliage-start") {
			cfg.Palm.FoliageStartAt = f.start
		}
		if changed("growth") {
			cfg.Palm.Growth = f.growth
		}
	case config.KindFlower:
		if changed("num") {
			cfg.Flower.Num = f.num
		}
		if changed("strategy") {
			cfg.Flower.Strategy = f.strategy
		}
		if changed("shape") {
			cfg.Flower.Shape = f.shape
		}
	}
}

func (a *app) runModel(cmd *cobra.Command, kind, out string) error {
	exp, err := a.cfg.Exporter()
	if err != nil {
		return err
	}
	format, err := a.cfg.Format()
	if err != nil {
		return err
	}

	buf, stats, err := generate.Model(a.cfg, kind)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}

	if out == "-" {
		if err := exp.Export(cmd.OutOrStdout(), buf); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), renderStats(stats, "stdout"))
		return nil
	}

	if out == "" {
		out = defaultOutput(a.cfg.Export.Dir, kind, format)
	}
	if err := generate.WriteFile(out, exp, buf); err != nil {
		return err
	}

	logger.Info("model written",
		zap.String("kind", kind),
		zap.String("file", out),
		zap.Int("vertices", stats.Vertices),
		zap.Int("faces", stats.Faces),
	)
	fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats, out))
	return nil
}

// defaultOutput names an export <dir>/<kind>-<short uuid>.<ext>.
func defaultOutput(dir, kind string, f export.Format) string {
	id := uuid.NewString()[:8]
	return filepath.Join(dir, kind+"-"+id+f.Ext())
}
