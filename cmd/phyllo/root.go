package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/phyllo/internal/config"
	"github.com/Faultbox/phyllo/internal/logger"
)

// app carries state shared by every subcommand.
type app struct {
	overrides config.Overrides
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "phyllo",
		Short: "Procedural botanical mesh generator",
		Long: `phyllo builds leaves, spiral flowers and palm trees from a handful of
numeric presets and exports them as OBJ or JSON meshes.

Presets are read from ./phyllo.yaml or the user config directory; flags
override the file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logger.Sync() },
	}
	a.overrides.Register(root.PersistentFlags())

	root.AddCommand(
		a.newModelCmd(config.KindPalm, "Generate a palm tree"),
		a.newModelCmd(config.KindLeaf, "Generate a single leaf blade"),
		a.newModelCmd(config.KindFlower, "Generate a spiral arrangement of leaves"),
		a.newBatchCmd(),
		a.newWatchCmd(),
		a.newConfigCmd(),
	)
	return root
}

// setup loads the config and initializes the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.overrides)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	a.cfg = cfg

	logger.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("path", cfg.Path),
	)
	return nil
}
