package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/phyllo/internal/config"
	"github.com/Faultbox/phyllo/internal/generate"
	"github.com/Faultbox/phyllo/internal/watch"
)

func (a *app) newWatchCmd() *cobra.Command {
	var (
		out      string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:       "watch <palm|leaf|flower>",
		Short:     "Regenerate a model whenever the config file changes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{config.KindPalm, config.KindLeaf, config.KindFlower},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if a.cfg.Path == "" {
				return watch.ErrNoPath
			}
			format, err := a.cfg.Format()
			if err != nil {
				return err
			}
			if out == "" {
				out = defaultOutput(a.cfg.Export.Dir, kind, format)
			}

			regenerate := func(context.Context) error {
				cfg, err := config.Load(a.overrides)
				if err != nil {
					return err
				}
				exp, err := cfg.Exporter()
				if err != nil {
					return err
				}
				buf, stats, err := generate.Model(cfg, kind)
				if err != nil {
					return err
				}
				if err := generate.WriteFile(out, exp, buf); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats, out))
				return nil
			}

			// Write once up front so the output exists before the first edit.
			if err := regenerate(cmd.Context()); err != nil {
				return err
			}

			w, err := watch.New(a.cfg.Path, debounce, regenerate)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default <dir>/<kind>-<id>.<format>)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")
	return cmd
}
