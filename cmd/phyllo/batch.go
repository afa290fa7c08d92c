package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Faultbox/phyllo/internal/batch"
)

func (a *app) newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Generate every variant listed under batch.variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.Batch.Variants) == 0 {
				return fmt.Errorf("no batch.variants in %s", configName(a.cfg.Path))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			report, err := batch.Run(ctx, a.cfg)
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
			}
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d variants failed", report.Failed, len(report.Results))
			}
			return nil
		},
	}
}

func configName(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
