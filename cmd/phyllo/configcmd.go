package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Faultbox/phyllo/internal/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and save presets",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := a.cfg.Marshal()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", configName(a.cfg.Path), data)
				return nil
			},
		},
		&cobra.Command{
			Use:   "save [path]",
			Short: "Write the effective config to path or the user config directory",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := filepath.Join(config.ConfigDir(), config.FileName)
				if len(args) == 1 {
					path = args[0]
				}
				if err := a.cfg.SaveTo(path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("saved "+path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check every preset and batch variant",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.cfg.Validate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(configName(a.cfg.Path)+" is valid"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "dir",
			Short: "Print the user config directory",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), config.ConfigDir())
			},
		},
	)
	return cmd
}
