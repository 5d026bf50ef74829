package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/wasmexport/internal/cli"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Delete expanded files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.diagnostics.StartProgress("Cleaning expanded files")
			removed, err := cli.NewCleaner(a.cfg.Output.Suffix).CleanGeneratedFiles(args)
			if err != nil {
				a.diagnostics.EndProgress(false, "")
				return err
			}
			a.diagnostics.EndProgress(true, "")

			for _, path := range removed {
				a.diagnostics.List("%s", path)
			}
			a.diagnostics.Success("Removed %d expanded files", len(removed))
			return nil
		},
	}
}
