package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/wasmexport/internal/cli"
)

func newExpandCmd(a *app) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "expand [paths...]",
		Short: "Write the expanded source of every annotated file next to it",
		Long: `Expands every annotated item of the given files and writes the result to
<name>.expanded.rs (see output.suffix), or prints it with --stdout.

Examples:
  wasmexport expand ./...               # expand everything below the current directory
  wasmexport expand src/lib.rs --stdout # print the expansion of one file`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.expand(cmd, cli.Config{Patterns: args, Stdout: stdout, Jobs: a.jobs, Verbose: a.verbose})
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print expanded sources instead of writing files")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report expansion errors without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.expand(cmd, cli.Config{Patterns: args, Check: true, Jobs: a.jobs, Verbose: a.verbose})
		},
	}
}

func (a *app) expand(cmd *cobra.Command, opts cli.Config) error {
	if !opts.Stdout {
		a.diagnostics.Section("wasmexport")
	}

	generator := cli.NewGenerator(a.cfg, a.diagnostics, a.logger)
	generator.SetOutput(cmd.OutOrStdout())

	if err := generator.Run(cmd.Context(), opts); err != nil {
		return err
	}
	if opts.Stdout {
		return nil
	}

	summary := generator.GetSummary()
	a.diagnostics.Summary("Expansion complete", map[string]interface{}{
		"Files scanned":      summary.FilesScanned,
		"Files expanded":     summary.FilesExpanded,
		"Wrappers generated": summary.WrappersGenerated,
	})
	return nil
}
