package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/utils"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// app carries the state shared by every command of one invocation
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	jobs       int

	cfg         *config.Config
	cfgPath     string
	logger      *zap.Logger
	diagnostics *utils.DiagnosticSystem
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wasmexport",
		Short: "Expand #[wasm_export] annotated Rust items into wasm_bindgen exports",
		Long: `wasmexport reads Rust sources and, for every function or inherent impl block
annotated with #[wasm_export], emits the item unchanged followed by an exported
twin whose wrappers convert the Result return value into WasmEncodedResult.

Paths may be files, directories (their .rs files only) or directories followed
by /... to include everything below them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file (default: nearest wasmexport.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only show errors")
	root.PersistentFlags().IntVarP(&a.jobs, "jobs", "j", 0, "number of files expanded at once (default: output.jobs, or the number of CPUs)")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(newExpandCmd(a), newCheckCmd(a), newCleanCmd(a), newVersionCmd())
	return root
}

// init builds the logger, the console output and the configuration
func (a *app) init(cmd *cobra.Command) error {
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	level := utils.DiagnosticInfo
	switch {
	case a.quiet:
		level = utils.DiagnosticError
	case a.verbose:
		level = utils.DiagnosticVerbose
	}
	a.diagnostics = utils.NewDiagnosticSystemWithWriters(level, cmd.OutOrStdout(), cmd.ErrOrStderr())

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	a.cfg, a.cfgPath, err = config.NewResolver(wd).Resolve(a.configPath)
	if err != nil {
		return err
	}
	if a.cfgPath != "" {
		a.diagnostics.Verbose("Using configuration %s", a.cfgPath)
		a.logger.Debug("configuration loaded", zap.String("path", a.cfgPath))
	}
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
