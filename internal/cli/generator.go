package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/expand"
	"github.com/toyz/wasmexport/internal/parser"
	"github.com/toyz/wasmexport/internal/source"
	"github.com/toyz/wasmexport/internal/utils"
)

// ExpansionSummary contains information about one run
type ExpansionSummary struct {
	FilesScanned      int
	FilesExpanded     int
	FilesFailed       int
	WrappersGenerated int
	GeneratedFiles    []string
}

// fileOutcome is the result of expanding one scanned file
type fileOutcome struct {
	path   string
	source *source.File
	result *expand.FileResult
	err    error
}

// Generator coordinates the CLI expansion process
type Generator struct {
	cfg         *config.Config
	scanner     *DirectoryScanner
	parser      parser.SourceParser
	expander    *expand.Expander
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
	stdout      io.Writer
	summary     ExpansionSummary
}

// NewGenerator creates a generator for the given configuration
func NewGenerator(cfg *config.Config, diagnostics *utils.DiagnosticSystem, logger *zap.Logger) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		cfg:         cfg,
		scanner:     NewDirectoryScanner(cfg.Output.Suffix),
		parser:      parser.NewParser(cfg.Naming.Directive, logger.Named("parser")),
		expander:    expand.New(cfg.Naming, expand.WithLogger(logger.Named("expand"))),
		reporter:    NewDiagnosticReporter(diagnostics.ErrorWriter(), diagnostics.Level() >= utils.DiagnosticVerbose),
		diagnostics: diagnostics,
		logger:      logger,
		stdout:      os.Stdout,
	}
}

// SetOutput sets where --stdout output goes
func (g *Generator) SetOutput(w io.Writer) {
	g.stdout = w
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() ExpansionSummary {
	return g.summary
}

// OutputPath returns the expanded file written for the source at path
func (g *Generator) OutputPath(path string) string {
	return strings.TrimSuffix(path, ".rs") + g.cfg.Output.Suffix
}

// Run executes the complete expansion process. Every file is expanded even
// when some fail; a failure in any file fails the run.
func (g *Generator) Run(ctx context.Context, opts Config) error {
	startTime := time.Now()
	g.summary = ExpansionSummary{GeneratedFiles: make([]string, 0)}

	g.diagnostics.Debug("Patterns: %v", opts.Patterns)

	g.diagnostics.StartProgress("Scanning for Rust sources")
	files, err := g.scanner.ScanFiles(opts.Patterns)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}
	if len(files) == 0 {
		g.diagnostics.EndProgress(false, "")
		return errors.New(errors.FileSystemErrorCode, "no Rust source files found").
			WithContext("patterns", opts.Patterns).
			WithSuggestion("pass a directory followed by /... to scan it recursively")
	}
	g.diagnostics.EndProgress(true, fmt.Sprintf("%d files", len(files)))
	g.summary.FilesScanned = len(files)

	g.diagnostics.StartProgress("Expanding")
	outcomes, err := g.expandAll(ctx, files, g.jobs(opts))
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}

	for _, outcome := range outcomes {
		if outcome.err != nil {
			g.summary.FilesFailed++
			g.reporter.ReportError(outcome.err, outcome.source)
			continue
		}
		if !outcome.result.Changed() {
			g.diagnostics.Debug("%s: nothing to expand", outcome.path)
			continue
		}

		g.summary.FilesExpanded++
		g.summary.WrappersGenerated += outcome.result.Wrappers()
		if err := g.emit(ctx, opts, outcome); err != nil {
			g.diagnostics.EndProgress(false, "")
			return err
		}
	}

	if g.summary.FilesFailed > 0 {
		g.diagnostics.EndProgress(false, "")
		return fmt.Errorf("%d of %d files failed to expand", g.summary.FilesFailed, len(files))
	}
	g.diagnostics.EndProgress(true, fmt.Sprintf("%d wrappers", g.summary.WrappersGenerated))

	g.logger.Info("expansion finished",
		zap.Int("files", len(files)),
		zap.Int("expanded", g.summary.FilesExpanded),
		zap.Int("wrappers", g.summary.WrappersGenerated),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

// emit writes or prints one expanded file, depending on the run mode
func (g *Generator) emit(ctx context.Context, opts Config, outcome fileOutcome) error {
	output := outcome.result.Output

	switch {
	case opts.Check:
		g.diagnostics.Verbose("%s: %d wrappers", outcome.path, outcome.result.Wrappers())
		return nil
	case opts.Stdout:
		_, err := io.WriteString(g.stdout, strings.TrimRight(output, "\n")+"\n")
		return err
	}

	if g.cfg.Output.Format {
		formatted, err := utils.FormatRustSource(ctx, output)
		if err != nil {
			g.diagnostics.Warn("%s: %v", outcome.path, err)
		}
		output = formatted
	}

	target := g.OutputPath(outcome.path)
	if err := utils.WriteRustFile(target, output); err != nil {
		return err
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, target)
	g.diagnostics.FileWritten(target)
	return nil
}

// expandAll expands files concurrently. Outcomes keep the order of files.
func (g *Generator) expandAll(ctx context.Context, files []string, jobs int) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = g.expandFile(ctx, path)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (g *Generator) expandFile(ctx context.Context, path string) fileOutcome {
	outcome := fileOutcome{path: path}

	content, err := g.scanner.FileReader().ReadFile(path)
	if err != nil {
		outcome.err = err
		return outcome
	}
	outcome.source = source.NewFile(path, content)

	file, err := g.parser.ParseFileContext(ctx, path, content)
	if err != nil {
		outcome.err = err
		return outcome
	}

	outcome.result, outcome.err = g.expander.ExpandFile(file)
	return outcome
}

func (g *Generator) jobs(opts Config) int {
	switch {
	case opts.Jobs > 0:
		return opts.Jobs
	case g.cfg.Output.Jobs > 0:
		return g.cfg.Output.Jobs
	default:
		return runtime.NumCPU()
	}
}
