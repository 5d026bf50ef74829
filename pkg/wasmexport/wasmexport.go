// Package wasmexport expands wasm_export attributes in Rust source. Every
// annotated function or impl block keeps its original text, minus the
// directive, and gains a wasm_bindgen-exported twin whose outcome is wrapped
// in the encoded result container.
package wasmexport

import (
	"context"

	"go.uber.org/zap"

	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/expand"
	"github.com/toyz/wasmexport/internal/parser"
)

// Result is the expansion of one source text
type Result struct {
	Output   string   // rewritten source
	Wrappers []string // generated wrapper names, in source order
}

// Changed reports whether any wrapper was generated
func (r *Result) Changed() bool {
	return len(r.Wrappers) > 0
}

type options struct {
	cfg    *config.Config
	logger *zap.Logger
	err    error
}

// Option configures ExpandSource
type Option func(*options)

// WithDirective sets the attribute name that marks declarations for export
func WithDirective(name string) Option {
	return func(o *options) {
		o.cfg.Naming.Directive = name
	}
}

// WithWrapperSuffix sets the suffix appended to generated wrapper names
func WithWrapperSuffix(suffix string) Option {
	return func(o *options) {
		o.cfg.Naming.Suffix = suffix
	}
}

// WithConfigFile loads naming from a YAML or TOML file. Options after it
// still apply on top.
func WithConfigFile(path string) Option {
	return func(o *options) {
		cfg, err := config.Load(path)
		if err != nil {
			o.err = err
			return
		}
		o.cfg = cfg
	}
}

// WithLogger sets the logger used while parsing and expanding
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ExpandSource expands the Rust source content. name is used in error
// locations only.
func ExpandSource(ctx context.Context, name, content string, opts ...Option) (*Result, error) {
	o := &options{cfg: config.Default(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	p := parser.NewParser(o.cfg.Naming.Directive, o.logger)
	file, err := p.ParseFileContext(ctx, name, []byte(content))
	if err != nil {
		return nil, err
	}

	fr, err := expand.New(o.cfg.Naming, expand.WithLogger(o.logger)).ExpandFile(file)
	if err != nil {
		return nil, err
	}

	result := &Result{Output: fr.Output}
	for _, exp := range fr.Expansions {
		result.Wrappers = append(result.Wrappers, exp.Wrappers...)
	}
	return result, nil
}

// IsDiagnostic reports whether err describes a problem in the Rust source
// rather than a failure of the expander itself
func IsDiagnostic(err error) bool {
	return errors.CodeOf(err).IsDiagnostic()
}
