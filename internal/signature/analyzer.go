// Package signature inspects declaration signatures: it matches the declared
// return type against the two-arm outcome shape and resolves the directives
// that decide how a declaration is exported.
package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toyz/wasmexport/internal/directives"
	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/models"
)

// OutcomeMessage is the diagnostic for a declaration without an outcome return type
const OutcomeMessage = "expected a two-arm outcome return type"

var whitespace = regexp.MustCompile(`\s+`)

// Analyzer matches return types against the outcome shape
type Analyzer struct {
	outcome string             // identifier of the outcome type, e.g. "Result"
	parser  *directives.Parser // parses per-parameter directives
}

// NewAnalyzer creates an analyzer recognizing outcome types named outcome
func NewAnalyzer(outcome string, parser *directives.Parser) *Analyzer {
	return &Analyzer{outcome: outcome, parser: parser}
}

// SuccessType returns the first generic argument of output when output is a
// path type whose final segment is the outcome type. The match is purely
// syntactic; aliases such as `io::Result<T>` match as well.
func (a *Analyzer) SuccessType(output string) (string, bool) {
	if strings.TrimSpace(output) == "" {
		return "", false
	}

	typ, err := typeGrammar.ParseString("", output)
	if err != nil || len(typ.Segments) == 0 {
		return "", false
	}

	last := typ.Segments[len(typ.Segments)-1]
	if last.Name != a.outcome || last.Args == nil || len(last.Args.Entries) == 0 {
		return "", false
	}

	first := last.Args.Entries[0].Arg
	end := first.EndPos.Offset
	if end > len(output) || end < first.Pos.Offset {
		end = len(output)
	}
	return normalize(output[first.Pos.Offset:end]), true
}

// normalize trims a type and collapses internal whitespace runs
func normalize(typ string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(typ), " ")
}

// Resolve builds the export spec for fn from its declaration-level directive
// set. A skipped declaration is resolved without looking at its signature.
func (a *Analyzer) Resolve(fn *models.Function, set *directives.Set) (*ExportSpec, error) {
	if set.ShouldSkip() {
		return &ExportSpec{ShouldSkip: true}, nil
	}

	success, ok := a.SuccessType(fn.Output)
	if !ok {
		span := fn.OutputSpan
		if fn.Output == "" {
			span = fn.SigSpan
		}
		err := errors.NewContractError(fn.Name, OutcomeMessage, span)
		err.WithSuggestion(fmt.Sprintf("declare the return type as `%s<T, E>`", a.outcome))
		return nil, err
	}

	spec := &ExportSpec{
		Forwarded:        set.Forwarded(),
		ReturnType:       success,
		Label:            success,
		PreserveIdentity: set.PreserveIdentity(),
	}
	if override, ok := set.ReturnTypeOverride(); ok {
		spec.Label = override
	}
	if desc, ok := set.ReturnDescription(); ok {
		spec.ReturnDescription = &desc
	}

	params, err := a.resolveParams(fn)
	if err != nil {
		return nil, err
	}
	spec.Params = params
	return spec, nil
}

func (a *Analyzer) resolveParams(fn *models.Function) ([]ParamSpec, error) {
	out := make([]ParamSpec, 0, len(fn.Params))
	for _, p := range fn.Params {
		ctx := directives.ParamContext
		if p.Receiver {
			ctx = directives.ReceiverContext
		}
		set, err := a.parser.ParseAttributes(p.Attrs, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, ParamSpec{Param: p, Directives: set})
	}
	return out, nil
}
