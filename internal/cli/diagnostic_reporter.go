package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/source"
)

// DiagnosticReporter renders expansion errors the way the Rust compiler does:
// a headline, the location and the offending source line with a caret underline
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	colors  bool
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	if out == nil {
		out = os.Stderr
	}
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
		colors:  out == os.Stderr && !color.NoColor,
	}
}

// ReportWarning prints a warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	fmt.Fprintf(r.out, "%s: %s\n", r.paint("warning", color.FgYellow, color.Bold), message)
}

// ReportError prints err. When err carries a location and file holds the source
// text, the offending line is shown with the span underlined.
func (r *DiagnosticReporter) ReportError(err error, file *source.File) {
	exportErr, ok := errors.AsExportError(err)
	if !ok || exportErr.Location().IsEmpty() {
		fmt.Fprintf(r.out, "%s: %s\n", r.paint("error", color.FgRed, color.Bold), err.Error())
		r.printCauses(unwrapOnce(err))
		return
	}

	loc := exportErr.Location()
	message := strings.TrimPrefix(err.Error(), loc.String()+": ")
	fmt.Fprintf(r.out, "%s: %s\n", r.paint("error", color.FgRed, color.Bold), r.paint(message, color.Bold))

	gutter := strings.Repeat(" ", len(strconv.Itoa(loc.Line)))
	fmt.Fprintf(r.out, "%s%s %s\n", gutter, r.paint("-->", color.FgBlue, color.Bold), loc.String())

	if file != nil && loc.Line > 0 && loc.Line <= file.LineCount() {
		line := file.Line(loc.Line)
		bar := r.paint("|", color.FgBlue, color.Bold)
		fmt.Fprintf(r.out, "%s %s\n", gutter, bar)
		fmt.Fprintf(r.out, "%s %s %s\n", r.paint(strconv.Itoa(loc.Line), color.FgBlue, color.Bold), bar, line)
		carets := strings.Repeat("^", caretWidth(exportErr.SourceSpan(), line, loc.Column))
		fmt.Fprintf(r.out, "%s %s %s%s\n", gutter, bar, caretPadding(line, loc.Column), r.paint(carets, color.FgRed, color.Bold))
	}

	for _, hint := range exportErr.Suggestions() {
		fmt.Fprintf(r.out, "%s %s help: %s\n", gutter, r.paint("=", color.FgBlue, color.Bold), hint)
	}

	if r.verbose {
		fmt.Fprintf(r.out, "%s %s note: %s\n", gutter, r.paint("=", color.FgBlue, color.Bold), exportErr.ErrorCode())
		r.printCauses(exportErr.Unwrap())
	}
}

// printCauses prints cause and everything it wraps in verbose mode
func (r *DiagnosticReporter) printCauses(cause error) {
	if !r.verbose {
		return
	}
	level := 1
	for ; cause != nil; cause = unwrapOnce(cause) {
		fmt.Fprintf(r.out, "  caused by %d: %s\n", level, cause.Error())
		level++
	}
}

func unwrapOnce(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}

// caretPadding reproduces the whitespace before column so that tabs line up
func caretPadding(line string, column int) string {
	if column <= 1 {
		return ""
	}
	end := column - 1
	if end > len(line) {
		end = len(line)
	}
	var b strings.Builder
	for _, c := range line[:end] {
		if c == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// caretWidth is the length of span clipped to its first line, at least one
func caretWidth(span source.Span, line string, column int) int {
	width := span.Len()
	if rest := len(line) - (column - 1); width > rest {
		width = rest
	}
	if width < 1 {
		width = 1
	}
	return width
}

func (r *DiagnosticReporter) paint(text string, attrs ...color.Attribute) string {
	if !r.colors {
		return text
	}
	return color.New(attrs...).Sprint(text)
}
