package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly console output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
	progress  string
	started   time.Time
}

// NewDiagnosticSystem creates a new diagnostic system writing to stdout and stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return NewDiagnosticSystemWithWriters(level, os.Stdout, os.Stderr)
}

// NewDiagnosticSystemWithWriters creates a diagnostic system over the given writers.
// Colors are only used when stdout is a terminal.
func NewDiagnosticSystemWithWriters(level DiagnosticLevel, output, errorOut io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors() && output == os.Stdout,
		showTime:  level >= DiagnosticVerbose,
		output:    output,
		errorOut:  errorOut,
	}
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// ErrorWriter returns the writer errors go to
func (d *DiagnosticSystem) ErrorWriter() io.Writer {
	return d.errorOut
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// StartProgress announces a step; EndProgress closes it
func (d *DiagnosticSystem) StartProgress(step string) {
	d.progress = step
	d.started = time.Now()
	if d.level >= DiagnosticVerbose {
		fmt.Fprintf(d.output, "%s%s...\n", d.getIndent(), step)
	}
}

// EndProgress reports the outcome of the step started last
func (d *DiagnosticSystem) EndProgress(ok bool, detail string) {
	step := d.progress
	d.progress = ""
	if step == "" || d.level < DiagnosticInfo {
		return
	}

	mark, attr := "✓", color.FgGreen
	if !ok {
		mark, attr = "✗", color.FgRed
	}
	line := step
	if detail != "" {
		line += ": " + detail
	}
	if d.showTime {
		line += fmt.Sprintf(" (%s)", time.Since(d.started).Round(time.Millisecond))
	}
	fmt.Fprintf(d.output, "%s%s %s\n", d.getIndent(), d.paint(attr, mark), line)
}

// Section creates a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s\n", d.paint(color.FgCyan, title))
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), fmt.Sprintf(format, args...))
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary with statistics, keys in sorted order
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(d.output, "\n%s\n", title)
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
	fmt.Fprintln(d.output)
}

// FileWritten reports an output file
func (d *DiagnosticSystem) FileWritten(path string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s%s %s\n", d.getIndent(), d.paint(color.FgMagenta, "✏"), path)
	}
}

func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}
	output.WriteString(d.paint(attr, "["+level+"]"))
	output.WriteString(" ")
	output.WriteString(fmt.Sprintf(format, args...))
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

func (d *DiagnosticSystem) paint(attr color.Attribute, text string) string {
	if !d.useColors {
		return text
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(text)
}

func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}
