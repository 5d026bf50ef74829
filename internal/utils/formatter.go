package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/toyz/wasmexport/internal/errors"
)

// RustfmtBinary is the formatter executable looked up on PATH
var RustfmtBinary = "rustfmt"

// FormatRustSource pipes source through rustfmt and returns the formatted text.
// On failure the source is returned unchanged together with the error.
func FormatRustSource(ctx context.Context, source string) (string, error) {
	path, err := exec.LookPath(RustfmtBinary)
	if err != nil {
		return source, errors.Wrap(errors.FileSystemErrorCode, "rustfmt not found", err).
			WithSuggestion("install rustfmt with `rustup component add rustfmt` or disable output.format")
	}

	cmd := exec.CommandContext(ctx, path, "--edition", "2021", "--emit", "stdout")
	cmd.Stdin = strings.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return source, errors.Wrap(errors.FileSystemErrorCode,
			fmt.Sprintf("rustfmt failed: %s", strings.TrimSpace(stderr.String())), err)
	}
	return stdout.String(), nil
}

// WriteRustFile writes code to filename, ending it with exactly one newline
func WriteRustFile(filename, code string) error {
	code = strings.TrimRight(code, "\n") + "\n"
	if err := os.WriteFile(filename, []byte(code), 0644); err != nil {
		return errors.WrapFileSystemError("write", filename, err)
	}
	return nil
}
