package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRustFileNormalizesTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.expanded.rs")

	require.NoError(t, WriteRustFile(path, "fn a() {}\n\n\n"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn a() {}\n", string(content))
}

func TestFormatRustSourceWithoutFormatter(t *testing.T) {
	old := RustfmtBinary
	RustfmtBinary = "rustfmt-does-not-exist"
	t.Cleanup(func() { RustfmtBinary = old })

	out, err := FormatRustSource(context.Background(), "fn   a() {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rustfmt not found")
	assert.Equal(t, "fn   a() {}", out)
}
