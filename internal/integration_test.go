package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/toyz/wasmexport/internal/cli"
	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/expand"
	"github.com/toyz/wasmexport/internal/parser"
	"github.com/toyz/wasmexport/internal/utils"
)

const exampleCrate = "../examples/store/src"

// TestExampleCrateExpansion runs the complete parse and expand workflow over
// the example crate
func TestExampleCrateExpansion(t *testing.T) {
	logger := zaptest.NewLogger(t)
	naming := config.Default().Naming

	content, err := os.ReadFile(filepath.Join(exampleCrate, "lib.rs"))
	require.NoError(t, err)

	p := parser.NewParser(naming.Directive, logger)
	file, err := p.ParseFile("lib.rs", content)
	require.NoError(t, err)
	require.Len(t, file.AnnotatedItems(), 3)

	result, err := expand.New(naming, expand.WithLogger(logger)).ExpandFile(file)
	require.NoError(t, err)

	var wrappers []string
	for _, exp := range result.Expansions {
		wrappers = append(wrappers, exp.Wrappers...)
	}
	assert.Equal(t, []string{
		"version__wasm_export",
		"checksum__wasm_export",
		"create__wasm_export",
		"put__wasm_export",
		"get__wasm_export",
	}, wrappers)

	output := result.Output
	assert.NotContains(t, output, "wasm_export(")
	assert.NotContains(t, output, "len__wasm_export")
	assert.NotContains(t, output, "evict__wasm_export")
	assert.Equal(t, 2, strings.Count(output, "\nimpl Store {\n"))
	assert.Contains(t, output, "#[wasm_bindgen(js_class = \"Store\")]\nimpl Store {\n")
	assert.Contains(t, output, "        self.get(key).await.into()\n")
	assert.Contains(t, output, "        Self::create().into()\n")
	assert.Contains(t, output, "pub async fn get__wasm_export(&self, key: String) -> WasmEncodedResult<Entry> {")

	// the expansion is valid Rust without directives, so expanding it again is a no-op
	reparsed, err := p.ParseSource("lib.expanded.rs", output)
	require.NoError(t, err)
	assert.Empty(t, reparsed.AnnotatedItems())

	again, err := expand.New(naming).ExpandFile(reparsed)
	require.NoError(t, err)
	assert.Equal(t, output, again.Output)
	assert.False(t, again.Changed())
}

// TestExampleCrateCheck runs the generator in check mode over the example crate
func TestExampleCrateCheck(t *testing.T) {
	var stdout, stderr bytes.Buffer
	diagnostics := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticError, &stdout, &stderr)

	gen := cli.NewGenerator(config.Default(), diagnostics, zaptest.NewLogger(t))
	err := gen.Run(context.Background(), cli.Config{Patterns: []string{exampleCrate + "/..."}, Check: true})
	require.NoError(t, err)

	summary := gen.GetSummary()
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesExpanded)
	assert.Equal(t, 5, summary.WrappersGenerated)
	assert.Empty(t, summary.GeneratedFiles)
	assert.Empty(t, stderr.String())

	_, err = os.Stat(filepath.Join(exampleCrate, "lib.expanded.rs"))
	assert.True(t, os.IsNotExist(err))
}
