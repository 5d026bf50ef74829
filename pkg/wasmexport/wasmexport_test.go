package wasmexport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestExpandSource(t *testing.T) {
	input := dedent.Dedent(`
		#[wasm_export(js_name = "add")]
		pub fn add(a: u8, b: u8) -> Result<u8, Error> {
		    Ok(a + b)
		}
	`)

	result, err := ExpandSource(context.Background(), "lib.rs", input, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.True(t, result.Changed())
	assert.Equal(t, []string{"add__wasm_export"}, result.Wrappers)
	assert.Contains(t, result.Output, "#[wasm_bindgen(js_name = \"add\", unchecked_return_type = \"WasmEncodedResult<u8>\")]\n")
	assert.Contains(t, result.Output, "pub fn add__wasm_export(a: u8, b: u8) -> WasmEncodedResult<u8> {\n    add(a, b).into()\n}\n")
}

func TestExpandSourceOptions(t *testing.T) {
	input := "#[js_export]\npub fn f() -> Result<u8, E> {\n    Ok(1)\n}\n"

	result, err := ExpandSource(context.Background(), "lib.rs", input,
		WithDirective("js_export"),
		WithWrapperSuffix("_js"))
	require.NoError(t, err)
	assert.Equal(t, []string{"f_js"}, result.Wrappers)

	// the default directive name is no longer recognized
	result, err = ExpandSource(context.Background(), "lib.rs", "#[wasm_export]\npub fn f() {}\n",
		WithDirective("js_export"))
	require.NoError(t, err)
	assert.False(t, result.Changed())
}

func TestExpandSourceConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wasmexport.toml")
	require.NoError(t, os.WriteFile(path, []byte("[naming]\nsuffix = \"_cfg\"\n"), 0o644))

	input := "#[wasm_export]\npub fn f() -> Result<u8, E> {\n    Ok(1)\n}\n"

	result, err := ExpandSource(context.Background(), "lib.rs", input, WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"f_cfg"}, result.Wrappers)

	// later options apply on top of the file
	result, err = ExpandSource(context.Background(), "lib.rs", input, WithConfigFile(path), WithWrapperSuffix("_opt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"f_opt"}, result.Wrappers)
}

func TestExpandSourceErrors(t *testing.T) {
	ctx := context.Background()

	_, err := ExpandSource(ctx, "lib.rs", "#[wasm_export]\nfn f() -> Result<u8, E> { Ok(1) }")
	require.Error(t, err)
	assert.Equal(t, "lib.rs:2:1: expected pub visibility", err.Error())
	assert.True(t, IsDiagnostic(err))

	_, err = ExpandSource(ctx, "lib.rs", "pub fn broken( -> {", WithLogger(zaptest.NewLogger(t)))
	require.Error(t, err)
	assert.True(t, IsDiagnostic(err))

	result, err := ExpandSource(ctx, "lib.rs",
		"impl Foo {\n    #[wasm_export(js_name = \"x\")]\n    pub fn b(&self) -> Result<u8, E> { Ok(1) }\n}\n")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "lib.rs:2:5: `wasm_export` on a method requires `#[wasm_export]` on its impl block", err.Error())
	assert.True(t, IsDiagnostic(err))

	_, err = ExpandSource(ctx, "lib.rs", "", WithWrapperSuffix("-bad"))
	require.Error(t, err)
	assert.False(t, IsDiagnostic(err))

	_, err = ExpandSource(ctx, "lib.rs", "", WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.False(t, IsDiagnostic(err))
}
