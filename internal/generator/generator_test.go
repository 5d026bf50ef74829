package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/directives"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/models/modeltest"
	"github.com/toyz/wasmexport/internal/signature"
	"github.com/toyz/wasmexport/internal/source"
	"github.com/toyz/wasmexport/internal/templates"
)

func newBuilder() *Builder {
	return NewBuilder(config.Default().Naming, nil)
}

func parseSet(t *testing.T, args string, ctx directives.Context) *directives.Set {
	t.Helper()
	p := directives.NewParser(nil, "wasm_export")
	set, err := p.Parse(args, source.Span{End: len(args)}, ctx)
	require.NoError(t, err)
	return set
}

func resolve(t *testing.T, fn *models.Function, args string, ctx directives.Context) *signature.ExportSpec {
	t.Helper()
	set := parseSet(t, args, ctx)
	spec, err := signature.NewAnalyzer("Result", directives.NewParser(nil, "wasm_export")).Resolve(fn, set)
	require.NoError(t, err)
	return spec
}

func render(t *testing.T, fn *models.Function, indent string) string {
	t.Helper()
	out, err := templates.NewRenderer(nil).RenderFunction(fn, indent)
	require.NoError(t, err)
	return out
}

func TestWrapperName(t *testing.T) {
	b := newBuilder()
	assert.Equal(t, "some_fn__wasm_export", b.WrapperName("some_fn"))
	assert.Equal(t, b.WrapperName("x"), b.WrapperName("x"))

	naming := config.Default().Naming
	naming.Suffix = "_js"
	assert.Equal(t, "some_fn_js", NewBuilder(naming, nil).WrapperName("some_fn"))
}

func TestBuildWrapperStandaloneAsync(t *testing.T) {
	fn := modeltest.NewFunction("some_fn").
		Public().
		Async().
		WithAttributes(models.NewAttribute("some_external_macro", "")).
		WithParam("arg", "String").
		Returns("Result<TestStruct, Error>").
		WithBody("{\n    Ok(TestStruct)\n}").
		Build()
	spec := resolve(t, fn, `js_name = "someSelfMethod", some_wbg_attr, some_other_wbg_attr = something`, directives.StandaloneContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, false)
	require.NoError(t, err)

	expected := "#[allow(non_snake_case)]\n" +
		`#[wasm_bindgen(js_name = "someSelfMethod", some_wbg_attr, some_other_wbg_attr = something, unchecked_return_type = "WasmEncodedResult<TestStruct>")]` + "\n" +
		"pub async fn some_fn__wasm_export(arg: String) -> WasmEncodedResult<TestStruct> {\n" +
		"    some_fn(arg).await.into()\n" +
		"}"
	assert.Equal(t, expected, render(t, wrapper, ""))

	// the input is left untouched
	assert.Equal(t, "some_fn", fn.Name)
	assert.Equal(t, "Result<TestStruct, Error>", fn.Output)
	assert.Len(t, fn.Attrs, 1)
}

func TestBuildWrapperReturnTypeOverride(t *testing.T) {
	fn := modeltest.NewFunction("some_other_fn").
		Public().
		Returns("Result<Vec<u8>, Error>").
		WithBody("{\n    Ok(vec![])\n}").
		Build()
	spec := resolve(t, fn, `unchecked_return_type = "number[]"`, directives.StandaloneContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, false)
	require.NoError(t, err)

	expected := "#[allow(non_snake_case)]\n" +
		`#[wasm_bindgen(unchecked_return_type = "WasmEncodedResult<number[]>")]` + "\n" +
		"pub fn some_other_fn__wasm_export() -> WasmEncodedResult<Vec<u8>> {\n" +
		"    some_other_fn().into()\n" +
		"}"
	assert.Equal(t, expected, render(t, wrapper, ""))
}

func TestBuildWrapperMemberWithParamDirectives(t *testing.T) {
	fn := modeltest.NewFunction("rename").
		Public().
		WithAttributes(
			modeltest.NewDocComment("Renames the entry."),
			models.NewAttribute("wasm_export", `js_name = "rename"`),
			models.NewAttribute("inline", ""),
		).
		WithReceiver("&mut self").
		WithParam("mut name", "String",
			models.NewAttribute("wasm_export", `param_description = "new name", js_name = "newName"`),
			models.NewAttribute("allow", "unused_mut"),
		).
		Returns("Result<(), Error>").
		Build()
	spec := resolve(t, fn, `js_name = "rename"`, directives.MemberContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, true)
	require.NoError(t, err)

	expected := "    /// Renames the entry.\n" +
		"    #[allow(non_snake_case)]\n" +
		`    #[wasm_bindgen(js_name = "rename", unchecked_return_type = "WasmEncodedResult<()>")]` + "\n" +
		"    pub fn rename__wasm_export(\n" +
		"        &mut self,\n" +
		"        #[allow(unused_mut)]\n" +
		`        #[wasm_bindgen(param_description = "new name", js_name = "newName")]` + "\n" +
		"        mut name: String,\n" +
		"    ) -> WasmEncodedResult<()> {\n" +
		"        self.rename(name).into()\n" +
		"    }"
	assert.Equal(t, expected, render(t, wrapper, templates.MemberIndent))

	// parameter directives on the input stay as written
	require.Len(t, fn.Params[1].Attrs, 2)
	assert.Equal(t, "wasm_export", fn.Params[1].Attrs[0].Path)
}

func TestBuildWrapperAssociatedFunction(t *testing.T) {
	fn := modeltest.NewFunction("new").
		Public().
		WithParam("(a, b)", "(u8, u8)").
		Returns("Result<Self, Error>").
		Build()
	spec := resolve(t, fn, "", directives.MemberContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, true)
	require.NoError(t, err)
	assert.Equal(t, "{\n        Self::new((a, b)).into()\n    }", wrapper.Body)
	assert.Equal(t, "WasmEncodedResult<Self>", wrapper.Output)
}

func TestBuildWrapperReturnDescription(t *testing.T) {
	fn := modeltest.NewFunction("count").
		Public().
		Returns("Result<u32, Error>").
		Build()
	spec := resolve(t, fn, `return_description = "number of entries", js_name = "count"`, directives.StandaloneContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, false)
	require.NoError(t, err)

	require.Len(t, wrapper.Attrs, 2)
	assert.Equal(t,
		`#[wasm_bindgen(js_name = "count", unchecked_return_type = "WasmEncodedResult<u32>", return_description = "number of entries")]`,
		wrapper.Attrs[1].Text)
}

func TestBuildWrapperPreserveIdentity(t *testing.T) {
	fn := modeltest.NewFunction("make").
		Public().
		Async().
		Returns("Result<Handle, Error>").
		Build()
	spec := resolve(t, fn, "preserve_js_class", directives.MemberContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, true)
	require.NoError(t, err)

	assert.Equal(t, "JsValue", wrapper.Output)
	assert.Equal(t, `#[wasm_bindgen(unchecked_return_type = "WasmEncodedResult<Handle>")]`, wrapper.Attrs[1].Text)
	assert.Contains(t, wrapper.Body, "let result = Self::make().await;")
	assert.Equal(t, 1, strings.Count(wrapper.Body, "Ok(value) =>"))
	assert.Equal(t, 1, strings.Count(wrapper.Body, "Err(error) =>"))
	assert.Equal(t, 2, strings.Count(wrapper.Body, `from_str("value")`))
	assert.Equal(t, 2, strings.Count(wrapper.Body, `from_str("error")`))
	assert.Contains(t, wrapper.Body, "let wasm_error: WasmEncodedError = error.into();")
}

func TestBuildWrapperKeepsGenericsAndWhere(t *testing.T) {
	fn := modeltest.NewFunction("convert").
		Public().
		WithGenerics("<T: Into<u8>>").
		WithParam("value", "T").
		Returns("Result<u8, Error>").
		WithWhere("where T: Copy").
		Build()
	spec := resolve(t, fn, "", directives.StandaloneContext)

	wrapper, err := newBuilder().BuildWrapper(fn, spec, false)
	require.NoError(t, err)
	assert.Equal(t, "<T: Into<u8>>", wrapper.Generics)
	assert.Equal(t, "where T: Copy", wrapper.Where)
}

func TestBuildWrapperRejectsSkip(t *testing.T) {
	fn := modeltest.NewFunction("hidden").Public().Build()

	_, err := newBuilder().BuildWrapper(fn, &signature.ExportSpec{ShouldSkip: true}, true)
	assert.Error(t, err)

	_, err = newBuilder().BuildWrapper(nil, nil, false)
	assert.Error(t, err)
}

func TestBuildGroup(t *testing.T) {
	original := &models.Group{
		Attrs:    []models.Attribute{models.NewAttribute("wasm_export", ""), models.NewAttribute("cfg", "test")},
		Generics: "<T>",
		SelfType: "Store<T>",
		Items: []models.GroupItem{
			{Raw: "const N: usize = 1;", Kind: "const_item"},
		},
	}
	wrapper := modeltest.NewFunction("get__wasm_export").Public().WithReceiver("&self").Build()

	b := newBuilder()

	bare, err := b.BuildGroup(original, nil, []*models.Function{wrapper})
	require.NoError(t, err)
	require.Len(t, bare.Attrs, 1)
	assert.Equal(t, "#[wasm_bindgen]", bare.Attrs[0].Text)
	assert.Equal(t, "<T>", bare.Generics)
	require.Len(t, bare.Items, 1)
	assert.Equal(t, "get__wasm_export", bare.Items[0].Function.Name)

	forwarded := parseSet(t, `js_class = "Store", inspectable`, directives.GroupContext).Forwarded()
	group, err := b.BuildGroup(original, forwarded, nil)
	require.NoError(t, err)
	assert.Equal(t, `#[wasm_bindgen(js_class = "Store", inspectable)]`, group.Attrs[0].Text)
	assert.Empty(t, group.Items)

	// the original keeps its members and attributes
	assert.Len(t, original.Items, 1)
	assert.Len(t, original.Attrs, 2)
}

func TestBuilderImplementsInterface(t *testing.T) {
	var _ DeclarationBuilder = newBuilder()
}
