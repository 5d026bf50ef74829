package directives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/source"
)

func newTestParser() *Parser {
	return NewParser(DefaultRegistry(), "wasm_export")
}

func parse(t *testing.T, args string, ctx Context) (*Set, error) {
	t.Helper()
	return newTestParser().Parse(args, source.Span{Start: 0, End: len(args)}, ctx)
}

func TestParseEmpty(t *testing.T) {
	set, err := parse(t, "", GroupContext)
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
	assert.False(t, set.ShouldSkip())

	set, err = parse(t, "   ", StandaloneContext)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestParseForwardsUnknownKeys(t *testing.T) {
	set, err := parse(t, "some_top_attr, some_other_top_attr = something", GroupContext)
	require.NoError(t, err)

	forwarded := set.Forwarded()
	require.Len(t, forwarded, 2)
	assert.Equal(t, "some_top_attr", forwarded[0].Raw)
	assert.Equal(t, FormPath, forwarded[0].Form)
	assert.Equal(t, "some_other_top_attr = something", forwarded[1].Raw)
	assert.Equal(t, FormNameValue, forwarded[1].Form)
	assert.Equal(t, "some_other_top_attr = something", forwarded[1].Render())
}

func TestParseKeepsRepeatedForwardedKeys(t *testing.T) {
	set, err := parse(t, `js_name = "a", js_name = "b"`, StandaloneContext)
	require.NoError(t, err)

	forwarded := set.Forwarded()
	require.Len(t, forwarded, 2)
	assert.Equal(t, `js_name = "a"`, forwarded[0].Raw)
	assert.Equal(t, `js_name = "b"`, forwarded[1].Raw)
}

func TestParseMixedMemberDirectives(t *testing.T) {
	set, err := parse(t, `skip, unchecked_return_type = "something", some_forward_attr`, MemberContext)
	require.NoError(t, err)

	assert.True(t, set.ShouldSkip())
	override, ok := set.ReturnTypeOverride()
	assert.True(t, ok)
	assert.Equal(t, "something", override)

	forwarded := set.Forwarded()
	require.Len(t, forwarded, 1)
	assert.Equal(t, "some_forward_attr", forwarded[0].Raw)

	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, Skip, all[0].Kind)
	assert.Equal(t, UncheckedReturnType, all[1].Kind)
	assert.Equal(t, Forwarded, all[2].Kind)
}

func TestParseErrors(t *testing.T) {
	delimiter := "expected `,` as wasm_export attributes must be delimited by comma"

	tests := []struct {
		name    string
		args    string
		ctx     Context
		code    errors.ErrorCode
		message string
	}{
		{
			name:    "skip on impl block",
			args:    "skip",
			ctx:     GroupContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `skip` attribute, it is only valid for methods of an impl block",
		},
		{
			name:    "skip on standalone function",
			args:    "skip",
			ctx:     StandaloneContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `skip` attribute, it is only valid for methods of an impl block",
		},
		{
			name:    "duplicate skip",
			args:    "skip, skip",
			ctx:     MemberContext,
			code:    errors.DuplicateErrorCode,
			message: "duplicate `skip` attribute",
		},
		{
			name:    "duplicate skip reported before placement",
			args:    "skip, skip",
			ctx:     GroupContext,
			code:    errors.DuplicateErrorCode,
			message: "duplicate `skip` attribute",
		},
		{
			name:    "duplicate unchecked_return_type",
			args:    `unchecked_return_type = "somethingElse", unchecked_return_type = "something"`,
			ctx:     MemberContext,
			code:    errors.DuplicateErrorCode,
			message: "duplicate `unchecked_return_type` attribute",
		},
		{
			name:    "duplicate preserve_js_class",
			args:    "preserve_js_class, preserve_js_class",
			ctx:     StandaloneContext,
			code:    errors.DuplicateErrorCode,
			message: "duplicate `preserve_js_class` attribute",
		},
		{
			name:    "duplicate return_description",
			args:    `return_description = "a", return_description = "b"`,
			ctx:     MemberContext,
			code:    errors.DuplicateErrorCode,
			message: "duplicate `return_description` attribute",
		},
		{
			name:    "duplicate unchecked_param_type",
			args:    `unchecked_param_type = "FirstType", unchecked_param_type = "SecondType"`,
			ctx:     ParamContext,
			code:    errors.DuplicateErrorCode,
			message: "duplicate `unchecked_param_type` attribute",
		},
		{
			name:    "skip with value",
			args:    "skip = something",
			ctx:     MemberContext,
			code:    errors.ShapeErrorCode,
			message: "unexpected token in attribute, `skip` attribute does not take any extra tokens or arguments",
		},
		{
			name:    "preserve_js_class with value",
			args:    `preserve_js_class = "string"`,
			ctx:     StandaloneContext,
			code:    errors.ShapeErrorCode,
			message: "unexpected token in attribute, `preserve_js_class` attribute does not take any extra tokens or arguments",
		},
		{
			name:    "skip with arguments",
			args:    "skip(now)",
			ctx:     MemberContext,
			code:    errors.ShapeErrorCode,
			message: "unexpected token in attribute, `skip` attribute does not take any extra tokens or arguments",
		},
		{
			name:    "unchecked_return_type without value",
			args:    "unchecked_return_type",
			ctx:     MemberContext,
			code:    errors.ShapeErrorCode,
			message: "expected a value for this attribute: `unchecked_return_type = ...` and it must be a string literal",
		},
		{
			name:    "param_description without value",
			args:    "param_description",
			ctx:     ParamContext,
			code:    errors.ShapeErrorCode,
			message: "expected a value for this attribute: `param_description = ...` and it must be a string literal",
		},
		{
			name:    "unchecked_return_type with path value",
			args:    "unchecked_return_type = notStringLiteral",
			ctx:     MemberContext,
			code:    errors.ShapeErrorCode,
			message: "expected string literal",
		},
		{
			name:    "return_description with number",
			args:    "return_description = 42",
			ctx:     StandaloneContext,
			code:    errors.ShapeErrorCode,
			message: "expected string literal",
		},
		{
			name:    "param_description with expression",
			args:    `param_description = "test" - something_else`,
			ctx:     ParamContext,
			code:    errors.ShapeErrorCode,
			message: "expected string literal",
		},
		{
			name:    "byte string is not a string literal",
			args:    `unchecked_param_type = b"bytes"`,
			ctx:     ParamContext,
			code:    errors.ShapeErrorCode,
			message: "expected string literal",
		},
		{
			name:    "semicolon delimiter",
			args:    `skip; unchecked_return_type = "string"`,
			ctx:     MemberContext,
			code:    errors.SyntaxErrorCode,
			message: delimiter,
		},
		{
			name:    "minus delimiter",
			args:    `skip - unchecked_return_type = "string"`,
			ctx:     MemberContext,
			code:    errors.SyntaxErrorCode,
			message: delimiter,
		},
		{
			name:    "dot delimiter",
			args:    `skip. unchecked_return_type = "string"`,
			ctx:     MemberContext,
			code:    errors.SyntaxErrorCode,
			message: delimiter,
		},
		{
			name:    "slash delimiter",
			args:    `skip/ unchecked_return_type = "string"`,
			ctx:     MemberContext,
			code:    errors.SyntaxErrorCode,
			message: delimiter,
		},
		{
			name:    "missing delimiter",
			args:    `skip unchecked_return_type = "string"`,
			ctx:     MemberContext,
			code:    errors.SyntaxErrorCode,
			message: delimiter,
		},
		{
			name:    "semicolon between parameter directives",
			args:    `param_description = "first"; param_description = "second"`,
			ctx:     ParamContext,
			code:    errors.SyntaxErrorCode,
			message: delimiter,
		},
		{
			name:    "unchecked_return_type on impl block",
			args:    `unchecked_return_type = "string"`,
			ctx:     GroupContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `unchecked_return_type` attribute, it can only be used for impl block methods or standalone functions",
		},
		{
			name:    "preserve_js_class on impl block",
			args:    "preserve_js_class",
			ctx:     GroupContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `preserve_js_class` attribute, it can only be used for impl block methods or standalone functions",
		},
		{
			name:    "return_description on impl block",
			args:    `return_description = "desc"`,
			ctx:     GroupContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `return_description` attribute, it can only be used for impl block methods or standalone functions",
		},
		{
			name:    "impl block placement is checked in a fixed order",
			args:    `return_description = "desc", preserve_js_class, unchecked_return_type = "x"`,
			ctx:     GroupContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `unchecked_return_type` attribute, it can only be used for impl block methods or standalone functions",
		},
		{
			name:    "param_description on a method",
			args:    `param_description = "desc"`,
			ctx:     MemberContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `param_description` attribute, it can only be used on function parameters",
		},
		{
			name:    "return_description on a parameter",
			args:    `return_description = "desc"`,
			ctx:     ParamContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `return_description` attribute, it can only be used for impl block methods or standalone functions",
		},
		{
			name:    "anything on a receiver",
			args:    `js_name = "selfParam"`,
			ctx:     ReceiverContext,
			code:    errors.PlacementErrorCode,
			message: "unexpected `js_name` attribute, it is not valid on a self receiver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := parse(t, tt.args, tt.ctx)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestParseParamDirectives(t *testing.T) {
	set, err := parse(t, `param_description = "first arg", unchecked_param_type = "Foo", js_name = "renamed", optional`, ParamContext)
	require.NoError(t, err)

	all := set.All()
	require.Len(t, all, 4)
	assert.Equal(t, ParamDescription, all[0].Kind)
	assert.Equal(t, "first arg", all[0].Value)
	assert.Equal(t, UncheckedParamType, all[1].Kind)
	assert.Equal(t, JSName, all[2].Kind)
	assert.Equal(t, `js_name = "renamed"`, all[2].Render())
	assert.Equal(t, Forwarded, all[3].Kind)
	assert.Equal(t, "optional", all[3].Render())
}

func TestJSNameIsForwardedOnDeclarations(t *testing.T) {
	for _, ctx := range []Context{GroupContext, MemberContext, StandaloneContext} {
		t.Run(ctx.String(), func(t *testing.T) {
			set, err := parse(t, `js_name = "renamed", js_name = "twice"`, ctx)
			require.NoError(t, err)
			assert.False(t, set.Has(JSName))
			require.Len(t, set.Forwarded(), 2)
			assert.Equal(t, `js_name = "renamed"`, set.Forwarded()[0].Raw)
		})
	}
}

func TestParseForwardedForms(t *testing.T) {
	args := `wasm_bindgen::skip_typescript, getter = Self::value, typescript_type(Foo, "bar"), a = -1,`
	set, err := parse(t, args, StandaloneContext)
	require.NoError(t, err)

	forwarded := set.Forwarded()
	require.Len(t, forwarded, 4)
	assert.Equal(t, "wasm_bindgen::skip_typescript", forwarded[0].Key)
	assert.Equal(t, "getter = Self::value", forwarded[1].Raw)
	assert.Equal(t, FormList, forwarded[2].Form)
	assert.Equal(t, `typescript_type(Foo, "bar")`, forwarded[2].Raw)
	assert.Equal(t, "a = -1", forwarded[3].Raw)
}

func TestParseRawStringValue(t *testing.T) {
	set, err := parse(t, `unchecked_return_type = r#"Map<"k", V>"#`, StandaloneContext)
	require.NoError(t, err)

	override, ok := set.ReturnTypeOverride()
	require.True(t, ok)
	assert.Equal(t, `Map<"k", V>`, override)
}

func TestParseSpans(t *testing.T) {
	args := `skip, unchecked_return_type = "T"`
	set, err := newTestParser().Parse(args, source.Span{Start: 100, End: 100 + len(args)}, MemberContext)
	require.NoError(t, err)

	skip, ok := set.Get(Skip)
	require.True(t, ok)
	assert.Equal(t, source.Span{Start: 100, End: 104}, skip.Span)

	override, ok := set.Get(UncheckedReturnType)
	require.True(t, ok)
	assert.Equal(t, source.Span{Start: 106, End: 133}, override.Span)
	assert.Equal(t, source.Span{Start: 130, End: 133}, override.ValueSpan)
	assert.Equal(t, `"T"`, override.Literal)
}

func TestParseErrorSpanPointsAtOffendingToken(t *testing.T) {
	args := `skip; other`
	_, err := newTestParser().Parse(args, source.Span{Start: 10, End: 10 + len(args)}, MemberContext)
	require.Error(t, err)

	exportErr, ok := errors.AsExportError(err)
	require.True(t, ok)
	assert.Equal(t, source.Span{Start: 14, End: 15}, exportErr.SourceSpan())
}

func TestParseAttributesMergesAttachmentPoint(t *testing.T) {
	p := newTestParser()
	attrs := []models.Attribute{
		models.NewAttribute("wasm_export", "js_name = \"a\""),
		models.NewAttribute("inline", ""),
		models.NewAttribute("wasm_export", "preserve_js_class"),
		models.NewAttribute("wasm_export", ""),
	}

	set, err := p.ParseAttributes(attrs, StandaloneContext)
	require.NoError(t, err)
	assert.True(t, set.PreserveIdentity())
	require.Len(t, set.Forwarded(), 1)

	attrs = append(attrs, models.NewAttribute("wasm_export", "preserve_js_class"))
	_, err = p.ParseAttributes(attrs, StandaloneContext)
	require.Error(t, err)
	assert.Equal(t, "duplicate `preserve_js_class` attribute", err.Error())
}

func TestParseAttributesAnchorsDuplicateToLaterAttribute(t *testing.T) {
	first := models.NewAttribute("wasm_export", "skip")
	first.ArgsSpan = source.NewSpan(14, 18)
	second := models.NewAttribute("wasm_export", "foo, skip")
	second.ArgsSpan = source.NewSpan(40, 49)

	_, err := newTestParser().ParseAttributes([]models.Attribute{first, second}, MemberContext)
	require.Error(t, err)
	assert.Equal(t, errors.DuplicateErrorCode, errors.CodeOf(err))

	exportErr, ok := errors.AsExportError(err)
	require.True(t, ok)
	assert.Equal(t, source.Span{Start: 45, End: 49}, exportErr.SourceSpan())
}

func TestParseAttributesRejectsBareDirectiveOnReceiver(t *testing.T) {
	attrs := []models.Attribute{models.NewAttribute("wasm_export", "")}

	_, err := newTestParser().ParseAttributes(attrs, ReceiverContext)
	require.Error(t, err)
	assert.Equal(t, "unexpected `wasm_export` attribute, it is not valid on a self receiver", err.Error())

	set, err := newTestParser().ParseAttributes(nil, ReceiverContext)
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}

func TestSetMerge(t *testing.T) {
	a, err := parse(t, `skip, foo`, MemberContext)
	require.NoError(t, err)
	b, err := parse(t, `bar, unchecked_return_type = "X"`, MemberContext)
	require.NoError(t, err)

	failed, ok := a.Merge(b)
	require.True(t, ok, "unexpected conflict on %s", failed.Key)
	assert.Equal(t, 4, a.Len())
	assert.Len(t, a.Forwarded(), 2)

	c, err := parse(t, `skip`, MemberContext)
	require.NoError(t, err)
	failed, ok = a.Merge(c)
	assert.False(t, ok)
	assert.Equal(t, "skip", failed.Key)
}
