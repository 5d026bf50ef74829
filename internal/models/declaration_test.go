package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/models/modeltest"
)

func TestFunctionBuilder(t *testing.T) {
	fn := modeltest.NewFunction("get").
		Public().
		Async().
		WithAttributes(modeltest.NewDocComment("Fetches a value"), models.NewAttribute("wasm_export", "js_name = \"getValue\"")).
		WithReceiver("&self").
		WithParam("key", "String").
		Returns("Result<Vec<u8>, Error>").
		Build()

	assert.True(t, fn.Vis.IsPublic())
	assert.True(t, fn.Async)
	assert.Equal(t, "async", fn.Qualifiers)
	assert.True(t, fn.HasReceiver())
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "&self", fn.Params[0].Text())
	assert.Equal(t, "key: String", fn.Params[1].Text())
	assert.Len(t, models.DirectiveAttributes(fn.Attrs, "wasm_export"), 1)
	assert.Len(t, models.DocAttributes(fn.Attrs), 1)
	assert.Equal(t, `#[wasm_export(js_name = "getValue")]`, fn.Attrs[1].Text)
	assert.Equal(t, "/// Fetches a value", fn.Attrs[0].Text)
}

func TestFunctionCloneIsDeep(t *testing.T) {
	orig := modeltest.NewFunction("f").
		WithParam("a", "u8", models.NewAttribute("wasm_export", "param_description = \"a\"")).
		Build()

	clone := orig.Clone()
	clone.Attrs = append(clone.Attrs, models.NewAttribute("inline", ""))
	clone.Params[0].Attrs = nil
	clone.Params[0].Pattern = "b"

	assert.Empty(t, orig.Attrs)
	assert.Len(t, orig.Params[0].Attrs, 1)
	assert.Equal(t, "a", orig.Params[0].Pattern)
}

func TestGroupHelpers(t *testing.T) {
	g := &models.Group{
		SelfType: "Store",
		Items: []models.GroupItem{
			{Function: modeltest.NewFunction("a").Build()},
			{Raw: "const N: usize = 1;", Kind: "const_item"},
			{Function: modeltest.NewFunction("b").Build()},
		},
	}

	fns := g.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, "a", fns[0].Name)
	assert.Equal(t, "b", fns[1].Name)
	assert.False(t, g.IsTraitImpl())

	clone := g.Clone()
	clone.Items[0].Function.Name = "changed"
	assert.Equal(t, "a", g.Items[0].Function.Name)

	item := models.GroupItemOf(g)
	assert.Equal(t, models.ItemGroup, item.Kind)
	assert.Equal(t, "Store", item.Name())
	assert.Equal(t, "impl", item.Kind.String())
}

func TestWithoutDirective(t *testing.T) {
	attrs := []models.Attribute{
		models.NewAttribute("wasm_export", "skip"),
		models.NewAttribute("inline", ""),
		modeltest.NewDocComment("docs"),
		models.NewAttribute("wasm_export", ""),
	}

	kept := models.WithoutDirective(attrs, "wasm_export")
	require.Len(t, kept, 2)
	assert.Equal(t, "#[inline]", kept[0].Text)
	assert.True(t, kept[1].Doc)
	assert.Len(t, attrs, 4)
}
