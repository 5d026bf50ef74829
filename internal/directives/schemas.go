package directives

const (
	declarationOnly = "unexpected `%s` attribute, it can only be used for impl block methods or standalone functions"
	memberOnly      = "unexpected `%s` attribute, it is only valid for methods of an impl block"
	paramOnly       = "unexpected `%s` attribute, it can only be used on function parameters"
)

// BuiltinKeys returns the recognized keys. Registration order is also the
// order placement is checked in, so misplaced keys are reported
// deterministically regardless of how they were written.
func BuiltinKeys() []KeySpec {
	return []KeySpec{
		{
			Key:       "skip",
			Kind:      Skip,
			Shape:     ShapeBare,
			Contexts:  []Context{MemberContext},
			Misplaced: memberOnly,
		},
		{
			Key:       "unchecked_return_type",
			Kind:      UncheckedReturnType,
			Shape:     ShapeString,
			Contexts:  []Context{MemberContext, StandaloneContext},
			Misplaced: declarationOnly,
		},
		{
			Key:       "preserve_js_class",
			Kind:      PreserveJSClass,
			Shape:     ShapeBare,
			Contexts:  []Context{MemberContext, StandaloneContext},
			Misplaced: declarationOnly,
		},
		{
			Key:       "return_description",
			Kind:      ReturnDescription,
			Shape:     ShapeString,
			Contexts:  []Context{MemberContext, StandaloneContext},
			Misplaced: declarationOnly,
		},
		{
			Key:       "param_description",
			Kind:      ParamDescription,
			Shape:     ShapeString,
			Contexts:  []Context{ParamContext},
			Misplaced: paramOnly,
		},
		{
			Key:       "unchecked_param_type",
			Kind:      UncheckedParamType,
			Shape:     ShapeString,
			Contexts:  []Context{ParamContext},
			Misplaced: paramOnly,
		},
		{
			// js_name renames a parameter; on declarations and impl blocks it is
			// a boundary attribute in its own right and passes through
			Key:              "js_name",
			Kind:             JSName,
			Shape:            ShapeString,
			Contexts:         []Context{ParamContext},
			ForwardElsewhere: true,
		},
	}
}

// RegisterBuiltinKeys registers every built-in key with r
func RegisterBuiltinKeys(r Registry) error {
	for _, spec := range BuiltinKeys() {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
