package signature

import (
	"github.com/toyz/wasmexport/internal/directives"
	"github.com/toyz/wasmexport/internal/models"
)

// ExportSpec is everything the builder needs to know about one exported declaration
type ExportSpec struct {
	Forwarded         []directives.Directive // declaration-level pass-through directives, in source order
	ReturnType        string                 // success type extracted from the outcome type
	Label             string                 // boundary-facing success label, the override when present
	ReturnDescription *directives.Directive  // return_description, if written
	PreserveIdentity  bool                   // preserve_js_class was written
	ShouldSkip        bool                   // skip was written; nothing else is resolved
	Params            []ParamSpec            // every parameter in declaration order
}

// ParamSpec pairs a parameter with the directives written on it
type ParamSpec struct {
	Param      models.Param
	Directives *directives.Set
}
