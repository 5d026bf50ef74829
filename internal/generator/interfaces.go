package generator

import (
	"github.com/toyz/wasmexport/internal/directives"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/signature"
)

// DeclarationBuilder defines the interface for building exported twins of annotated declarations
type DeclarationBuilder interface {
	WrapperName(name string) string
	BuildWrapper(fn *models.Function, spec *signature.ExportSpec, inGroup bool) (*models.Function, error)
	BuildGroup(original *models.Group, forwarded []directives.Directive, wrappers []*models.Function) (*models.Group, error)
}
