package parser

import (
	"context"

	"github.com/toyz/wasmexport/internal/models"
)

// SourceParser defines the interface for reading Rust source into declaration models
type SourceParser interface {
	ParseFile(name string, content []byte) (*File, error)
	ParseFileContext(ctx context.Context, name string, content []byte) (*File, error)
	ParseSource(name, content string) (*File, error)
	Directive() string
}

// ItemVisitor is called for every top-level item, including items nested in
// inline modules, in source order
type ItemVisitor func(index int, item models.Item) error
