package models

import "github.com/toyz/wasmexport/internal/source"

// Expansion is the result of expanding one annotated item
type Expansion struct {
	Original Item          // the input with every directive attribute removed
	Export   Item          // the exported twin
	Stripped []source.Span // spans of the removed directive attributes, in source order
	Wrappers []string      // names of the generated wrappers, in emission order
}
