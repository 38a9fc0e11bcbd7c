// Package model defines core data structures for codexheader.
package model

import "fmt"

// Relation is the kind of an inheritance edge as rendered in a header.
type Relation string

const (
	// Extends marks a primary supertype (extends/inherits).
	Extends Relation = "->"
	// AdditionalBase marks a further base class under multiple inheritance.
	AdditionalBase Relation = "+"
	// Implements marks an implemented interface, protocol or trait.
	Implements Relation = "~>"
)

// SymbolKind is the syntactic kind a pattern rule recognizes.
type SymbolKind string

const (
	Type       SymbolKind = "type"
	Function   SymbolKind = "func"
	Entrypoint SymbolKind = "entrypoint"
)

// SymbolRef names a declaration together with its final-file line.
// Path is set only for references resolved into another file.
// A zero Line renders the bare name.
type SymbolRef struct {
	Name string
	Line int
	Path string
}

// String renders Name@L<line>, Name@<path>#L<line>, or the bare name.
func (r SymbolRef) String() string {
	switch {
	case r.Line <= 0:
		return r.Name
	case r.Path != "":
		return fmt.Sprintf("%s@%s#L%d", r.Name, r.Path, r.Line)
	default:
		return fmt.Sprintf("%s@L%d", r.Name, r.Line)
	}
}

// Edge is one inheritance relationship: Child Rel Parent.
type Edge struct {
	Child  SymbolRef
	Rel    Relation
	Parent SymbolRef
}

func (e Edge) String() string {
	return e.Child.String() + string(e.Rel) + e.Parent.String()
}

// Location is a declaration site in the final (annotated) file.
type Location struct {
	Path string
	Line int
}

// Symbols holds everything the extractor computes for one file.
type Symbols struct {
	Types       []SymbolRef
	Funcs       []SymbolRef
	Entrypoints []SymbolRef
	Inheritance []Edge
}
