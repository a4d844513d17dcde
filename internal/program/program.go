// Package program loads a resolved program (classes, type parameters and
// members with their override edges) from YAML into the type interner and
// declaration table the lowering pass works on.
package program

import (
	"slices"

	"erasure/internal/symbols"
	"erasure/internal/types"
)

// Program is a loaded, validated input.
type Program struct {
	Path  string
	Types *types.Interner
	Decls *symbols.Table

	keys  map[string]symbols.DeclID
	names map[symbols.DeclID]string
}

// Lookup resolves a "Class#key" reference.
func (p *Program) Lookup(key string) (symbols.DeclID, bool) {
	id, ok := p.keys[key]
	return id, ok
}

// KeyOf returns the "Class#key" reference of a loaded member, or "" for
// members created after loading (bridges).
func (p *Program) KeyOf(id symbols.DeclID) string {
	return p.names[id]
}

// Keys lists every member reference in sorted order.
func (p *Program) Keys() []string {
	out := make([]string, 0, len(p.keys))
	for k := range p.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Class resolves a class by fully-qualified name.
func (p *Program) Class(name string) (types.ClassID, bool) {
	return p.Types.ClassByName(name)
}
