// Package mangle computes name suffixes for members whose erased parameter
// types could collide with unrelated overloads because of value-wrapper
// erasure.
//
// The suffix is part of the ABI: other compilation units and incremental
// caches key on it, so the signature string layout, the digest and the
// truncation below must never change.
package mangle

import (
	"fmt"
	"strings"

	"erasure/internal/reach"
	"erasure/internal/symbols"
	"erasure/internal/types"
)

// Separator joins a member name and its suffix in the emitted identifier.
const Separator = "$"

// Generator computes mangling suffixes.
type Generator struct {
	types *types.Interner
	decls *symbols.Table
	reach *reach.Checker
}

// NewGenerator creates a Generator. checker may be shared with other passes.
func NewGenerator(in *types.Interner, tbl *symbols.Table, checker *reach.Checker) *Generator {
	if checker == nil {
		checker = reach.NewChecker(in)
	}
	return &Generator{types: in, decls: tbl, reach: checker}
}

// Suffix returns the mangling suffix of declaration id, or false when the
// member needs none.
func (g *Generator) Suffix(id symbols.DeclID) (string, bool) {
	d := g.decls.Decl(id)
	if d == nil {
		return "", false
	}
	return g.SuffixOf(d)
}

// SuffixOf is Suffix for a declaration value.
func (g *Generator) SuffixOf(d *symbols.Decl) (string, bool) {
	if d.Kind == symbols.DeclConstructor {
		return "", false
	}
	participating := d.ParticipatingTypes()
	if !g.needsMangling(participating) {
		return "", false
	}
	return Digest(g.signatureString(participating)), true
}

// SignatureString returns the string the suffix is hashed from, e.g.
// "LWrapper;Lpkg.Wrapper2;". It is computed even when no suffix is needed.
func (g *Generator) SignatureString(id symbols.DeclID) string {
	d := g.decls.Decl(id)
	if d == nil {
		return ""
	}
	return g.signatureString(d.ParticipatingTypes())
}

func (g *Generator) needsMangling(participating []types.TypeID) bool {
	for _, t := range participating {
		if g.reach.TypeReaches(t) {
			return true
		}
	}
	return false
}

// signatureString appends L<fqname>; for nominal types and T<name>; for type
// parameters. Types without a resolvable backing declaration contribute
// nothing. Nullability and the bounds of type parameters are not encoded, so
// fun <T : W1> f(x: T) and fun <T : W2> f(x: T) get the same suffix.
func (g *Generator) signatureString(participating []types.TypeID) string {
	var sb strings.Builder
	for _, id := range participating {
		tt, ok := g.types.Lookup(id)
		if !ok {
			continue
		}
		switch tt.Kind {
		case types.KindNominal:
			info, ok := g.types.Class(tt.Class)
			if !ok {
				continue
			}
			sb.WriteByte('L')
			sb.WriteString(info.FQName)
			sb.WriteByte(';')
		case types.KindTypeParam:
			info, ok := g.types.TypeParam(tt.Param)
			if !ok {
				continue
			}
			sb.WriteByte('T')
			sb.WriteString(info.Name)
			sb.WriteByte(';')
		case types.KindInvalid:
			continue
		default:
			panic(fmt.Sprintf("mangle: unexpected kind %s", tt.Kind))
		}
	}
	return sb.String()
}

// MangledName appends suffix to name the way the emitter does.
func MangledName(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return name + Separator + suffix
}
