package bridgegen

import (
	"erasure/internal/overrides"
	"erasure/internal/signature"
	"erasure/internal/symbols"
)

// handle adapts a table declaration to overrides.Handle.
type handle struct {
	l  *Lowerer
	id symbols.DeclID
}

var _ overrides.Handle[handle] = handle{}

func (h handle) decl() *symbols.Decl { return h.l.decls.Decl(h.id) }

func (h handle) IsDeclaration() bool { return h.decl().IsReal() }

func (h handle) IsAbstract() bool { return h.decl().IsAbstract() }

func (h handle) IsInterfaceDeclaration() bool {
	info, ok := h.l.types.Class(h.decl().Owner)
	return ok && info.Interface
}

func (h handle) Overridden() []handle {
	d := h.decl()
	out := make([]handle, len(d.Overridden))
	for i, o := range d.Overridden {
		out[i] = handle{l: h.l, id: o}
	}
	return out
}

func (l *Lowerer) key(h handle) signature.Key {
	return l.sigs.Get(h.id).Key()
}
