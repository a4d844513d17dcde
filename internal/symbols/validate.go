package symbols

import (
	"errors"
	"fmt"

	"erasure/internal/types"
)

// ErrSelfOverride reports a declaration listed in its own override set.
var ErrSelfOverride = errors.New("declaration overrides itself")

// ErrDanglingOverride reports an override edge to an unknown declaration.
var ErrDanglingOverride = errors.New("override edge to unknown declaration")

// Validate checks the structural invariants the resolution stage promises:
// every member belongs to the class listing it, override edges point at
// allocated declarations and never at the declaration itself.
func (t *Table) Validate() error {
	var errs []error
	for _, cid := range t.order {
		for _, id := range t.Members(cid) {
			d := t.Decl(id)
			if d == nil {
				errs = append(errs, fmt.Errorf("class %d lists unknown declaration %d", cid, id))
				continue
			}
			if d.Owner != cid {
				errs = append(errs, fmt.Errorf("declaration %d (%s) is owned by class %d but listed by %d", id, d.Name, d.Owner, cid))
			}
			for _, o := range d.Overridden {
				switch {
				case o == id:
					errs = append(errs, fmt.Errorf("%s (decl %d): %w", d.Name, id, ErrSelfOverride))
				case t.Decl(o) == nil:
					errs = append(errs, fmt.Errorf("%s (decl %d) -> %d: %w", d.Name, id, o, ErrDanglingOverride))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Describe renders a declaration for diagnostics, e.g. "pkg.Box.get".
func (t *Table) Describe(in *types.Interner, id DeclID) string {
	d := t.Decl(id)
	if d == nil {
		return fmt.Sprintf("<decl#%d>", id)
	}
	owner := "?"
	if info, ok := in.Class(d.Owner); ok {
		owner = info.FQName
	}
	return owner + "." + d.Name
}
