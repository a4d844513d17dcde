// Package testkit holds invariant checks shared by the lowering tests.
package testkit

import (
	"errors"
	"fmt"

	"erasure/internal/signature"
	"erasure/internal/symbols"
	"erasure/internal/types"
)

// CheckLowered verifies the structural invariants every lowered class must
// satisfy:
//  1. a bridge's body calls a member of the same class, forwarding exactly
//     its own receiver and parameters in order
//  2. bridge parameters are fresh symbols, never shared with another decl
//  3. no two dispatchable members of a class share an erased signature
func CheckLowered(in *types.Interner, tbl *symbols.Table, sigs *signature.Cache) error {
	if tbl == nil || sigs == nil {
		return fmt.Errorf("nil table or signature cache")
	}
	owners := make(map[symbols.ParamID]symbols.DeclID)
	var errs []error
	for _, class := range tbl.Classes() {
		seen := make(map[signature.Key]symbols.DeclID)
		for _, id := range tbl.Members(class) {
			d := tbl.Decl(id)
			for _, p := range paramsOf(d) {
				if !p.ID.IsValid() {
					continue
				}
				if prev, dup := owners[p.ID]; dup {
					errs = append(errs, fmt.Errorf("%s and %s share parameter %q",
						tbl.Describe(in, prev), tbl.Describe(in, id), p.Name))
				}
				owners[p.ID] = id
			}
			if d.Origin == symbols.OriginBridge {
				if err := checkBridge(in, tbl, class, id, d); err != nil {
					errs = append(errs, err)
				}
			}
			if d.IsStatic() || (d.Kind != symbols.DeclFunction && !d.Kind.IsAccessor()) {
				continue
			}
			key := sigs.Get(id).Key()
			if prev, dup := seen[key]; dup {
				errs = append(errs, fmt.Errorf("%s duplicates signature %s of %s",
					tbl.Describe(in, id), sigs.Get(id), tbl.Describe(in, prev)))
				continue
			}
			seen[key] = id
		}
	}
	return errors.Join(errs...)
}

func checkBridge(in *types.Interner, tbl *symbols.Table, class types.ClassID, id symbols.DeclID, d *symbols.Decl) error {
	name := tbl.Describe(in, id)
	if d.Body == nil {
		return fmt.Errorf("bridge %s has no body", name)
	}
	target := tbl.Decl(d.Body.Target)
	if target == nil {
		return fmt.Errorf("bridge %s calls a missing decl", name)
	}
	if target.Owner != class {
		return fmt.Errorf("bridge %s calls %s outside its class", name, tbl.Describe(in, d.Body.Target))
	}
	if target.Origin == symbols.OriginBridge {
		return fmt.Errorf("bridge %s calls another bridge", name)
	}
	if len(d.Body.Args) != len(d.Params) {
		return fmt.Errorf("bridge %s forwards %d of %d parameters", name, len(d.Body.Args), len(d.Params))
	}
	for i, p := range d.Params {
		if d.Body.Args[i] != p.ID {
			return fmt.Errorf("bridge %s forwards argument %d out of order", name, i)
		}
	}
	switch {
	case d.Receiver == nil && d.Body.Receiver != symbols.NoParamID:
		return fmt.Errorf("bridge %s forwards a receiver it does not declare", name)
	case d.Receiver != nil && d.Body.Receiver != d.Receiver.ID:
		return fmt.Errorf("bridge %s drops its extension receiver", name)
	}
	return nil
}

func paramsOf(d *symbols.Decl) []symbols.Param {
	if d.Receiver == nil {
		return d.Params
	}
	return append([]symbols.Param{*d.Receiver}, d.Params...)
}
