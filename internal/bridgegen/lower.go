// Package bridgegen synthesizes bridge members for classes whose overrides
// were broken by generic erasure.
//
// For
//
//	open class Box<T> { open fun get(): T }
//	class IntBox : Box<Int>() { override fun get(): Int }
//
// lowering IntBox (in descriptor mode) appends
//
//	fun get(): T = this.get()   // calls the Int-returning get
//
// so callers dispatching through Box's erased signature reach IntBox.get.
package bridgegen

import (
	"context"
	"fmt"

	"erasure/internal/overrides"
	"erasure/internal/signature"
	"erasure/internal/symbols"
	"erasure/internal/trace"
	"erasure/internal/types"
)

// Requirement is a surviving (source signature, target) pair.
type Requirement struct {
	Source    symbols.DeclID // member whose erased signature must stay dispatchable
	Target    symbols.DeclID // class member the bridge calls
	Signature signature.Signature
}

// Lowerer plans and applies bridges class by class. One Lowerer may serve
// many workers as long as each class is lowered by a single worker.
type Lowerer struct {
	types *types.Interner
	decls *symbols.Table
	sigs  *signature.Cache
}

// NewLowerer creates a Lowerer.
func NewLowerer(in *types.Interner, tbl *symbols.Table, sigs *signature.Cache) *Lowerer {
	return &Lowerer{types: in, decls: tbl, sigs: sigs}
}

// Eligible reports whether d takes part in bridge lowering: non-static
// functions and property accessors, except the universal object methods and
// members that are bridges already.
func (l *Lowerer) Eligible(d *symbols.Decl) bool {
	if d == nil || d.IsStatic() || d.Origin == symbols.OriginBridge {
		return false
	}
	switch d.Kind {
	case symbols.DeclFunction:
		return !symbols.IsMethodOfAny(d, l.types.Builtins().NullableAny)
	case symbols.DeclGetter, symbols.DeclSetter:
		return true
	case symbols.DeclConstructor, symbols.DeclInvalid:
		return false
	default:
		panic(fmt.Sprintf("bridgegen: unexpected decl kind %s", d.Kind))
	}
}

// answers reports whether d occupies a dispatchable signature in its class.
// Bridges from an earlier run count, which keeps lowering idempotent.
func answers(d *symbols.Decl) bool {
	if d == nil || d.IsStatic() {
		return false
	}
	return d.Kind == symbols.DeclFunction || d.Kind.IsAccessor()
}

// Plan computes the bridges class needs without touching the table.
// Requirements come out in member order, then in override discovery order.
func (l *Lowerer) Plan(ctx context.Context, class types.ClassID) ([]Requirement, error) {
	members := l.decls.Members(class)
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	// Signatures the class already answers; a bridge must not duplicate one.
	taken := make(map[signature.Key]struct{}, len(members))
	for _, id := range members {
		if d := l.decls.Decl(id); answers(d) {
			taken[l.sigs.Get(id).Key()] = struct{}{}
		}
	}

	var reqs []Requirement
	for _, id := range members {
		d := l.decls.Decl(id)
		if !l.Eligible(d) {
			continue
		}
		if err := l.checkEdges(class, id); err != nil {
			return nil, err
		}
		for _, b := range overrides.Generate(handle{l: l, id: id}, l.key) {
			from := b.From.decl()
			if skip := l.skipReason(from, d); skip != "" {
				trace.Point(tracer, trace.ScopeDecl, "skip:"+d.Name, skip, parent)
				continue
			}
			sig := l.sigs.Get(b.From.id)
			if _, dup := taken[sig.Key()]; dup {
				continue
			}
			taken[sig.Key()] = struct{}{}
			reqs = append(reqs, Requirement{Source: b.From.id, Target: id, Signature: sig})
		}
	}
	return reqs, nil
}

// skipReason applies the two skip rules; empty means the bridge is kept.
func (l *Lowerer) skipReason(from, to *symbols.Decl) string {
	if to.Visibility == symbols.VisibilityInvisibleFake {
		return "target is an invisible placeholder"
	}
	fromIface := false
	if info, ok := l.types.Class(from.Owner); ok {
		fromIface = info.Interface
	}
	if !fromIface && from.IsReal() && !from.IsAbstract() && !to.IsReal() {
		return "class already implements the source concretely"
	}
	return ""
}

// checkEdges verifies every override edge reachable from id connects members
// of equal shape.
func (l *Lowerer) checkEdges(class types.ClassID, id symbols.DeclID) error {
	var err error
	overrides.Walk([]symbols.DeclID{id}, func(n symbols.DeclID) []symbols.DeclID {
		if err != nil {
			return nil
		}
		return l.decls.Decl(n).Overridden
	}, func(n symbols.DeclID) {
		if err != nil {
			return
		}
		d := l.decls.Decl(n)
		for _, o := range d.Overridden {
			od := l.decls.Decl(o)
			switch {
			case od == nil || o == n:
				err = l.consistencyError(class, n, o, symbols.ErrDanglingOverride, "")
			case od.Kind == symbols.DeclConstructor || od.IsStatic():
				err = l.consistencyError(class, n, o, ErrBadOverrideTarget, "")
			case od.HasReceiver() != d.HasReceiver():
				err = l.consistencyError(class, n, o, ErrArityMismatch, "receiver presence differs")
			case od.Arity() != d.Arity():
				err = l.consistencyError(class, n, o, ErrArityMismatch,
					fmt.Sprintf("%d parameters vs %d", d.Arity(), od.Arity()))
			}
			if err != nil {
				return
			}
		}
	})
	return err
}

func (l *Lowerer) consistencyError(class types.ClassID, decl, overridden symbols.DeclID, err error, detail string) error {
	name := fmt.Sprintf("<class#%d>", class)
	if info, ok := l.types.Class(class); ok {
		name = info.FQName
	}
	return &ConsistencyError{
		Class:      name,
		Decl:       l.decls.Describe(l.types, decl),
		Overridden: l.decls.Describe(l.types, overridden),
		Detail:     detail,
		Err:        err,
	}
}

// LowerClass plans and appends the bridges of class. The class either gets
// all of its bridges or, on error, none of them. It returns the new members.
func (l *Lowerer) LowerClass(ctx context.Context, class types.ClassID) ([]symbols.DeclID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reqs, err := l.Plan(ctx, class)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	ids := make([]symbols.DeclID, 0, len(reqs))
	for _, r := range reqs {
		bridge := BuildBridge(l.decls, l.decls.Decl(r.Source), r.Target, class)
		id := l.decls.NewDecl(bridge)
		ids = append(ids, id)
		trace.Point(tracer, trace.ScopeDecl, "bridge:"+bridge.Name, r.Signature.String()+" -> "+l.decls.Describe(l.types, r.Target), parent)
	}
	l.decls.AppendMembers(class, ids...)
	return ids, nil
}

// Implementation resolves the declaration that actually runs when target is
// called: target itself for genuine members, the inherited implementation
// for fake overrides.
func (l *Lowerer) Implementation(target symbols.DeclID) (symbols.DeclID, error) {
	impl, err := overrides.FindConcreteSuperDeclaration(handle{l: l, id: target})
	if err != nil {
		return symbols.NoDeclID, fmt.Errorf("%s: %w", l.decls.Describe(l.types, target), err)
	}
	return impl.id, nil
}
