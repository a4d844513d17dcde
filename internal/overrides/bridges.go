package overrides

import (
	"errors"
	"fmt"
)

// ErrAbstract is returned when an implementation is requested for an
// abstract member.
var ErrAbstract = errors.New("abstract member has no implementation")

// ErrNoImplementation is returned when a fake override does not resolve to
// exactly one concrete class declaration.
var ErrNoImplementation = errors.New("no unique concrete implementation")

// Bridge pairs the member whose erased signature must stay dispatchable
// (From) with the member the bridge forwards to (To).
type Bridge[F any] struct {
	From F
	To   F
}

// Generate computes the bridges fn needs. key maps a node to its erased
// signature; nodes with equal keys are signature-equal.
//
// Abstract members need no bridges: the bridges appear where an
// implementation does. Every genuine declaration reachable from fn is grouped
// by key; the group holding fn's own signature is dropped, and every other
// group yields one bridge To fn. For a fake override, signatures reachable
// from a concrete overridden member are already bridged in the superclass and
// are dropped as well.
//
// Within a group, From is the member discovered first, abstract or not, so
// diamonds resolve by edge order on every run. Bridges are returned in
// discovery order of their groups.
func Generate[F Node[F], K comparable](fn F, key func(F) K) []Bridge[F] {
	if fn.IsAbstract() {
		return nil
	}

	var order []K
	first := make(map[K]F)
	for _, d := range ReachableDeclarations(fn) {
		k := key(d)
		if _, ok := first[k]; !ok {
			first[k] = d
			order = append(order, k)
		}
	}

	drop := map[K]struct{}{key(fn): {}}
	if !fn.IsDeclaration() {
		for _, o := range fn.Overridden() {
			if o.IsAbstract() {
				continue
			}
			for _, d := range ReachableDeclarations(o) {
				drop[key(d)] = struct{}{}
			}
		}
	}

	var out []Bridge[F]
	for _, k := range order {
		if _, skip := drop[k]; skip {
			continue
		}
		out = append(out, Bridge[F]{From: first[k], To: fn})
	}
	return out
}

// FindConcreteSuperDeclaration returns the declaration that actually
// implements fn. A genuine declaration implements itself; a fake override is
// implemented by the unique concrete class member that no other reachable
// declaration overrides.
func FindConcreteSuperDeclaration[F Node[F]](fn F) (F, error) {
	var zero F
	if fn.IsAbstract() {
		return zero, ErrAbstract
	}
	if fn.IsDeclaration() {
		return fn, nil
	}

	reachable := ReachableDeclarations(fn)
	shadowed := make(map[F]struct{})
	for _, d := range reachable {
		for _, below := range ReachableDeclarations(d) {
			if below != d {
				shadowed[below] = struct{}{}
			}
		}
	}
	var candidates []F
	for _, d := range reachable {
		if _, ok := shadowed[d]; ok {
			continue
		}
		if d.IsAbstract() || d.IsInterfaceDeclaration() {
			continue
		}
		candidates = append(candidates, d)
	}
	if len(candidates) != 1 {
		return zero, fmt.Errorf("%w: %d candidates", ErrNoImplementation, len(candidates))
	}
	return candidates[0], nil
}
