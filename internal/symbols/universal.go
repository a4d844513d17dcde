package symbols

import "erasure/internal/types"

// IsMethodOfAny reports whether d is (an override of) one of the universal
// object-identity methods: equals(other: Any?), hashCode() and toString().
// Such members never need bridges. nullableAny is the interned Any? type;
// an equals with any other parameter type is an ordinary overload.
func IsMethodOfAny(d *Decl, nullableAny types.TypeID) bool {
	if d == nil || d.Kind != DeclFunction || d.HasReceiver() {
		return false
	}
	switch d.Name {
	case "equals":
		return len(d.Params) == 1 && d.Params[0].Type == nullableAny
	case "hashCode", "toString":
		return len(d.Params) == 0
	default:
		return false
	}
}
