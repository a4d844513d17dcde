package types

import "fmt"

// ErasedName returns the erasure-level identity of a type: the fully-qualified
// class name of a nominal type, or the type parameter's own name (never its
// bound). ok is false when the type has no resolvable backing declaration.
func (in *Interner) ErasedName(id TypeID) (name string, ok bool) {
	tt, found := in.Lookup(id)
	if !found {
		return "", false
	}
	switch tt.Kind {
	case KindNominal:
		info, ok := in.Class(tt.Class)
		if !ok {
			return "", false
		}
		return info.FQName, true
	case KindTypeParam:
		info, ok := in.TypeParam(tt.Param)
		if !ok {
			return "", false
		}
		return info.Name, true
	case KindInvalid:
		return "", false
	default:
		panic(fmt.Sprintf("types: unexpected kind %s", tt.Kind))
	}
}

// IsValueWrapper reports whether id is a nominal reference to a value-wrapper
// class. Nullability does not matter.
func (in *Interner) IsValueWrapper(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNominal {
		return false
	}
	info, ok := in.Class(tt.Class)
	return ok && info.ValueWrapper
}

// ErasedUpperBound maps a type to the nominal type it erases to on the
// target: nominal types map to themselves, type parameters follow their
// first bound until a nominal type is found. Unbounded (or cyclic) parameters
// erase to the nullable root class. Nullability of the reference is kept.
//
// The result is returned as a descriptor and is not interned, so the call is
// safe while the interner is shared read-only.
func (in *Interner) ErasedUpperBound(id TypeID) Type {
	root := MakeNominal(in.builtins.Root, true)
	seen := make(map[TypeParamID]struct{})
	nullable := false
	cur := id
	for {
		tt, ok := in.Lookup(cur)
		if !ok {
			return root
		}
		nullable = nullable || tt.Nullable
		switch tt.Kind {
		case KindNominal:
			return MakeNominal(tt.Class, nullable)
		case KindTypeParam:
			if _, dup := seen[tt.Param]; dup {
				return root
			}
			seen[tt.Param] = struct{}{}
			info, ok := in.TypeParam(tt.Param)
			if !ok || len(info.Bounds) == 0 {
				return root
			}
			cur = info.Bounds[0]
		case KindInvalid:
			return root
		default:
			panic(fmt.Sprintf("types: unexpected kind %s", tt.Kind))
		}
	}
}

// Format renders a type for diagnostics and dumps, e.g. "pkg.Box" or "T?".
func (in *Interner) Format(id TypeID) string {
	if id == NoTypeID {
		return "<none>"
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return fmt.Sprintf("<type#%d>", id)
	}
	return in.FormatType(tt)
}

// FormatType renders a descriptor that may not be interned.
func (in *Interner) FormatType(tt Type) string {
	var name string
	switch tt.Kind {
	case KindNominal:
		if info, ok := in.Class(tt.Class); ok {
			name = info.FQName
		} else {
			name = fmt.Sprintf("<class#%d>", tt.Class)
		}
	case KindTypeParam:
		if info, ok := in.TypeParam(tt.Param); ok {
			name = info.Name
		} else {
			name = fmt.Sprintf("<param#%d>", tt.Param)
		}
	case KindInvalid:
		return "<invalid>"
	default:
		panic(fmt.Sprintf("types: unexpected kind %s", tt.Kind))
	}
	if tt.Nullable {
		name += "?"
	}
	return name
}
