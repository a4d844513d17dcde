package types

import (
	"fmt"

	"fortio.org/safecast"
)

// RootClassName is the fully-qualified name of the implicit root class.
// Unbounded type parameters erase to it.
const RootClassName = "kotlin.Any"

// Builtins stores the IDs seeded by NewInterner.
type Builtins struct {
	Root        ClassID
	Any         TypeID
	NullableAny TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors and owns
// the class and type-parameter tables they point into.
//
// The interner is populated by the loader and is read-only while a lowering
// pass runs, so it needs no locking.
type Interner struct {
	types      []Type
	index      map[Type]TypeID
	classes    []ClassInfo
	classIndex map[string]ClassID
	params     []TypeParamInfo
	builtins   Builtins
}

// NewInterner constructs an interner seeded with the root class.
func NewInterner() *Interner {
	in := &Interner{
		types:      make([]Type, 1, 64), // 0 reserved for NoTypeID
		index:      make(map[Type]TypeID, 64),
		classes:    make([]ClassInfo, 1, 32),
		classIndex: make(map[string]ClassID, 32),
		params:     make([]TypeParamInfo, 1, 16),
	}
	root, err := in.RegisterClass(ClassInfo{FQName: RootClassName})
	if err != nil {
		panic(err)
	}
	in.builtins.Root = root
	in.builtins.Any = in.Intern(MakeNominal(root, false))
	in.builtins.NullableAny = in.Intern(MakeNominal(root, true))
	return in
}

// Builtins returns the seeded IDs.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Nominal interns a reference to class c.
func (in *Interner) Nominal(c ClassID, nullable bool) TypeID {
	return in.Intern(MakeNominal(c, nullable))
}

// Param interns a reference to type parameter p.
func (in *Interner) Param(p TypeParamID, nullable bool) TypeID {
	return in.Intern(MakeTypeParam(p, nullable))
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// RegisterClass adds a class. Fully-qualified names are unique.
func (in *Interner) RegisterClass(info ClassInfo) (ClassID, error) {
	if info.FQName == "" {
		return NoClassID, fmt.Errorf("class without a name")
	}
	if _, dup := in.classIndex[info.FQName]; dup {
		return NoClassID, fmt.Errorf("class %q registered twice", info.FQName)
	}
	n, err := safecast.Conv[uint32](len(in.classes))
	if err != nil {
		panic(fmt.Errorf("len(classes) overflow: %w", err))
	}
	id := ClassID(n)
	in.classes = append(in.classes, info)
	in.classIndex[info.FQName] = id
	return id, nil
}

// Class returns the metadata of class id.
func (in *Interner) Class(id ClassID) (*ClassInfo, bool) {
	if !id.IsValid() || int(id) >= len(in.classes) {
		return nil, false
	}
	return &in.classes[id], true
}

// ClassByName resolves a fully-qualified class name.
func (in *Interner) ClassByName(fqName string) (ClassID, bool) {
	id, ok := in.classIndex[fqName]
	return id, ok
}

// ClassCount reports the number of registered classes, root included.
func (in *Interner) ClassCount() int { return len(in.classes) - 1 }

// RegisterTypeParam allocates a type parameter. Bounds are attached later
// with SetBounds so that mutually recursive bounds can be expressed.
func (in *Interner) RegisterTypeParam(name, owner string) TypeParamID {
	n, err := safecast.Conv[uint32](len(in.params))
	if err != nil {
		panic(fmt.Errorf("type param index overflow: %w", err))
	}
	in.params = append(in.params, TypeParamInfo{Name: name, Owner: owner})
	return TypeParamID(n)
}

// SetBounds replaces the upper bounds of p.
func (in *Interner) SetBounds(p TypeParamID, bounds []TypeID) {
	info, ok := in.TypeParam(p)
	if !ok {
		panic(fmt.Errorf("types: invalid TypeParamID %d", p))
	}
	info.Bounds = append([]TypeID(nil), bounds...)
}

// TypeParam returns metadata for the provided type parameter.
func (in *Interner) TypeParam(id TypeParamID) (*TypeParamInfo, bool) {
	if !id.IsValid() || int(id) >= len(in.params) {
		return nil, false
	}
	return &in.params[id], true
}

// TypeParamCount reports the number of registered type parameters.
func (in *Interner) TypeParamCount() int { return len(in.params) - 1 }
