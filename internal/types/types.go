package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// ClassID identifies a class registered in the interner.
type ClassID uint32

// NoClassID marks a nominal type without a backing class.
const NoClassID ClassID = 0

// IsValid reports whether id references a class slot.
func (id ClassID) IsValid() bool { return id != NoClassID }

// TypeParamID identifies a type parameter registered in the interner.
type TypeParamID uint32

// NoTypeParamID marks the absence of a type parameter.
const NoTypeParamID TypeParamID = 0

// IsValid reports whether id references a type parameter slot.
func (id TypeParamID) IsValid() bool { return id != NoTypeParamID }

// Kind tags the variant of a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNominal
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNominal:
		return "nominal"
	case KindTypeParam:
		return "typeparam"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for a resolved type: either a nominal reference
// to a class or a reference to a type parameter. Exactly one of Class/Param is
// meaningful, selected by Kind.
type Type struct {
	Kind     Kind
	Class    ClassID     // KindNominal
	Param    TypeParamID // KindTypeParam
	Nullable bool
}

// MakeNominal describes a reference to class c.
func MakeNominal(c ClassID, nullable bool) Type {
	return Type{Kind: KindNominal, Class: c, Nullable: nullable}
}

// MakeTypeParam describes a reference to type parameter p.
func MakeTypeParam(p TypeParamID, nullable bool) Type {
	return Type{Kind: KindTypeParam, Param: p, Nullable: nullable}
}

// ClassInfo carries the class facts the resolution stage hands over.
type ClassInfo struct {
	FQName    string
	Interface bool
	// ValueWrapper is the capability flag: the class wraps exactly one
	// value and may be represented unboxed.
	ValueWrapper bool
}

// TypeParamInfo stores a type parameter's name and its ordered upper bounds.
type TypeParamInfo struct {
	Name   string
	Owner  string // declaring class or function, informational
	Bounds []TypeID
}
