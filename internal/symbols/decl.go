package symbols

import (
	"erasure/internal/types"
)

// DeclKind classifies a class member.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclFunction
	DeclGetter
	DeclSetter
	DeclConstructor
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunction:
		return "function"
	case DeclGetter:
		return "getter"
	case DeclSetter:
		return "setter"
	case DeclConstructor:
		return "constructor"
	default:
		return "invalid"
	}
}

// IsAccessor reports whether k is a property getter or setter.
func (k DeclKind) IsAccessor() bool { return k == DeclGetter || k == DeclSetter }

// Modality of a member. The zero value is final.
type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	default:
		return "invalid"
	}
}

// Visibility of a member. VisibilityInvisibleFake marks placeholder overrides
// that exist only to complete the override graph and have nothing to call.
type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityInternal
	VisibilityPrivate
	VisibilityInvisibleFake
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	case VisibilityInvisibleFake:
		return "invisible_fake"
	default:
		return "invalid"
	}
}

// Origin tells where a declaration came from.
type Origin uint8

const (
	// OriginDeclared is a member written in source.
	OriginDeclared Origin = iota
	// OriginFakeOverride is an inherited member materialized by the resolver.
	OriginFakeOverride
	// OriginBridge is a forwarding member synthesized by bridge lowering.
	OriginBridge
)

func (o Origin) String() string {
	switch o {
	case OriginDeclared:
		return "declared"
	case OriginFakeOverride:
		return "fake_override"
	case OriginBridge:
		return "bridge"
	default:
		return "invalid"
	}
}

// DeclFlags encode misc attributes for quick checks.
type DeclFlags uint8

const (
	DeclFlagInline DeclFlags = 1 << iota
	DeclFlagExternal
	DeclFlagTailrec
	DeclFlagSuspend
	DeclFlagStatic
)

// BridgeCopied is the subset of flags a bridge inherits from its source.
const BridgeCopied = DeclFlagInline | DeclFlagExternal | DeclFlagTailrec | DeclFlagSuspend

// Strings returns a slice of textual flag labels.
func (f DeclFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if f&DeclFlagInline != 0 {
		labels = append(labels, "inline")
	}
	if f&DeclFlagExternal != 0 {
		labels = append(labels, "external")
	}
	if f&DeclFlagTailrec != 0 {
		labels = append(labels, "tailrec")
	}
	if f&DeclFlagSuspend != 0 {
		labels = append(labels, "suspend")
	}
	if f&DeclFlagStatic != 0 {
		labels = append(labels, "static")
	}
	return labels
}

// Param is a value parameter (or the extension receiver) of a declaration.
type Param struct {
	ID    ParamID
	Name  string
	Type  types.TypeID
	Index int // position; -1 for the receiver
}

// Call is the body of a synthesized bridge: a single call to Target that
// forwards the dispatch receiver, the extension receiver (if any) and every
// parameter positionally, returning the result unchanged.
type Call struct {
	Target   DeclID
	Receiver ParamID   // extension receiver of the caller, NoParamID if absent
	Args     []ParamID // in positional order
}

// Decl is a resolved class member.
type Decl struct {
	Name       string
	Kind       DeclKind
	Owner      types.ClassID
	Receiver   *Param // extension receiver, nil if absent
	Params     []Param
	Return     types.TypeID
	Modality   Modality
	Visibility Visibility
	Origin     Origin
	Flags      DeclFlags
	Overridden []DeclID
	// Property names the property an accessor belongs to.
	Property string
	Body     *Call
}

// IsReal reports whether d is a genuine declaration rather than a fake
// override placeholder.
func (d *Decl) IsReal() bool { return d.Origin != OriginFakeOverride }

// IsAbstract reports whether d has no implementation of its own.
func (d *Decl) IsAbstract() bool { return d.Modality == ModalityAbstract }

// IsStatic reports whether d is a static member.
func (d *Decl) IsStatic() bool { return d.Flags&DeclFlagStatic != 0 }

// HasReceiver reports whether d declares an extension receiver.
func (d *Decl) HasReceiver() bool { return d.Receiver != nil }

// Arity is the number of value parameters, receiver excluded.
func (d *Decl) Arity() int { return len(d.Params) }

// ParticipatingTypes returns the receiver type (if any) followed by every
// parameter type in declaration order.
func (d *Decl) ParticipatingTypes() []types.TypeID {
	out := make([]types.TypeID, 0, len(d.Params)+1)
	if d.Receiver != nil {
		out = append(out, d.Receiver.Type)
	}
	for _, p := range d.Params {
		out = append(out, p.Type)
	}
	return out
}
