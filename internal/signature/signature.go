// Package signature derives the erasure-level identity of class members.
//
// A Signature is the member name plus the erased identity of its extension
// receiver and of every parameter: the fully-qualified class name for nominal
// types, the parameter's own name for type-parameter references. Two members
// are signature-equal when their Signatures are structurally equal.
package signature

import (
	"fmt"
	"strconv"
	"strings"

	"erasure/internal/symbols"
	"erasure/internal/types"
)

// Mode selects which positions participate in a Signature.
type Mode uint8

const (
	// ModeParams compares name, receiver and parameters.
	ModeParams Mode = iota
	// ModeDescriptor also compares the erased return type, for targets whose
	// method descriptors carry the return type.
	ModeDescriptor
)

func (m Mode) String() string {
	switch m {
	case ModeParams:
		return "params"
	case ModeDescriptor:
		return "descriptor"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "params":
		return ModeParams, nil
	case "descriptor":
		return ModeDescriptor, nil
	default:
		return ModeParams, fmt.Errorf("invalid signature mode: %q (expected: params|descriptor)", s)
	}
}

// TypeKey is the erased identity of one position.
type TypeKey string

// Key is a canonical encoding of a Signature, usable as a map key.
type Key string

// Signature is an immutable erasure-level identity.
type Signature struct {
	name        string
	hasReceiver bool
	receiver    TypeKey
	params      []TypeKey
	hasResult   bool
	result      TypeKey
	key         Key
}

// New builds a Signature. The params slice is copied.
func New(name string, receiver *TypeKey, params []TypeKey) Signature {
	s := Signature{name: name, params: append([]TypeKey(nil), params...)}
	if receiver != nil {
		s.hasReceiver = true
		s.receiver = *receiver
	}
	s.key = s.encode()
	return s
}

// WithResult returns a copy of s that also compares the erased return type.
func (s Signature) WithResult(result TypeKey) Signature {
	out := s
	out.params = append([]TypeKey(nil), s.params...)
	out.hasResult = true
	out.result = result
	out.key = out.encode()
	return out
}

// Name returns the member name.
func (s Signature) Name() string { return s.name }

// Receiver returns the erased receiver identity, if present.
func (s Signature) Receiver() (TypeKey, bool) { return s.receiver, s.hasReceiver }

// Params returns a copy of the erased parameter identities.
func (s Signature) Params() []TypeKey { return append([]TypeKey(nil), s.params...) }

// Arity is the number of value parameters.
func (s Signature) Arity() int { return len(s.params) }

// Key returns the canonical encoding.
func (s Signature) Key() Key { return s.key }

// Equal reports structural equality.
func (s Signature) Equal(o Signature) bool { return s.key == o.key }

// String renders s as name(recv.|p1,p2)[:result] for diagnostics.
func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.name)
	sb.WriteByte('(')
	if s.hasReceiver {
		sb.WriteString(string(s.receiver))
		sb.WriteString(".|")
	}
	for i, p := range s.params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(p))
	}
	sb.WriteByte(')')
	if s.hasResult {
		sb.WriteByte(':')
		sb.WriteString(string(s.result))
	}
	return sb.String()
}

// encode length-prefixes every component so distinct signatures never
// share a key.
func (s Signature) encode() Key {
	var sb strings.Builder
	writePart := func(tag byte, v string) {
		sb.WriteByte(tag)
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteByte(':')
		sb.WriteString(v)
	}
	writePart('N', s.name)
	if s.hasReceiver {
		writePart('R', string(s.receiver))
	}
	for _, p := range s.params {
		writePart('P', string(p))
	}
	if s.hasResult {
		writePart('Z', string(s.result))
	}
	return Key(sb.String())
}

// Model derives Signatures from declarations.
type Model struct {
	types *types.Interner
	decls *symbols.Table
	mode  Mode
}

// NewModel creates a Model over a loaded program.
func NewModel(in *types.Interner, tbl *symbols.Table, mode Mode) *Model {
	return &Model{types: in, decls: tbl, mode: mode}
}

// Mode reports the model's comparison mode.
func (m *Model) Mode() Mode { return m.mode }

// Of computes the Signature of declaration id. Constructors and static
// members have no Signature; callers filter them out first.
func (m *Model) Of(id symbols.DeclID) Signature {
	d := m.decls.Decl(id)
	if d == nil {
		panic(fmt.Errorf("signature: unknown declaration %d", id))
	}
	if d.Kind == symbols.DeclConstructor || d.IsStatic() {
		panic(fmt.Errorf("signature: %s is a constructor or static member", m.decls.Describe(m.types, id)))
	}
	return m.OfDecl(d)
}

// OfDecl computes the Signature of a declaration value.
func (m *Model) OfDecl(d *symbols.Decl) Signature {
	var recv *TypeKey
	if d.Receiver != nil {
		k := m.erase(d.Receiver.Type)
		recv = &k
	}
	params := make([]TypeKey, len(d.Params))
	for i, p := range d.Params {
		params[i] = m.erase(p.Type)
	}
	sig := New(d.Name, recv, params)
	if m.mode == ModeDescriptor {
		sig = sig.WithResult(m.erase(d.Return))
	}
	return sig
}

func (m *Model) erase(id types.TypeID) TypeKey {
	name, _ := m.types.ErasedName(id)
	return TypeKey(name)
}
