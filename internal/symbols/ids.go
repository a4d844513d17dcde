package symbols

// DeclID identifies a declaration inside the table arena.
type DeclID uint32

const (
	// NoDeclID marks the absence of a declaration reference.
	NoDeclID DeclID = 0
)

// IsValid reports whether the declaration ID refers to an allocated slot.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// ParamID identifies a value parameter symbol. Every declaration gets fresh
// parameter identities; two declarations never share one.
type ParamID uint32

const (
	// NoParamID marks the absence of a parameter.
	NoParamID ParamID = 0
)

// IsValid reports whether the parameter ID was allocated.
func (id ParamID) IsValid() bool { return id != NoParamID }
