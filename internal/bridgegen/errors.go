package bridgegen

import (
	"errors"
	"fmt"
)

// ErrArityMismatch reports an override edge whose endpoints disagree on
// receiver presence or parameter count. The resolver produced an impossible
// override; lowering must stop rather than guess.
var ErrArityMismatch = errors.New("override arity mismatch")

// ErrBadOverrideTarget reports an override edge to a constructor or static
// member.
var ErrBadOverrideTarget = errors.New("override of a constructor or static member")

// ConsistencyError is a fatal internal-consistency failure in the input.
type ConsistencyError struct {
	Class      string
	Decl       string
	Overridden string
	Detail     string
	Err        error
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("%s: %s overrides %s: %v", e.Class, e.Decl, e.Overridden, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ConsistencyError) Unwrap() error { return e.Err }
