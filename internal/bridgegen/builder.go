package bridgegen

import (
	"erasure/internal/symbols"
	"erasure/internal/types"
)

// BuildBridge returns a fully formed bridge declaration for class owner.
//
// The bridge copies name, kind, visibility, modality, copyable flags and
// return type from source, the member whose erased signature must remain
// dispatchable. Receiver and parameters are fresh symbols with source's
// names, types and order; they never alias source's or target's parameters.
// The body is a single call to target forwarding every parameter
// positionally.
func BuildBridge(tbl *symbols.Table, source *symbols.Decl, target symbols.DeclID, owner types.ClassID) symbols.Decl {
	call := &symbols.Call{Target: target}

	var recv *symbols.Param
	if source.Receiver != nil {
		p := tbl.NewParam(source.Receiver.Name, source.Receiver.Type, -1)
		recv = &p
		call.Receiver = p.ID
	}

	params := make([]symbols.Param, len(source.Params))
	call.Args = make([]symbols.ParamID, len(source.Params))
	for i, sp := range source.Params {
		params[i] = tbl.NewParam(sp.Name, sp.Type, i)
		call.Args[i] = params[i].ID
	}

	return symbols.Decl{
		Name:       source.Name,
		Kind:       source.Kind,
		Owner:      owner,
		Receiver:   recv,
		Params:     params,
		Return:     source.Return,
		Modality:   source.Modality,
		Visibility: source.Visibility,
		Origin:     symbols.OriginBridge,
		Flags:      source.Flags & symbols.BridgeCopied,
		Property:   source.Property,
		Body:       call,
	}
}
