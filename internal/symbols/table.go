package symbols

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"

	"erasure/internal/types"
)

// Class owns an ordered member list. The list only grows: lowering appends
// synthesized members and never removes or reorders existing ones.
type Class struct {
	ID      types.ClassID
	Members []DeclID
}

// Table stores declarations in an arena and keeps per-class member lists.
//
// Declarations are allocated behind a lock because workers lowering
// different classes allocate bridges concurrently. A class's member list is
// written only by the worker that owns the class.
type Table struct {
	mu      sync.RWMutex
	decls   []*Decl
	classes []Class
	order   []types.ClassID
	params  atomic.Uint32
}

// NewTable creates a table with optional capacity hint.
func NewTable(capacity uint32) *Table {
	if capacity == 0 {
		capacity = 64
	}
	return &Table{
		decls:   make([]*Decl, 1, capacity+1), // index 0 reserved for NoDeclID
		classes: make([]Class, 1, 16),
	}
}

// AddClass registers class id. Classes are kept in registration order.
func (t *Table) AddClass(id types.ClassID) {
	if !id.IsValid() {
		panic("symbols.AddClass: invalid class")
	}
	for int(id) >= len(t.classes) {
		t.classes = append(t.classes, Class{})
	}
	if t.classes[id].ID.IsValid() {
		return
	}
	t.classes[id] = Class{ID: id}
	t.order = append(t.order, id)
}

// Class returns the class pointer or nil when id was never registered.
func (t *Table) Class(id types.ClassID) *Class {
	if !id.IsValid() || int(id) >= len(t.classes) || !t.classes[id].ID.IsValid() {
		return nil
	}
	return &t.classes[id]
}

// Classes lists registered classes in registration order.
func (t *Table) Classes() []types.ClassID {
	return slices.Clone(t.order)
}

// NewDecl allocates a declaration and returns its ID. It does not attach the
// declaration to any class.
func (t *Table) NewDecl(d Decl) DeclID {
	stored := d
	t.mu.Lock()
	defer t.mu.Unlock()
	value, err := safecast.Conv[uint32](len(t.decls))
	if err != nil {
		panic(fmt.Errorf("decls arena overflow: %w", err))
	}
	t.decls = append(t.decls, &stored)
	return DeclID(value)
}

// Declare allocates d and appends it to its owner's member list.
func (t *Table) Declare(d Decl) DeclID {
	if t.Class(d.Owner) == nil {
		t.AddClass(d.Owner)
	}
	id := t.NewDecl(d)
	t.AppendMembers(d.Owner, id)
	return id
}

// Decl returns a declaration pointer or nil for invalid ID. Declarations are
// treated as read-only once allocated.
func (t *Table) Decl(id DeclID) *Decl {
	if !id.IsValid() {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.decls) {
		return nil
	}
	return t.decls[id]
}

// Len reports number of stored declarations excluding sentinel.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.decls) - 1
}

// Members returns the current member list of class id.
func (t *Table) Members(id types.ClassID) []DeclID {
	c := t.Class(id)
	if c == nil {
		return nil
	}
	return slices.Clip(c.Members)
}

// AppendMembers appends ids to the member list of class id. Only the owner of
// the class in the current pass may call it.
func (t *Table) AppendMembers(id types.ClassID, ids ...DeclID) {
	c := t.Class(id)
	if c == nil {
		panic(fmt.Errorf("symbols.AppendMembers: unknown class %d", id))
	}
	c.Members = append(c.Members, ids...)
}

// NewParam allocates a parameter with a fresh identity.
func (t *Table) NewParam(name string, typ types.TypeID, index int) Param {
	return Param{
		ID:    ParamID(t.params.Add(1)),
		Name:  name,
		Type:  typ,
		Index: index,
	}
}
