package signature

import (
	"sync"
	"testing"

	"erasure/internal/symbols"
	"erasure/internal/types"
)

type fixture struct {
	in  *types.Interner
	tbl *symbols.Table
	box types.ClassID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := types.NewInterner()
	box, err := in.RegisterClass(types.ClassInfo{FQName: "pkg.Box"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tbl := symbols.NewTable(0)
	tbl.AddClass(box)
	return &fixture{in: in, tbl: tbl, box: box}
}

func (f *fixture) fn(name string, recv types.TypeID, ret types.TypeID, params ...types.TypeID) symbols.DeclID {
	d := symbols.Decl{Name: name, Kind: symbols.DeclFunction, Owner: f.box, Return: ret}
	if recv != types.NoTypeID {
		r := f.tbl.NewParam("<this>", recv, -1)
		d.Receiver = &r
	}
	for i, p := range params {
		d.Params = append(d.Params, f.tbl.NewParam("p", p, i))
	}
	return f.tbl.Declare(d)
}

func TestErasureUsesParamNameNotBound(t *testing.T) {
	f := newFixture(t)
	num, _ := f.in.RegisterClass(types.ClassInfo{FQName: "kotlin.Number"})
	tp := f.in.RegisterTypeParam("T", "pkg.Box")
	f.in.SetBounds(tp, []types.TypeID{f.in.Nominal(num, false)})

	m := NewModel(f.in, f.tbl, ModeParams)
	sig := m.Of(f.fn("put", types.NoTypeID, types.NoTypeID, f.in.Param(tp, false)))
	if got := sig.Params(); len(got) != 1 || got[0] != "T" {
		t.Fatalf("expected erased param T, got %v", got)
	}
	if sig.String() != "put(T)" {
		t.Fatalf("String() = %q", sig.String())
	}
}

func TestEqualityIsStructural(t *testing.T) {
	f := newFixture(t)
	str, _ := f.in.RegisterClass(types.ClassInfo{FQName: "kotlin.String"})
	s := f.in.Nominal(str, false)
	sNull := f.in.Nominal(str, true)
	anyT := f.in.Builtins().Any

	m := NewModel(f.in, f.tbl, ModeParams)
	a := m.Of(f.fn("f", types.NoTypeID, types.NoTypeID, s, anyT))
	b := m.Of(f.fn("f", types.NoTypeID, types.NoTypeID, sNull, anyT))
	c := m.Of(f.fn("f", types.NoTypeID, types.NoTypeID, anyT, s))
	d := m.Of(f.fn("f", s, types.NoTypeID, anyT))
	e := m.Of(f.fn("g", types.NoTypeID, types.NoTypeID, s, anyT))

	if !a.Equal(b) {
		t.Fatalf("nullability must not affect erased identity: %s vs %s", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("parameter order must matter")
	}
	if a.Equal(d) {
		t.Fatalf("receiver position must differ from first parameter: %s vs %s", a, d)
	}
	if a.Equal(e) {
		t.Fatalf("name must matter")
	}
}

func TestKeyIsInjective(t *testing.T) {
	ab := TypeKey("a,b")
	one := New("f", nil, []TypeKey{"a,b"})
	two := New("f", nil, []TypeKey{"a", "b"})
	recv := New("f", &ab, nil)
	if one.Key() == two.Key() || one.Key() == recv.Key() || two.Key() == recv.Key() {
		t.Fatalf("keys collide: %q %q %q", one.Key(), two.Key(), recv.Key())
	}
}

func TestDescriptorModeComparesResult(t *testing.T) {
	f := newFixture(t)
	intClass, _ := f.in.RegisterClass(types.ClassInfo{FQName: "kotlin.Int"})
	tp := f.in.RegisterTypeParam("T", "pkg.Box")

	generic := f.fn("get", types.NoTypeID, f.in.Param(tp, false))
	concrete := f.fn("get", types.NoTypeID, f.in.Nominal(intClass, false))

	params := NewModel(f.in, f.tbl, ModeParams)
	if !params.Of(generic).Equal(params.Of(concrete)) {
		t.Fatalf("params mode ignores the return type")
	}
	desc := NewModel(f.in, f.tbl, ModeDescriptor)
	if desc.Of(generic).Equal(desc.Of(concrete)) {
		t.Fatalf("descriptor mode must distinguish T from kotlin.Int")
	}
	if got := desc.Of(concrete).String(); got != "get():kotlin.Int" {
		t.Fatalf("String() = %q", got)
	}
}

func TestOfRejectsConstructors(t *testing.T) {
	f := newFixture(t)
	ctor := f.tbl.Declare(symbols.Decl{Name: "<init>", Kind: symbols.DeclConstructor, Owner: f.box})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for constructor")
		}
	}()
	NewModel(f.in, f.tbl, ModeParams).Of(ctor)
}

func TestCacheConcurrentGet(t *testing.T) {
	f := newFixture(t)
	ids := make([]symbols.DeclID, 0, 16)
	for range 16 {
		ids = append(ids, f.fn("f", types.NoTypeID, types.NoTypeID, f.in.Builtins().Any))
	}
	c := NewCache(NewModel(f.in, f.tbl, ModeParams))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range ids {
				if c.Get(id).Name() != "f" {
					t.Errorf("wrong signature for %d", id)
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() != len(ids) {
		t.Fatalf("cache holds %d entries, want %d", c.Len(), len(ids))
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("Descriptor"); err != nil || m != ModeDescriptor {
		t.Fatalf("got %v, %v", m, err)
	}
	if _, err := ParseMode("jvm"); err == nil {
		t.Fatalf("expected error")
	}
}
