package types

import "testing"

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	box, err := in.RegisterClass(ClassInfo{FQName: "pkg.Box"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	a := in.Nominal(box, false)
	b := in.Nominal(box, false)
	if a != b {
		t.Fatalf("expected same id, got %d and %d", a, b)
	}
	if n := in.Nominal(box, true); n == a {
		t.Fatalf("nullable variant must get its own id")
	}
	if _, err := in.RegisterClass(ClassInfo{FQName: "pkg.Box"}); err == nil {
		t.Fatalf("expected duplicate class error")
	}
}

func TestErasedName(t *testing.T) {
	in := NewInterner()
	wrapper, _ := in.RegisterClass(ClassInfo{FQName: "pkg.Wrapper", ValueWrapper: true})
	bound := in.Nominal(wrapper, false)
	p := in.RegisterTypeParam("T", "pkg.f")
	in.SetBounds(p, []TypeID{bound})

	cases := []struct {
		id   TypeID
		want string
		ok   bool
	}{
		{bound, "pkg.Wrapper", true},
		{in.Nominal(wrapper, true), "pkg.Wrapper", true},
		{in.Param(p, false), "T", true},
		{NoTypeID, "", false},
		{in.Intern(MakeNominal(ClassID(999), false)), "", false},
	}
	for _, tc := range cases {
		got, ok := in.ErasedName(tc.id)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ErasedName(%d) = %q,%v want %q,%v", tc.id, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsValueWrapper(t *testing.T) {
	in := NewInterner()
	wrapper, _ := in.RegisterClass(ClassInfo{FQName: "Wrapper", ValueWrapper: true})
	plain, _ := in.RegisterClass(ClassInfo{FQName: "Plain"})
	p := in.RegisterTypeParam("T", "f")
	in.SetBounds(p, []TypeID{in.Nominal(wrapper, false)})

	if !in.IsValueWrapper(in.Nominal(wrapper, true)) {
		t.Fatalf("nullable wrapper reference is still a value wrapper")
	}
	if in.IsValueWrapper(in.Nominal(plain, false)) {
		t.Fatalf("plain class is not a value wrapper")
	}
	if in.IsValueWrapper(in.Param(p, false)) {
		t.Fatalf("type parameter is never a value wrapper itself")
	}
}

func TestErasedUpperBound(t *testing.T) {
	in := NewInterner()
	num, _ := in.RegisterClass(ClassInfo{FQName: "kotlin.Number"})
	t1 := in.RegisterTypeParam("T", "Box")
	u := in.RegisterTypeParam("U", "Box")
	in.SetBounds(u, []TypeID{in.Param(t1, false)})
	in.SetBounds(t1, []TypeID{in.Nominal(num, false)})

	if got := in.FormatType(in.ErasedUpperBound(in.Param(u, false))); got != "kotlin.Number" {
		t.Fatalf("U erases to %q, want kotlin.Number", got)
	}
	unbounded := in.RegisterTypeParam("V", "Box")
	if got := in.FormatType(in.ErasedUpperBound(in.Param(unbounded, false))); got != "kotlin.Any?" {
		t.Fatalf("unbounded erases to %q, want kotlin.Any?", got)
	}

	a := in.RegisterTypeParam("A", "f")
	b := in.RegisterTypeParam("B", "f")
	in.SetBounds(a, []TypeID{in.Param(b, false)})
	in.SetBounds(b, []TypeID{in.Param(a, false)})
	if got := in.FormatType(in.ErasedUpperBound(in.Param(a, false))); got != "kotlin.Any?" {
		t.Fatalf("cyclic bound erases to %q, want kotlin.Any?", got)
	}
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	p := in.RegisterTypeParam("T", "Box")
	if got := in.Format(in.Param(p, true)); got != "T?" {
		t.Fatalf("got %q", got)
	}
	if got := in.Format(in.Builtins().Any); got != RootClassName {
		t.Fatalf("got %q", got)
	}
	if got := in.Format(NoTypeID); got != "<none>" {
		t.Fatalf("got %q", got)
	}
}
