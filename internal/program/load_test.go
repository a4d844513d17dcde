package program

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"erasure/internal/symbols"
	"erasure/internal/types"
)

const boxProgram = `
classes:
  - name: kotlin.Int
  - name: pkg.Box
    type_params:
      - name: T
    members:
      - name: get
        returns: T
        modality: open
      - name: put
        params:
          - {name: t, type: "T?"}
        modality: open
  - name: pkg.IntBox
    members:
      - name: get
        returns: kotlin.Int
        overrides: [pkg.Box#get]
      - name: put
        params:
          - {name: t, type: kotlin.Int}
        flags: [inline]
        overrides: ["pkg.Box#put"]
`

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func TestParseBuildsClassesAndOverrides(t *testing.T) {
	p := mustParse(t, boxProgram)

	intBox, ok := p.Class("pkg.IntBox")
	if !ok {
		t.Fatalf("pkg.IntBox not registered")
	}
	if got := len(p.Decls.Members(intBox)); got != 2 {
		t.Fatalf("IntBox has %d members, want 2", got)
	}
	get, ok := p.Lookup("pkg.IntBox#get")
	if !ok {
		t.Fatalf("member key missing")
	}
	base, _ := p.Lookup("pkg.Box#get")
	d := p.Decls.Decl(get)
	if len(d.Overridden) != 1 || d.Overridden[0] != base {
		t.Fatalf("override edge %v, want [%d]", d.Overridden, base)
	}
	if got := p.Types.Format(d.Return); got != "kotlin.Int" {
		t.Fatalf("return %q", got)
	}
	if p.KeyOf(get) != "pkg.IntBox#get" {
		t.Fatalf("KeyOf = %q", p.KeyOf(get))
	}

	put, _ := p.Lookup("pkg.IntBox#put")
	if p.Decls.Decl(put).Flags != symbols.DeclFlagInline {
		t.Fatalf("flags not loaded")
	}
	boxPut, _ := p.Lookup("pkg.Box#put")
	param := p.Decls.Decl(boxPut).Params[0]
	tt := p.Types.MustLookup(param.Type)
	if tt.Kind != types.KindTypeParam || !tt.Nullable || param.Name != "t" {
		t.Fatalf("param %+v resolved to %+v", param, tt)
	}
}

func TestNullableRefsInFlowAndBlockStyle(t *testing.T) {
	p := mustParse(t, `
classes:
  - name: kotlin.Number
  - name: pkg.C
    type_params:
      - {name: T, bounds: ["kotlin.Number?"]}
    members:
      - name: f
        params:
          - {name: a, type: "T?"}
          - name: b
            type: T?
`)
	f, ok := p.Lookup("pkg.C#f")
	if !ok {
		t.Fatalf("pkg.C#f missing")
	}
	for _, param := range p.Decls.Decl(f).Params {
		if got := p.Types.Format(param.Type); got != "T?" {
			t.Fatalf("param %s type %q, want T?", param.Name, got)
		}
	}
	info, _ := p.Types.TypeParam(1)
	if len(info.Bounds) != 1 || p.Types.Format(info.Bounds[0]) != "kotlin.Number?" {
		t.Fatalf("bounds %+v", info.Bounds)
	}
}

func TestBoundsMayReferToEachOther(t *testing.T) {
	p := mustParse(t, `
classes:
  - name: pkg.C
    type_params:
      - {name: T, bounds: [U]}
      - {name: U, bounds: [T]}
`)
	if got := p.Types.TypeParamCount(); got != 2 {
		t.Fatalf("type params %d", got)
	}
	info, _ := p.Types.TypeParam(1)
	if len(info.Bounds) != 1 || p.Types.Format(info.Bounds[0]) != "U" {
		t.Fatalf("bound of T: %+v", info.Bounds)
	}
}

func TestMemberTypeParamsShadowClassScope(t *testing.T) {
	p := mustParse(t, `
classes:
  - name: pkg.W
    value_wrapper: true
  - name: pkg.C
    type_params: [{name: T}]
    members:
      - name: use
        type_params: [{name: T, bounds: [pkg.W]}]
        params: [{name: x, type: T}]
`)
	use, _ := p.Lookup("pkg.C#use")
	tt := p.Types.MustLookup(p.Decls.Decl(use).Params[0].Type)
	info, _ := p.Types.TypeParam(tt.Param)
	if info.Owner != "pkg.C#use" {
		t.Fatalf("parameter resolved to %s-owned T", info.Owner)
	}
}

func TestIdentifiersAreNFCNormalized(t *testing.T) {
	// "é" spelled precomposed in the class and decomposed in the reference.
	p := mustParse(t, "classes:\n  - name: pkg.Caf\u00e9\n  - name: pkg.User\n    members:\n      - name: f\n        params: [{name: x, type: pkg.Cafe\u0301}]\n")
	f, ok := p.Lookup("pkg.User#f")
	if !ok {
		t.Fatalf("member missing")
	}
	if got := p.Types.Format(p.Decls.Decl(f).Params[0].Type); got != "pkg.Caf\u00e9" {
		t.Fatalf("type %q", got)
	}
}

func TestOverloadsNeedKeys(t *testing.T) {
	_, err := Parse([]byte(`
classes:
  - name: pkg.C
    members:
      - name: f
      - name: f
`), "dup.yaml")
	if err == nil || !strings.Contains(err.Error(), "duplicate member pkg.C#f") {
		t.Fatalf("expected duplicate member error, got %v", err)
	}

	p := mustParse(t, `
classes:
  - name: pkg.C
    members:
      - {name: f, key: f0}
      - {name: f, key: f1, params: [{type: pkg.C}]}
`)
	if keys := p.Keys(); len(keys) != 2 || keys[0] != "pkg.C#f0" || keys[1] != "pkg.C#f1" {
		t.Fatalf("keys %v", keys)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown type", "classes:\n  - name: C\n    members:\n      - {name: f, returns: Missing}\n", ErrUnknownType},
		{"unknown member", "classes:\n  - name: C\n    members:\n      - {name: f, overrides: [D#f]}\n", ErrUnknownMember},
		{"self override", "classes:\n  - name: C\n    members:\n      - {name: f, overrides: [C#f]}\n", symbols.ErrSelfOverride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.yaml")
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	for _, src := range []string{
		"classes:\n  - name: C\n    bogus: 1\n",
		"classes:\n  - name: C\n    members:\n      - {name: f, kind: macro}\n",
		"classes:\n  - name: C\n    members:\n      - {name: f, origin: bridge}\n",
		"classes:\n  - name: C\n    members:\n      - {name: f, flags: [pure]}\n",
		"classes:\n  - name: C\n  - name: C\n",
	} {
		if _, err := Parse([]byte(src), "bad.yaml"); err == nil {
			t.Fatalf("expected an error for %q", src)
		}
	}
}

func TestRootClassMayBeDeclared(t *testing.T) {
	p := mustParse(t, `
classes:
  - name: kotlin.Any
    members:
      - {name: hashCode, returns: kotlin.Any, modality: open}
`)
	root := p.Types.Builtins().Root
	if got := len(p.Decls.Members(root)); got != 1 {
		t.Fatalf("root members %d", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.yaml")
	if err := os.WriteFile(path, []byte(boxProgram), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Path != path {
		t.Fatalf("path %q", p.Path)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
