package overrides

import (
	"errors"
	"slices"
	"testing"
)

type node struct {
	name      string
	sig       string
	fake      bool
	abstract  bool
	iface     bool
	overrides []*node
}

func (n *node) IsDeclaration() bool          { return !n.fake }
func (n *node) IsAbstract() bool             { return n.abstract }
func (n *node) IsInterfaceDeclaration() bool { return n.iface }
func (n *node) Overridden() []*node          { return n.overrides }

func sigOf(n *node) string { return n.sig }

func pairs(bs []Bridge[*node]) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.From.name+"->"+b.To.name)
	}
	return out
}

func TestWalkVisitsOnceInPreOrder(t *testing.T) {
	d := &node{name: "d"}
	b := &node{name: "b", overrides: []*node{d}}
	c := &node{name: "c", overrides: []*node{d}}
	a := &node{name: "a", overrides: []*node{b, c}}
	var got []string
	Walk([]*node{a}, func(n *node) []*node { return n.overrides }, func(n *node) {
		got = append(got, n.name)
	})
	if want := []string{"a", "b", "d", "c"}; !slices.Equal(got, want) {
		t.Fatalf("visit order %v, want %v", got, want)
	}
}

func TestNoEdgesNoBridges(t *testing.T) {
	a := &node{name: "a", sig: "f(Int)"}
	if got := Generate(a, sigOf); len(got) != 0 {
		t.Fatalf("expected no bridges, got %v", pairs(got))
	}
}

func TestGenericSuperclass(t *testing.T) {
	base := &node{name: "Box.get", sig: "get():T"}
	sub := &node{name: "IntBox.get", sig: "get():Int", overrides: []*node{base}}
	got := pairs(Generate(sub, sigOf))
	if want := []string{"Box.get->IntBox.get"}; !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAbstractGetsNoBridges(t *testing.T) {
	base := &node{name: "Box.get", sig: "get():T"}
	sub := &node{name: "IntBox.get", sig: "get():Int", abstract: true, overrides: []*node{base}}
	if got := Generate(sub, sigOf); len(got) != 0 {
		t.Fatalf("abstract member got bridges %v", pairs(got))
	}
}

func TestSameSignatureChainNoBridges(t *testing.T) {
	root := &node{name: "A.f", sig: "f(T)"}
	mid := &node{name: "B.f", sig: "f(T)", overrides: []*node{root}}
	leaf := &node{name: "C.f", sig: "f(T)", overrides: []*node{mid}}
	if got := Generate(leaf, sigOf); len(got) != 0 {
		t.Fatalf("unexpected bridges %v", pairs(got))
	}
}

func TestDiamondTieBreakIsStable(t *testing.T) {
	left := &node{name: "L.f", sig: "f(T)", iface: true, abstract: true}
	right := &node{name: "R.f", sig: "f(T)", iface: true, abstract: true}
	impl := &node{name: "C.f", sig: "f(String)", overrides: []*node{left, right}}
	for range 20 {
		got := pairs(Generate(impl, sigOf))
		if want := []string{"L.f->C.f"}; !slices.Equal(got, want) {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	impl.overrides = []*node{right, left}
	if got := pairs(Generate(impl, sigOf)); !slices.Equal(got, []string{"R.f->C.f"}) {
		t.Fatalf("tie-break must follow edge order, got %v", got)
	}
}

func TestGroupKeepsFirstDiscoveredMember(t *testing.T) {
	top := &node{name: "I.f", sig: "f(T)", iface: true, abstract: true}
	mid := &node{name: "A.f", sig: "f(T)", overrides: []*node{top}}
	other := &node{name: "J.f", sig: "f(T)", iface: true, abstract: true}
	impl := &node{name: "C.f", sig: "f(Int)", overrides: []*node{other, mid}}
	// J.f is abstract but reached before the concrete A.f
	got := pairs(Generate(impl, sigOf))
	if want := []string{"J.f->C.f"}; !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	impl.overrides = []*node{mid, other}
	got = pairs(Generate(impl, sigOf))
	if want := []string{"A.f->C.f"}; !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFakeOverrideInheritsSuperBridges(t *testing.T) {
	// class A<T> { open fun f(t: T) }
	// open class B : A<String>() { override fun f(t: String) }
	// interface I { fun f(t: String) }  (same erased sig as B.f)
	// interface J<T> { fun f(t: T) }
	// class C : B(), J<String>  -- fake override of f
	aF := &node{name: "A.f", sig: "f(T)"}
	bF := &node{name: "B.f", sig: "f(String)", overrides: []*node{aF}}
	jF := &node{name: "J.f", sig: "f(U)", iface: true, abstract: true}
	cF := &node{name: "C.f", sig: "f(String)", fake: true, overrides: []*node{bF, jF}}

	got := pairs(Generate(cF, sigOf))
	if want := []string{"J.f->C.f"}; !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFindConcreteSuperDeclaration(t *testing.T) {
	aF := &node{name: "A.f", sig: "f(T)"}
	bF := &node{name: "B.f", sig: "f(String)", overrides: []*node{aF}}
	iF := &node{name: "I.f", sig: "f(String)", iface: true, abstract: true}
	cF := &node{name: "C.f", sig: "f(String)", fake: true, overrides: []*node{bF, iF}}

	impl, err := FindConcreteSuperDeclaration(cF)
	if err != nil || impl != bF {
		t.Fatalf("got %v, %v; want B.f", impl, err)
	}
	if self, err := FindConcreteSuperDeclaration(bF); err != nil || self != bF {
		t.Fatalf("a declaration implements itself")
	}
	if _, err := FindConcreteSuperDeclaration(iF); !errors.Is(err, ErrAbstract) {
		t.Fatalf("expected ErrAbstract, got %v", err)
	}

	dangling := &node{name: "D.f", fake: true, overrides: []*node{iF}}
	if _, err := FindConcreteSuperDeclaration(dangling); !errors.Is(err, ErrNoImplementation) {
		t.Fatalf("expected ErrNoImplementation, got %v", err)
	}
}
