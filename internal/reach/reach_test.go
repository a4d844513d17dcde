package reach

import (
	"fmt"
	"sync"
	"testing"

	"erasure/internal/types"
)

func register(t *testing.T, in *types.Interner, name string, wrapper bool) types.TypeID {
	t.Helper()
	id, err := in.RegisterClass(types.ClassInfo{FQName: name, ValueWrapper: wrapper})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return in.Nominal(id, false)
}

func TestDirectWrapperBound(t *testing.T) {
	in := types.NewInterner()
	w := register(t, in, "pkg.Meters", true)
	p := in.RegisterTypeParam("T", "f")
	in.SetBounds(p, []types.TypeID{w})

	c := NewChecker(in)
	if !c.ReachesValueWrapper(p) {
		t.Fatalf("T : Meters must reach a value wrapper")
	}
}

func TestOrdinaryBound(t *testing.T) {
	in := types.NewInterner()
	plain := register(t, in, "pkg.Plain", false)
	p := in.RegisterTypeParam("T", "use")
	in.SetBounds(p, []types.TypeID{plain})

	c := NewChecker(in)
	if c.ReachesValueWrapper(p) {
		t.Fatalf("T : Plain must not reach a value wrapper")
	}
	if c.TypeReaches(plain) {
		t.Fatalf("Plain is not a wrapper")
	}
}

func TestTransitiveBound(t *testing.T) {
	in := types.NewInterner()
	w := register(t, in, "pkg.Meters", true)
	a := in.RegisterTypeParam("A", "f")
	b := in.RegisterTypeParam("B", "f")
	cc := in.RegisterTypeParam("C", "f")
	in.SetBounds(a, []types.TypeID{in.Param(b, false)})
	in.SetBounds(b, []types.TypeID{in.Builtins().Any, in.Param(cc, true)})
	in.SetBounds(cc, []types.TypeID{in.Nominal(types.ClassID(0), false), w})

	c := NewChecker(in)
	res := c.Search(a)
	if !res.Reaches {
		t.Fatalf("A : B : C : Meters must reach a value wrapper")
	}
	if res.Visited != 3 {
		t.Fatalf("visited %d, want 3", res.Visited)
	}
	if !c.TypeReaches(in.Param(a, true)) {
		t.Fatalf("nullable reference to A still reaches")
	}
}

func TestMutualRecursionTerminates(t *testing.T) {
	in := types.NewInterner()
	tp := in.RegisterTypeParam("T", "f")
	up := in.RegisterTypeParam("U", "f")
	in.SetBounds(tp, []types.TypeID{in.Param(up, false)})
	in.SetBounds(up, []types.TypeID{in.Param(tp, false)})

	c := NewChecker(in)
	for _, p := range []types.TypeParamID{tp, up} {
		res := c.Search(p)
		if res.Reaches {
			t.Fatalf("cycle without wrappers must not reach")
		}
		if res.Visited != 2 {
			t.Fatalf("visited %d nodes, want exactly 2", res.Visited)
		}
	}
}

func TestLargeCycleVisitsEachNodeOnce(t *testing.T) {
	in := types.NewInterner()
	const n = 64
	params := make([]types.TypeParamID, n)
	for i := range params {
		params[i] = in.RegisterTypeParam(fmt.Sprintf("T%d", i), "f")
	}
	// every parameter is bounded by every other one
	for i, p := range params {
		bounds := make([]types.TypeID, 0, n-1)
		for j, q := range params {
			if i != j {
				bounds = append(bounds, in.Param(q, false))
			}
		}
		in.SetBounds(p, bounds)
	}
	res := NewChecker(in).Search(params[0])
	if res.Reaches || res.Visited != n {
		t.Fatalf("got %+v, want no reach and %d visits", res, n)
	}
}

func TestCheckerConcurrentQueries(t *testing.T) {
	in := types.NewInterner()
	w := register(t, in, "pkg.Meters", true)
	ps := make([]types.TypeParamID, 32)
	for i := range ps {
		ps[i] = in.RegisterTypeParam(fmt.Sprintf("P%d", i), "f")
		if i%2 == 0 {
			in.SetBounds(ps[i], []types.TypeID{w})
		}
	}
	c := NewChecker(in)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range ps {
				if got, want := c.ReachesValueWrapper(p), i%2 == 0; got != want {
					t.Errorf("P%d: got %v want %v", i, got, want)
				}
			}
		}()
	}
	wg.Wait()
}
