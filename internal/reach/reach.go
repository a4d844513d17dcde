// Package reach decides whether a type parameter's upper bounds transitively
// reach a value-wrapper type.
package reach

import (
	"fmt"
	"sync"

	"erasure/internal/types"
)

// Result reports the outcome of one search.
type Result struct {
	Reaches bool
	// Visited counts distinct type parameters entered, the root included.
	Visited int
}

// Checker answers reachability queries over a read-only interner. Answers are
// memoized per parameter; concurrent misses may compute the same value twice,
// which is harmless because the search is pure.
type Checker struct {
	types *types.Interner
	mu    sync.RWMutex
	memo  map[types.TypeParamID]bool
}

// NewChecker creates a Checker.
func NewChecker(in *types.Interner) *Checker {
	return &Checker{types: in, memo: make(map[types.TypeParamID]bool, 32)}
}

// ReachesValueWrapper reports whether some upper bound of p, followed through
// other type parameters, is a value-wrapper type.
func (c *Checker) ReachesValueWrapper(p types.TypeParamID) bool {
	c.mu.RLock()
	v, ok := c.memo[p]
	c.mu.RUnlock()
	if ok {
		return v
	}
	v = c.Search(p).Reaches
	c.mu.Lock()
	c.memo[p] = v
	c.mu.Unlock()
	return v
}

// Search runs an uncached depth-first search from p. A parameter already on
// the visited set is a dead end, so mutually recursive bounds terminate after
// entering each parameter once.
func (c *Checker) Search(p types.TypeParamID) Result {
	visited := map[types.TypeParamID]struct{}{p: {}}
	reaches := c.search(p, visited)
	return Result{Reaches: reaches, Visited: len(visited)}
}

func (c *Checker) search(p types.TypeParamID, visited map[types.TypeParamID]struct{}) bool {
	info, ok := c.types.TypeParam(p)
	if !ok {
		return false
	}
	for _, bound := range info.Bounds {
		tt, ok := c.types.Lookup(bound)
		if !ok {
			continue
		}
		switch tt.Kind {
		case types.KindNominal:
			if c.types.IsValueWrapper(bound) {
				return true
			}
		case types.KindTypeParam:
			if _, seen := visited[tt.Param]; seen {
				continue
			}
			visited[tt.Param] = struct{}{}
			if c.search(tt.Param, visited) {
				return true
			}
		case types.KindInvalid:
			continue
		default:
			panic(fmt.Sprintf("reach: unexpected kind %s", tt.Kind))
		}
	}
	return false
}

// TypeReaches reports whether a participating type forces mangling: it is a
// value-wrapper type itself, or a type parameter reaching one.
func (c *Checker) TypeReaches(id types.TypeID) bool {
	tt, ok := c.types.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindNominal:
		return c.types.IsValueWrapper(id)
	case types.KindTypeParam:
		return c.ReachesValueWrapper(tt.Param)
	case types.KindInvalid:
		return false
	default:
		panic(fmt.Sprintf("reach: unexpected kind %s", tt.Kind))
	}
}
