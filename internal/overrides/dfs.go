// Package overrides walks override graphs and computes which erased
// signatures of a member need forwarding bridges.
//
// The package is generic over the node type: anything that can list the
// nodes it overrides and report whether it is a genuine declaration, abstract,
// or declared in an interface can be analysed. Signature equality is supplied
// by the caller as a comparable key.
package overrides

// Handle is a node of an override graph.
type Handle[F any] interface {
	// IsDeclaration is false for fake overrides materialized by the resolver.
	IsDeclaration() bool
	IsAbstract() bool
	// IsInterfaceDeclaration reports whether the owner is an interface.
	IsInterfaceDeclaration() bool
	// Overridden lists directly overridden nodes in a stable order.
	Overridden() []F
}

// Node is a comparable Handle; identity is node equality, not signature.
type Node[F any] interface {
	comparable
	Handle[F]
}

// Walk visits every node reachable from roots through neighbors exactly
// once, in depth-first pre-order. Neighbor order is respected, which makes
// the visit order stable.
func Walk[F comparable](roots []F, neighbors func(F) []F, visit func(F)) {
	seen := make(map[F]struct{}, len(roots)*4)
	var walk func(F)
	walk = func(n F) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		visit(n)
		for _, next := range neighbors(n) {
			walk(next)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

// ReachableDeclarations returns fn and everything it transitively overrides,
// keeping only genuine declarations, in discovery order.
func ReachableDeclarations[F Node[F]](fn F) []F {
	var out []F
	Walk([]F{fn}, func(n F) []F { return n.Overridden() }, func(n F) {
		if n.IsDeclaration() {
			out = append(out, n)
		}
	})
	return out
}
