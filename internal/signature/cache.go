package signature

import (
	"sync"

	"erasure/internal/symbols"
)

// Cache memoizes Signatures by declaration. It is safe for concurrent use:
// a miss computes outside the lock and stores afterwards, last write wins.
// Signatures are pure, so racing computations store identical values.
type Cache struct {
	model *Model
	mu    sync.RWMutex
	byID  map[symbols.DeclID]Signature
}

// NewCache wraps model with a read-through memo table.
func NewCache(model *Model) *Cache {
	return &Cache{model: model, byID: make(map[symbols.DeclID]Signature, 256)}
}

// Model returns the underlying model.
func (c *Cache) Model() *Model { return c.model }

// Get returns the Signature of id, computing it on first access.
func (c *Cache) Get(id symbols.DeclID) Signature {
	c.mu.RLock()
	sig, ok := c.byID[id]
	c.mu.RUnlock()
	if ok {
		return sig
	}
	sig = c.model.Of(id)
	c.mu.Lock()
	c.byID[id] = sig
	c.mu.Unlock()
	return sig
}

// Len reports the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
