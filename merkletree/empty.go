package merkletree

import "sync"

// EmptyCache memoizes the roots of all-zero subtrees by depth, computed
// lazily atop a backend's Insert. Backend implementations that do not
// want to maintain their own memo table can embed this and implement
// WriteBackend.EmptyAt by delegating to At (spec.md §4.3).
type EmptyCache struct {
	mu sync.Mutex
	at []Value // at[d] is the root of the all-zero tree of depth d
}

// At returns the root of the all-zero tree of the given depth,
// materializing and caching every depth up to it.
//
// Each memoized node is pinned with an extra IncRef beyond the one it
// receives from its own Insert, so that the ordinary refcount traffic
// of Vector operations embedding and later discarding it as a child
// can never drive it to zero. The memo is shared, global cache state,
// not any single Vector's property, and spec.md §4.3 leaves its exact
// lifetime to the implementation.
func (c *EmptyCache) At(db WriteBackend, depth uint8) (Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.at) == 0 {
		c.at = append(c.at, ZeroEnd)
	}
	for uint8(len(c.at)) <= depth {
		prev := c.at[len(c.at)-1]
		key, err := db.Insert(prev, prev)
		if err != nil {
			return Value{}, newErrBackend(err)
		}
		if err := db.IncRef(key); err != nil {
			return Value{}, newErrBackend(err)
		}
		c.at = append(c.at, Intermediate(key))
	}
	return c.at[depth], nil
}
