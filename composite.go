package ssz

import "github.com/sorpaas/merklist/merkletree"

// TreeCodec converts between an application element and the
// merkletree.Value that represents its Merkle root as a vector leaf.
// ToValue may return an Intermediate value (a composite element that
// is itself already backend-resident structure) rather than always
// producing a leaf End value.
type TreeCodec[T any] struct {
	ToValue   func(v T) (merkletree.Value, error)
	FromValue func(val merkletree.Value) (T, error)
}

// CompositeVector is a fixed- or dynamic-capacity sequence of elements
// that are themselves merkleized, one element per leaf with no packing
// (spec.md §4.7).
type CompositeVector[T any] struct {
	codec  TreeCodec[T]
	vec    *merkletree.Vector
	length uint64
}

// NewCompositeVector creates a CompositeVector of length elements, each
// initialized to the zero Value the underlying merkletree.Vector
// allocates new leaves with (End(0x00...00)). maxElements, when
// non-nil, caps capacity; nil selects dynamic growth.
func NewCompositeVector[T any](db merkletree.WriteBackend, codec TreeCodec[T], length uint64, maxElements *uint64) (*CompositeVector[T], error) {
	vec, err := merkletree.Create(db, length, maxElements)
	if err != nil {
		return nil, err
	}
	return &CompositeVector[T]{codec: codec, vec: vec, length: length}, nil
}

// Len reports the number of elements.
func (c *CompositeVector[T]) Len() uint64 { return c.vec.Len() }

// Root returns the vector's Merkle root.
func (c *CompositeVector[T]) Root() [32]byte { return c.vec.Root() }

// Drop releases the underlying vector's ownership of its root.
func (c *CompositeVector[T]) Drop(db merkletree.WriteBackend) error { return c.vec.Drop(db) }

// Get returns the element at index i, decoded via the codec's
// FromValue from the leaf stored there.
func (c *CompositeVector[T]) Get(db merkletree.ReadBackend, i uint64) (T, error) {
	var zero T
	val, err := c.vec.Get(db, i)
	if err != nil {
		return zero, err
	}
	return c.codec.FromValue(val)
}

// Set overwrites the element at index i.
func (c *CompositeVector[T]) Set(db merkletree.WriteBackend, i uint64, v T) error {
	val, err := c.codec.ToValue(v)
	if err != nil {
		return err
	}
	return c.vec.Set(db, i, val)
}

// Push appends v as a new leaf.
func (c *CompositeVector[T]) Push(db merkletree.WriteBackend, v T) error {
	val, err := c.codec.ToValue(v)
	if err != nil {
		return err
	}
	return c.vec.Push(db, val)
}

// Pop removes and returns the last element.
func (c *CompositeVector[T]) Pop(db merkletree.WriteBackend) (v T, ok bool, err error) {
	var zero T
	val, ok, err := c.vec.Pop(db)
	if err != nil || !ok {
		return zero, ok, err
	}
	v, err = c.codec.FromValue(val)
	return v, true, err
}
