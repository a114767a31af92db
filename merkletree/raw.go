package merkletree

// RawTree is a rooted Merkle subtree supporting arbitrary-index get/set
// with exact refcount bookkeeping (spec.md §3, §4.2).
//
// Set rebuilds the path from root to the target index bottom-up through
// WriteBackend.Insert, which credits exactly one reference to the node
// it returns: the edge about to be held by whichever caller embeds it
// as a child, or by the Vector that owns the final root. A value that
// is reused rather than freshly produced by Insert — an unchanged
// sibling, or the caller-supplied replacement itself — is never implied
// to carry that edge already, so Set IncRefs it explicitly at the point
// it is adopted as a new child. The old root is then DecRef'd exactly
// once; the backend's contract that DecRef cascades into a deleted
// node's children propagates that single release down the old path,
// and at each level it lands on the same sibling that Set just
// IncRef'd, netting zero change to values that did not move.
type RawTree struct {
	Root   Value
	Owning bool
}

// Get walks the bit-path from the tree root to i, returning the value
// stored there. ok is false if the path runs into an End value above
// the conceptual leaf depth (the shape the caller expected isn't there).
func (t *RawTree) Get(db ReadBackend, i Index) (Value, bool, error) {
	depth, offset := i.DepthOffset()
	return getAt(db, t.Root, depth, offset)
}

func getAt(db ReadBackend, root Value, depth uint8, offset uint64) (Value, bool, error) {
	cur := root
	for lvl := depth; lvl > 0; lvl-- {
		if !cur.IsIntermediate() {
			return Value{}, false, nil
		}
		left, right, ok, err := db.Get(cur.Bytes())
		if err != nil {
			return Value{}, false, newErrBackend(err)
		}
		if !ok {
			return Value{}, false, newErrCorruptedDatabase("missing intermediate node referenced by tree path")
		}
		if (offset>>(lvl-1))&1 == 0 {
			cur = left
		} else {
			cur = right
		}
	}
	return cur, true, nil
}

// Set replaces the value at index i and updates t.Root. i need not
// address a leaf: Pop's zero-coalescing step overwrites an interior
// node directly.
func (t *RawTree) Set(db WriteBackend, i Index, v Value) error {
	depth, offset := i.DepthOffset()
	newRoot, err := t.SetAt(db, depth, offset, v)
	if err != nil {
		return err
	}
	t.Root = newRoot
	return nil
}

// SetAt is Set expressed directly in depth/offset terms, reused by
// Vector for leaf writes and by Pop for interior zero-coalescing.
func (t *RawTree) SetAt(db WriteBackend, depth uint8, offset uint64, v Value) (Value, error) {
	newRoot, err := setAt(db, t.Root, depth, offset, v)
	if err != nil {
		return Value{}, err
	}
	if t.Root.IsIntermediate() {
		if err := db.DecRef(t.Root.Bytes()); err != nil {
			return Value{}, newErrBackend(err)
		}
	}
	return newRoot, nil
}

func setAt(db WriteBackend, value Value, depth uint8, offset uint64, v Value) (Value, error) {
	if depth == 0 {
		if v.IsIntermediate() {
			if err := db.IncRef(v.Bytes()); err != nil {
				return Value{}, newErrBackend(err)
			}
		}
		return v, nil
	}
	if !value.IsIntermediate() {
		return Value{}, newErrCorruptedDatabase("expected intermediate node above leaf depth")
	}
	left, right, ok, err := db.Get(value.Bytes())
	if err != nil {
		return Value{}, newErrBackend(err)
	}
	if !ok {
		return Value{}, newErrCorruptedDatabase("missing intermediate node referenced by tree path")
	}

	half := uint64(1) << (depth - 1)
	var newLeft, newRight Value
	if offset < half {
		newLeft, err = setAt(db, left, depth-1, offset, v)
		if err != nil {
			return Value{}, err
		}
		newRight = right
		if right.IsIntermediate() {
			if err := db.IncRef(right.Bytes()); err != nil {
				return Value{}, newErrBackend(err)
			}
		}
	} else {
		newRight, err = setAt(db, right, depth-1, offset-half, v)
		if err != nil {
			return Value{}, err
		}
		newLeft = left
		if left.IsIntermediate() {
			if err := db.IncRef(left.Bytes()); err != nil {
				return Value{}, newErrBackend(err)
			}
		}
	}

	key, err := db.Insert(newLeft, newRight)
	if err != nil {
		return Value{}, newErrBackend(err)
	}
	if key == value.Bytes() {
		// The rebuilt node is the one already here, whose stored children
		// keep their existing edges: release the credits given above.
		for _, child := range []Value{newLeft, newRight} {
			if child.IsIntermediate() {
				if err := db.DecRef(child.Bytes()); err != nil {
					return Value{}, newErrBackend(err)
				}
			}
		}
	}
	return Intermediate(key), nil
}

// Drop releases t's ownership of its root. A Dangling tree (Owning ==
// false) is a no-op: its caller retained responsibility for the edge.
func (t *RawTree) Drop(db WriteBackend) error {
	if !t.Owning {
		return nil
	}
	if t.Root.IsIntermediate() {
		if err := db.DecRef(t.Root.Bytes()); err != nil {
			return newErrBackend(err)
		}
	}
	return nil
}
