package merkletree

// Vector is a length-tracked sequence backed by a RawTree (spec.md §4).
// In capped mode (MaxLen != nil) capacity is fixed at creation; in
// dynamic mode it is always the least power of two >= max(1, Len()).
type Vector struct {
	raw    RawTree
	length uint64
	maxLen *uint64
	depth  uint8
}

// Create builds a new, owned Vector of the given length. maxLen, when
// non-nil, fixes the vector's capacity for its lifetime; maxLen == nil
// selects dynamic mode. Every leaf starts at End(0) (spec.md §4.4).
func Create(db WriteBackend, length uint64, maxLen *uint64) (*Vector, error) {
	if maxLen != nil {
		if *maxLen == 0 || length > *maxLen {
			return nil, newErrInvalidParameter("max_len must be >= 1 and >= len")
		}
	}

	target := length
	if maxLen != nil {
		target = *maxLen
	} else if target < 1 {
		target = 1
	}
	depth := Log2(NextPowerOfTwo(target))

	root, err := db.EmptyAt(depth)
	if err != nil {
		return nil, newErrBackend(err)
	}
	if root.IsIntermediate() {
		if err := db.IncRef(root.Bytes()); err != nil {
			return nil, newErrBackend(err)
		}
	}

	v := &Vector{
		raw:    RawTree{Root: root, Owning: true},
		length: length,
		depth:  depth,
	}
	if maxLen != nil {
		m := *maxLen
		v.maxLen = &m
	}
	return v, nil
}

// Len reports the vector's logical length.
func (v *Vector) Len() uint64 { return v.length }

// MaxLen reports the fixed capacity of a capped vector, or nil in
// dynamic mode.
func (v *Vector) MaxLen() *uint64 {
	if v.maxLen == nil {
		return nil
	}
	m := *v.maxLen
	return &m
}

// Depth reports the current tree depth (log2 of CurrentMaxLen).
func (v *Vector) Depth() uint8 { return v.depth }

// CurrentMaxLen reports the vector's present capacity, 1<<Depth().
func (v *Vector) CurrentMaxLen() uint64 { return uint64(1) << v.depth }

// Root returns the vector's 32-byte Merkle root.
func (v *Vector) Root() [32]byte { return v.raw.Root.Bytes() }

// Get returns the value stored at i, or ErrAccessOverflowed if i >= Len().
func (v *Vector) Get(db ReadBackend, i uint64) (Value, error) {
	if i >= v.length {
		return Value{}, newErrAccessOverflowed(i, v.length)
	}
	val, ok, err := v.raw.Get(db, FromDepth(i, v.depth))
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Value{}, newErrCorruptedDatabase("path ended above leaf depth")
	}
	return val, nil
}

// Set overwrites the value stored at i, or returns ErrAccessOverflowed
// if i >= Len().
func (v *Vector) Set(db WriteBackend, i uint64, val Value) error {
	if i >= v.length {
		return newErrAccessOverflowed(i, v.length)
	}
	return v.raw.Set(db, FromDepth(i, v.depth), val)
}

// Push appends val, extending capacity first if the vector is full. In
// capped mode, pushing at MaxLen() returns ErrAccessOverflowed: the
// caller's declared max_len is the logical cap (spec.md §3), which may
// sit below the tree's power-of-two-padded CurrentMaxLen().
func (v *Vector) Push(db WriteBackend, val Value) error {
	if v.maxLen != nil {
		if v.length >= *v.maxLen {
			return newErrAccessOverflowed(v.length, v.length)
		}
	} else if v.length == v.CurrentMaxLen() {
		if err := v.extend(db); err != nil {
			return err
		}
	}
	if err := v.raw.Set(db, FromDepth(v.length, v.depth), val); err != nil {
		return err
	}
	v.length++
	return nil
}

// Pop removes and returns the last value, coalescing the now-zero tail
// with the memoized empty subtree and shrinking capacity in dynamic
// mode once the length is at most half of it. ok is false on an empty
// vector.
func (v *Vector) Pop(db WriteBackend) (val Value, ok bool, err error) {
	if v.length == 0 {
		return Value{}, false, nil
	}

	leaf := FromDepth(v.length-1, v.depth)
	val, ok, err = v.raw.Get(db, leaf)
	if err != nil {
		return Value{}, false, err
	}
	if !ok {
		return Value{}, false, newErrCorruptedDatabase("path ended above leaf depth")
	}

	cur := leaf
	var ascended uint8
	for cur.IsLeft() {
		parent, _ := cur.Parent()
		cur = parent
		ascended++
	}
	emptyAt, err := db.EmptyAt(ascended)
	if err != nil {
		return Value{}, false, newErrBackend(err)
	}
	if err := v.raw.Set(db, cur, emptyAt); err != nil {
		return Value{}, false, err
	}

	v.length--
	// '<=' keeps current_max_len the least power of two >= max(1, len),
	// the same depth Create and FromLeaked derive from a length, so a
	// push that extended capacity is undone exactly by the matching pop.
	if v.maxLen == nil && v.depth > 0 && v.length <= v.CurrentMaxLen()/2 {
		if err := v.shrink(db); err != nil {
			return Value{}, false, err
		}
	}
	return val, true, nil
}

// extend doubles current_max_len: the old root becomes the left child
// of the new root, and the memoized empty subtree of the old depth
// becomes the right child (spec.md §4.4 Extend).
func (v *Vector) extend(db WriteBackend) error {
	emptyAtD, err := db.EmptyAt(v.depth)
	if err != nil {
		return newErrBackend(err)
	}
	if emptyAtD.IsIntermediate() {
		if err := db.IncRef(emptyAtD.Bytes()); err != nil {
			return newErrBackend(err)
		}
	}
	key, err := db.Insert(v.raw.Root, emptyAtD)
	if err != nil {
		return newErrBackend(err)
	}
	v.raw.Root = Intermediate(key)
	v.depth++
	return nil
}

// shrink halves current_max_len: the new root becomes the old root's
// left child, and the (by invariant, all-zero) right child is released
// (spec.md §4.4 Shrink).
func (v *Vector) shrink(db WriteBackend) error {
	if !v.raw.Root.IsIntermediate() {
		return newErrCorruptedDatabase("shrink requires an intermediate root")
	}
	left, _, ok, err := db.Get(v.raw.Root.Bytes())
	if err != nil {
		return newErrBackend(err)
	}
	if !ok {
		return newErrCorruptedDatabase("missing intermediate node referenced by tree path")
	}
	if left.IsIntermediate() {
		if err := db.IncRef(left.Bytes()); err != nil {
			return newErrBackend(err)
		}
	}
	if err := db.DecRef(v.raw.Root.Bytes()); err != nil {
		return newErrBackend(err)
	}
	v.raw.Root = left
	v.depth--
	return nil
}

// Drop releases the vector's ownership of its root, if it is Owned.
// Dangling vectors (adopted via FromLeaked with owned=false) are a
// no-op: the caller remains responsible for the reference.
func (v *Vector) Drop(db WriteBackend) error {
	return v.raw.Drop(db)
}

// Metadata is the (root, len, max_len) triple that crosses an API
// boundary via Leak, without altering any refcount (spec.md §4.5).
type Metadata struct {
	Root   Value
	Len    uint64
	MaxLen *uint64
}

// Leak detaches v from refcount management, returning its metadata
// triple. The caller becomes responsible for the reference held by
// Root until it is reconstituted with FromLeaked and dropped, or
// otherwise accounted for.
func (v *Vector) Leak() Metadata {
	v.raw.Owning = false
	var maxLen *uint64
	if v.maxLen != nil {
		m := *v.maxLen
		maxLen = &m
	}
	return Metadata{Root: v.raw.Root, Len: v.length, MaxLen: maxLen}
}

// FromLeaked reconstructs a Vector from a previously leaked Metadata
// triple without touching any refcount. owned selects whether the
// result is responsible for releasing its root on Drop (Owned) or not
// (Dangling).
func FromLeaked(meta Metadata, owned bool) *Vector {
	target := meta.Len
	if meta.MaxLen != nil {
		target = *meta.MaxLen
	} else if target < 1 {
		target = 1
	}
	v := &Vector{
		raw:    RawTree{Root: meta.Root, Owning: owned},
		length: meta.Len,
		depth:  Log2(NextPowerOfTwo(target)),
	}
	if meta.MaxLen != nil {
		m := *meta.MaxLen
		v.maxLen = &m
	}
	return v
}
