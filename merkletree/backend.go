package merkletree

// Backend is the pluggable key-value store the engine reads and writes
// intermediate node pairs through. A content-addressable store with
// refcount semantics satisfies this contract; its own storage format is
// outside the scope of this package (spec.md §1, §6).
type Backend interface {
	ReadBackend
	WriteBackend
}

// ReadBackend resolves an intermediate key to its child pair.
type ReadBackend interface {
	// Get returns the (left, right) pair stored under key, or ok=false
	// if key is not known to the backend.
	Get(key [32]byte) (left, right Value, ok bool, err error)
}

// WriteBackend mutates the backend's node graph. It also reads it, since
// rebuilding a path needs the children of every node along it.
type WriteBackend interface {
	ReadBackend

	// Insert stores (left, right) if not already present and increments
	// its refcount, returning the intermediate key H(left.Bytes() ‖ right.Bytes()).
	Insert(left, right Value) (key [32]byte, err error)

	// IncRef increments the refcount of an existing intermediate node.
	IncRef(key [32]byte) error

	// DecRef decrements the refcount of an intermediate node. When the
	// count reaches zero the node is deleted and its children are
	// recursively decref'd (if they are themselves intermediate).
	DecRef(key [32]byte) error

	// EmptyAt returns the root Value of the all-zero tree of the given
	// depth, materializing and caching it (with a retained refcount) if
	// necessary (spec.md §4.3).
	EmptyAt(depth uint8) (Value, error)
}
