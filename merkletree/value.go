package merkletree

// Value is the tagged union of the two node variants described by the
// data model: a 32-byte leaf payload (End) or a key into the backend
// whose stored record is the pair of children (Intermediate).
type Value struct {
	intermediate bool
	bytes        [32]byte
}

// End constructs a leaf value.
func End(payload [32]byte) Value {
	return Value{bytes: payload}
}

// Intermediate constructs a value referencing a backend-stored node pair.
func Intermediate(key [32]byte) Value {
	return Value{intermediate: true, bytes: key}
}

// IsIntermediate reports whether v is a backend key rather than a leaf.
func (v Value) IsIntermediate() bool {
	return v.intermediate
}

// Bytes returns the 32-byte wire representation of v: the leaf payload,
// or the intermediate key.
func (v Value) Bytes() [32]byte {
	return v.bytes
}

// ZeroEnd is the leaf value End(0x00...00).
var ZeroEnd = End([32]byte{})
