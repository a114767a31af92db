package ssz

import "github.com/sorpaas/merklist/merkletree"

const bitsPerChunk = 256

// BoolVector is a fixed- or dynamic-capacity sequence of bits,
// bit-packed LSB-first into 32-byte chunks (spec.md §4.6): element
// index n lives in chunk n/256, at byte (n%256)/8 within that chunk,
// bit n%8, least significant bit first.
type BoolVector struct {
	chunks *merkletree.Vector
	length uint64
}

func boolChunkCount(elements uint64) uint64 {
	return (elements + bitsPerChunk - 1) / bitsPerChunk
}

// NewBoolVector creates a BoolVector holding length false elements.
// maxElements, when non-nil, caps capacity; nil selects dynamic growth.
func NewBoolVector(db merkletree.WriteBackend, length uint64, maxElements *uint64) (*BoolVector, error) {
	var maxChunks *uint64
	if maxElements != nil {
		c := boolChunkCount(*maxElements)
		maxChunks = &c
	}
	vec, err := merkletree.Create(db, boolChunkCount(length), maxChunks)
	if err != nil {
		return nil, err
	}
	return &BoolVector{chunks: vec, length: length}, nil
}

// Len reports the number of packed bits.
func (b *BoolVector) Len() uint64 { return b.length }

// Root returns the vector's Merkle root.
func (b *BoolVector) Root() [32]byte { return b.chunks.Root() }

// Drop releases the underlying vector's ownership of its root.
func (b *BoolVector) Drop(db merkletree.WriteBackend) error { return b.chunks.Drop(db) }

func bitLocation(i uint64) (chunk uint64, byteIdx int, bit uint8) {
	chunk = i / bitsPerChunk
	within := i % bitsPerChunk
	return chunk, int(within / 8), uint8(within % 8)
}

// Get returns the bit at index i.
func (b *BoolVector) Get(db merkletree.ReadBackend, i uint64) (bool, error) {
	if i >= b.length {
		return false, newErrOutOfRange(i, b.length)
	}
	chunk, byteIdx, bit := bitLocation(i)
	val, err := b.chunks.Get(db, chunk)
	if err != nil {
		return false, err
	}
	bytes := val.Bytes()
	return bytes[byteIdx]&(1<<bit) != 0, nil
}

// Set overwrites the bit at index i.
func (b *BoolVector) Set(db merkletree.WriteBackend, i uint64, v bool) error {
	if i >= b.length {
		return newErrOutOfRange(i, b.length)
	}
	chunk, byteIdx, bit := bitLocation(i)
	cur, err := b.chunks.Get(db, chunk)
	if err != nil {
		return err
	}
	bytes := cur.Bytes()
	if v {
		bytes[byteIdx] |= 1 << bit
	} else {
		bytes[byteIdx] &^= 1 << bit
	}
	return b.chunks.Set(db, chunk, merkletree.End(bytes))
}

// Push appends v, allocating a new zero-valued chunk when the current
// last chunk is full.
func (b *BoolVector) Push(db merkletree.WriteBackend, v bool) error {
	chunk, byteIdx, bit := bitLocation(b.length)
	if byteIdx == 0 && bit == 0 {
		if err := b.chunks.Push(db, merkletree.ZeroEnd); err != nil {
			return err
		}
	}
	if v {
		cur, err := b.chunks.Get(db, chunk)
		if err != nil {
			return err
		}
		bytes := cur.Bytes()
		bytes[byteIdx] |= 1 << bit
		if err := b.chunks.Set(db, chunk, merkletree.End(bytes)); err != nil {
			return err
		}
	}
	b.length++
	return nil
}

// Pop removes and returns the last bit, releasing its backing chunk
// once every bit within it has been removed.
func (b *BoolVector) Pop(db merkletree.WriteBackend) (v bool, ok bool, err error) {
	if b.length == 0 {
		return false, false, nil
	}
	last := b.length - 1
	chunk, byteIdx, bit := bitLocation(last)
	cur, err := b.chunks.Get(db, chunk)
	if err != nil {
		return false, false, err
	}
	bytes := cur.Bytes()
	v = bytes[byteIdx]&(1<<bit) != 0

	b.length--
	if byteIdx == 0 && bit == 0 {
		if _, _, err := b.chunks.Pop(db); err != nil {
			return false, false, err
		}
	} else if v {
		bytes[byteIdx] &^= 1 << bit
		if err := b.chunks.Set(db, chunk, merkletree.End(bytes)); err != nil {
			return false, false, err
		}
	}
	return v, true, nil
}
