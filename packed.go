package ssz

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/sorpaas/merklist/merkletree"
)

// ElementCodec describes how a fixed-width basic SSZ type packs into
// and unpacks out of the little-endian byte layout of a 32-byte leaf
// chunk (spec.md §4.6), generalized to operate on many elements per
// chunk instead of one element per call.
type ElementCodec[T any] struct {
	Size   int
	Encode func(dst []byte, v T)
	Decode func(src []byte) T
}

// Uint8Codec packs a single byte per element.
var Uint8Codec = ElementCodec[uint8]{
	Size:   1,
	Encode: func(dst []byte, v uint8) { dst[0] = v },
	Decode: func(src []byte) uint8 { return src[0] },
}

// Uint16Codec packs a little-endian uint16 per element.
var Uint16Codec = ElementCodec[uint16]{
	Size:   2,
	Encode: func(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) },
	Decode: func(src []byte) uint16 { return binary.LittleEndian.Uint16(src) },
}

// Uint32Codec packs a little-endian uint32 per element.
var Uint32Codec = ElementCodec[uint32]{
	Size:   4,
	Encode: func(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) },
	Decode: func(src []byte) uint32 { return binary.LittleEndian.Uint32(src) },
}

// Uint64Codec packs a little-endian uint64 per element.
var Uint64Codec = ElementCodec[uint64]{
	Size:   8,
	Encode: func(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) },
	Decode: func(src []byte) uint64 { return binary.LittleEndian.Uint64(src) },
}

// Uint128 holds a 128-bit unsigned integer as 16 little-endian bytes;
// the SSZ spec defines no arithmetic over it, only encoding.
type Uint128 [16]byte

// Uint128Codec packs a little-endian uint128 per element.
var Uint128Codec = ElementCodec[Uint128]{
	Size:   16,
	Encode: func(dst []byte, v Uint128) { copy(dst, v[:]) },
	Decode: func(src []byte) (v Uint128) { copy(v[:], src[:16]); return v },
}

// Uint256Codec packs a little-endian uint256 per element. A uint256
// fills an entire 32-byte chunk on its own, so in a PackedVector it
// behaves like the "unpacked" element the spec calls out: one leaf per
// element, still expressed through the same packing machinery.
var Uint256Codec = ElementCodec[*uint256.Int]{
	Size: 32,
	Encode: func(dst []byte, v *uint256.Int) {
		b := v.Bytes32()
		// uint256.Bytes32 is big-endian; SSZ basic types are little-endian.
		for i := 0; i < 32; i++ {
			dst[i] = b[31-i]
		}
	},
	Decode: func(src []byte) *uint256.Int {
		var be [32]byte
		for i := 0; i < 32; i++ {
			be[i] = src[31-i]
		}
		return new(uint256.Int).SetBytes32(be[:])
	},
}

// PackedVector is a fixed- or dynamic-capacity sequence of a basic SSZ
// type packed many-per-leaf into an underlying merkletree.Vector
// (spec.md §4.6). Length is tracked in elements; the underlying vector
// tracks length in whole chunks.
type PackedVector[T any] struct {
	codec    ElementCodec[T]
	perChunk int
	chunks   *merkletree.Vector
	length   uint64
}

func chunkCount(elements uint64, size int) uint64 {
	perChunk := uint64(32 / size)
	return (elements + perChunk - 1) / perChunk
}

// NewPackedVector creates a PackedVector holding length zero-valued
// elements of the given codec. maxElements, when non-nil, caps the
// vector's capacity (translated to the chunk-count ceiling the
// underlying merkletree.Vector enforces); nil selects dynamic growth.
func NewPackedVector[T any](db merkletree.WriteBackend, codec ElementCodec[T], length uint64, maxElements *uint64) (*PackedVector[T], error) {
	if codec.Size <= 0 || codec.Size > 32 || 32%codec.Size != 0 {
		return nil, newErrSizeMismatch(32, codec.Size)
	}
	var maxChunks *uint64
	if maxElements != nil {
		c := chunkCount(*maxElements, codec.Size)
		maxChunks = &c
	}
	vec, err := merkletree.Create(db, chunkCount(length, codec.Size), maxChunks)
	if err != nil {
		return nil, err
	}
	return &PackedVector[T]{
		codec:    codec,
		perChunk: 32 / codec.Size,
		chunks:   vec,
		length:   length,
	}, nil
}

// Len reports the number of packed elements.
func (p *PackedVector[T]) Len() uint64 { return p.length }

// Root returns the vector's Merkle root.
func (p *PackedVector[T]) Root() [32]byte { return p.chunks.Root() }

// Drop releases the underlying vector's ownership of its root.
func (p *PackedVector[T]) Drop(db merkletree.WriteBackend) error { return p.chunks.Drop(db) }

func (p *PackedVector[T]) chunkOf(i uint64) (chunk uint64, offset int) {
	perChunk := uint64(p.perChunk)
	return i / perChunk, int(i%perChunk) * p.codec.Size
}

// Get returns the element at index i.
func (p *PackedVector[T]) Get(db merkletree.ReadBackend, i uint64) (T, error) {
	var zero T
	if i >= p.length {
		return zero, newErrOutOfRange(i, p.length)
	}
	chunk, offset := p.chunkOf(i)
	val, err := p.chunks.Get(db, chunk)
	if err != nil {
		return zero, err
	}
	bytes := val.Bytes()
	return p.codec.Decode(bytes[offset : offset+p.codec.Size]), nil
}

// Set overwrites the element at index i.
func (p *PackedVector[T]) Set(db merkletree.WriteBackend, i uint64, v T) error {
	if i >= p.length {
		return newErrOutOfRange(i, p.length)
	}
	chunk, offset := p.chunkOf(i)
	cur, err := p.chunks.Get(db, chunk)
	if err != nil {
		return err
	}
	bytes := cur.Bytes()
	p.codec.Encode(bytes[offset:offset+p.codec.Size], v)
	return p.chunks.Set(db, chunk, merkletree.End(bytes))
}

// Push appends v, allocating a new zero-valued chunk when the current
// last chunk is full.
func (p *PackedVector[T]) Push(db merkletree.WriteBackend, v T) error {
	chunk, offset := p.chunkOf(p.length)
	if offset == 0 {
		if err := p.chunks.Push(db, merkletree.ZeroEnd); err != nil {
			return err
		}
	}
	cur, err := p.chunks.Get(db, chunk)
	if err != nil {
		return err
	}
	bytes := cur.Bytes()
	p.codec.Encode(bytes[offset:offset+p.codec.Size], v)
	if err := p.chunks.Set(db, chunk, merkletree.End(bytes)); err != nil {
		return err
	}
	p.length++
	return nil
}

// Pop removes and returns the last element, releasing its backing
// chunk once every element within it has been removed.
func (p *PackedVector[T]) Pop(db merkletree.WriteBackend) (v T, ok bool, err error) {
	var zero T
	if p.length == 0 {
		return zero, false, nil
	}
	last := p.length - 1
	chunk, offset := p.chunkOf(last)
	cur, err := p.chunks.Get(db, chunk)
	if err != nil {
		return zero, false, err
	}
	bytes := cur.Bytes()
	v = p.codec.Decode(bytes[offset : offset+p.codec.Size])

	var clearedZero [32]byte
	copy(clearedZero[:], bytes[:])
	for b := offset; b < offset+p.codec.Size; b++ {
		clearedZero[b] = 0
	}

	p.length--
	if offset == 0 {
		if _, _, err := p.chunks.Pop(db); err != nil {
			return zero, false, err
		}
	} else if err := p.chunks.Set(db, chunk, merkletree.End(clearedZero)); err != nil {
		return zero, false, err
	}
	return v, true, nil
}
