package merkletree

import (
	"crypto/sha256"

	"github.com/prysmaticlabs/gohashtree"
)

// HashFn computes the 32-byte hash over the 64-byte concatenation of two
// node values (spec.md §6 Hash).
type HashFn func(left, right [32]byte) [32]byte

// Sha256Pair is the default HashFn, hashing the 64-byte concatenation
// of two node values with crypto/sha256.
func Sha256Pair(left, right [32]byte) [32]byte {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// HashLayer hashes a flat, even-length sequence of 32-byte siblings
// pairwise into the layer above it, in place, using the teacher's
// batched gohashtree routine instead of looping over Sha256Pair.
func HashLayer(layer [][32]byte) ([][32]byte, error) {
	if len(layer)%2 != 0 {
		panic("merkletree: odd layer length")
	}
	if len(layer) == 0 {
		return layer, nil
	}
	out := layer[:len(layer)/2]
	if err := gohashtree.Hash(out, layer); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeRoot computes the Merkle root of a flat leaf sequence of the
// given depth, right-padding with ZeroEnd, using HashLayer's batched
// pairwise hashing rather than the backend-mediated, refcounted
// single-pair path RawTree/Vector mutate through. It touches no
// backend and is meant as an independent cross-check of a Vector's
// root, not as a replacement for its refcounted construction.
func ComputeRoot(leaves []Value, depth uint8) ([32]byte, error) {
	width := uint64(1) << depth
	if uint64(len(leaves)) > width {
		return [32]byte{}, newErrInvalidParameter("too many leaves for depth")
	}

	layer := make([][32]byte, width)
	for i, l := range leaves {
		layer[i] = l.Bytes()
	}
	for i := len(leaves); uint64(i) < width; i++ {
		layer[i] = ZeroEnd.Bytes()
	}

	for len(layer) > 1 {
		next, err := HashLayer(layer)
		if err != nil {
			return [32]byte{}, newErrBackend(err)
		}
		layer = next
	}
	if len(layer) == 0 {
		return ZeroEnd.Bytes(), nil
	}
	return layer[0], nil
}
