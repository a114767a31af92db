package ssz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorpaas/merklist/merkletree/memdb"
)

// TestBoolVectorBitpacking is spec.md §8 S3.
func TestBoolVectorBitpacking(t *testing.T) {
	db := memdb.New()
	maxLen := uint64(9)
	v, err := NewBoolVector(db, 9, &maxLen)
	require.NoError(t, err)

	bits := []bool{true, false, true, true, false, false, false, false, true}
	for i, b := range bits {
		require.NoError(t, v.Set(db, uint64(i), b))
	}

	var wantChunk [32]byte
	wantChunk[0] = 0x0D
	wantChunk[1] = 0x01
	require.Equal(t, wantChunk, v.Root())
}

func TestBoolVectorGetSetRoundTrip(t *testing.T) {
	db := memdb.New()
	v, err := NewBoolVector(db, 300, nil)
	require.NoError(t, err)

	for i := uint64(0); i < 300; i++ {
		require.NoError(t, v.Set(db, i, i%3 == 0))
	}
	for i := uint64(0); i < 300; i++ {
		got, err := v.Get(db, i)
		require.NoError(t, err)
		require.Equal(t, i%3 == 0, got)
	}
}

func TestBoolVectorOutOfRange(t *testing.T) {
	db := memdb.New()
	v, err := NewBoolVector(db, 1, nil)
	require.NoError(t, err)
	_, err = v.Get(db, 1)
	require.Error(t, err)
}

func TestBoolVectorPushPopAcrossChunkBoundary(t *testing.T) {
	db := memdb.New()
	v, err := NewBoolVector(db, 0, nil)
	require.NoError(t, err)

	for i := 0; i < bitsPerChunk+5; i++ {
		require.NoError(t, v.Push(db, i%2 == 0))
	}
	require.EqualValues(t, 2, v.chunks.Len())

	for i := bitsPerChunk + 4; i >= bitsPerChunk; i-- {
		got, ok, err := v.Pop(db)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i%2 == 0, got)
	}
	require.EqualValues(t, 1, v.chunks.Len())
}

func TestBoolVectorRefcountConservation(t *testing.T) {
	db := memdb.New()
	v, err := NewBoolVector(db, 0, nil)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		require.NoError(t, v.Push(db, i%7 == 0))
	}
	for i := 0; i < 470; i++ {
		_, _, err := v.Pop(db)
		require.NoError(t, err)
	}
	require.NoError(t, v.Drop(db))
	require.Equal(t, 0, db.NodeCount())
}
