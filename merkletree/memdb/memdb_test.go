package memdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorpaas/merklist/merkletree"
)

func leaf(b byte) merkletree.Value {
	var bytes [32]byte
	bytes[0] = b
	return merkletree.End(bytes)
}

func TestInsertCreditsOneReference(t *testing.T) {
	db := New()
	key, err := db.Insert(leaf(1), leaf(2))
	require.NoError(t, err)
	require.EqualValues(t, 1, db.RefCount(key))
	require.Equal(t, 1, db.NodeCount())

	key2, err := db.Insert(leaf(1), leaf(2))
	require.NoError(t, err)
	require.Equal(t, key, key2, "identical pairs must hash to the same key")
	require.EqualValues(t, 2, db.RefCount(key), "re-inserting the same pair increments its refcount")
}

func TestIncRefOfUnknownNodeErrors(t *testing.T) {
	db := New()
	var key [32]byte
	require.Error(t, db.IncRef(key))
}

func TestDecRefOfUnknownNodeErrors(t *testing.T) {
	db := New()
	var key [32]byte
	require.Error(t, db.DecRef(key))
}

func TestDecRefDeletesAtZeroAndCascades(t *testing.T) {
	db := New()
	childKey, err := db.Insert(leaf(1), leaf(2))
	require.NoError(t, err)
	parentKey, err := db.Insert(merkletree.Intermediate(childKey), leaf(3))
	require.NoError(t, err)

	require.EqualValues(t, 1, db.RefCount(childKey))
	require.EqualValues(t, 1, db.RefCount(parentKey))
	require.Equal(t, 2, db.NodeCount())

	require.NoError(t, db.DecRef(parentKey))
	require.Equal(t, 0, db.NodeCount(), "decref to zero must cascade and free the child too")
}

func TestDecRefDoesNotCascadeWhileRefsRemain(t *testing.T) {
	db := New()
	childKey, err := db.Insert(leaf(1), leaf(2))
	require.NoError(t, err)
	parentKey, err := db.Insert(merkletree.Intermediate(childKey), leaf(3))
	require.NoError(t, err)
	require.NoError(t, db.IncRef(parentKey))

	require.NoError(t, db.DecRef(parentKey))
	require.Equal(t, 2, db.NodeCount(), "one remaining reference must keep the parent and child alive")
}

func TestGetUnknownKey(t *testing.T) {
	db := New()
	var key [32]byte
	_, _, ok, err := db.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEmptyAtIsMemoizedAndPinned(t *testing.T) {
	db := New()
	e1, err := db.EmptyAt(3)
	require.NoError(t, err)
	e2, err := db.EmptyAt(3)
	require.NoError(t, err)
	require.Equal(t, e1, e2, "EmptyAt must be deterministic for a given depth")

	// Every intermediate on the empty ladder up to depth 3 must be pinned
	// (refcount >= 2: one ordinary Insert credit plus the permanent pin),
	// so ordinary refcount churn from Vector operations can never free it.
	cur, err := db.EmptyAt(1)
	require.NoError(t, err)
	require.True(t, cur.IsIntermediate())
	require.GreaterOrEqual(t, db.RefCount(cur.Bytes()), int64(2))
}
