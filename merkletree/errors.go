package merkletree

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the engine (spec.md §7). Wrap with errors.Is
// to classify a failure without inspecting its concrete type.
var (
	ErrAccessOverflowed  = errors.New("merkletree: access overflowed")
	ErrInvalidParameter  = errors.New("merkletree: invalid parameter")
	ErrCorruptedDatabase = errors.New("merkletree: corrupted database")
)

// errAccessOverflowed reports an index at or beyond the vector's length,
// or a push beyond a capped max_len.
type errAccessOverflowed struct {
	Index uint64
	Len   uint64
}

func (e *errAccessOverflowed) Unwrap() error { return ErrAccessOverflowed }
func (e *errAccessOverflowed) Error() string {
	return fmt.Sprintf("merkletree: access overflowed: index %d, len %d", e.Index, e.Len)
}

func newErrAccessOverflowed(index, length uint64) error {
	return &errAccessOverflowed{Index: index, Len: length}
}

// errInvalidParameter reports an inconsistent (len, max_len) pair passed
// to Create.
type errInvalidParameter struct {
	Reason string
}

func (e *errInvalidParameter) Unwrap() error { return ErrInvalidParameter }
func (e *errInvalidParameter) Error() string {
	return fmt.Sprintf("merkletree: invalid parameter: %s", e.Reason)
}

func newErrInvalidParameter(reason string) error {
	return &errInvalidParameter{Reason: reason}
}

// errCorruptedDatabase reports a missing expected intermediate, or a
// structural mismatch between the tree shape and the backend contents.
type errCorruptedDatabase struct {
	Reason string
}

func (e *errCorruptedDatabase) Unwrap() error { return ErrCorruptedDatabase }
func (e *errCorruptedDatabase) Error() string {
	return fmt.Sprintf("merkletree: corrupted database: %s", e.Reason)
}

func newErrCorruptedDatabase(reason string) error {
	return &errCorruptedDatabase{Reason: reason}
}

// errBackend wraps a passthrough error from the backend.
type errBackend struct {
	Err error
}

func (e *errBackend) Unwrap() error { return e.Err }
func (e *errBackend) Error() string {
	return fmt.Sprintf("merkletree: backend error: %v", e.Err)
}

func newErrBackend(err error) error {
	if err == nil {
		return nil
	}
	return &errBackend{Err: err}
}
