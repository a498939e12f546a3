// Package backend defines the pluggable key-value storage capability
// set and the implementations that satisfy it: an in-process map for
// tests and ephemeral use, plus embedded on-disk stores.
//
// The index is the sole translator between domain keys (document ids,
// tokens, trigrams) and the opaque byte keys backends see; no
// backend-specific type ever crosses this package's boundary.
package backend

import (
	"fmt"

	lcierrors "github.com/standardbeagle/tgch/internal/errors"
)

// KV is one key-value pair returned while scanning a prefix.
type KV struct {
	Key   []byte
	Value []byte
}

// Write is one staged mutation: a Put when Value is non-nil, a Delete
// when it is nil. Batches of these are what the index layer applies
// atomically on commit.
type Write struct {
	Key   []byte
	Value []byte // nil means delete
}

// Store is the capability set every backend must provide. It need not
// be transactional on its own; the index layer provides commit
// atomicity by staging writes and applying them as a batch.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// ScanPrefix invokes fn for every key with the given prefix, in
	// ascending key order, until fn returns false or iteration ends.
	ScanPrefix(prefix []byte, fn func(key, value []byte) bool) error
	Flush() error
	Close() error
}

// BatchApplier is implemented by backends that can apply a batch of
// writes atomically. Backends that don't implement it get one-by-one
// application followed by Flush.
type BatchApplier interface {
	ApplyBatch(writes []Write) error
}

// ApplyBatch applies writes to s as a single atomic batch if s supports
// it, otherwise one write at a time followed by a flush.
func ApplyBatch(s Store, writes []Write) error {
	if ba, ok := s.(BatchApplier); ok {
		return wrapBackendErr("ApplyBatch", ba.ApplyBatch(writes))
	}
	for _, w := range writes {
		var err error
		if w.Value == nil {
			err = s.Delete(w.Key)
		} else {
			err = s.Put(w.Key, w.Value)
		}
		if err != nil {
			return lcierrors.Backend("ApplyBatch", fmt.Errorf("key %q: %w", w.Key, err))
		}
	}
	return wrapBackendErr("ApplyBatch", s.Flush())
}

// wrapBackendErr wraps a non-nil err as a Backend error; nil passes through.
func wrapBackendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return lcierrors.Backend(op, err)
}
