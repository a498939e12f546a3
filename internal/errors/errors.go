// Package errors defines the typed error kinds returned by tgch's public
// API. Every fallible operation returns one of these as a Go error value;
// there is no exception-style unwinding.
package errors

import (
	"fmt"
	"time"
)

// Kind tags the category of failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindDuplicateID     Kind = "duplicate_id"
	KindSerialization   Kind = "serialization"
	KindBackend         Kind = "backend"
	KindIO              Kind = "io"
	KindInvalidArgument Kind = "invalid_argument"
	KindCorruption      Kind = "corruption"
)

// Error is the common shape of every error this package produces.
type Error struct {
	Kind       Kind
	Op         string
	Underlying error
	Timestamp  time.Time
}

// New creates an Error with the given kind and operation label.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Underlying: err, Timestamp: time.Now()}
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap lets errors.Is/As see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is reports whether target carries the same Kind, so callers can write
// errors.Is(err, errors.ErrNotFound) style checks against the sentinel
// values declared at the end of this file.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound reports a missing document or key.
func NotFound(op, id string) *Error {
	return New(KindNotFound, op, fmt.Errorf("id %q not found", id))
}

// DuplicateID reports a re-insertion under strict_duplicate_id.
func DuplicateID(op, id string) *Error {
	return New(KindDuplicateID, op, fmt.Errorf("id %q already exists", id))
}

// Serialization reports malformed on-disk bytes or a version mismatch.
func Serialization(op string, err error) *Error {
	return New(KindSerialization, op, err)
}

// Backend reports a failure surfaced by the underlying KV store.
func Backend(op string, err error) *Error {
	return New(KindBackend, op, err)
}

// IO reports a filesystem error opening or closing a backend path.
func IO(op string, err error) *Error {
	return New(KindIO, op, err)
}

// InvalidArgument reports an out-of-range option or malformed input.
func InvalidArgument(op, msg string) *Error {
	return New(KindInvalidArgument, op, fmt.Errorf("%s", msg))
}

// Corruption reports a checksum mismatch in a snapshot file.
func Corruption(op string, err error) *Error {
	return New(KindCorruption, op, err)
}

// Sentinels for errors.Is comparisons, e.g. errors.Is(err, errors.ErrNotFound).
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrDuplicateID     = &Error{Kind: KindDuplicateID}
	ErrSerialization   = &Error{Kind: KindSerialization}
	ErrBackend         = &Error{Kind: KindBackend}
	ErrIO              = &Error{Kind: KindIO}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrCorruption      = &Error{Kind: KindCorruption}
)
