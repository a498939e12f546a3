package store

import "errors"

var (
	errBadMagic           = errors.New("store: bad snapshot magic")
	errUnsupportedVersion = errors.New("store: unsupported snapshot schema version")
	errChecksumMismatch   = errors.New("store: snapshot checksum mismatch")
	errTruncatedSnapshot  = errors.New("store: truncated snapshot record")
)
