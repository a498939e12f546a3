package index

import "errors"

var (
	errTruncated = errors.New("index: truncated record")
	errBadKind   = errors.New("index: unknown field kind")
)
