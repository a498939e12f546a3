package backend

import (
	"path/filepath"

	lcierrors "github.com/standardbeagle/tgch/internal/errors"
)

// Type names the backend variant selected at index construction time.
// Selection cannot change for the life of an index.
type Type string

const (
	TypeMemory Type = "memory"
	TypeDiskA  Type = "disk-a" // bbolt
	TypeDiskB  Type = "disk-b" // badger
	TypeDiskC  Type = "disk-c" // pebble
)

// Open constructs the backend named by typ, rooted at path for disk
// variants. path is ignored for TypeMemory.
func Open(typ Type, path string) (Store, error) {
	switch typ {
	case TypeMemory, "":
		return NewMemory(), nil
	case TypeDiskA:
		db, err := OpenBolt(filepath.Join(path, "tgch.bolt"))
		if err != nil {
			return nil, lcierrors.IO("Open", err)
		}
		return db, nil
	case TypeDiskB:
		db, err := OpenBadger(filepath.Join(path, "badger"))
		if err != nil {
			return nil, lcierrors.IO("Open", err)
		}
		return db, nil
	case TypeDiskC:
		db, err := OpenPebble(filepath.Join(path, "pebble"))
		if err != nil {
			return nil, lcierrors.IO("Open", err)
		}
		return db, nil
	default:
		return nil, lcierrors.InvalidArgument("Open", "unknown storage_type "+string(typ))
	}
}
