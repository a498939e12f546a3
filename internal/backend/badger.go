package backend

import (
	"github.com/dgraph-io/badger/v4"
)

// Badger is an embedded on-disk backend over github.com/dgraph-io/badger/v4,
// an LSM-tree engine better suited than bbolt to write-heavy indexing
// workloads.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens or creates a Badger database directory at path.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key []byte) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

func (b *Badger) Put(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *Badger) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (b *Badger) ScanPrefix(prefix []byte, fn func(key, value []byte) bool) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var cont bool
			err := item.Value(func(val []byte) error {
				cont = fn(append([]byte(nil), item.Key()...), append([]byte(nil), val...))
				return nil
			})
			if err != nil {
				return err
			}
			if !cont {
				break
			}
		}
		return nil
	})
}

// ApplyBatch applies all writes in a single Badger transaction.
func (b *Badger) ApplyBatch(writes []Write) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, w := range writes {
			if w.Value == nil {
				if err := txn.Delete(w.Key); err != nil {
					return err
				}
				continue
			}
			if err := txn.Set(w.Key, w.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Badger) Flush() error { return b.db.Sync() }

func (b *Badger) Close() error { return b.db.Close() }
