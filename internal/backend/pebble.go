package backend

import (
	"github.com/cockroachdb/pebble"
)

// Pebble is an embedded on-disk backend over github.com/cockroachdb/pebble,
// CockroachDB's LSM-tree engine.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens or creates a Pebble database directory at path.
func OpenPebble(path string) (*Pebble, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Get(key []byte) ([]byte, bool, error) {
	v, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := append([]byte(nil), v...)
	closer.Close()
	return out, true, nil
}

func (p *Pebble) Put(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *Pebble) Delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *Pebble) ScanPrefix(prefix []byte, fn func(key, value []byte) bool) error {
	upper := prefixUpperBound(prefix)
	it, err := p.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return err
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		if !fn(append([]byte(nil), it.Key()...), append([]byte(nil), it.Value()...)) {
			break
		}
	}
	return it.Error()
}

// ApplyBatch applies all writes in a single Pebble batch, committed
// synchronously so commit's atomicity guarantee holds across a crash.
func (p *Pebble) ApplyBatch(writes []Write) error {
	batch := p.db.NewBatch()
	defer batch.Close()
	for _, w := range writes {
		var err error
		if w.Value == nil {
			err = batch.Delete(w.Key, nil)
		} else {
			err = batch.Set(w.Key, w.Value, nil)
		}
		if err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *Pebble) Flush() error {
	return p.db.Flush()
}

func (p *Pebble) Close() error { return p.db.Close() }

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix, for bounding a Pebble prefix iterator.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil // prefix is all 0xff bytes; unbounded above
}
