// Package store is the public facade: it wires together config, backend,
// cache, index, and search into the handful of operations a caller of
// this library sees.
package store

import (
	"github.com/standardbeagle/tgch/internal/backend"
	"github.com/standardbeagle/tgch/internal/cache"
	"github.com/standardbeagle/tgch/internal/config"
	"github.com/standardbeagle/tgch/internal/document"
	"github.com/standardbeagle/tgch/internal/index"
	"github.com/standardbeagle/tgch/internal/search"
)

// Index is the handle returned by Open and OpenMemory: the single
// entry point a caller of this library interacts with.
type Index struct {
	cfg config.Config
	ix  *index.Index
}

// Open opens or creates an index rooted at path, using cfg (zero value
// is not valid; pass config.Default() or a preset and override fields).
func Open(path string, cfg config.Config) (*Index, error) {
	cfg.StoragePath = path
	return open(cfg)
}

// OpenMemory opens a volatile in-memory index.
func OpenMemory(cfg config.Config) (*Index, error) {
	cfg.StorageType = config.StorageMemory
	return open(cfg)
}

func open(cfg config.Config) (*Index, error) {
	if err := config.NewValidator().ValidateAndSetDefaults(&cfg); err != nil {
		return nil, err
	}
	b, err := backend.Open(backend.Type(cfg.StorageType), cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	c := cache.NewLayer(cache.Config{CacheSize: cfg.CacheSize, MaxMemory: cfg.MaxMemory})
	ix := index.New(b, c, index.Options{
		StrictDuplicateID: cfg.StrictDuplicateID,
		AutoCommitOnClose: cfg.AutoCommitOnClose,
	})
	return &Index{cfg: cfg, ix: ix}, nil
}

// AddDocument stages doc for indexing.
func (s *Index) AddDocument(doc *document.Document) error {
	return s.ix.AddDocument(doc)
}

// RemoveDocument removes the document with the given id.
func (s *Index) RemoveDocument(id string) (bool, error) {
	return s.ix.RemoveDocument(id)
}

// GetDocument returns a copy of the stored document, if any.
func (s *Index) GetDocument(id string) (*document.Document, bool, error) {
	return s.ix.GetDocument(id)
}

// Contains reports whether id exists in the index.
func (s *Index) Contains(id string) (bool, error) {
	return s.ix.Contains(id)
}

// Len reports the number of documents currently stored.
func (s *Index) Len() (int, error) {
	return s.ix.Len()
}

// Search runs query against the index. Passing nil uses the configured
// default_search options.
func (s *Index) Search(query string, opts *search.Options) ([]search.Result, error) {
	var resolved search.Options
	if opts == nil {
		def, err := config.ValidateSearchOptions(s.cfg.DefaultSearch, false)
		if err != nil {
			return nil, err
		}
		resolved = search.Options{MaxDistance: def.MaxDistance, ScoreThreshold: def.ScoreThreshold, Limit: def.Limit}
	} else {
		cfgOpts, err := config.ValidateSearchOptions(config.SearchOptions{
			MaxDistance:    opts.MaxDistance,
			ScoreThreshold: opts.ScoreThreshold,
			Limit:          opts.Limit,
		}, true)
		if err != nil {
			return nil, err
		}
		resolved = search.Options{MaxDistance: cfgOpts.MaxDistance, ScoreThreshold: cfgOpts.ScoreThreshold, Limit: cfgOpts.Limit}
	}
	return search.Search(s.ix, query, resolved)
}

// Commit applies staged mutations to the backend atomically.
func (s *Index) Commit() error {
	return s.ix.Commit()
}

// Rollback discards staged mutations.
func (s *Index) Rollback() error {
	return s.ix.Rollback()
}

// Close commits if auto-commit is enabled, flushes, and releases the
// backend's handles.
func (s *Index) Close() error {
	return s.ix.Close()
}

// SaveToFile writes a whole-index snapshot to path.
func (s *Index) SaveToFile(path string) error {
	if err := s.ix.Commit(); err != nil {
		return err
	}
	return saveSnapshot(s.rawBackend(), path)
}

// OpenFile loads a whole-index snapshot from path into a freshly opened
// index under cfg.
func OpenFile(path string, cfg config.Config) (*Index, error) {
	s, err := open(cfg)
	if err != nil {
		return nil, err
	}
	if err := loadSnapshot(s.rawBackend(), path); err != nil {
		s.ix.Close()
		return nil, err
	}
	return s, nil
}

func (s *Index) rawBackend() backend.Store {
	return s.ix.Backend()
}
