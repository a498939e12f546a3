// Package index implements the inverted index and trigram index over a
// pluggable backend, with a staging layer that buffers mutations until
// commit and a cache layer that keeps hot documents and postings in
// memory.
package index

import (
	"sort"
	"sync"

	"github.com/standardbeagle/tgch/internal/alloc"
	"github.com/standardbeagle/tgch/internal/analyzer"
	"github.com/standardbeagle/tgch/internal/backend"
	"github.com/standardbeagle/tgch/internal/cache"
	"github.com/standardbeagle/tgch/internal/document"
	lcierrors "github.com/standardbeagle/tgch/internal/errors"
)

// Options controls the mutation semantics of an Index.
type Options struct {
	// StrictDuplicateID makes AddDocument fail with DuplicateID instead
	// of silently replacing an existing document.
	StrictDuplicateID bool
	// AutoCommitOnClose commits any pending staging layer on Close.
	AutoCommitOnClose bool
}

// staging buffers uncommitted mutations. The stage* writers clear the
// opposite map when they set a key, so a key is never in both a Puts
// and a Deletes map at once.
type staging struct {
	docPuts    map[string]*document.Document
	docDeletes map[string]bool

	postingPuts    map[string][]string
	postingDeletes map[string]bool

	trigramPuts    map[string][]string
	trigramDeletes map[string]bool
}

func newStaging() staging {
	return staging{
		docPuts:        make(map[string]*document.Document),
		docDeletes:     make(map[string]bool),
		postingPuts:    make(map[string][]string),
		postingDeletes: make(map[string]bool),
		trigramPuts:    make(map[string][]string),
		trigramDeletes: make(map[string]bool),
	}
}

func (s *staging) hasPending() bool {
	return len(s.docPuts) > 0 || len(s.docDeletes) > 0 ||
		len(s.postingPuts) > 0 || len(s.postingDeletes) > 0 ||
		len(s.trigramPuts) > 0 || len(s.trigramDeletes) > 0
}

// Index owns the analyzer, the cache layer, and the backend, and
// maintains the staging layer of uncommitted mutations.
type Index struct {
	mu sync.RWMutex

	b       backend.Store
	cache   *cache.Layer
	opts    Options
	staging staging

	// trigramBuf pools the short-lived []string buffers AddDocument and
	// removeDocumentLocked use to window a token into trigrams. The
	// windows themselves are copied into posting/trigram sets before the
	// buffer is returned, so reuse across calls is safe.
	trigramBuf *alloc.GramBufferPool
}

// New builds an Index over an already-open backend and cache layer.
func New(b backend.Store, c *cache.Layer, opts Options) *Index {
	return &Index{
		b:          b,
		cache:      c,
		opts:       opts,
		staging:    newStaging(),
		trigramBuf: alloc.NewGramBufferPool(),
	}
}

// trigramsOfToken windows tok into its trigrams using a pooled buffer and
// invokes fn for each one. The buffer is returned to the pool before
// trigramsOfToken returns, so fn must not retain its gram argument beyond
// the call (callers copy grams into posting/trigram sets immediately).
func (ix *Index) trigramsOfToken(tok string, fn func(gram string) error) error {
	buf := ix.trigramBuf.Get(len(tok) + 1)
	buf = analyzer.AppendTrigrams(buf, tok)
	defer ix.trigramBuf.Put(buf)

	for _, g := range buf {
		if err := fn(g); err != nil {
			return err
		}
	}
	return nil
}

// --- read-through helpers (staging -> cache -> backend) ---

func (ix *Index) getDocument(id string) (*document.Document, bool, error) {
	if ix.staging.docDeletes[id] {
		return nil, false, nil
	}
	if d, ok := ix.staging.docPuts[id]; ok {
		return d, true, nil
	}
	if d, ok := ix.cache.GetDocument(id); ok {
		return d, true, nil
	}
	raw, ok, err := ix.b.Get(docKey(id))
	if err != nil {
		return nil, false, lcierrors.Backend("getDocument", err)
	}
	if !ok {
		return nil, false, nil
	}
	d, err := decodeDocument(raw)
	if err != nil {
		return nil, false, err
	}
	ix.cache.PutDocument(id, d, false)
	return d, true, nil
}

func (ix *Index) getPosting(tok string) ([]string, error) {
	if ix.staging.postingDeletes[tok] {
		return nil, nil
	}
	if ids, ok := ix.staging.postingPuts[tok]; ok {
		return ids, nil
	}
	if p, ok := ix.cache.GetPosting(tok); ok {
		return p.DocIDs, nil
	}
	raw, ok, err := ix.b.Get(postingKey(tok))
	if err != nil {
		return nil, lcierrors.Backend("getPosting", err)
	}
	if !ok {
		return nil, nil
	}
	ids, err := decodeStringSet(raw)
	if err != nil {
		return nil, err
	}
	ix.cache.PutPosting(tok, cache.Posting{DocIDs: ids}, false)
	return ids, nil
}

// getTrigramTokens is not cache-backed: the cache layer defines only
// document, posting, and query caches, so trigram entries always read
// through the staging layer to the backend.
func (ix *Index) getTrigramTokens(g string) ([]string, error) {
	if ix.staging.trigramDeletes[g] {
		return nil, nil
	}
	if toks, ok := ix.staging.trigramPuts[g]; ok {
		return toks, nil
	}
	raw, ok, err := ix.b.Get(trigramKey(g))
	if err != nil {
		return nil, lcierrors.Backend("getTrigramTokens", err)
	}
	if !ok {
		return nil, nil
	}
	return decodeStringSet(raw)
}

// --- staging writers ---

func (ix *Index) stageDocument(id string, d *document.Document) {
	if d == nil {
		ix.staging.docDeletes[id] = true
		delete(ix.staging.docPuts, id)
		ix.cache.InvalidateDocument(id)
		return
	}
	delete(ix.staging.docDeletes, id)
	ix.staging.docPuts[id] = d
	ix.cache.PutDocument(id, d, true)
}

func (ix *Index) stagePosting(tok string, ids []string) {
	if len(ids) == 0 {
		ix.staging.postingDeletes[tok] = true
		delete(ix.staging.postingPuts, tok)
		ix.cache.InvalidatePosting(tok)
		return
	}
	delete(ix.staging.postingDeletes, tok)
	ix.staging.postingPuts[tok] = ids
	ix.cache.PutPosting(tok, cache.Posting{DocIDs: ids}, true)
}

func (ix *Index) stageTrigram(g string, toks []string) {
	if len(toks) == 0 {
		ix.staging.trigramDeletes[g] = true
		delete(ix.staging.trigramPuts, g)
		return
	}
	delete(ix.staging.trigramDeletes, g)
	ix.staging.trigramPuts[g] = toks
}

// --- public operations ---

// AddDocument stages doc for indexing. If a document with the same id
// already exists, it behaves as RemoveDocument followed by insertion,
// unless StrictDuplicateID is set, in which case it fails.
func (ix *Index) AddDocument(doc *document.Document) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	id := doc.ID()
	if id == "" {
		return lcierrors.InvalidArgument("AddDocument", "document id must not be empty")
	}

	existing, exists, err := ix.getDocument(id)
	if err != nil {
		return err
	}
	if exists {
		if ix.opts.StrictDuplicateID {
			return lcierrors.DuplicateID("AddDocument", id)
		}
		if err := ix.removeDocumentLocked(existing); err != nil {
			return err
		}
	}

	d := doc.Clone()
	tokens := distinctSorted(analyzer.TokensOfDocument(d))
	for _, tok := range tokens {
		posting, err := ix.getPosting(tok)
		if err != nil {
			return err
		}
		newlyIntroduced := len(posting) == 0
		posting = insertSorted(posting, id)
		ix.stagePosting(tok, posting)

		if newlyIntroduced {
			if err := ix.trigramsOfToken(tok, func(g string) error {
				toks, err := ix.getTrigramTokens(g)
				if err != nil {
					return err
				}
				ix.stageTrigram(g, insertSorted(toks, tok))
				return nil
			}); err != nil {
				return err
			}
		}
	}

	ix.stageDocument(id, d)
	ix.cache.InvalidateAllQueries()
	return nil
}

// RemoveDocument removes the document with the given id, returning
// true iff a document was actually removed.
func (ix *Index) RemoveDocument(id string) (bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	d, exists, err := ix.getDocument(id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := ix.removeDocumentLocked(d); err != nil {
		return false, err
	}
	ix.cache.InvalidateAllQueries()
	return true, nil
}

func (ix *Index) removeDocumentLocked(d *document.Document) error {
	id := d.ID()
	tokens := distinctSorted(analyzer.TokensOfDocument(d))
	for _, tok := range tokens {
		posting, err := ix.getPosting(tok)
		if err != nil {
			return err
		}
		posting = removeSorted(posting, id)
		ix.stagePosting(tok, posting)
		if len(posting) == 0 {
			if err := ix.trigramsOfToken(tok, func(g string) error {
				toks, err := ix.getTrigramTokens(g)
				if err != nil {
					return err
				}
				ix.stageTrigram(g, removeSorted(toks, tok))
				return nil
			}); err != nil {
				return err
			}
		}
	}
	ix.stageDocument(id, nil)
	return nil
}

// GetDocument returns a copy of the stored document, if any.
func (ix *Index) GetDocument(id string) (*document.Document, bool, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	d, ok, err := ix.getDocument(id)
	if err != nil || !ok {
		return nil, ok, err
	}
	return d.Clone(), true, nil
}

// Contains reports whether id exists in the index.
func (ix *Index) Contains(id string) (bool, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok, err := ix.getDocument(id)
	return ok, err
}

// PostingDocIDs exposes a token's posting list for the search package.
func (ix *Index) PostingDocIDs(tok string) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.getPosting(tok)
}

// TrigramTokens exposes a trigram's token set for the search package.
func (ix *Index) TrigramTokens(g string) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.getTrigramTokens(g)
}

// Cache exposes the query-result cache so the search package can
// consult and populate it without the index needing to know anything
// about scoring.
func (ix *Index) Cache() *cache.Layer {
	return ix.cache
}

// Backend exposes the underlying store for whole-index snapshotting.
// Callers must Commit before relying on it to reflect pending writes.
func (ix *Index) Backend() backend.Store {
	return ix.b
}

// Len reports the number of documents currently stored, including
// staged but uncommitted adds.
func (ix *Index) Len() (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	count := len(ix.staging.docPuts)
	err := ix.b.ScanPrefix([]byte(prefixDocument), func(key, _ []byte) bool {
		id := docIDFromKey(key)
		if ix.staging.docDeletes[id] {
			return true
		}
		if _, staged := ix.staging.docPuts[id]; staged {
			return true
		}
		count++
		return true
	})
	if err != nil {
		return 0, lcierrors.Backend("Len", err)
	}
	return count, nil
}

// Commit applies the staging layer to the backend as a single batch.
func (ix *Index) Commit() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.commitLocked()
}

func (ix *Index) commitLocked() error {
	if !ix.staging.hasPending() {
		return nil
	}

	var writes []backend.Write
	for id, d := range ix.staging.docPuts {
		writes = append(writes, backend.Write{Key: docKey(id), Value: encodeDocument(d)})
	}
	for id := range ix.staging.docDeletes {
		writes = append(writes, backend.Write{Key: docKey(id), Value: nil})
	}
	for tok, ids := range ix.staging.postingPuts {
		writes = append(writes, backend.Write{Key: postingKey(tok), Value: encodeStringSet(ids)})
	}
	for tok := range ix.staging.postingDeletes {
		writes = append(writes, backend.Write{Key: postingKey(tok), Value: nil})
	}
	for g, toks := range ix.staging.trigramPuts {
		writes = append(writes, backend.Write{Key: trigramKey(g), Value: encodeStringSet(toks)})
	}
	for g := range ix.staging.trigramDeletes {
		writes = append(writes, backend.Write{Key: trigramKey(g), Value: nil})
	}

	// A Backend/IO error here leaves the staging layer intact so the
	// caller may retry or Rollback.
	if err := backend.ApplyBatch(ix.b, writes); err != nil {
		return err
	}

	for id := range ix.staging.docPuts {
		ix.cache.MarkDocumentClean(id)
	}
	for tok := range ix.staging.postingPuts {
		ix.cache.MarkPostingClean(tok)
	}
	ix.staging = newStaging()
	return nil
}

// Rollback discards the staging layer. Cache entries that mirrored
// staged writes are invalidated so the next read re-populates from the
// backend.
func (ix *Index) Rollback() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for id := range ix.staging.docPuts {
		ix.cache.InvalidateDocument(id)
	}
	for id := range ix.staging.docDeletes {
		ix.cache.InvalidateDocument(id)
	}
	for tok := range ix.staging.postingPuts {
		ix.cache.InvalidatePosting(tok)
	}
	for tok := range ix.staging.postingDeletes {
		ix.cache.InvalidatePosting(tok)
	}
	ix.cache.InvalidateAllQueries()
	ix.staging = newStaging()
	return nil
}

// Close commits if auto-commit is enabled, flushes the backend, and
// releases its handles.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.opts.AutoCommitOnClose {
		if err := ix.commitLocked(); err != nil {
			return err
		}
	}
	if err := ix.b.Flush(); err != nil {
		return lcierrors.Backend("Close", err)
	}
	if err := ix.b.Close(); err != nil {
		return lcierrors.IO("Close", err)
	}
	return nil
}

// --- sorted-set helpers; postings and trigram entries are kept sorted
// for deterministic serialization and tie-breaking. ---

func distinctSorted(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func insertSorted(sorted []string, v string) []string {
	i := sort.SearchStrings(sorted, v)
	if i < len(sorted) && sorted[i] == v {
		return sorted
	}
	sorted = append(sorted, "")
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = v
	return sorted
}

func removeSorted(sorted []string, v string) []string {
	i := sort.SearchStrings(sorted, v)
	if i >= len(sorted) || sorted[i] != v {
		return sorted
	}
	return append(sorted[:i], sorted[i+1:]...)
}
