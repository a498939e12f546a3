// Package cache implements three bounded caches — document,
// posting, and query-result — sharing one global memory budget under
// LRU eviction and memory-pressure-triggered shedding.
package cache

import (
	"github.com/standardbeagle/tgch/internal/document"
)

// Config configures the cache layer.
type Config struct {
	// CacheSize is the aggregate soft memory budget M in bytes.
	CacheSize int64
	// MaxMemory is the hard ceiling in bytes; the monitor forces total
	// cache usage below it. Zero means "use CacheSize".
	MaxMemory int64
}

// DefaultConfig is the `default` preset.
func DefaultConfig() Config {
	return Config{CacheSize: 64 << 20, MaxMemory: 96 << 20}
}

// DevelopmentConfig is the `development` preset: small caches.
func DevelopmentConfig() Config {
	return Config{CacheSize: 4 << 20, MaxMemory: 8 << 20}
}

// ProductionConfig is the `production` preset: large caches.
func ProductionConfig() Config {
	return Config{CacheSize: 512 << 20, MaxMemory: 768 << 20}
}

// LowMemoryConfig is the `low_memory` preset: minimal caches, aggressive
// pressure thresholds (achieved simply by a tiny budget, since the
// tiers are defined relative to it).
func LowMemoryConfig() Config {
	return Config{CacheSize: 512 << 10, MaxMemory: 1 << 20}
}

// Posting is the cached form of a token's document-id set.
type Posting struct {
	DocIDs []string
}

// QueryResult is a frozen page of scored results, keyed by query
// fingerprint.
type QueryResult struct {
	DocIDs []string
	Scores []float64
}

// Layer is the cache layer: three independently-typed caches
// arbitrated by one shared Monitor.
type Layer struct {
	monitor *Monitor

	documents *sizedLRU[string, *document.Document]
	postings  *sizedLRU[string, Posting]
	queries   *sizedLRU[string, QueryResult]
}

// NewLayer constructs an empty cache layer under the given budget.
func NewLayer(cfg Config) *Layer {
	l := &Layer{
		monitor:   NewMonitor(cfg.CacheSize, cfg.MaxMemory),
		documents: newSizedLRU[string, *document.Document](),
		postings:  newSizedLRU[string, Posting](),
		queries:   newSizedLRU[string, QueryResult](),
	}
	l.monitor.register(l.queries, l.postings, l.documents)
	return l
}

// Tier reports the current memory-pressure band.
func (l *Layer) Tier() Tier { return l.monitor.Tier() }

// TotalBytes reports the current aggregate size of cached entries.
func (l *Layer) TotalBytes() int64 { return l.monitor.totalBytes() }

// --- Document cache ---

func (l *Layer) GetDocument(id string) (*document.Document, bool) {
	return l.documents.get(id)
}

// PutDocument admits d into the document cache under the shared budget.
// dirty marks an uncommitted write, pinning it against eviction until
// MarkDocumentClean is called.
func (l *Layer) PutDocument(id string, d *document.Document, dirty bool) {
	size := int64(d.Size())
	if !l.monitor.admit(KindDocument, size, dirty) {
		return
	}
	l.documents.put(id, d, d.Size(), dirty)
}

func (l *Layer) InvalidateDocument(id string) {
	l.documents.remove(id)
}

func (l *Layer) MarkDocumentClean(id string) {
	l.documents.markClean(id)
}

// --- Posting cache ---

func (l *Layer) GetPosting(token string) (Posting, bool) {
	return l.postings.get(token)
}

func (l *Layer) PutPosting(token string, p Posting, dirty bool) {
	size := postingSize(p)
	if !l.monitor.admit(KindPosting, int64(size), dirty) {
		return
	}
	l.postings.put(token, p, size, dirty)
}

func (l *Layer) InvalidatePosting(token string) {
	l.postings.remove(token)
}

func (l *Layer) MarkPostingClean(token string) {
	l.postings.markClean(token)
}

func postingSize(p Posting) int {
	n := 0
	for _, id := range p.DocIDs {
		n += len(id)
	}
	return n
}

// --- Query cache ---

func (l *Layer) GetQuery(fingerprint string) (QueryResult, bool) {
	return l.queries.get(fingerprint)
}

func (l *Layer) PutQuery(fingerprint string, r QueryResult) {
	size := 0
	for _, id := range r.DocIDs {
		size += len(id)
	}
	size += len(r.Scores) * 8
	if !l.monitor.admit(KindQuery, int64(size), false) {
		return
	}
	l.queries.put(fingerprint, r, size, false)
}

// InvalidateAllQueries clears the query cache in whole — coarse but
// simple and correct.
func (l *Layer) InvalidateAllQueries() {
	l.queries.clear()
}
