// Package search implements query planning and execution: trigram-based
// candidate generation narrowed by exact edit distance, per-document
// scoring, and ranked result assembly.
package search

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/tgch/internal/analyzer"
	"github.com/standardbeagle/tgch/internal/cache"
	"github.com/standardbeagle/tgch/internal/document"
)

// Options controls one search invocation. Zero values are not valid on
// their own; use DefaultOptions and override individual fields.
type Options struct {
	MaxDistance    int
	ScoreThreshold float64
	Limit          int
}

// DefaultOptions is the baseline used when a caller passes none.
func DefaultOptions() Options {
	return Options{MaxDistance: 2, ScoreThreshold: 0.0, Limit: 10}
}

// Normalize clamps options into their documented ranges.
func (o Options) Normalize() Options {
	if o.MaxDistance < 0 {
		o.MaxDistance = 0
	}
	if o.MaxDistance > 3 {
		o.MaxDistance = 3
	}
	if o.ScoreThreshold < 0 {
		o.ScoreThreshold = 0
	}
	if o.ScoreThreshold > 1 {
		o.ScoreThreshold = 1
	}
	if o.Limit < 1 {
		o.Limit = 1
	}
	return o
}

// Result pairs a document with its score in [0, 1].
type Result struct {
	Document *document.Document
	Score    float64
}

// Index is the subset of *index.Index the search engine depends on. A
// narrow interface keeps this package free of an import cycle with
// internal/index and lets tests supply a fake.
type Index interface {
	PostingDocIDs(token string) ([]string, error)
	TrigramTokens(trigram string) ([]string, error)
	GetDocument(id string) (*document.Document, bool, error)
	Cache() *cache.Layer
}

// Search executes query against ix under opts.
func Search(ix Index, query string, opts Options) ([]Result, error) {
	opts = opts.Normalize()

	queryTokens := distinct(analyzer.TokensOf(query))
	if len(queryTokens) == 0 {
		return nil, nil
	}

	fp := fingerprint(queryTokens, opts)
	if cached, ok := ix.Cache().GetQuery(fp); ok {
		return hydrate(ix, cached)
	}

	// token -> (candidate token -> similarity). Each query token's trigram
	// prefilter and edit-distance admission is independent of the others,
	// so they run concurrently; a slice indexed alongside queryTokens
	// avoids a shared map under concurrent writers.
	results := make([]map[string]float64, len(queryTokens))
	g, gctx := errgroup.WithContext(context.Background())
	for i, q := range queryTokens {
		i, q := i, q
		g.Go(func() error {
			candidates, err := candidatesFor(ix, q, opts.MaxDistance)
			if err != nil {
				return err
			}
			results[i] = candidates
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	admitted := make(map[string]map[string]float64, len(queryTokens))
	for i, q := range queryTokens {
		admitted[q] = results[i]
	}

	scores := make(map[string]float64)
	for _, q := range queryTokens {
		best := make(map[string]float64) // doc id -> best contribution for this query token
		for t, sim := range admitted[q] {
			ids, err := ix.PostingDocIDs(t)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				continue
			}
			contribution := sim * idfDamping(len(ids))
			for _, id := range ids {
				if contribution > best[id] {
					best[id] = contribution
				}
			}
		}
		for id, c := range best {
			scores[id] += c
		}
	}

	n := float64(len(queryTokens))
	ids := make([]string, 0, len(scores))
	for id, total := range scores {
		overall := total / n
		if overall < opts.ScoreThreshold {
			continue
		}
		scores[id] = overall
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	resultScores := make([]float64, len(ids))
	for i, id := range ids {
		resultScores[i] = scores[id]
	}
	ix.Cache().PutQuery(fp, cache.QueryResult{DocIDs: ids, Scores: resultScores})

	return hydrate(ix, cache.QueryResult{DocIDs: ids, Scores: resultScores})
}

// candidatesFor runs the trigram prefilter followed by exact edit
// distance admission for a single query token.
func candidatesFor(ix Index, q string, maxDistance int) (map[string]float64, error) {
	grams := analyzer.TrigramsOf(q)
	if len(grams) == 0 {
		return nil, nil
	}

	overlap := make(map[string]int)
	for _, g := range grams {
		toks, err := ix.TrigramTokens(g)
		if err != nil {
			return nil, err
		}
		for _, t := range toks {
			overlap[t]++
		}
	}

	threshold := len(grams) - 2*maxDistance
	if threshold < 1 {
		threshold = 1
	}

	lq := len([]rune(q))
	admitted := make(map[string]float64)
	for t, count := range overlap {
		if count < threshold {
			continue
		}
		lt := len([]rune(t))
		if abs(lq-lt) > maxDistance {
			continue
		}
		d := edlib.LevenshteinDistance(q, t)
		if d > maxDistance {
			continue
		}
		maxLen := lq
		if lt > maxLen {
			maxLen = lt
		}
		if maxLen == 0 {
			admitted[t] = 1.0
			continue
		}
		admitted[t] = 1.0 - float64(d)/float64(maxLen)
	}
	return admitted, nil
}

// idfDamping implements 1 / (1 + log(1 + df)).
func idfDamping(df int) float64 {
	return 1.0 / (1.0 + math.Log(1.0+float64(df)))
}

func hydrate(ix Index, r cache.QueryResult) ([]Result, error) {
	out := make([]Result, 0, len(r.DocIDs))
	for i, id := range r.DocIDs {
		d, ok, err := ix.GetDocument(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Document was removed after this query result was cached;
			// skip rather than fail the whole search.
			continue
		}
		out = append(out, Result{Document: d, Score: r.Scores[i]})
	}
	return out, nil
}

// fingerprint identifies a query + options pair for the query cache.
// Normalized tokens are sorted so token order in the input string
// doesn't fragment the cache.
func fingerprint(tokens []string, opts Options) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	var b strings.Builder
	b.WriteString(strings.Join(sorted, "\x1f"))
	b.WriteByte('\x00')
	b.WriteString(strconv.Itoa(opts.MaxDistance))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(opts.ScoreThreshold, 'f', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(opts.Limit))
	return b.String()
}

func distinct(tokens []string) []string {
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
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
