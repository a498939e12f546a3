package search_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tgch/internal/backend"
	"github.com/standardbeagle/tgch/internal/cache"
	"github.com/standardbeagle/tgch/internal/document"
	"github.com/standardbeagle/tgch/internal/index"
	"github.com/standardbeagle/tgch/internal/search"
)

func newPopulatedIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New(backend.NewMemory(), cache.NewLayer(cache.DefaultConfig()), index.Options{})
	require.NoError(t, ix.AddDocument(document.New("doc1").
		WithField("title", document.Text("Apple iPhone")).
		WithField("desc", document.Text("latest smartphone from Apple"))))
	require.NoError(t, ix.AddDocument(document.New("doc2").
		WithField("title", document.Text("Banana bread")).
		WithField("desc", document.Text("homemade recipe"))))
	require.NoError(t, ix.Commit())
	return ix
}

func TestSearchExactMatch(t *testing.T) {
	ix := newPopulatedIndex(t)
	results, err := search.Search(ix, "iphone", search.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1", results[0].Document.ID())
	assert.InDelta(t, 1.0, results[0].Score, 0.01)
}

func TestSearchTypoToleratesOneEdit(t *testing.T) {
	ix := newPopulatedIndex(t)
	results, err := search.Search(ix, "aple", search.Options{MaxDistance: 2, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc1", results[0].Document.ID())
	assert.Greater(t, results[0].Score, 0.5)

	for _, r := range results {
		assert.NotEqual(t, "doc2", r.Document.ID())
	}
}

func TestSearchUniqueTokenAmongManyDocuments(t *testing.T) {
	ix := index.New(backend.NewMemory(), cache.NewLayer(cache.DefaultConfig()), index.Options{})
	for i := 0; i < 1000; i++ {
		id := "doc_" + strconv.Itoa(i)
		require.NoError(t, ix.AddDocument(document.New(id).WithField("body", document.Text("word_"+strconv.Itoa(i)))))
	}
	require.NoError(t, ix.Commit())

	results, err := search.Search(ix, "word_500", search.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc_500", results[0].Document.ID())
	assert.InDelta(t, 1.0, results[0].Score, 0.01)

	results, err = search.Search(ix, "wrd_500", search.Options{MaxDistance: 2, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc_500", results[0].Document.ID())
}

func TestSearchEmptyQueryReturnsNoResults(t *testing.T) {
	ix := newPopulatedIndex(t)
	results, err := search.Search(ix, "   ", search.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchMaxDistanceZeroForcesExactMatch(t *testing.T) {
	ix := newPopulatedIndex(t)
	results, err := search.Search(ix, "aple", search.Options{MaxDistance: 0, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchResultsAreStableAcrossRepeatedCalls(t *testing.T) {
	ix := newPopulatedIndex(t)
	first, err := search.Search(ix, "apple", search.DefaultOptions())
	require.NoError(t, err)
	second, err := search.Search(ix, "apple", search.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Document.ID(), second[i].Document.ID())
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestSearchScoreThresholdFiltersWeakMatches(t *testing.T) {
	ix := newPopulatedIndex(t)
	results, err := search.Search(ix, "aple", search.Options{MaxDistance: 2, ScoreThreshold: 0.99, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

