package cache

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/tgch/internal/document"
)

func TestDocumentCacheRoundTrip(t *testing.T) {
	l := NewLayer(DefaultConfig())
	d := document.New("doc-1").WithField("title", document.Text("hello world"))
	l.PutDocument("doc-1", d, false)

	got, ok := l.GetDocument("doc-1")
	require.True(t, ok)
	assert.Equal(t, "doc-1", got.ID())
}

func TestMemoryBudgetNeverExceeded(t *testing.T) {
	l := NewLayer(Config{CacheSize: 1024, MaxMemory: 1024})
	for i := 0; i < 10000; i++ {
		id := "doc-" + strconv.Itoa(i)
		d := document.New(id).WithField("body", document.Text("some moderately sized filler text here"))
		l.PutDocument(id, d, false)
		assert.LessOrEqual(t, l.TotalBytes(), int64(1024))
	}
}

func TestDirtyEntriesArePinned(t *testing.T) {
	l := NewLayer(Config{CacheSize: 64, MaxMemory: 64})
	d1 := document.New("dirty").WithField("body", document.Text("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	l.PutDocument("dirty", d1, true) // pinned

	for i := 0; i < 50; i++ {
		id := "filler-" + strconv.Itoa(i)
		d := document.New(id).WithField("body", document.Text("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
		l.PutDocument(id, d, false)
	}

	_, ok := l.GetDocument("dirty")
	assert.True(t, ok, "dirty (uncommitted) entries must never be evicted")
}

func TestMarkCleanAllowsEviction(t *testing.T) {
	l := NewLayer(Config{CacheSize: 64, MaxMemory: 64})
	d1 := document.New("was-dirty").WithField("body", document.Text("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	l.PutDocument("was-dirty", d1, true)
	l.MarkDocumentClean("was-dirty")

	for i := 0; i < 50; i++ {
		id := "filler-" + strconv.Itoa(i)
		d := document.New(id).WithField("body", document.Text("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
		l.PutDocument(id, d, false)
	}

	_, ok := l.GetDocument("was-dirty")
	assert.False(t, ok, "a cleaned entry must become evictable again")
}

func TestAggressiveEvictionOrderQueryFirst(t *testing.T) {
	l := NewLayer(Config{CacheSize: 32, MaxMemory: 10000})
	l.PutQuery("fp", QueryResult{DocIDs: []string{"a", "b", "c"}})
	l.PutPosting("tok", Posting{DocIDs: []string{"a", "b", "c", "d", "e"}}, false)

	big := document.New("big").WithField("body", document.Text(
		"this is a long piece of filler text used to push the monitor past its soft budget threshold for the critical tier test"))
	l.PutDocument("big", big, false)

	assert.Equal(t, TierCritical, l.Tier())

	_, ok := l.GetQuery("fp")
	assert.False(t, ok, "query cache must be cleared first under critical pressure")
}
