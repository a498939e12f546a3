package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetPutDelete(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put([]byte("k"), []byte("v")))
	v, ok, err := m.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, m.Delete([]byte("k")))
	_, ok, err = m.Get([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryScanPrefixOrdered(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"p/b", "p/a", "p/c", "d/a"} {
		require.NoError(t, m.Put([]byte(k), []byte(k)))
	}
	var got []string
	require.NoError(t, m.ScanPrefix([]byte("p/"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	}))
	assert.Equal(t, []string{"p/a", "p/b", "p/c"}, got)
}

func TestMemoryApplyBatch(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put([]byte("a"), []byte("old")))
	err := ApplyBatch(m, []Write{
		{Key: []byte("a"), Value: nil}, // delete
		{Key: []byte("b"), Value: []byte("new")},
	})
	require.NoError(t, err)

	_, ok, _ := m.Get([]byte("a"))
	assert.False(t, ok)
	v, ok, _ := m.Get([]byte("b"))
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), v)
}

func TestMemoryGetReturnedCopiesDontAliasStore(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put([]byte("k"), []byte("v")))
	v, _, _ := m.Get([]byte("k"))
	v[0] = 'x'
	v2, _, _ := m.Get([]byte("k"))
	assert.Equal(t, []byte("v"), v2, "mutating a returned value must not corrupt stored state")
}
