package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOMLEmptyReturnsDefaults(t *testing.T) {
	cfg, err := parseTOML(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().StorageType, cfg.StorageType)
	assert.Equal(t, Default().DefaultSearch, cfg.DefaultSearch)
}

func TestParseTOMLStorageBlock(t *testing.T) {
	content := []byte(`
[storage]
type = "disk-c"
path = "/data/tgch"
cache_size = "64mb"
max_memory = "96mb"
`)
	cfg, err := parseTOML(content)
	require.NoError(t, err)
	assert.Equal(t, StorageDiskC, cfg.StorageType)
	assert.Equal(t, "/data/tgch", cfg.StoragePath)
	assert.Equal(t, int64(64<<20), cfg.CacheSize)
	assert.Equal(t, int64(96<<20), cfg.MaxMemory)
}

func TestParseTOMLStorageAcceptsBareByteCount(t *testing.T) {
	content := []byte(`
[storage]
cache_size = 2097152
`)
	cfg, err := parseTOML(content)
	require.NoError(t, err)
	assert.Equal(t, int64(2097152), cfg.CacheSize)
}

func TestParseTOMLDefaultSearchBlock(t *testing.T) {
	content := []byte(`
[default_search]
max_distance = 1
score_threshold = 0.3
limit = 5
`)
	cfg, err := parseTOML(content)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.DefaultSearch.MaxDistance)
	assert.Equal(t, 0.3, cfg.DefaultSearch.ScoreThreshold)
	assert.Equal(t, 5, cfg.DefaultSearch.Limit)
}

func TestParseTOMLPartialDefaultSearchKeepsOtherDefaults(t *testing.T) {
	content := []byte(`
[default_search]
limit = 7
`)
	cfg, err := parseTOML(content)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DefaultSearch.Limit)
	assert.Equal(t, DefaultSearchOptions().MaxDistance, cfg.DefaultSearch.MaxDistance)
}

func TestParseTOMLRejectsMalformedDocument(t *testing.T) {
	_, err := parseTOML([]byte("storage = ["))
	assert.Error(t, err)
}

func TestLoadTOMLMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadTOML("/nonexistent/path/.tgch.toml")
	require.NoError(t, err)
	assert.Equal(t, Default().StorageType, cfg.StorageType)
}
