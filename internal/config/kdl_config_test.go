package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDLEmptyReturnsDefaults(t *testing.T) {
	cfg, err := parseKDL(nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	def := Default()
	assert.Equal(t, def.StorageType, cfg.StorageType)
	assert.Equal(t, def.CacheSize, cfg.CacheSize)
	assert.Equal(t, def.MaxMemory, cfg.MaxMemory)
	assert.Equal(t, def.AutoCommitOnClose, cfg.AutoCommitOnClose)
	assert.Equal(t, def.DefaultSearch, cfg.DefaultSearch)
}

func TestParseKDLStorageBlock(t *testing.T) {
	content := []byte(`
storage {
    type "disk-b"
    path "/var/lib/tgch"
    cache_size "64mb"
    max_memory "96mb"
}
`)
	cfg, err := parseKDL(content)
	require.NoError(t, err)

	assert.Equal(t, StorageDiskB, cfg.StorageType)
	assert.Equal(t, "/var/lib/tgch", cfg.StoragePath)
	assert.Equal(t, int64(64<<20), cfg.CacheSize)
	assert.Equal(t, int64(96<<20), cfg.MaxMemory)
}

func TestParseKDLStorageAcceptsBareByteCount(t *testing.T) {
	content := []byte(`
storage {
    cache_size 1048576
}
`)
	cfg, err := parseKDL(content)
	require.NoError(t, err)
	assert.Equal(t, int64(1048576), cfg.CacheSize)
}

func TestParseKDLBooleanFlags(t *testing.T) {
	content := []byte(`
auto_commit_on_close false
strict_duplicate_id true
`)
	cfg, err := parseKDL(content)
	require.NoError(t, err)
	assert.False(t, cfg.AutoCommitOnClose)
	assert.True(t, cfg.StrictDuplicateID)
}

func TestParseKDLDefaultSearchBlock(t *testing.T) {
	content := []byte(`
default_search {
    max_distance 1
    score_threshold 0.4
    limit 25
}
`)
	cfg, err := parseKDL(content)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.DefaultSearch.MaxDistance)
	assert.Equal(t, 0.4, cfg.DefaultSearch.ScoreThreshold)
	assert.Equal(t, 25, cfg.DefaultSearch.Limit)
}

func TestParseKDLPartialDefaultSearchKeepsOtherDefaults(t *testing.T) {
	content := []byte(`
default_search {
    limit 5
}
`)
	cfg, err := parseKDL(content)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DefaultSearch.Limit)
	assert.Equal(t, DefaultSearchOptions().MaxDistance, cfg.DefaultSearch.MaxDistance)
	assert.Equal(t, DefaultSearchOptions().ScoreThreshold, cfg.DefaultSearch.ScoreThreshold)
}

func TestParseKDLRejectsMalformedDocument(t *testing.T) {
	_, err := parseKDL([]byte("storage { type"))
	assert.Error(t, err)
}

func TestLoadKDLMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadKDL("/nonexistent/path/.tgch.kdl")
	require.NoError(t, err)
	assert.Equal(t, Default().StorageType, cfg.StorageType)
}

func TestParseSizeSuffixes(t *testing.T) {
	cases := map[string]int64{
		"10b":  10,
		"4kb":  4 << 10,
		"64mb": 64 << 20,
		"2gb":  2 << 30,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
