package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{StorageType: StorageMemory}
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))

	assert.Equal(t, Default().CacheSize, cfg.CacheSize)
	assert.Equal(t, cfg.CacheSize, cfg.MaxMemory)
	assert.Equal(t, DefaultSearchOptions(), cfg.DefaultSearch)
}

func TestValidateAndSetDefaultsEmptyStorageTypeDefaultsToMemory(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, StorageMemory, cfg.StorageType)
}

func TestValidateAndSetDefaultsRejectsUnknownStorageType(t *testing.T) {
	cfg := &Config{StorageType: "disk-z"}
	err := NewValidator().ValidateAndSetDefaults(cfg)
	assert.Error(t, err)
}

func TestValidateAndSetDefaultsRequiresStoragePathForDiskBackends(t *testing.T) {
	cfg := &Config{StorageType: StorageDiskA}
	err := NewValidator().ValidateAndSetDefaults(cfg)
	assert.Error(t, err)
}

func TestValidateAndSetDefaultsMaxMemoryFloorsAtCacheSize(t *testing.T) {
	cfg := &Config{StorageType: StorageMemory, CacheSize: 1024, MaxMemory: 10}
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, int64(1024), cfg.MaxMemory)
}

func TestValidateAndSetDefaultsClampsMaxDistance(t *testing.T) {
	cfg := &Config{StorageType: StorageMemory, DefaultSearch: SearchOptions{MaxDistance: 9, Limit: 10}}
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, 3, cfg.DefaultSearch.MaxDistance)

	cfg = &Config{StorageType: StorageMemory, DefaultSearch: SearchOptions{MaxDistance: -5, Limit: 10}}
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, 0, cfg.DefaultSearch.MaxDistance)
}

func TestValidateAndSetDefaultsRejectsScoreThresholdOutOfRange(t *testing.T) {
	cfg := &Config{StorageType: StorageMemory, DefaultSearch: SearchOptions{ScoreThreshold: 1.5, Limit: 10}}
	err := NewValidator().ValidateAndSetDefaults(cfg)
	assert.Error(t, err)
}

func TestValidateAndSetDefaultsZeroLimitGetsDefaulted(t *testing.T) {
	cfg := &Config{StorageType: StorageMemory, DefaultSearch: SearchOptions{Limit: 0}}
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, DefaultSearchOptions().Limit, cfg.DefaultSearch.Limit)
}

func TestValidateSearchOptionsExplicitZeroLimitIsError(t *testing.T) {
	_, err := ValidateSearchOptions(SearchOptions{Limit: 0}, true)
	assert.Error(t, err)
}

func TestValidateSearchOptionsImplicitZeroLimitIsDefaulted(t *testing.T) {
	opts, err := ValidateSearchOptions(SearchOptions{Limit: 0}, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchOptions().Limit, opts.Limit)
}

func TestValidateSearchOptionsClampsMaxDistanceEvenWhenExplicit(t *testing.T) {
	opts, err := ValidateSearchOptions(SearchOptions{MaxDistance: 10, Limit: 5}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.MaxDistance)
}
