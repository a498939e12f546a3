// Package config defines tgch's configuration options: the typed
// option bundle, its presets, and the validator that fills in smart
// defaults.
package config

import (
	"time"
)

// StorageType selects which backend variant an Index is built on.
// Selection cannot change for the life of an index.
type StorageType string

const (
	StorageMemory StorageType = "memory"
	StorageDiskA  StorageType = "disk-a"
	StorageDiskB  StorageType = "disk-b"
	StorageDiskC  StorageType = "disk-c"
)

// SearchOptions are the per-query knobs, also usable as the embedded
// default_search option in Config.
type SearchOptions struct {
	// MaxDistance is the edit-distance budget per query token. Clamped
	// to [0, 3]. Default 2.
	MaxDistance int
	// ScoreThreshold is the minimum overall score admitted into
	// results. Valid range [0.0, 1.0]. Default 0.0.
	ScoreThreshold float64
	// Limit is the maximum number of results returned. Must be >= 1.
	// Default 10.
	Limit int
}

// DefaultSearchOptions are applied when a caller passes no options to
// Search.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{MaxDistance: 2, ScoreThreshold: 0.0, Limit: 10}
}

// Config is the full set of options an Index is opened with.
type Config struct {
	StorageType StorageType
	StoragePath string
	CacheSize   int64
	MaxMemory   int64

	AutoCommitOnClose bool
	StrictDuplicateID bool
	DefaultSearch     SearchOptions

	// CleanupInterval is carried in the option bundle but is not read
	// anywhere else: the cache layer runs no background sweep and evicts
	// only at admission time, whatever this is set to.
	CleanupInterval time.Duration
}

// Default is the `default` preset.
func Default() Config {
	return Config{
		StorageType:       StorageMemory,
		CacheSize:         64 << 20,
		MaxMemory:         96 << 20,
		AutoCommitOnClose: true,
		StrictDuplicateID: false,
		DefaultSearch:     DefaultSearchOptions(),
		CleanupInterval:   10 * time.Minute,
	}
}

// Development is the `development` preset: small caches.
func Development() Config {
	cfg := Default()
	cfg.CacheSize = 4 << 20
	cfg.MaxMemory = 8 << 20
	return cfg
}

// Production is the `production` preset: large caches.
func Production() Config {
	cfg := Default()
	cfg.CacheSize = 512 << 20
	cfg.MaxMemory = 768 << 20
	return cfg
}

// LowMemory is the `low_memory` preset: minimal caches, aggressive
// pressure thresholds (a direct result of the tiny budget, since the
// 0.75/1.0 tiers are defined relative to it).
func LowMemory() Config {
	cfg := Default()
	cfg.CacheSize = 512 << 10
	cfg.MaxMemory = 1 << 20
	return cfg
}
