package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML reads a .tgch.toml configuration file at path, the
// alternate config format for hosts that prefer TOML over KDL. A
// missing file is not an error: callers get the `default` preset back.
//
// Example:
//
//	[storage]
//	type = "disk-a"
//	path = "/var/lib/tgch"
//	cache_size = "64mb"
//	max_memory = "96mb"
//
//	auto_commit_on_close = true
//	strict_duplicate_id = false
//
//	[default_search]
//	max_distance = 2
//	score_threshold = 0.0
//	limit = 10
func LoadTOML(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseTOML(content)
}

type tomlConfig struct {
	Storage struct {
		Type      string `toml:"type"`
		Path      string `toml:"path"`
		CacheSize any    `toml:"cache_size"`
		MaxMemory any    `toml:"max_memory"`
	} `toml:"storage"`
	AutoCommitOnClose *bool `toml:"auto_commit_on_close"`
	StrictDuplicateID *bool `toml:"strict_duplicate_id"`
	DefaultSearch     struct {
		MaxDistance    *int     `toml:"max_distance"`
		ScoreThreshold *float64 `toml:"score_threshold"`
		Limit          *int     `toml:"limit"`
	} `toml:"default_search"`
}

func parseTOML(content []byte) (*Config, error) {
	cfg := Default()

	var t tomlConfig
	if err := toml.Unmarshal(content, &t); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	if t.Storage.Type != "" {
		cfg.StorageType = StorageType(t.Storage.Type)
	}
	if t.Storage.Path != "" {
		cfg.StoragePath = t.Storage.Path
	}
	if sz, ok := tomlSize(t.Storage.CacheSize); ok {
		cfg.CacheSize = sz
	}
	if sz, ok := tomlSize(t.Storage.MaxMemory); ok {
		cfg.MaxMemory = sz
	}
	if t.AutoCommitOnClose != nil {
		cfg.AutoCommitOnClose = *t.AutoCommitOnClose
	}
	if t.StrictDuplicateID != nil {
		cfg.StrictDuplicateID = *t.StrictDuplicateID
	}
	if t.DefaultSearch.MaxDistance != nil {
		cfg.DefaultSearch.MaxDistance = *t.DefaultSearch.MaxDistance
	}
	if t.DefaultSearch.ScoreThreshold != nil {
		cfg.DefaultSearch.ScoreThreshold = *t.DefaultSearch.ScoreThreshold
	}
	if t.DefaultSearch.Limit != nil {
		cfg.DefaultSearch.Limit = *t.DefaultSearch.Limit
	}

	return &cfg, nil
}

// tomlSize accepts either a bare integer byte count or a "64mb"-style
// string, mirroring the KDL loader's firstSizeArg.
func tomlSize(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case string:
		sz, err := parseSize(n)
		if err != nil {
			return 0, false
		}
		return sz, true
	default:
		return 0, false
	}
}
