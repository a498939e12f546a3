package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL reads a .tgch.kdl configuration file at path. A missing file
// is not an error: callers get the `default` preset back.
//
// Example:
//
//	storage {
//	    type "disk-a"
//	    path "/var/lib/tgch"
//	    cache_size "64mb"
//	    max_memory "96mb"
//	}
//	auto_commit_on_close true
//	strict_duplicate_id false
//	default_search {
//	    max_distance 2
//	    score_threshold 0.0
//	    limit 10
//	}
func LoadKDL(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseKDL(content)
}

func parseKDL(content []byte) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "storage":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "type":
					if s, ok := firstStringArg(cn); ok {
						cfg.StorageType = StorageType(s)
					}
				case "path":
					if s, ok := firstStringArg(cn); ok {
						cfg.StoragePath = s
					}
				case "cache_size":
					if sz, ok := firstSizeArg(cn); ok {
						cfg.CacheSize = sz
					}
				case "max_memory":
					if sz, ok := firstSizeArg(cn); ok {
						cfg.MaxMemory = sz
					}
				}
			}
		case "auto_commit_on_close":
			if b, ok := firstBoolArg(n); ok {
				cfg.AutoCommitOnClose = b
			}
		case "strict_duplicate_id":
			if b, ok := firstBoolArg(n); ok {
				cfg.StrictDuplicateID = b
			}
		case "default_search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_distance":
					if v, ok := firstIntArg(cn); ok {
						cfg.DefaultSearch.MaxDistance = v
					}
				case "score_threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.DefaultSearch.ScoreThreshold = v
					}
				case "limit":
					if v, ok := firstIntArg(cn); ok {
						cfg.DefaultSearch.Limit = v
					}
				}
			}
		}
	}

	return &cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// firstSizeArg accepts either a bare byte count or a "64mb"/"1gb"-style
// string, matching parseSize convenience for file-size
// fields.
func firstSizeArg(n *document.Node) (int64, bool) {
	if v, ok := firstIntArg(n); ok {
		return int64(v), true
	}
	if s, ok := firstStringArg(n); ok {
		if sz, err := parseSize(s); err == nil {
			return sz, true
		}
	}
	return 0, false
}

func parseSize(s string) (int64, error) {
	multiplier := int64(1)
	suffixLen := 0
	switch {
	case hasSuffix(s, "gb"):
		multiplier = 1 << 30
		suffixLen = 2
	case hasSuffix(s, "mb"):
		multiplier = 1 << 20
		suffixLen = 2
	case hasSuffix(s, "kb"):
		multiplier = 1 << 10
		suffixLen = 2
	case hasSuffix(s, "b"):
		suffixLen = 1
	}
	numStr := s[:len(s)-suffixLen]
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return n * multiplier, nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
