package config

import (
	"strings"
)

// Load reads a configuration file, dispatching on its extension: .toml
// goes through LoadTOML, anything else (including .kdl) through LoadKDL.
func Load(path string) (*Config, error) {
	if strings.HasSuffix(strings.ToLower(path), ".toml") {
		return LoadTOML(path)
	}
	return LoadKDL(path)
}
