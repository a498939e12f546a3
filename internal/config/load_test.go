package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	kdlPath := filepath.Join(dir, "cfg.kdl")
	require.NoError(t, os.WriteFile(kdlPath, []byte(`strict_duplicate_id true`), 0o644))
	cfg, err := Load(kdlPath)
	require.NoError(t, err)
	assert.True(t, cfg.StrictDuplicateID)

	tomlPath := filepath.Join(dir, "cfg.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("strict_duplicate_id = true\n"), 0o644))
	cfg, err = Load(tomlPath)
	require.NoError(t, err)
	assert.True(t, cfg.StrictDuplicateID)
}
