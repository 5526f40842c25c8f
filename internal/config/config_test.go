package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesStorePathAndActor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issuecraft.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_path = "/var/lib/issuecraft/db"
default_actor = "alice"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/issuecraft/db", cfg.StorePath)
	assert.Equal(t, "alice", cfg.DefaultActor)
}
