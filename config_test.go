package vhostindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"edge","max_size":5000,"bucket_size":2048}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "edge", cfg.Name)
	require.EqualValues(t, 5000, cfg.MaxSize)
	require.EqualValues(t, 2048, cfg.BucketSize)
	require.EqualValues(t, defaultCacheLine, cfg.CacheLine)
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: edge\nmax_size: 5000\nbucket_size: 2048\ncache_line: 128\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.EqualValues(t, 128, cfg.CacheLine)
}

func TestLoadConfigUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte("name=edge"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig("x")
	cfg.MaxSize = 0
	require.Error(t, cfg.validate())

	cfg = DefaultConfig("x")
	cfg.BucketSize = 4
	require.Error(t, cfg.validate())

	cfg = DefaultConfig("x")
	require.NoError(t, cfg.validate())
}
