package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fsio/internal/config"
	"github.com/bamsammich/fsio/internal/fserr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	configDir := filepath.Join(dir, "fsio")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	path := filepath.Join(configDir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Copy.Overwrite)
	assert.Nil(t, cfg.Walk.MaxDepth)
	assert.Nil(t, cfg.Read.Encoding)
}

func TestLoad_FullConfig(t *testing.T) {
	writeConfig(t, `
[copy]
overwrite = false
timestamps = true
buffer_size = 65536
bwlimit = "10M"
workers = 16
verify = true

[walk]
follow_symlinks = true
max_depth = 3

[read]
encoding = "Shift-JIS"

[theme]
dir = "#89b4fa"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Copy.Overwrite)
	assert.False(t, *cfg.Copy.Overwrite)
	require.NotNil(t, cfg.Copy.Timestamps)
	assert.True(t, *cfg.Copy.Timestamps)
	require.NotNil(t, cfg.Copy.BufferSize)
	assert.Equal(t, 65536, *cfg.Copy.BufferSize)
	require.NotNil(t, cfg.Copy.BWLimit)
	assert.Equal(t, "10M", *cfg.Copy.BWLimit)
	require.NotNil(t, cfg.Copy.Workers)
	assert.Equal(t, 16, *cfg.Copy.Workers)
	require.NotNil(t, cfg.Copy.Verify)
	assert.True(t, *cfg.Copy.Verify)

	require.NotNil(t, cfg.Walk.FollowSymlinks)
	assert.True(t, *cfg.Walk.FollowSymlinks)
	require.NotNil(t, cfg.Walk.MaxDepth)
	assert.Equal(t, 3, *cfg.Walk.MaxDepth)

	require.NotNil(t, cfg.Read.Encoding)
	assert.Equal(t, "Shift-JIS", *cfg.Read.Encoding)

	require.NotNil(t, cfg.Theme.Dir)
	assert.Equal(t, "#89b4fa", *cfg.Theme.Dir)
	assert.Nil(t, cfg.Theme.Symlink)
}

func TestLoad_PartialConfig(t *testing.T) {
	writeConfig(t, `
[walk]
max_depth = 0
`)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Copy.Workers)
	require.NotNil(t, cfg.Walk.MaxDepth)
	assert.Equal(t, 0, *cfg.Walk.MaxDepth)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "invalid [[["},
		{"unknown key", "[copy]\nturbo = true\n"},
		{"buffer size", "[copy]\nbuffer_size = 0\n"},
		{"workers", "[copy]\nworkers = -1\n"},
		{"bwlimit", "[copy]\nbwlimit = \"fast\"\n"},
		{"encoding", "[read]\nencoding = \"latin-1\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			_, err := config.Load()
			assert.ErrorIs(t, err, fserr.ErrConfigurationError)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/fsio/config.toml", config.Path())
}

func TestEncode(t *testing.T) {
	path := writeConfig(t, "[copy]\nworkers = 4\n\n[read]\nencoding = \"euc-jp\"\n")
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	out, err := cfg.Encode()
	require.NoError(t, err)
	assert.Contains(t, out, "workers = 4")
	assert.NotContains(t, out, "overwrite")

	var back config.Config
	_, err = toml.Decode(out, &back)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
