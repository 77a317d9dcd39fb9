package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/timeweave/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, cacheBackendFile, cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Nil(t, cfg.MaxHops)
	assert.Equal(t, 3, cfg.maxHops(3))
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
origin = "ada"
max_hops = 0
min_born = "1700"

[cache]
backend = "redis"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ada", cfg.Origin)
	assert.Equal(t, 0, cfg.maxHops(3), "an explicit zero must win over the fallback")
	assert.Equal(t, "1700", cfg.MinBorn)
	assert.Equal(t, cacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "timeweave"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "timeweave", "config.toml"), []byte(`origin = "byron"`), 0o644))

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "byron", cfg.Origin)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{"missing explicit file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, errors.ErrCodeFileNotFound},
		{"malformed", func(t *testing.T) string { return writeFile(t, "c.toml", "origin = ") }, errors.ErrCodeInvalidDocument},
		{"unknown backend", func(t *testing.T) string { return writeFile(t, "c.toml", "[cache]\nbackend = \"memcached\"") }, errors.ErrCodeInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path(t))
			assert.True(t, errors.Is(err, tt.code), "err = %v, want %s", err, tt.code)
		})
	}
}
