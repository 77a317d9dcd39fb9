package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := New(io.Discard, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "timeweave")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c := New(io.Discard, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(base, "timeweave") {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = "/var/cache/tw"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(dir, "tw") {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}
