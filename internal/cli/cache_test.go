package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/session"
)

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := runCLIKeepEnv(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	fc, err := cache.NewFileCache(filepath.Join(xdg, appName))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	fc.Set(ctx, "a", []byte("1"), 0)
	fc.Set(ctx, "b", []byte("2"), 0)

	out, err := runCLIKeepEnv(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("output = %q", out)
	}
	if _, hit, _ := fc.Get(ctx, "a"); hit {
		t.Error("entry survived clear")
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "nope"))

	out, err := runCLIKeepEnv(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)); !os.IsNotExist(err) {
		t.Error("clear should not create the cache dir")
	}
}

func TestCacheClearSessions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)

	ctx := context.Background()
	store, err := session.NewCLIStore(filepath.Join(home, ".config", appName, "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSession(ctx, session.New(nil, 0)); err != nil {
		t.Fatal(err)
	}

	files, err := session.NewFileStore(filepath.Join(home, ".config", appName, "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	stale := session.New(nil, time.Hour)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	if err := files.Set(ctx, stale); err != nil {
		t.Fatal(err)
	}

	out, err := runCLIKeepEnv(t, "cache", "clear", "--sessions")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Cleared saved session", "Removed 1 expired sessions"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("saved session survived clear --sessions")
	}
	if _, err := os.Stat(filepath.Join(files.Path(), stale.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired session file survived clear --sessions")
	}
}

func TestCacheClearSessionsNonFileBackend(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgDir)
	t.Setenv("HOME", t.TempDir())
	if err := os.MkdirAll(filepath.Join(cfgDir, appName), 0755); err != nil {
		t.Fatal(err)
	}
	body := "[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, appName, "config.toml"), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLIKeepEnv(t, "cache", "clear", "--sessions")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared saved session") {
		t.Errorf("sessions should be cleared whatever the cache backend:\n%s", out)
	}
}
