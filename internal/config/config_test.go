package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format.Precision != 8 || cfg.Cache.Backend != BackendFile {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[format]
precision = 4

[cache]
backend = "redis"
redis_url = "redis://cache:6379/1"
ttl = "2h"
prefix = "staging:"

[history]
backend = "none"

[session]
backend = "redis"
ttl = "30m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v", cfg.LogLevel())
	}
	if cfg.Format.Precision != 4 {
		t.Errorf("precision = %d", cfg.Format.Precision)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisURL != "redis://cache:6379/1" || cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if got := cfg.Keyer().SessionKey("abc"); got != "staging:session:abc" {
		t.Errorf("scoped session key = %q", got)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unset addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvServerAddr, "127.0.0.1:9000")
	t.Setenv(EnvRedisURL, "redis://env:6379/0")
	t.Setenv(EnvMongoURI, "mongodb://env:27017")

	cfg, err := Load(writeConfig(t, "[server]\naddr = \":1\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.RedisURL != "redis://env:6379/0" || cfg.History.MongoURI != "mongodb://env:27017" {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Cache, cfg.History)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"precision too high", "[format]\nprecision = 16\n"},
		{"precision negative", "[format]\nprecision = -1\n"},
		{"cache backend", "[cache]\nbackend = \"memcached\"\n"},
		{"history backend", "[history]\nbackend = \"sqlite\"\n"},
		{"session backend", "[session]\nbackend = \"file\"\n"},
		{"log level", "[log]\nlevel = \"loud\"\n"},
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"unknown key", "[format]\ndigits = 3\n"},
		{"prefix whitespace", "[cache]\nprefix = \"a b\"\n"},
		{"syntax", "[format\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestKeyerUnscopedByDefault(t *testing.T) {
	k := Default().Keyer()
	if got := k.SessionKey("abc"); got != "session:abc" {
		t.Errorf("SessionKey = %q, want session:abc", got)
	}
	if got := k.DiagramKey("length", "svg", cache.DiagramKeyOpts{}); !strings.HasPrefix(got, "diagram:length:svg:") {
		t.Errorf("DiagramKey = %q", got)
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/x"
	if dir, _ := cfg.CacheDir(); dir != "/tmp/x" {
		t.Errorf("explicit dir = %q", dir)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	cfg.Cache.Dir = ""
	if dir, _ := cfg.CacheDir(); dir != filepath.Join(xdg, "unitconv") {
		t.Errorf("xdg dir = %q", dir)
	}
}
