// Package config loads the unitconv configuration file.
//
// The file is TOML, read from --config, $XDG_CONFIG_HOME/unitconv/config.toml
// or ~/.config/unitconv/config.toml, in that order. A missing file is not an
// error: every setting has a default. A few settings can be overridden from
// the environment so containers need no file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/errors"
)

const appName = "unitconv"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Environment overrides.
const (
	EnvServerAddr = "UNITCONV_SERVER_ADDR"
	EnvRedisURL   = "UNITCONV_REDIS_URL"
	EnvMongoURI   = "UNITCONV_MONGO_URI"
)

// Config is the full configuration.
type Config struct {
	Log     Log     `toml:"log"`
	Format  Format  `toml:"format"`
	Server  Server  `toml:"server"`
	Cache   Cache   `toml:"cache"`
	History History `toml:"history"`
	Session Session `toml:"session"`
}

type Log struct {
	Level string `toml:"level"`
}

type Format struct {
	// Precision is the number of fractional digits kept for linear results.
	Precision int `toml:"precision"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Cache configures where rendered diagrams are kept.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
	// Prefix namespaces Redis keys so several deployments can share one
	// instance. It applies to cached diagrams and API sessions.
	Prefix string `toml:"prefix"`
}

// History configures the conversion log.
type History struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
	Limit    int    `toml:"limit"`
}

// Session configures HTTP API session storage.
type Session struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    Log{Level: "info"},
		Format: Format{Precision: convert.DefaultPrecision},
		Server: Server{Addr: ":8080"},
		Cache: Cache{
			Backend:  BackendFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      24 * time.Hour,
		},
		History: History{
			Backend:  BackendMemory,
			MongoURI: "mongodb://localhost:27017",
			Database: appName,
			Limit:    50,
		},
		Session: Session{
			Backend: BackendMemory,
			TTL:     24 * time.Hour,
		},
	}
}

// DefaultPath returns the config file location used when --config is not
// given.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path (or DefaultPath when empty) over the defaults, applies
// environment overrides and validates the result. A missing file at the
// default location is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.History.MongoURI = v
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	if c.Format.Precision < 0 || c.Format.Precision > convert.MaxPrecision {
		return errors.New(errors.ErrCodeInvalidConfig, "format.precision must be between 0 and %d, got %d",
			convert.MaxPrecision, c.Format.Precision)
	}
	if err := oneOf("cache.backend", c.Cache.Backend, BackendFile, BackendRedis, BackendNone); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if strings.ContainsAny(c.Cache.Prefix, " \t\r\n") {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.prefix must not contain whitespace")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if err := oneOf("history.backend", c.History.Backend, BackendMemory, BackendMongo, BackendNone); err != nil {
		return err
	}
	if c.History.Backend == BackendMongo && (c.History.MongoURI == "" || c.History.Database == "") {
		return errors.New(errors.ErrCodeInvalidConfig, "history.mongo_uri and history.database are required for the mongo backend")
	}
	if c.History.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "history.limit must not be negative")
	}
	if err := oneOf("session.backend", c.Session.Backend, BackendMemory, BackendRedis); err != nil {
		return err
	}
	if c.Session.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "session.ttl must not be negative")
	}
	return nil
}

// Keyer returns the cache keyer, scoped by cache.prefix when one is set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// LogLevel returns the parsed log level. Call after Validate.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// CacheDir returns the diagram cache directory, defaulting to
// $XDG_CACHE_HOME/unitconv or ~/.cache/unitconv.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown backend %q (want one of %v)", field, value, allowed)
}
