// Package config loads gatesketch settings from a TOML file.
//
// Every setting has a default, so the file is optional:
//
//	[server]
//	addr = ":8080"
//
//	[render]
//	seed = 42
//	scale = 1.0
//	identity = "content"   # or "request"
//
//	[storage]
//	backend = "file"       # or "mongo"
//	dir = "static/images"
//
//	[cache]
//	backend = "file"       # "none", "file" or "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[log]
//	level = "info"
//
// A [layout] table overrides individual geometry constants of
// [circuit.DefaultLayout].
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gatesketch/pkg/circuit"
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

// AppName names the config and cache directories.
const AppName = "gatesketch"

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig   `toml:"server"`
	Render  RenderConfig   `toml:"render"`
	Storage StorageConfig  `toml:"storage"`
	Cache   CacheConfig    `toml:"cache"`
	Log     LogConfig      `toml:"log"`
	Layout  circuit.Layout `toml:"layout"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type RenderConfig struct {
	Seed     uint64  `toml:"seed"`
	Scale    float64 `toml:"scale"`
	Identity string  `toml:"identity"`
}

type StorageConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Render: RenderConfig{
			Seed:     circuit.DefaultSeed,
			Scale:    1,
			Identity: string(storage.IdentityContent),
		},
		Storage: StorageConfig{
			Backend:       BackendFile,
			Dir:           filepath.Join("static", "images"),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
		},
		Cache: CacheConfig{
			Backend:  BackendFile,
			Dir:      CacheDir(),
			RedisURL: "redis://localhost:6379/0",
			TTL:      24 * time.Hour,
		},
		Log:    LogConfig{Level: "info"},
		Layout: circuit.DefaultLayout,
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path means [DefaultPath], which may be absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, gserrors.New(gserrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return invalid("server.addr is empty")
	}
	if c.Render.Scale <= 0 {
		return invalid("render.scale must be positive, got %g", c.Render.Scale)
	}
	if !storage.Identity(c.Render.Identity).Valid() {
		return invalid("render.identity must be %q or %q, got %q",
			storage.IdentityContent, storage.IdentityRequest, c.Render.Identity)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return invalid("storage.dir is empty")
		}
	case BackendMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDatabase == "" {
			return invalid("storage.mongo_uri and storage.mongo_database are required for the mongo backend")
		}
	default:
		return invalid("unknown storage.backend %q", c.Storage.Backend)
	}

	switch c.Cache.Backend {
	case BackendNone:
	case BackendFile:
		if c.Cache.Dir == "" {
			return invalid("cache.dir is empty")
		}
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend")
		}
	default:
		return invalid("unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return invalid("cache.ttl must not be negative")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	return c.Layout.Validate()
}

// LogLevel returns the parsed log level, Info when unset.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func invalid(format string, args ...any) error {
	return gserrors.New(gserrors.ErrCodeInvalidConfig, format, args...)
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/gatesketch/config.toml, falling back
// to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/gatesketch/).
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}
