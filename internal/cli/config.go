package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/timeweave/pkg/errors"
)

// Cache backends accepted in the config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config holds defaults read from config.toml. Command-line flags win over
// every value here.
//
//	origin = "ada"
//	max_hops = 2
//	min_born = "1700"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Origin  string       `toml:"origin"`
	MaxHops *int         `toml:"max_hops"`
	MinBorn string       `toml:"min_born"`
	Cache   CacheConfig  `toml:"cache"`
	Server  ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: cacheBackendFile},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// maxHops returns the configured hop limit or fallback.
func (c *Config) maxHops(fallback int) int {
	if c.MaxHops != nil {
		return *c.MaxHops
	}
	return fallback
}

// loadConfig reads the config file at path. An empty path falls back to
// the default location, which may be absent; an explicit path must exist.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode config %s", path)
	}

	switch cfg.Cache.Backend {
	case "":
		cfg.Cache.Backend = cacheBackendFile
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "config %s: unknown cache backend %q", path, cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == cacheBackendRedis && cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	return cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/timeweave, defaulting to
// ~/.config/timeweave.
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
