// Package config loads tickergrid configuration from TOML.
//
// Configuration is resolved in three layers, later layers winning:
//  1. [Default] values
//  2. the TOML file at $TICKERGRID_CONFIG or ~/.config/tickergrid/config.toml
//  3. TICKERGRID_* environment variables
//
// A missing file at the default location is not an error; one named explicitly
// with [LoadExplicit] is. The file layout mirrors [Config]:
//
//	[server]
//	addr = ":8080"
//
//	[storage]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[persist]
//	debounce = "1.5s"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tickergrid/pkg/errors"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Backends lists every storage backend name accepted in [Storage.Backend].
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendSQLite, BackendNone}

// Environment variables read by [Load].
const (
	EnvConfig         = "TICKERGRID_CONFIG"
	EnvAddr           = "TICKERGRID_ADDR"
	EnvStorageBackend = "TICKERGRID_STORAGE_BACKEND"
	EnvStateDir       = "TICKERGRID_STATE_DIR"
	EnvRedisAddr      = "TICKERGRID_REDIS_ADDR"
	EnvRedisPassword  = "TICKERGRID_REDIS_PASSWORD"
	EnvMongoURI       = "TICKERGRID_MONGO_URI"
	EnvSQLitePath     = "TICKERGRID_SQLITE_PATH"
	EnvDebounce       = "TICKERGRID_DEBOUNCE"
)

// Config is the full tickergrid configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
	Persist Persist `toml:"persist"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
	// ShutdownTimeout bounds graceful shutdown, including the final flush of
	// pending state writes.
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Storage selects and configures the state backend.
type Storage struct {
	Backend string `toml:"backend"`
	// Dir is the state directory of the file backend. Empty means
	// ~/.config/tickergrid/state.
	Dir string `toml:"dir"`
	// Prefix is prepended to every storage key.
	Prefix string `toml:"prefix"`

	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisTTL      Duration `toml:"redis_ttl"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	SQLitePath string `toml:"sqlite_path"`
}

// Persist configures debounced state writes.
type Persist struct {
	// Debounce is the quiet period after the last change before state is
	// written.
	Debounce Duration `toml:"debounce"`
	// Timeout bounds a single write.
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration that decodes from TOML strings like "1.5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration: file storage and a 1.5s
// debounce.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Storage: Storage{
			Backend:         BackendFile,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "tickergrid",
			MongoCollection: "state",
		},
		Persist: Persist{
			Debounce: Duration{1500 * time.Millisecond},
			Timeout:  Duration{5 * time.Second},
		},
	}
}

// Dir returns the tickergrid config directory, using XDG_CONFIG_HOME or
// falling back to ~/.config.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tickergrid"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "tickergrid"), nil
}

// Path returns the config file location: $TICKERGRID_CONFIG if set,
// otherwise config.toml in [Dir].
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load resolves the configuration from defaults, the config file and the
// environment, then validates it.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile is [Load] with an explicit file path. A missing file yields the
// defaults plus environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadExplicit is [LoadFile] for a path the user named on the command line.
// A missing file is an error there.
func LoadExplicit(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
	}
	return LoadFile(path)
}

// Decode parses TOML into cfg, keeping values not present in data.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write writes cfg to path, creating parent directories. An existing file is
// only replaced when overwrite is true.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s already exists", path)
		}
	}
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnv overrides fields from TICKERGRID_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvAddr:           &c.Server.Addr,
		EnvStorageBackend: &c.Storage.Backend,
		EnvStateDir:       &c.Storage.Dir,
		EnvRedisAddr:      &c.Storage.RedisAddr,
		EnvRedisPassword:  &c.Storage.RedisPassword,
		EnvMongoURI:       &c.Storage.MongoURI,
		EnvSQLitePath:     &c.Storage.SQLitePath,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvDebounce); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			if ms, convErr := strconv.Atoi(v); convErr == nil {
				d = time.Duration(ms) * time.Millisecond
			} else {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvDebounce)
			}
		}
		c.Persist.Debounce = Duration{d}
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if err := errors.ValidateAddr(c.Server.Addr); err != nil {
		return err
	}
	if !slices.Contains(Backends, c.Storage.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %v)", c.Storage.Backend, Backends)
	}
	switch c.Storage.Backend {
	case BackendRedis:
		if err := errors.ValidateAddr(c.Storage.RedisAddr); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "storage.redis_addr")
		}
		if c.Storage.RedisDB < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.redis_db must not be negative")
		}
	case BackendMongo:
		if err := errors.ValidateURI(c.Storage.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "storage.mongo_uri")
		}
	}
	if c.Persist.Debounce.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "persist.debounce must not be negative")
	}
	if c.Persist.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "persist.timeout must be positive")
	}
	return nil
}
