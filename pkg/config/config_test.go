package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/tickergrid/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if d := Default().Persist.Debounce.Duration; d != 1500*time.Millisecond {
		t.Errorf("Persist.Debounce = %v, want 1.5s", d)
	}
}

func TestDecode(t *testing.T) {
	data := `
[server]
addr = "127.0.0.1:9000"

[storage]
backend = "redis"
redis_addr = "cache:6379"
redis_ttl = "720h"

[persist]
debounce = "250ms"
`
	cfg := Default()
	if err := Decode([]byte(data), &cfg); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %v, want 127.0.0.1:9000", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != BackendRedis {
		t.Errorf("Storage.Backend = %v, want %v", cfg.Storage.Backend, BackendRedis)
	}
	if cfg.Storage.RedisTTL.Duration != 720*time.Hour {
		t.Errorf("Storage.RedisTTL = %v, want 720h", cfg.Storage.RedisTTL)
	}
	if cfg.Persist.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Persist.Debounce = %v, want 250ms", cfg.Persist.Debounce)
	}
	// Untouched keys keep their defaults.
	if cfg.Persist.Timeout.Duration != 5*time.Second {
		t.Errorf("Persist.Timeout = %v, want 5s", cfg.Persist.Timeout)
	}
	if cfg.Storage.MongoDatabase != "tickergrid" {
		t.Errorf("Storage.MongoDatabase = %v, want tickergrid", cfg.Storage.MongoDatabase)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[server]\nport = 8080\n"},
		{"bad duration", "[persist]\ndebounce = \"soon\"\n"},
		{"bad syntax", "[server\naddr = \":80\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Decode([]byte(tt.data), &cfg); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.Storage.Backend = BackendMongo
	want.Persist.Debounce = Duration{2 * time.Second}

	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var got Config
	if err := Decode(data, &got); err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, data)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"memory", func(c *Config) { c.Storage.Backend = BackendMemory }, false},
		{"none", func(c *Config) { c.Storage.Backend = BackendNone }, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, true},
		{"bad server addr", func(c *Config) { c.Server.Addr = "8080" }, true},
		{"redis without port", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.RedisAddr = "localhost"
		}, true},
		{"negative redis db", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.RedisDB = -1
		}, true},
		{"mongo http uri", func(c *Config) {
			c.Storage.Backend = BackendMongo
			c.Storage.MongoURI = "http://localhost:27017"
		}, true},
		{"negative debounce", func(c *Config) { c.Persist.Debounce = Duration{-time.Second} }, true},
		{"zero debounce", func(c *Config) { c.Persist.Debounce = Duration{} }, false},
		{"zero timeout", func(c *Config) { c.Persist.Timeout = Duration{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvStorageBackend: "mongo",
		EnvMongoURI:       "mongodb://db:27017",
		EnvAddr:           ":9999",
		EnvDebounce:       "300",
		EnvRedisAddr:      "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Storage.Backend != BackendMongo {
		t.Errorf("Storage.Backend = %v, want mongo", cfg.Storage.Backend)
	}
	if cfg.Storage.MongoURI != "mongodb://db:27017" {
		t.Errorf("Storage.MongoURI = %v", cfg.Storage.MongoURI)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %v, want :9999", cfg.Server.Addr)
	}
	if cfg.Persist.Debounce.Duration != 300*time.Millisecond {
		t.Errorf("Persist.Debounce = %v, want 300ms", cfg.Persist.Debounce)
	}
	if cfg.Storage.RedisAddr != "localhost:6379" {
		t.Errorf("empty env var overrode RedisAddr: %v", cfg.Storage.RedisAddr)
	}

	env[EnvDebounce] = "later"
	if err := cfg.applyEnv(lookup); err == nil {
		t.Error("applyEnv() with bad debounce error = nil, want error")
	}
}

// clearEnv blanks every variable applyEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAddr, EnvStorageBackend, EnvStateDir, EnvRedisAddr,
		EnvRedisPassword, EnvMongoURI, EnvSQLitePath, EnvDebounce} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(dir, "missing.toml"))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Storage.Backend != BackendFile {
			t.Errorf("Storage.Backend = %v, want file", cfg.Storage.Backend)
		}
	})

	t.Run("file and env", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(path, []byte("[storage]\nbackend = \"memory\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvAddr, ":7070")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Storage.Backend != BackendMemory {
			t.Errorf("Storage.Backend = %v, want memory", cfg.Storage.Backend)
		}
		if cfg.Server.Addr != ":7070" {
			t.Errorf("Server.Addr = %v, want :7070", cfg.Server.Addr)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		if err := os.WriteFile(path, []byte("[storage]\nbackend = \"etcd\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadFile(path)
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("LoadFile() error = %v, want %v", err, errors.ErrCodeInvalidConfig)
		}
	})
}

func TestLoadExplicit(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := LoadExplicit(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadExplicit(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"memory\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadExplicit(path)
	if err != nil {
		t.Fatalf("LoadExplicit() error = %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %v, want memory", cfg.Storage.Backend)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := Write(path, Default(), false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := Write(path, Default(), false); err == nil {
		t.Error("Write() over existing file error = nil, want error")
	}
	if err := Write(path, Default(), true); err != nil {
		t.Errorf("Write(overwrite) error = %v", err)
	}

	clearEnv(t)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("LoadFile() = %+v, want defaults", cfg)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/tickergrid.toml")
	if p, _ := Path(); p != "/etc/tickergrid.toml" {
		t.Errorf("Path() = %v, want /etc/tickergrid.toml", p)
	}

	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if p, _ := Path(); p != filepath.Join("/xdg", "tickergrid", "config.toml") {
		t.Errorf("Path() = %v", p)
	}
}
