// Package config loads paeditor settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/paeditor/config.toml (falling back to
// ~/.config/paeditor/config.toml). A missing file is not an error; every key
// has a default. PAEDITOR_BACKEND_URL overrides backend_url, and command
// line flags override both.
//
//	backend_url = "http://localhost:8000"
//	timeout     = "30s"
//	retries     = 2
//
//	[cache]
//	backend    = "redis"
//	ttl        = "24h"
//	redis_addr = "localhost:6379"
//
//	[layout]
//	x_spacing = 200
//	y_spacing = 100
//
//	[submit]
//	method    = "logistic_regression"
//	threshold = 0.5
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/cache"
	"github.com/matzehuels/paeditor/pkg/editor"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
)

const (
	appName = "paeditor"

	// EnvBackendURL overrides backend_url.
	EnvBackendURL = "PAEDITOR_BACKEND_URL"
)

// Duration is a time.Duration written as a string ("30s", "24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full set of paeditor settings.
type Config struct {
	BackendURL string               `toml:"backend_url"`
	Timeout    Duration             `toml:"timeout"`
	Retries    int                  `toml:"retries"`
	Cache      CacheConfig          `toml:"cache"`
	Layout     editor.LayoutOptions `toml:"layout"`
	Submit     SubmitConfig         `toml:"submit"`
}

// CacheConfig selects the automaton cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // file, redis, mongo or none
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	MongoURI  string   `toml:"mongo_uri"`
}

// SubmitConfig holds defaults for submissions.
type SubmitConfig struct {
	Method    string  `toml:"method"`
	Threshold float64 `toml:"threshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BackendURL: "http://localhost:8000",
		Timeout:    Duration{30 * time.Second},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			TTL:       Duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
			MongoURI:  "mongodb://localhost:27017",
		},
		Layout: editor.DefaultLayout(),
		Submit: SubmitConfig{
			Method:    automaton.DefaultMethod,
			Threshold: 0.5,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the config file at path on top of [Default], then applies the
// environment. An empty path means [Path]. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.BackendURL = v
	}
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if err := apperrors.ValidateURL(c.BackendURL); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "backend_url")
	}
	if c.Timeout.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "timeout must not be negative")
	}
	if c.Retries < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "retries must not be negative")
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.backend %q: want file, redis, mongo or none", c.Cache.Backend)
	}
	if c.Layout.XSpacing <= 0 || c.Layout.YSpacing <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout spacing must be positive")
	}
	if c.Submit.Threshold < 0 || c.Submit.Threshold > 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "submit.threshold %v outside [0, 1]", c.Submit.Threshold)
	}
	return nil
}

// Write encodes c as TOML to path, creating the directory.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
