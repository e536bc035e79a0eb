package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBackendURL     = "http://localhost:8080"
	DefaultRequestTimeout = "10s"
	DefaultPageSize       = 5
	DefaultStorePageSize  = 12
	DefaultImportPassword = "123456"
	DefaultPriceMin       = 0
	DefaultPriceMax       = 20000000
)

// Config represents the global ~/.bookadmin/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	BackendURL     string `toml:"backend_url"`
	RequestTimeout string `toml:"request_timeout"`
	PageSize       int    `toml:"page_size"`
	StorePageSize  int    `toml:"store_page_size"`
	ImportPassword string `toml:"import_password"`

	// PriceMin and PriceMax bound the storefront price slider. A selected
	// range equal to these bounds sends no price filter.
	PriceMin int64 `toml:"price_min"`
	PriceMax int64 `toml:"price_max"`
}

// Defaults returns a config with every field set to its built-in value.
func Defaults() *Config {
	return &Config{
		BackendURL:     DefaultBackendURL,
		RequestTimeout: DefaultRequestTimeout,
		PageSize:       DefaultPageSize,
		StorePageSize:  DefaultStorePageSize,
		ImportPassword: DefaultImportPassword,
		PriceMin:       DefaultPriceMin,
		PriceMax:       DefaultPriceMax,
	}
}

// Load reads config from the given path. Returns nil config and error if file missing.
// Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.fill()
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Timeout parses RequestTimeout, falling back to the default on bad input.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultRequestTimeout)
	}
	return d
}

// fill repairs zero or nonsensical values left by an explicit empty key.
func (c *Config) fill() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.StorePageSize <= 0 {
		c.StorePageSize = DefaultStorePageSize
	}
	if c.ImportPassword == "" {
		c.ImportPassword = DefaultImportPassword
	}
	if c.PriceMax <= c.PriceMin {
		c.PriceMin, c.PriceMax = DefaultPriceMin, DefaultPriceMax
	}
}
