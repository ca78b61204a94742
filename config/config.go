// Package config loads algsolve settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"zappem.net/pub/math/algsolve/groebner"
	"zappem.net/pub/math/algsolve/poly"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Groebner tunes basis computations.
type Groebner struct {
	// Order is used by the basis command. System solving always
	// works in lex order.
	Order    string        `yaml:"order"`
	MaxPairs int           `yaml:"max_pairs"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Cache locates the result store. An empty Path disables caching
// unless InMemory is set.
type Cache struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
	// TTL expires cached results; 0 keeps them.
	TTL time.Duration `yaml:"ttl"`
}

// Config is the complete configuration file.
type Config struct {
	Groebner Groebner `yaml:"groebner"`
	Log      Log      `yaml:"log"`
	Cache    Cache    `yaml:"cache"`
	Workers  int      `yaml:"workers"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Groebner: Groebner{Order: "grevlex", MaxPairs: 10000, Timeout: 30 * time.Second},
		Log:      Log{Level: "info", Format: "text"},
		Workers:  4,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes c as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := poly.ParseOrder(c.Groebner.Order); err != nil {
		return fmt.Errorf("%w: groebner.order: %w", ErrInvalid, err)
	}
	if c.Groebner.MaxPairs < 0 {
		return fmt.Errorf("%w: groebner.max_pairs must not be negative", ErrInvalid)
	}
	if c.Groebner.Timeout < 0 {
		return fmt.Errorf("%w: groebner.timeout must not be negative", ErrInvalid)
	}
	if _, err := level(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q is not text or json", ErrInvalid, c.Log.Format)
	}
	if c.Cache.InMemory && c.Cache.Path != "" {
		return fmt.Errorf("%w: cache.path and cache.in_memory are exclusive", ErrInvalid)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	return nil
}

func level(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// NewLogger builds the configured handler writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	l, err := level(c.Log.Level)
	if err != nil {
		l = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: l}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Order returns the parsed basis order.
func (c Config) Order() poly.Order {
	o, err := poly.ParseOrder(c.Groebner.Order)
	if err != nil {
		return poly.GrevLex
	}
	return o
}

// GroebnerOptions converts the settings for groebner.Compute. The
// timeout is applied by the caller's context.
func (c Config) GroebnerOptions(log *slog.Logger) groebner.Options {
	return groebner.Options{MaxPairs: c.Groebner.MaxPairs, Logger: log}
}
