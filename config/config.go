// Package config loads the YAML settings for logging, the cache store and
// progress reporting.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/internal/handlers"
	"github.com/on-the-ground/memo_ive_go/log"
	"github.com/on-the-ground/memo_ive_go/stores"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation problem.
var ErrInvalid = errors.New("invalid config")

// Store kinds.
const (
	StoreMap       = "map"
	StoreRistretto = "ristretto"
	StoreMemDB     = "memdb"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
	Progress ProgressConfig `yaml:"progress"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type StoreConfig struct {
	// Kind is one of the Store kinds; empty means StoreMap.
	Kind string `yaml:"kind"`
	// Capacity bounds the ristretto store, in entries.
	Capacity int64 `yaml:"capacity"`
}

type ProgressConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Level      string `yaml:"level"`
	BufferSize int    `yaml:"buffer_size"`
	NumWorkers int    `yaml:"num_workers"`
}

func Default() Config {
	return Config{
		Log:   LogConfig{Level: string(log.LogInfo)},
		Store: StoreConfig{Kind: StoreMap, Capacity: 1 << 16},
		Progress: ProgressConfig{
			Level:      string(log.LogDebug),
			BufferSize: 64,
			NumWorkers: 1,
		},
	}
}

// Parse overlays data onto Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load parses the file at path. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if _, perr := log.ParseLevel(c.Log.Level); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: log.level: %v", ErrInvalid, perr))
	}
	switch c.Store.Kind {
	case StoreMap, "", StoreMemDB:
	case StoreRistretto:
		if c.Store.Capacity <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: store.capacity must be positive for %s, got %d", ErrInvalid, StoreRistretto, c.Store.Capacity))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("%w: store.kind %q is not one of %s, %s, %s", ErrInvalid, c.Store.Kind, StoreMap, StoreRistretto, StoreMemDB))
	}
	if _, perr := log.ParseLevel(c.Progress.Level); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: progress.level: %v", ErrInvalid, perr))
	}
	return err
}

func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level, c.Development)
}

// Build returns the configured store and a function releasing it.
func (c StoreConfig) Build() (environment.Store, func(), error) {
	switch c.Kind {
	case StoreMap, "":
		return environment.NewMapStore(), func() {}, nil
	case StoreRistretto:
		s, err := stores.NewRistretto(c.Capacity)
		if err != nil {
			return nil, nil, fmt.Errorf("store %s: %w", c.Kind, err)
		}
		return s, s.Close, nil
	case StoreMemDB:
		s, err := stores.NewMemDB()
		if err != nil {
			return nil, nil, fmt.Errorf("store %s: %w", c.Kind, err)
		}
		return s, func() {}, nil
	}
	return nil, nil, fmt.Errorf("%w: store.kind %q", ErrInvalid, c.Kind)
}

func (c ProgressConfig) ScopeConfig() handlers.ScopeConfig {
	return handlers.NewScopeConfig(c.BufferSize, c.NumWorkers)
}

// LogLevel is the level progress events are logged at.
func (c ProgressConfig) LogLevel() log.LogLevel {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.LogDebug
	}
	return level
}
