// Package config loads codexheader settings from .codexheader.toml, a .env
// file and CODEX_HEADER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/phobologic/codexheader/internal/header"
	"github.com/phobologic/codexheader/internal/navdoc"
)

// FileName is the config file looked up in the root directory.
const FileName = ".codexheader.toml"

// Environment variables overriding the config file.
const (
	EnvMaxWidth       = "CODEX_HEADER_MAX_WIDTH"
	EnvResolveParents = "CODEX_HEADER_RESOLVE_PARENTS"
	EnvWorkers        = "CODEX_HEADER_WORKERS"
	EnvAgentsFile     = "CODEX_HEADER_AGENTS_FILE"
)

// ErrInvalidConfig indicates a malformed config file or environment value.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by all commands.
type Config struct {
	MaxWidth       int      `toml:"max_width"`
	ResolveParents bool     `toml:"resolve_parents"`
	Workers        int      `toml:"workers"`
	AgentsFile     string   `toml:"agents_file"`
	ExcludeDirs    []string `toml:"exclude_dirs"`
	ExcludeFiles   []string `toml:"exclude_files"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads settings for root. When path is empty, root/.codexheader.toml is
// used if it exists; an explicit path must exist. Variables from root/.env
// apply only where the process environment does not already set them.
func Load(root, path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}
	if err := decodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil {
		dotenv = nil
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%w: %s: unknown keys: %s", ErrInvalidConfig, path, strings.Join(names, ", "))
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxWidth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvMaxWidth, v)
		}
		cfg.MaxWidth = n
	}
	if v, ok := lookup(EnvResolveParents); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvResolveParents, v)
		}
		cfg.ResolveParents = b
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v, ok := lookup(EnvAgentsFile); ok && v != "" {
		cfg.AgentsFile = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = header.DefaultMaxWidth
	}
	if strings.TrimSpace(cfg.AgentsFile) == "" {
		cfg.AgentsFile = navdoc.DefaultFile
	}
}

func validate(cfg *Config) error {
	if cfg.MaxWidth < 1 {
		return fmt.Errorf("%w: max_width must be at least 1, got %d", ErrInvalidConfig, cfg.MaxWidth)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}
