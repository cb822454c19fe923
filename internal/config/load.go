package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/bottle/internal/envfile"
	"github.com/conn-castle/bottle/internal/messages"
)

// ErrConfigValidation wraps config validation failures, as opposed to
// TOML syntax or filesystem errors.
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

// Settings is everything a command needs from the user's environment.
type Settings struct {
	Paths  Paths
	Config Config
	// Env holds values from ~/.bottle/.env.
	Env map[string]string
}

// Resolve locates the home directory and loads config.toml and .env from it.
func Resolve(getenv func(string) string) (*Settings, error) {
	home, err := HomeDir(getenv)
	if err != nil {
		return nil, err
	}
	paths := DefaultPaths(home)
	cfg, err := Load(paths)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(getenv)
	env, err := LoadEnv(paths.EnvPath)
	if err != nil {
		return nil, err
	}
	return &Settings{Paths: paths, Config: *cfg, Env: env}, nil
}

// Load reads and validates config.toml. A missing file yields defaults.
func Load(paths Paths) (*Config, error) {
	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := &Config{}
			cfg.applyDefaults(paths)
			return cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFmt, paths.ConfigPath, err)
	}
	cfg, err := Parse(data, paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(paths)
	return cfg, nil
}

// Parse decodes config TOML strictly and validates it. source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes with unknown-field rejection so typos are reported.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// ParseLenient decodes config TOML without validation, for doctor to inspect
// configs that fail strict loading.
func ParseLenient(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	return &cfg, nil
}

// LoadLenient reads config.toml without validation. A missing file yields defaults.
func LoadLenient(paths Paths) (*Config, error) {
	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := &Config{}
			cfg.applyDefaults(paths)
			return cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFmt, paths.ConfigPath, err)
	}
	cfg, err := ParseLenient(data, paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(paths)
	return cfg, nil
}

// LoadEnv reads a .env file into a map. A missing file yields an empty map.
func LoadEnv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadEnvFmt, path, err)
	}
	env, err := envfile.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidEnvFmt, path, err)
	}
	return env, nil
}

// Lookup resolves a variable from the process environment first, then from env.
func (s *Settings) Lookup(lookupEnv func(string) (string, bool)) func(string) (string, bool) {
	return envfile.Lookup(s.Env, lookupEnv)
}
