package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultConfigDir holds base.yaml and the per-profile files.
	DefaultConfigDir = "configs"

	envPrefix = "APP_"
)

// Load loads configuration from DefaultConfigDir.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultConfigDir, profile)
}

// LoadFrom loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
//
// Missing files are skipped.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	defaultValues := defaults()

	if err := k.Load(confmap.Provider(defaultValues, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	if err := loadFileIfExists(k, filepath.Join(dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(defaultValues)), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_SERVER_READ_TIMEOUT to server.read_timeout. Keys
// are matched against the known configuration keys because both the level
// separator and multi-word keys use "_"; unknown variables fall back to
// treating every "_" as a level separator.
func envKeyMapper(known map[string]any) func(string) string {
	byEnv := make(map[string]string, len(known))
	for key := range known {
		byEnv[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	return func(s string) string {
		name := strings.TrimPrefix(s, envPrefix)
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(strings.ToLower(name), "_", ".")
	}
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
