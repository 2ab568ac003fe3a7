package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CATALOG_CACHE_BACKEND.
const EnvPrefix = "CATALOG_"

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	envFiles    []string
	environment map[string]string
	prefix      string
}

// WithEnvFiles replaces the default .env file list. Missing files are ignored.
func WithEnvFiles(files ...string) LoadOption {
	return func(o *loadOptions) {
		o.envFiles = append([]string(nil), files...)
	}
}

// WithEnvironment uses environment instead of the process environment.
func WithEnvironment(environment map[string]string) LoadOption {
	return func(o *loadOptions) {
		o.environment = environment
	}
}

// WithEnvPrefix overrides EnvPrefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.prefix = prefix
	}
}

// Load builds a Config from DefaultConfig, the YAML file at path (skipped
// when path is empty) and CATALOG_* environment overrides, in that order.
// Values from .env files never override variables already in the
// environment. The result is validated.
func Load(path string, opts ...LoadOption) (Config, error) {
	options := loadOptions{
		envFiles: []string{".env.local", ".env"},
		prefix:   EnvPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("catalog config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("catalog config: parse %s: %w", path, err)
		}
	}

	environment, err := buildEnvironment(options)
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment: environment,
		Prefix:      options.prefix,
	}); err != nil {
		return Config{}, fmt.Errorf("catalog config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func buildEnvironment(options loadOptions) (map[string]string, error) {
	environment := make(map[string]string)
	if options.environment != nil {
		for key, value := range options.environment {
			environment[key] = value
		}
	} else {
		for _, pair := range os.Environ() {
			if key, value, ok := strings.Cut(pair, "="); ok {
				environment[key] = value
			}
		}
	}

	for _, file := range options.envFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("catalog config: env file %s: %w", file, err)
		}
		for key, value := range values {
			if _, exists := environment[key]; !exists {
				environment[key] = value
			}
		}
	}
	return environment, nil
}
