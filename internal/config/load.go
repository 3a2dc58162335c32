package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// envRefPrefix marks a string value read from the environment.
const envRefPrefix = "os.environ/"

// Load reads the configuration. Values come from Defaults, then the TOML
// file, with os.environ/NAME strings replaced by the variable NAME.
// A .env file in the working directory is loaded first when present.
//
// An empty path means $NEUGROVE_CONFIG or DefaultPath; a missing default
// file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over cfg, resolving environment references.
func Parse(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	resolveEnvRefs(raw)

	resolved, err := toml.Marshal(raw)
	if err != nil {
		return err
	}
	dec := toml.NewDecoder(strings.NewReader(string(resolved)))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// ResolveEnvVar resolves a value that may reference an environment variable.
// Unset variables resolve to "".
func ResolveEnvVar(value string) string {
	if name, ok := strings.CutPrefix(value, envRefPrefix); ok {
		return os.Getenv(name)
	}
	return value
}

func resolveEnvRefs(m map[string]any) {
	for k, v := range m {
		m[k] = resolveValue(v)
	}
}

func resolveValue(v any) any {
	switch val := v.(type) {
	case string:
		return ResolveEnvVar(val)
	case map[string]any:
		resolveEnvRefs(val)
		return val
	case []any:
		for i := range val {
			val[i] = resolveValue(val[i])
		}
		return val
	}
	return v
}
