package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

// envFiles are loaded in order when present. Variables already set in the
// process environment win.
var envFiles = []string{".env", ".env.local"}

// Load reads a playbook, expanding ${VAR} references from the environment,
// then normalizes, fills defaults and validates it.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("playbook not found").
				WithPath(path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read playbook").
			WithPath(path).
			Build()
	}
	return Parse(data)
}

// Parse decodes playbook YAML with environment expansion.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse playbook").Build()
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(dirs ...string) {
	seen := map[string]bool{}
	for _, dir := range append([]string{"."}, dirs...) {
		for _, name := range envFiles {
			p := filepath.Join(dir, name)
			if seen[p] {
				continue
			}
			seen[p] = true
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if err := godotenv.Load(p); err != nil {
				fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", p, err)
			}
		}
	}
}
