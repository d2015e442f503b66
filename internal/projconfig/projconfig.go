// Package projconfig loads ember's TOML settings: a project-level
// `<repo>/.ember/config.toml` that inherits from a user-global config
// file at a platform-conventional path. Two-tier precedence, user-global
// overridden by project, parsed with github.com/pelletier/go-toml/v2.
package projconfig

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/emberindex/ember/internal/errs"
)

// SearchConfig configures hybrid search tuning.
type SearchConfig struct {
	TopK        int `toml:"top_k"`
	RRFConstant int `toml:"rrf_constant"`
}

// ChunkConfig configures chunking tuning.
type ChunkConfig struct {
	MaxTokens     int `toml:"max_tokens"`
	OverlapTokens int `toml:"overlap_tokens"`
}

// Config is ember's on-disk settings, loaded from `config.toml`.
type Config struct {
	Search SearchConfig `toml:"search"`
	Chunk  ChunkConfig  `toml:"chunk"`
}

// Default returns the hardcoded baseline configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{TopK: 10, RRFConstant: 60},
		Chunk:  ChunkConfig{MaxTokens: 512, OverlapTokens: 64},
	}
}

// FileName is the config file's name under the index directory.
const FileName = "config.toml"

// UserConfigPath returns the platform-conventional path for the
// user-global config file, falling back to a temp-dir path if the
// platform's config directory cannot be determined.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), ".config")
	}
	return filepath.Join(dir, "ember", FileName)
}

// Load builds the effective configuration for a repository: hardcoded
// defaults, overridden by the user-global config (if present),
// overridden by `<indexDir>/config.toml` (if present).
func Load(indexDir string) (Config, error) {
	cfg := Default()

	if err := mergeFile(&cfg, UserConfigPath()); err != nil {
		return cfg, err
	}
	if err := mergeFile(&cfg, filepath.Join(indexDir, FileName)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.New(errs.PermissionError, "read config file", err).WithDetail("path", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return errs.New(errs.Unknown, "parse config file", err).WithDetail("path", path)
	}
	return nil
}

// SeedUserConfig writes the default configuration to the user-global
// path if it does not already exist. Called by `ember init` so a fresh
// project always has a user-global config to inherit from.
func SeedUserConfig() error {
	path := UserConfigPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := toml.Marshal(Default())
	if err != nil {
		return errs.New(errs.Unknown, "marshal default config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.New(errs.PermissionError, "create user config directory", err)
	}
	return os.WriteFile(path, data, 0o644)
}
