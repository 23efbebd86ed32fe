// Package config loads project-level settings from a TOML file
// discovered near the sources being sorted.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/errors"
)

// FileName is the project configuration file looked up next to, or
// above, the paths being processed.
const FileName = ".ruby-imports-sort.toml"

// Config mirrors the TOML file. Zero values mean "not set" and leave
// the built-in behavior alone.
type Config struct {
	// StdlibModules lists extra require paths treated as standard
	// library, on top of the built-in table.
	StdlibModules []string `toml:"stdlib_modules"`

	// StdlibMixins lists extra mixin constants treated as standard
	// library.
	StdlibMixins []string `toml:"stdlib_mixins"`

	// Safe turns on syntax-checked rewrites.
	Safe bool `toml:"safe"`

	// Ruby names the interpreter binary used for syntax checks.
	Ruby string `toml:"ruby"`

	// Jobs caps how many files are processed concurrently.
	Jobs int `toml:"jobs"`
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToLoadConfig, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToLoadConfig, err)
	}
	return &cfg, nil
}

// Discover walks from start upward looking for the configuration file
// and returns its path, or the empty string when no ancestor has one.
func Discover(start string) string {
	dir := start
	if !filepath.IsAbs(dir) {
		if wd, err := os.Getwd(); err == nil {
			dir = filepath.Join(wd, dir)
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	iterations := 0
	maxIterations := 20 // Prevent infinite loop

	for iterations < maxIterations {
		iterations++

		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
