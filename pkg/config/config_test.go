package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/errors"
)

func TestConfig_Load(t *testing.T) {
	req := require.New(t)
	tempDir, err := os.MkdirTemp("", "ris_test")
	req.NoError(err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temp dir: %v", err)
		}
	}()

	content := `stdlib_modules = ["acme/runtime", "acme/kernel"]
stdlib_mixins = ["Acme::Kernel"]
safe = true
ruby = "ruby3.3"
jobs = 4
`
	path := filepath.Join(tempDir, FileName)
	req.NoError(os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal([]string{"acme/runtime", "acme/kernel"}, cfg.StdlibModules)
	req.Equal([]string{"Acme::Kernel"}, cfg.StdlibMixins)
	req.True(cfg.Safe)
	req.Equal("ruby3.3", cfg.Ruby)
	req.Equal(4, cfg.Jobs)
}

func TestConfig_Load_errors(t *testing.T) {
	req := require.New(t)
	tempDir, err := os.MkdirTemp("", "ris_test")
	req.NoError(err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temp dir: %v", err)
		}
	}()

	_, err = Load(filepath.Join(tempDir, "missing.toml"))
	req.Error(err)
	req.Contains(err.Error(), errors.ErrMsgFailedToLoadConfig)

	bad := filepath.Join(tempDir, "bad.toml")
	req.NoError(os.WriteFile(bad, []byte("jobs = [not toml"), 0644))
	_, err = Load(bad)
	req.Error(err)
	req.Contains(err.Error(), errors.ErrMsgFailedToLoadConfig)
}

func TestConfig_Discover(t *testing.T) {
	req := require.New(t)
	tempDir, err := os.MkdirTemp("", "ris_test")
	req.NoError(err)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			t.Logf("Failed to remove temp dir: %v", err)
		}
	}()

	planted := filepath.Join(tempDir, FileName)
	req.NoError(os.WriteFile(planted, []byte("safe = true\n"), 0644))

	subDir := filepath.Join(tempDir, "lib", "services")
	req.NoError(os.MkdirAll(subDir, 0755))
	rubyFile := filepath.Join(subDir, "api.rb")
	req.NoError(os.WriteFile(rubyFile, []byte("require 'json'\n"), 0644))

	// From a nested directory.
	req.Equal(planted, Discover(subDir))

	// From a file path the walk starts at the containing directory.
	req.Equal(planted, Discover(rubyFile))

	// From the directory holding the file itself.
	req.Equal(planted, Discover(tempDir))
}
