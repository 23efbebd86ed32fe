package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// IsRubyFile checks if a file is a Ruby source file. Besides the .rb
// and .rake extensions this covers the conventional extensionless
// project files.
func IsRubyFile(filename string) bool {
	if strings.HasSuffix(filename, ".rb") || strings.HasSuffix(filename, ".rake") {
		return true
	}
	base := filepath.Base(filename)
	return base == "Rakefile" || base == "Gemfile"
}

// FindRubyFiles recursively finds all Ruby source files in a directory
func FindRubyFiles(root string) ([]string, error) {
	var rubyFiles []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip vendor directories and hidden directories (but not the root directory)
		if info.IsDir() && path != root {
			name := filepath.Base(path)
			if name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && IsRubyFile(filepath.Base(path)) {
			rubyFiles = append(rubyFiles, path)
		}

		return nil
	})

	return rubyFiles, err
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
