// Package stdlib provides the curated Ruby standard-library name tables
// used for section classification. The tables are versioned configuration
// data embedded at build time, not logic: membership is a lexical check
// with no gem resolution behind it.
package stdlib

import (
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed modules.yaml
var modulesYAML []byte

// Table answers whether a require path or a mixin constant belongs to the
// Ruby standard library. The zero value matches nothing; use Default or
// Parse.
type Table struct {
	modules map[string]bool
	mixins  map[string]bool
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded modules.yaml.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(modulesYAML)
		if err != nil {
			// unreachable unless the embedded data is broken
			panic(fmt.Sprintf("stdlib: invalid embedded modules.yaml: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse builds a Table from YAML data with top-level "modules" and
// "mixins" string lists.
func Parse(data []byte) (*Table, error) {
	var doc struct {
		Modules []string `yaml:"modules"`
		Mixins  []string `yaml:"mixins"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stdlib tables: %w", err)
	}
	t := &Table{
		modules: make(map[string]bool, len(doc.Modules)),
		mixins:  make(map[string]bool, len(doc.Mixins)),
	}
	for _, m := range doc.Modules {
		if m = strings.TrimSpace(m); m != "" {
			t.modules[m] = true
		}
	}
	for _, m := range doc.Mixins {
		if m = strings.TrimSpace(m); m != "" {
			t.mixins[m] = true
		}
	}
	return t, nil
}

// WithExtra returns a copy of the table extended with additional module
// paths and mixin constants. The receiver is left unchanged.
func (t *Table) WithExtra(modules, mixins []string) *Table {
	out := &Table{
		modules: make(map[string]bool, len(t.modules)+len(modules)),
		mixins:  make(map[string]bool, len(t.mixins)+len(mixins)),
	}
	for m := range t.modules {
		out.modules[m] = true
	}
	for m := range t.mixins {
		out.mixins[m] = true
	}
	for _, m := range modules {
		if m = strings.TrimSpace(m); m != "" {
			out.modules[m] = true
		}
	}
	for _, m := range mixins {
		if m = strings.TrimSpace(m); m != "" {
			out.mixins[m] = true
		}
	}
	return out
}

// IsStandardModule reports whether the require path is a standard-library
// module. An entry covers its submodules at a '/' boundary, so "yaml"
// covers "yaml/store".
func (t *Table) IsStandardModule(path string) bool {
	if path == "" {
		return false
	}
	if t.modules[path] {
		return true
	}
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == '/' && t.modules[path[:i]] {
			return true
		}
	}
	return false
}

// IsStandardMixin reports whether the constant names a standard-library
// module usable with include/extend/using. An entry covers its nested
// constants at a '::' boundary, so "DRb" covers "DRb::DRbUndumped".
func (t *Table) IsStandardMixin(name string) bool {
	if name == "" {
		return false
	}
	if t.mixins[name] {
		return true
	}
	for i := len(name) - 2; i > 0; i-- {
		if name[i] == ':' && name[i+1] == ':' && t.mixins[name[:i]] {
			return true
		}
	}
	return false
}

// Len reports the table sizes, mostly for diagnostics.
func (t *Table) Len() (modules, mixins int) {
	return len(t.modules), len(t.mixins)
}
