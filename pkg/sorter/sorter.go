// Package sorter rewrites the import sections of Ruby source files. It
// groups require, require_relative, include, extend, autoload, and
// using statements into deterministic sections while leaving every
// other line of the file untouched.
package sorter

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/diffview"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/stdlib"
	"github.com/siyuan-infoblox/ruby-imports-sort/pkg/syntax"
)

// skipFileWindow is how many leading lines are searched for the
// file-level skip directive.
const skipFileWindow = 50

// Config holds the configuration for the sorter
type Config struct {
	// Table overrides the standard library tables used for section
	// classification. Nil means the built-in tables.
	Table *stdlib.Table

	// Safe brackets every rewrite with a syntax check of the original
	// and of the result, refusing to write when either fails.
	Safe bool

	// Checker validates syntax in safe mode. Nil means the ruby binary
	// from PATH.
	Checker syntax.Checker
}

// Result reports what processing did to a file.
type Result int

const (
	Unchanged Result = iota
	Changed
	Skipped
)

// String returns a short label for the result.
func (r Result) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// sorter handles the import sorting
type sorter struct {
	config   Config
	sections *sectionClassifier
}

// New creates a new sorter instance
func New(config Config) *sorter {
	return &sorter{
		config:   config,
		sections: newSectionClassifier(config.Table),
	}
}

func (s *sorter) checker() syntax.Checker {
	if s.config.Checker == nil {
		return syntax.DefaultRuby()
	}
	return s.config.Checker
}

// Source rewrites one file's content and reports the outcome. The input
// is never mutated; on Unchanged and Skipped the returned bytes are the
// input bytes.
func (s *sorter) Source(src []byte) ([]byte, Result, error) {
	if !utf8.Valid(src) {
		return nil, Unchanged, errors.ErrInvalidEncoding
	}
	text := string(src)
	lines := strings.Split(text, "\n")
	if fileSkipped(lines) {
		return src, Skipped, nil
	}
	if s.config.Safe {
		if err := s.checkSource(src, errors.ErrPreexistingSyntax); err != nil {
			return nil, Unchanged, err
		}
	}
	blocks := scanBlocks(lines, s.sections)
	for _, b := range blocks {
		b.sortAndDedupe()
	}
	result := reconstruct(text, lines, blocks)
	if result == text {
		return src, Unchanged, nil
	}
	out := []byte(result)
	if s.config.Safe {
		if err := s.checkSource(out, errors.ErrIntroducedSyntax); err != nil {
			return nil, Unchanged, err
		}
	}
	return out, Changed, nil
}

// checkSource runs the syntax checker and folds its two failure modes
// into the given sentinel. A checker that cannot run at all fails the
// rewrite rather than letting an unverified result through.
func (s *sorter) checkSource(src []byte, sentinel error) error {
	msg, err := s.checker().CheckSyntax(src)
	if err != nil {
		return fmt.Errorf("%s: %w", errors.ErrMsgSyntaxCheckFailed, err)
	}
	if msg != "" {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return nil
}

// fileSkipped looks for the file-level skip directive near the top of
// the file.
func fileSkipped(lines []string) bool {
	limit := len(lines)
	if limit > skipFileWindow {
		limit = skipFileWindow
	}
	for _, line := range lines[:limit] {
		if hasFileSkip(line) {
			return true
		}
	}
	return false
}

// Process rewrites path in place. Unchanged and skipped files are left
// untouched on disk.
func (s *sorter) Process(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Unchanged, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	out, res, err := s.Source(src)
	if err != nil {
		return Unchanged, err
	}
	if res != Changed {
		return res, nil
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return Unchanged, fmt.Errorf("%s: %w", errors.ErrMsgFailedToWriteFile, err)
	}
	return Changed, nil
}

// CheckOnly reports whether path would change, without writing.
func (s *sorter) CheckOnly(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Unchanged, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	_, res, err := s.Source(src)
	return res, err
}

// DiffPreview returns a unified diff of the rewrite path would receive,
// without writing. The diff is empty when nothing would change.
func (s *sorter) DiffPreview(path string) (string, Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", Unchanged, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	out, res, err := s.Source(src)
	if err != nil || res != Changed {
		return "", res, err
	}
	diff, err := diffview.Unified(path, src, out)
	if err != nil {
		return "", Unchanged, err
	}
	return diff, Changed, nil
}
