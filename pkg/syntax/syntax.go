// Package syntax validates Ruby source by delegating to an interpreter.
// The sorter uses it in safe mode to refuse rewrites it cannot prove
// harmless.
package syntax

import (
	"bytes"
	stderrors "errors"
	"os/exec"
	"strings"
)

// Checker validates Ruby source text.
type Checker interface {
	// IsValid reports whether the source parses. A non-nil error means
	// the checker itself could not run, not that the source is bad.
	IsValid(src []byte) (bool, error)

	// CheckSyntax returns the interpreter's diagnostic for invalid
	// source, or the empty string when the source parses.
	CheckSyntax(src []byte) (string, error)
}

// RubyChecker shells out to a Ruby interpreter with -c, feeding the
// source on stdin so nothing touches the filesystem.
type RubyChecker struct {
	// Bin is the interpreter to invoke. Empty means "ruby" from PATH.
	Bin string
}

// DefaultRuby returns a checker over the ruby binary on PATH.
func DefaultRuby() *RubyChecker {
	return &RubyChecker{Bin: "ruby"}
}

func (c *RubyChecker) bin() string {
	if c.Bin == "" {
		return "ruby"
	}
	return c.Bin
}

// CheckSyntax runs `ruby -c -` over the source. A missing or broken
// interpreter surfaces as an error so safe mode can fail closed.
func (c *RubyChecker) CheckSyntax(src []byte) (string, error) {
	cmd := exec.Command(c.bin(), "-c", "-")
	cmd.Stdin = bytes.NewReader(src)
	var stderr bytes.Buffer
	cmd.Stdout = &bytes.Buffer{}
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return "", nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "syntax error"
		}
		return msg, nil
	}
	return "", err
}

// IsValid reports whether the source parses.
func (c *RubyChecker) IsValid(src []byte) (bool, error) {
	msg, err := c.CheckSyntax(src)
	if err != nil {
		return false, err
	}
	return msg == "", nil
}
