// Package diffview renders unified diffs of proposed rewrites.
package diffview

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"
)

const contextLines = 3

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	hunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Unified builds a unified diff between the original and rewritten
// contents of path.
func Unified(path string, before, after []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// Colorize styles a unified diff line by line for terminal display.
func Colorize(diff string) string {
	lines := strings.Split(diff, "\n")
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			sb.WriteString(headerStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			sb.WriteString(hunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(deleteStyle.Render(line))
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}

// ColorEnabled reports whether colored output makes sense for the
// process: stdout is a terminal and NO_COLOR is unset.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
