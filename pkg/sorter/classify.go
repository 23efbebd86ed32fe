package sorter

import (
	"regexp"
	"strings"
)

// lineKind is the classifier's verdict on one raw source line.
type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineShebang
	lineMagicComment
	lineImport
	lineCode
)

// parsed holds the fields extracted from an import-like line.
type parsed struct {
	kind StatementKind
	name string
}

// classification is what the classifier learned about one line.
type classification struct {
	kind lineKind
	stmt parsed // meaningful only when kind == lineImport
}

// rubyConst matches a capitalized constant path like Foo or Foo::Bar.
const rubyConst = `[A-Z][A-Za-z0-9_]*(?:::[A-Z][A-Za-z0-9_]*)*`

var (
	// Import forms, anchored after indentation. Each keyword accepts the
	// bare call and the parenthesized call.
	requireRe         = regexp.MustCompile(`^require(?:\s*\(\s*|\s+)['"]([^'"]+)['"]`)
	requireRelativeRe = regexp.MustCompile(`^require_relative(?:\s*\(\s*|\s+)['"]([^'"]+)['"]`)
	includeRe         = regexp.MustCompile(`^include(?:\s*\(\s*|\s+)(` + rubyConst + `)`)
	extendRe          = regexp.MustCompile(`^extend(?:\s*\(\s*|\s+)(` + rubyConst + `)`)
	autoloadRe        = regexp.MustCompile(`^autoload(?:\s*\(\s*|\s+):([A-Za-z_][A-Za-z0-9_]*)\s*,\s*['"]([^'"]+)['"]`)
	usingRe           = regexp.MustCompile(`^using(?:\s*\(\s*|\s+)(` + rubyConst + `)`)

	// Ruby interpreter and tooling directives. Anchored at line start so
	// they only terminate blocks, never attach to statements.
	magicCommentRe = regexp.MustCompile(`^\s*#\s*(?:frozen_string_literal|encoding|coding|warn_indent|shareable_constant_value|typed)\s*:`)

	// Skip directives, matched inside comments. The word boundary keeps
	// the line form from also matching the file form.
	skipLineRe = regexp.MustCompile(`(?i)isort\s*:\s*skip\b`)
	skipFileRe = regexp.MustCompile(`(?i)isort\s*:\s*skip_file`)
)

// classifyLine assigns a kind to one raw line. lineNum is 1-based.
// Inside a heredoc body the line is passed through as plain code
// without inspection.
func classifyLine(line string, lineNum int, inHeredoc bool) classification {
	if inHeredoc {
		return classification{kind: lineCode}
	}
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return classification{kind: lineBlank}
	}
	if lineNum == 1 && strings.HasPrefix(line, "#!") {
		return classification{kind: lineShebang}
	}
	if strings.HasPrefix(trimmed, "#") {
		if magicCommentRe.MatchString(line) {
			return classification{kind: lineMagicComment}
		}
		return classification{kind: lineComment}
	}
	if p, ok := parseImport(trimmed); ok {
		return classification{kind: lineImport, stmt: p}
	}
	return classification{kind: lineCode}
}

// parseImport matches the left-trimmed line against the recognized
// import forms and extracts the identity field.
func parseImport(trimmed string) (parsed, bool) {
	// require_relative first: requireRe would never match it, but the
	// longest keyword keeps the intent obvious.
	if m := requireRelativeRe.FindStringSubmatch(trimmed); m != nil {
		return parsed{kind: KindRequireRelative, name: m[1]}, true
	}
	if m := requireRe.FindStringSubmatch(trimmed); m != nil {
		return parsed{kind: KindRequire, name: m[1]}, true
	}
	if m := includeRe.FindStringSubmatch(trimmed); m != nil {
		return parsed{kind: KindInclude, name: m[1]}, true
	}
	if m := extendRe.FindStringSubmatch(trimmed); m != nil {
		return parsed{kind: KindExtend, name: m[1]}, true
	}
	if m := autoloadRe.FindStringSubmatch(trimmed); m != nil {
		return parsed{kind: KindAutoload, name: m[1]}, true
	}
	if m := usingRe.FindStringSubmatch(trimmed); m != nil {
		return parsed{kind: KindUsing, name: m[1]}, true
	}
	return parsed{}, false
}

// commentStart returns the byte offset of the first '#' outside single,
// double, or backtick quoted spans, or -1 if the line has no comment.
func commentStart(line string) int {
	var inSingle, inDouble, inBacktick, escaped bool
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && (inSingle || inDouble || inBacktick):
			escaped = true
		case ch == '\'' && !inDouble && !inBacktick:
			inSingle = !inSingle
		case ch == '"' && !inSingle && !inBacktick:
			inDouble = !inDouble
		case ch == '`' && !inSingle && !inDouble:
			inBacktick = !inBacktick
		case ch == '#' && !inSingle && !inDouble && !inBacktick:
			return i
		}
	}
	return -1
}

// hasLineSkip reports whether the line's trailing comment carries the
// line-level skip directive.
func hasLineSkip(line string) bool {
	hash := commentStart(line)
	if hash < 0 {
		return false
	}
	return skipLineRe.MatchString(line[hash:])
}

// hasFileSkip reports whether the line carries the file-level skip
// directive.
func hasFileSkip(line string) bool {
	hash := commentStart(line)
	if hash < 0 {
		return false
	}
	return skipFileRe.MatchString(line[hash:])
}
