package sorter

import "strings"

// heredocMarker is one pending heredoc terminator. Ruby allows several
// openers on one line; their bodies follow in opener order.
type heredocMarker struct {
	delim    string
	indented bool // <<~ or <<-: the terminator may be indented
}

// scanHeredocOpeners returns the heredoc markers opened on a code line,
// in source order. Openers are recognized only outside quoted spans and
// outside trailing comments, and only with conventional uppercase
// delimiters like <<~RUBY or <<-'EOS'.
func scanHeredocOpeners(line string) []heredocMarker {
	var markers []heredocMarker
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
		case inSingle || inDouble || inBacktick:
			// quoted text, keep scanning
		case ch == '#':
			return markers
		case ch == '<' && i+1 < len(line) && line[i+1] == '<':
			if m, width, ok := parseHeredocToken(line, i); ok {
				markers = append(markers, m)
				i += width - 1
			} else {
				i++
			}
		}
	}
	return markers
}

// parseHeredocToken parses one candidate opener starting at the first
// '<' of "<<". It returns the marker, the token width in bytes, and
// whether the token really is a heredoc opener rather than a shift or
// comparison operator.
func parseHeredocToken(line string, i int) (heredocMarker, int, bool) {
	j := i + 2
	indented := false
	if j < len(line) && (line[j] == '~' || line[j] == '-') {
		indented = true
		j++
	}
	var quote byte
	if j < len(line) && (line[j] == '\'' || line[j] == '"' || line[j] == '`') {
		quote = line[j]
		j++
	}
	start := j
	for j < len(line) && isDelimChar(line[j]) {
		j++
	}
	if start == j || !isDelimStart(line[start]) {
		return heredocMarker{}, 0, false
	}
	delim := line[start:j]
	if quote != 0 {
		if j >= len(line) || line[j] != quote {
			return heredocMarker{}, 0, false
		}
		j++
	}
	return heredocMarker{delim: delim, indented: indented}, j - i, true
}

func isDelimStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDelimChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}

// terminatedBy reports whether the line closes this heredoc. Squiggly
// and dash heredocs accept an indented terminator; the plain form wants
// the delimiter at column zero.
func (h heredocMarker) terminatedBy(line string) bool {
	if h.indented {
		return strings.TrimSpace(line) == h.delim
	}
	return strings.TrimRight(line, " \t\r\n") == h.delim
}
