package sorter

import "strings"

// StatementKind identifies which of the recognized import-like forms a
// line uses. The declared order is the sort order within a section.
type StatementKind int

const (
	KindRequire         StatementKind = iota // require 'path'
	KindRequireRelative                      // require_relative 'path'
	KindInclude                              // include Constant
	KindExtend                               // extend Constant
	KindAutoload                             // autoload :Symbol, 'path'
	KindUsing                                // using Constant
)

// String returns the Ruby keyword for the kind.
func (k StatementKind) String() string {
	switch k {
	case KindRequire:
		return "require"
	case KindRequireRelative:
		return "require_relative"
	case KindInclude:
		return "include"
	case KindExtend:
		return "extend"
	case KindAutoload:
		return "autoload"
	case KindUsing:
		return "using"
	}
	return "unknown"
}

// Section represents the ordered group a statement is sorted into
type Section int

const (
	StdSection        Section = iota // Ruby standard library
	ThirdPartySection                // installed gems
	FirstPartySection                // application constants and autoloads
	LocalSection                     // require_relative loads
)

// String returns a short label for the section.
func (s Section) String() string {
	switch s {
	case StdSection:
		return "stdlib"
	case ThirdPartySection:
		return "thirdparty"
	case FirstPartySection:
		return "firstparty"
	case LocalSection:
		return "localfolder"
	}
	return "unknown"
}

// Statement is the normalized view of one import-like line.
type Statement struct {
	Raw     string        // exact original line, indentation and inline comment included
	Indent  string        // literal leading whitespace of Raw
	Kind    StatementKind // which recognized form the line uses
	Section Section       // ordered group the statement sorts into
	Name    string        // extracted require path, mixin constant, or autoload symbol
	SortKey string        // trimmed line with the keyword stripped, alphabetic tiebreak
	Key     string        // dedup identity: "<kind>:<name>"
	Leading []string      // attached comment lines; "" marks a swallowed blank
	Skip    bool          // line carries a skip directive, keep near its original slot
}

// newStatement builds a Statement from a raw line and the fields the
// classifier extracted from it.
func newStatement(raw string, p parsed, sections *sectionClassifier) Statement {
	trimmed := strings.TrimLeft(raw, " \t")
	indent := raw[:len(raw)-len(trimmed)]
	keyword := p.kind.String()
	sortKey := strings.TrimLeft(strings.TrimPrefix(trimmed, keyword), " \t")
	return Statement{
		Raw:     raw,
		Indent:  indent,
		Kind:    p.kind,
		Section: sections.classify(p.kind, p.name),
		Name:    p.name,
		SortKey: sortKey,
		Key:     keyword + ":" + p.name,
		Leading: nil,
		Skip:    hasLineSkip(raw),
	}
}

// Block is a maximal contiguous run of import statements at one
// indentation level, with its original line span.
type Block struct {
	Statements []Statement
	Indent     string   // shared indentation of the block's statements
	Start      int      // first original line of the span, 0-based inclusive
	End        int      // last original line of the span, 0-based inclusive
	Leading    []string // pass-through lines preceding the first statement
}
