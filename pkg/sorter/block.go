package sorter

import (
	"math"
	"slices"
	"sort"
	"strings"
)

// sortAndDedupe reorders the block's statements by section, then kind,
// then the keyword-stripped text, dropping duplicate identities. Skip
// statements keep a slot near their original position.
func (b *Block) sortAndDedupe() {
	n := len(b.Statements)
	if n == 0 {
		return
	}

	type pinned struct {
		stmt    Statement
		origIdx int
	}
	var pins []pinned
	var sortable []Statement
	for i, s := range b.Statements {
		if s.Skip {
			pins = append(pins, pinned{stmt: s, origIdx: i})
		} else {
			sortable = append(sortable, s)
		}
	}

	sort.SliceStable(sortable, func(i, j int) bool {
		a, c := sortable[i], sortable[j]
		if a.Section != c.Section {
			return a.Section < c.Section
		}
		if a.Kind != c.Kind {
			return a.Kind < c.Kind
		}
		return a.SortKey < c.SortKey
	})

	// pinned identities win: a sortable duplicate of a pinned line drops
	seen := make(map[string]bool, n)
	for _, p := range pins {
		seen[p.stmt.Key] = true
	}
	result := make([]Statement, 0, len(sortable))
	for _, s := range sortable {
		if seen[s.Key] {
			continue
		}
		seen[s.Key] = true
		result = append(result, s)
	}

	// reinsert pins by scaling their original index onto the growing
	// result, in ascending original order so earlier pins keep earlier
	// slots
	denom := n - 1
	if denom < 1 {
		denom = 1
	}
	for k, p := range pins {
		size := len(result)
		pos := int(math.Round(float64(p.origIdx) / float64(denom) * float64(size+k)))
		if pos < 0 {
			pos = 0
		}
		if pos > size {
			pos = size
		}
		result = slices.Insert(result, pos, p.stmt)
	}
	b.Statements = result
}

// render emits the block's final lines: the leading pass-through text,
// then each statement behind its separator and attached comments.
func (b *Block) render() []string {
	out := make([]string, 0, b.End-b.Start+1)
	out = append(out, b.Leading...)
	for i, s := range b.Statements {
		if b.needsSeparator(i) && !endsBlank(out) {
			out = append(out, b.Indent)
		}
		for _, c := range s.Leading {
			if strings.TrimSpace(c) != "" {
				out = append(out, c)
			}
		}
		out = append(out, s.Raw)
	}
	return out
}

// needsSeparator decides whether one blank line goes before statement i:
// on a section change, on a kind change, or when the statement swallowed
// a blank of its own.
func (b *Block) needsSeparator(i int) bool {
	s := b.Statements[i]
	for _, c := range s.Leading {
		if strings.TrimSpace(c) == "" {
			return true
		}
	}
	if i == 0 {
		return false
	}
	prev := b.Statements[i-1]
	return s.Section != prev.Section || s.Kind != prev.Kind
}

func endsBlank(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	return strings.TrimSpace(lines[len(lines)-1]) == ""
}
