package sorter

import "strings"

// reconstruct merges the sorted blocks back into the original line
// sequence. Text outside blocks passes through verbatim, except that an
// all-blank gap between two blocks collapses to a single empty line.
// Files without any block come back byte-identical.
func reconstruct(src string, lines []string, blocks []*Block) string {
	if len(blocks) == 0 {
		return src
	}
	out := make([]string, 0, len(lines))
	prevEnd := -1
	for i, b := range blocks {
		gap := lines[prevEnd+1 : b.Start]
		if len(gap) > 0 {
			if i > 0 && allBlank(gap) {
				out = append(out, "")
			} else {
				out = append(out, gap...)
			}
		}
		out = append(out, b.render()...)
		prevEnd = b.End
	}
	out = append(out, lines[prevEnd+1:]...)

	text := strings.TrimRight(strings.Join(out, "\n"), " \t\r\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}

func allBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
