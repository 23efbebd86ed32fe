package sorter

// pendingLine is a comment or swallowed blank waiting to attach to the
// next import statement. Blanks carry an empty text.
type pendingLine struct {
	text string
	idx  int // 0-based original line index
}

// blockScanner folds the file's lines into import blocks in a single
// forward pass. Comments directly above a statement travel with it;
// everything else stays pass-through.
type blockScanner struct {
	sections *sectionClassifier

	blocks   []*Block
	current  *Block
	pending  []pendingLine
	blanks   int // consecutive blank lines seen inside the open block
	heredocs []heredocMarker
}

// scanBlocks runs the scanner over the file and returns the import
// blocks in source order.
func scanBlocks(lines []string, sections *sectionClassifier) []*Block {
	sc := &blockScanner{sections: sections}
	for i, line := range lines {
		sc.step(line, i)
	}
	sc.closeBlock()
	return sc.blocks
}

func (sc *blockScanner) step(line string, idx int) {
	if len(sc.heredocs) > 0 {
		if sc.heredocs[0].terminatedBy(line) {
			sc.heredocs = sc.heredocs[1:]
		}
		return
	}
	c := classifyLine(line, idx+1, false)
	switch c.kind {
	case lineShebang, lineMagicComment:
		sc.closeBlock()
		sc.resetPending()
	case lineCode:
		sc.closeBlock()
		sc.resetPending()
		sc.heredocs = append(sc.heredocs, scanHeredocOpeners(line)...)
	case lineComment:
		if sc.blanks > 0 {
			// a blank run breaks attachment: older comments float,
			// this comment starts a fresh queue
			sc.pending = []pendingLine{{text: line, idx: idx}}
			sc.blanks = 0
		} else {
			sc.pending = append(sc.pending, pendingLine{text: line, idx: idx})
		}
	case lineBlank:
		if sc.current == nil {
			sc.resetPending()
			return
		}
		sc.blanks++
		if sc.blanks >= 2 {
			// two blanks end the block, the blanks stay as separator text
			sc.closeBlock()
			sc.resetPending()
		}
	case lineImport:
		sc.addStatement(line, idx, c.stmt)
	}
}

func (sc *blockScanner) addStatement(line string, idx int, p parsed) {
	stmt := newStatement(line, p, sc.sections)
	if sc.current != nil && sc.blanks == 1 {
		// swallow the single blank: it re-renders as a separator
		sc.pending = append([]pendingLine{{text: "", idx: idx - 1}}, sc.pending...)
		sc.blanks = 0
	}
	if sc.current == nil || sc.current.Indent != stmt.Indent {
		sc.closeBlock()
		sc.current = &Block{
			Indent: stmt.Indent,
			Start:  sc.anchorStart(idx),
			End:    idx,
		}
	}
	for _, pl := range sc.pending {
		stmt.Leading = append(stmt.Leading, pl.text)
	}
	sc.resetPending()
	sc.current.Statements = append(sc.current.Statements, stmt)
	sc.current.End = idx
}

// anchorStart picks the span start for a new block: the earliest
// pending line if any, otherwise the statement's own line.
func (sc *blockScanner) anchorStart(idx int) int {
	start := idx
	for _, p := range sc.pending {
		if p.idx < start {
			start = p.idx
		}
	}
	return start
}

func (sc *blockScanner) closeBlock() {
	if sc.current != nil {
		sc.blocks = append(sc.blocks, sc.current)
		sc.current = nil
	}
	sc.blanks = 0
}

func (sc *blockScanner) resetPending() {
	sc.pending = nil
	sc.blanks = 0
}
