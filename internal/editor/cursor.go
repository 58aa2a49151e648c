package editor

import "unicode"

// maxCol returns the largest legal cursor column on row for the
// current mode. Normal mode stops on the last character; insert mode
// may sit one past it.
func (m *Model) maxCol(row int) int {
	n := m.buf.LineLen(row)
	if m.mode == ModeNormal && n > 0 {
		return n - 1
	}
	return n
}

// clampCursor forces the cursor back inside the buffer after any
// mutation or motion.
func (m *Model) clampCursor() {
	last := m.buf.LineCount() - 1
	if m.cursor.Row > last {
		m.cursor.Row = last
	}
	if m.cursor.Row < 0 {
		m.cursor.Row = 0
	}
	if limit := m.maxCol(m.cursor.Row); m.cursor.Col > limit {
		m.cursor.Col = limit
	}
	if m.cursor.Col < 0 {
		m.cursor.Col = 0
	}
}

// moveCursor shifts the cursor by dx columns and dy rows, clamping at
// the buffer edges. Moving right over the cell before a tab jumps two
// columns so the cursor cannot land inside the tab's render gap.
func (m *Model) moveCursor(dx, dy int) {
	if dy != 0 {
		m.cursor.Row += dy
		m.clampCursor()
	}
	if dx > 0 {
		line := m.buf.LineRunes(m.cursor.Row)
		if m.cursor.Col+2 < len(line) && line[m.cursor.Col+2] == '\t' {
			m.cursor.Col += 2
		} else {
			m.cursor.Col++
		}
	} else if dx < 0 {
		m.cursor.Col--
	}
	m.clampCursor()
}

// gotoRow jumps to the given row, clamping both coordinates.
func (m *Model) gotoRow(row int) {
	m.cursor.Row = row
	m.clampCursor()
}

// gotoLineStart moves to the first non-whitespace character, or to
// column zero when the line is blank.
func (m *Model) gotoLineStart() {
	line := m.buf.LineRunes(m.cursor.Row)
	col := 0
	for col < len(line) && unicode.IsSpace(line[col]) {
		col++
	}
	if col >= len(line) {
		col = 0
	}
	m.cursor.Col = col
}

// gotoLineEnd moves to the line's last legal column for the current
// mode. Repeating it is a no-op.
func (m *Model) gotoLineEnd() {
	m.cursor.Col = m.maxCol(m.cursor.Row)
}

// charClass buckets runes for word motions: whitespace separates,
// word characters and punctuation form distinct runs.
type charClass int

const (
	classWhitespace charClass = iota
	classWord
	classPunct
)

func classify(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classWord
	default:
		return classPunct
	}
}

// nextWord advances to the start of the next word, or with toEnd to
// the last character of that word. A scan that runs off the end of a
// line wraps to the start of the next one and keeps going there,
// saturating on the last line.
func (m *Model) nextWord(toEnd bool) {
	line := m.buf.LineRunes(m.cursor.Row)
	col := m.cursor.Col

	wrapped := false
	if len(line) == 0 || col >= len(line)-1 {
		if !m.wrapToNextLine() {
			return
		}
		wrapped = true
	} else {
		if cls := classify(line[col]); cls != classWhitespace {
			for col < len(line) && classify(line[col]) == cls {
				col++
			}
		}
		for col < len(line) && classify(line[col]) == classWhitespace {
			col++
		}
		if col >= len(line) {
			if !m.wrapToNextLine() {
				m.cursor.Col = len(line) - 1
				return
			}
			wrapped = true
		}
	}

	if wrapped {
		line = m.buf.LineRunes(m.cursor.Row)
		col = 0
		if !toEnd {
			return
		}
		for col < len(line) && classify(line[col]) == classWhitespace {
			col++
		}
		if col >= len(line) {
			return
		}
	}

	if toEnd {
		cls := classify(line[col])
		for col < len(line) && classify(line[col]) == cls {
			col++
		}
		col--
	}
	m.cursor.Col = col
}

// wrapToNextLine drops the cursor to column zero of the row below,
// reporting whether there was one.
func (m *Model) wrapToNextLine() bool {
	if m.cursor.Row >= m.buf.LineCount()-1 {
		return false
	}
	m.cursor.Row++
	m.cursor.Col = 0
	return true
}

// prevWord moves back to the previous word boundary, or with toStart
// to that word's first character. At the start of a line it climbs to
// the end of the previous one, saturating at the origin.
func (m *Model) prevWord(toStart bool) {
	if m.cursor.Col == 0 {
		if m.cursor.Row > 0 {
			m.cursor.Row--
			if n := m.buf.LineLen(m.cursor.Row); n > 0 {
				m.cursor.Col = n - 1
			}
		}
		return
	}

	line := m.buf.LineRunes(m.cursor.Row)
	pos := m.cursor.Col

	if cls := classify(line[pos]); cls != classWhitespace {
		for pos > 0 && classify(line[pos-1]) == cls {
			pos--
		}
	}
	if pos == m.cursor.Col {
		pos--
		for pos > 0 && classify(line[pos]) == classWhitespace {
			pos--
		}
	}
	if toStart {
		if cls := classify(line[pos]); cls != classWhitespace {
			for pos > 0 && classify(line[pos-1]) == cls {
				pos--
			}
		}
	}
	m.cursor.Col = pos
}

// scroll recomputes the rendered cursor column and slides the viewport
// offsets the minimum distance needed to keep the cursor visible. A
// tab in column zero pulls the cursor to column one so it never sits
// inside the tab's render gap.
func (m *Model) scroll() {
	if m.cursor.Col == 0 {
		if line := m.buf.LineRunes(m.cursor.Row); len(line) > 0 && line[0] == '\t' {
			m.cursor.Col = 1
		}
	}
	m.rx = m.buf.RenderCol(m.cursor.Row, m.cursor.Col)

	if m.cursor.Row < m.rowOffset {
		m.rowOffset = m.cursor.Row
	}
	if m.textHeight > 0 && m.cursor.Row >= m.rowOffset+m.textHeight {
		m.rowOffset = m.cursor.Row - m.textHeight + 1
	}
	if m.rx < m.colOffset {
		m.colOffset = m.rx
	}
	if m.width > 0 && m.rx >= m.colOffset+m.width {
		m.colOffset = m.rx - m.width + 1
	}
}

// moveCmdCursor shifts the command-line cursor, clamping to the
// editable range. Column one sits on the first command character and
// len+1 is the append position.
func (m *Model) moveCmdCursor(dx int) {
	m.cmdx += dx
	if m.cmdx < 1 {
		m.cmdx = 1
	}
	if m.cmdx > len(m.cmd)+1 {
		m.cmdx = len(m.cmd) + 1
	}
}
