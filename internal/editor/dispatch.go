package editor

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.design/x/clipboard"
)

// updateNormal handles a key press in normal mode. An armed prefix
// (g, d, y) is resolved first; an unmatched second key clears the
// prefix and is then dispatched as an ordinary key, so it may re-arm.
func (m *Model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()

	if m.pending != 0 {
		pending := m.pending
		m.pending = 0
		switch {
		case pending == 'g' && k == "g":
			m.gotoRow(0)
			return nil
		case pending == 'g' && k == "e":
			m.prevWord(true)
			return nil
		case pending == 'd' && k == "d":
			m.deleteLine()
			return nil
		case pending == 'y' && k == "y":
			m.yankLine()
			return nil
		}
	}

	switch k {
	case "h", "left":
		m.moveCursor(-1, 0)
	case "l", "right":
		m.moveCursor(1, 0)
	case "k", "up":
		m.moveCursor(0, -1)
	case "j", "down":
		m.moveCursor(0, 1)
	case "i":
		m.enterInsert()
	case "a":
		m.enterInsert()
		if m.cursor.Col < m.buf.LineLen(m.cursor.Row) {
			m.cursor.Col++
		}
	case "I":
		m.gotoLineStart()
		m.enterInsert()
	case "A":
		m.enterInsert()
		m.gotoLineEnd()
	case "o":
		m.buf.InsertLine(m.cursor.Row+1, "")
		m.cursor.Row++
		m.cursor.Col = 0
		m.enterInsert()
	case "O":
		m.buf.InsertLine(m.cursor.Row, "")
		m.cursor.Col = 0
		m.enterInsert()
	case "x":
		m.buf.DeleteChar(m.cursor.Row, m.cursor.Col)
		m.clampCursor()
	case "0", "home":
		m.cursor.Col = 0
	case "^":
		m.gotoLineStart()
	case "$", "end":
		m.gotoLineEnd()
	case "G":
		m.gotoRow(m.buf.LineCount() - 1)
	case "w":
		m.nextWord(false)
	case "e":
		m.nextWord(true)
	case "b":
		m.prevWord(false)
	case "g", "d", "y":
		m.pending = rune(k[0])
	case "p":
		m.paste()
	case ":":
		m.enterCommand()
	}
	return nil
}

// updateInsert handles a key press in insert mode.
func (m *Model) updateInsert(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Cancel) {
		m.exitInsert()
		return nil
	}

	switch msg.String() {
	case "enter":
		m.buf.SplitLine(m.cursor.Row, m.cursor.Col)
		m.cursor.Row++
		m.cursor.Col = 0
	case "backspace":
		if m.cursor.Col > 0 {
			m.buf.DeleteChar(m.cursor.Row, m.cursor.Col-1)
			m.cursor.Col--
		} else if m.cursor.Row > 0 {
			col := m.buf.JoinWithPrevious(m.cursor.Row)
			m.cursor.Row--
			m.cursor.Col = col
		}
	case "tab":
		m.buf.InsertChar(m.cursor.Row, m.cursor.Col, '\t')
		m.cursor.Col++
	case "left":
		m.moveCursor(-1, 0)
	case "right":
		m.moveCursor(1, 0)
	case "up":
		m.moveCursor(0, -1)
	case "down":
		m.moveCursor(0, 1)
	default:
		m.insertString(keyText(msg))
	}
	return nil
}

// updateCommand handles a key press while editing an ex-style command.
func (m *Model) updateCommand(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.exitCommand()
		return nil
	case key.Matches(msg, m.keys.Submit):
		cmdline := string(m.cmd)
		m.exitCommand()
		return m.execute(cmdline)
	case key.Matches(msg, m.keys.HistoryPrev):
		if !m.hist.IsBrowsing() {
			m.cmdStash = string(m.cmd)
		}
		if prev := m.hist.Previous(); prev != "" {
			m.setCommandLine(prev)
		}
		return nil
	case key.Matches(msg, m.keys.HistoryNext):
		if !m.hist.IsBrowsing() {
			return nil
		}
		if next := m.hist.Next(); next != "" {
			m.setCommandLine(next)
		} else {
			m.setCommandLine(m.cmdStash)
		}
		return nil
	}

	switch msg.String() {
	case "backspace":
		if m.cmdx > 1 {
			m.cmd = slices.Delete(m.cmd, m.cmdx-2, m.cmdx-1)
			m.cmdx--
		}
	case "left":
		m.moveCmdCursor(-1)
	case "right":
		m.moveCmdCursor(1)
	default:
		for _, r := range keyText(msg) {
			if r == '\n' || r == '\r' {
				continue
			}
			m.cmd = slices.Insert(m.cmd, m.cmdx-1, r)
			m.cmdx++
		}
	}
	return nil
}

// keyText returns the printable text a key press carries, or "" for
// control and modified keys. Bracketed paste arrives as one multi-rune
// key.
func keyText(msg tea.KeyMsg) string {
	if msg.Alt {
		return ""
	}
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	default:
		return ""
	}
}

// setCommandLine replaces the command text and parks the cursor after
// the last character.
func (m *Model) setCommandLine(text string) {
	m.cmd = []rune(text)
	m.cmdx = len(m.cmd) + 1
}

// insertString types text at the cursor, splitting on newlines. Single
// keys and pasted runs share this path.
func (m *Model) insertString(text string) {
	if text == "" {
		return
	}
	m.buf.InsertText(m.cursor.Row, m.cursor.Col, text)
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		m.cursor.Col += utf8.RuneCountInString(text)
	} else {
		m.cursor.Row += len(parts) - 1
		m.cursor.Col = utf8.RuneCountInString(parts[len(parts)-1])
	}
}

// deleteLine removes the current line into the yank register.
func (m *Model) deleteLine() {
	m.setYank("\n" + m.buf.DeleteLine(m.cursor.Row))
	m.clampCursor()
}

// yankLine copies the current line into the yank register.
func (m *Model) yankLine() {
	line := m.buf.Raw(m.cursor.Row)
	m.setYank("\n" + line)
	m.statusMsg = fmt.Sprintf("yanked %d characters", utf8.RuneCountInString(line))
}

// setYank stores text in the yank register and mirrors it to the
// system clipboard when one is available. A leading newline marks
// line-wise text.
func (m *Model) setYank(text string) {
	m.yank = text
	if m.clipboardOK {
		clipboard.Write(clipboard.FmtText, []byte(text))
	}
}

// paste inserts the yank register after the cursor: line-wise text on
// a new line below, character-wise text after the cursor column. Text
// sitting in the system clipboard wins over the internal register.
func (m *Model) paste() {
	if m.clipboardOK {
		if data := clipboard.Read(clipboard.FmtText); len(data) > 0 {
			m.yank = string(data)
		}
	}
	if m.yank == "" {
		return
	}

	if text, ok := strings.CutPrefix(m.yank, "\n"); ok {
		at := m.cursor.Row + 1
		for i, l := range strings.Split(text, "\n") {
			m.buf.InsertLine(at+i, l)
		}
		m.cursor.Row = at
		m.gotoLineStart()
		return
	}

	at := m.cursor.Col
	if m.buf.LineLen(m.cursor.Row) > 0 {
		at++
	}
	m.buf.InsertText(m.cursor.Row, at, m.yank)
	parts := strings.Split(m.yank, "\n")
	if len(parts) == 1 {
		m.cursor.Col = at + utf8.RuneCountInString(m.yank) - 1
	} else {
		m.cursor.Row += len(parts) - 1
		m.cursor.Col = utf8.RuneCountInString(parts[len(parts)-1]) - 1
	}
	m.clampCursor()
}
