package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"

	"github.com/willibrandon/oolong/internal/logger"
)

// View implements tea.Model. It draws the text area, the status bar,
// and the message line, and records the frame time.
func (m *Model) View() string {
	start := time.Now()
	defer func() { m.frames.Record(time.Since(start)) }()

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sb strings.Builder
	m.renderRows(&sb)
	sb.WriteString(m.renderStatusBar())
	sb.WriteByte('\n')
	sb.WriteString(m.renderMessageLine())
	return sb.String()
}

func (m *Model) renderRows(sb *strings.Builder) {
	banner := m.bannerLines()
	bannerTop := m.textHeight / 2

	for y := 0; y < m.textHeight; y++ {
		fileRow := y + m.rowOffset
		switch {
		case fileRow < m.buf.LineCount():
			sb.WriteString(m.renderRow(fileRow))
		case banner != nil && y >= bannerTop && y < bannerTop+len(banner):
			sb.WriteString(banner[y-bannerTop])
		default:
			sb.WriteString(tildeStyle.Render("~"))
		}
		sb.WriteByte('\n')
	}
}

// renderRow clips one buffer line to the viewport and, when the cursor
// sits on it, restyles the cursor cell.
func (m *Model) renderRow(fileRow int) string {
	line := m.buf.Rendered(fileRow)
	if m.colOffset >= ansi.StringWidth(line) {
		line = ""
	} else {
		line = ansi.TruncateLeft(line, m.colOffset, "")
	}
	line = ansi.Truncate(line, m.width, "")

	if fileRow == m.cursor.Row && m.mode != ModeCommand {
		style := cursorStyle
		if m.mode == ModeInsert {
			style = insertCursorStyle
		}
		line = styleCell(line, m.rx-m.colOffset, style)
	}
	return line
}

// bannerLines builds the centered welcome banner shown while the
// buffer is a single empty line. Narrow viewports wrap it.
func (m *Model) bannerLines() []string {
	if m.buf.LineCount() != 1 || m.buf.LineLen(0) != 0 {
		return nil
	}
	text := fmt.Sprintf("Oolong editor -- version %s", m.version)
	wrapWidth := m.width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	lines := strings.Split(wordwrap.WrapString(text, uint(wrapWidth)), "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		pad := (m.width - runewidth.StringWidth(l)) / 2
		if pad < 1 {
			pad = 1
		}
		out[i] = tildeStyle.Render("~") + strings.Repeat(" ", pad-1) + bannerStyle.Render(l)
	}
	return out
}

// renderStatusBar draws the reverse-video status line: file name,
// dirty marker, line count, and on-disk size on the left, the cursor
// position on the right. Debug runs append frame and log counters.
func (m *Model) renderStatusBar() string {
	name := m.buf.Filename()
	if name == "" {
		name = "No name"
	} else {
		name = fmt.Sprintf("%q", name)
	}
	dirty := ""
	if m.buf.Dirty() > 0 {
		dirty = " [+]"
	}

	left := fmt.Sprintf(" %s%s | %d lines | %s", name, dirty,
		m.buf.LineCount(), humanize.Bytes(uint64(m.buf.DiskSize())))
	if logger.IsDebugEnabled() {
		left += fmt.Sprintf(" | frame %.1fms", m.frames.AverageMs())
		if warnCount, errCount := logger.GetCounts(); warnCount > 0 || errCount > 0 {
			left += fmt.Sprintf(" | ⚠ %d ✕ %d", warnCount, errCount)
		}
	}

	right := fmt.Sprintf(" %d:%d/%d ", m.cursor.Row+1, m.cursor.Col+1, m.rx+1)

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}
	return statusBarStyle.Render(ansi.Truncate(left+strings.Repeat(" ", pad)+right, m.width, ""))
}

// renderMessageLine draws the bottom line: the command being edited in
// command mode, otherwise the latest command result or mode message.
// Command results take priority over the mode message.
func (m *Model) renderMessageLine() string {
	if m.mode == ModeCommand {
		line := styleCell(":"+string(m.cmd), m.cmdx, insertCursorStyle)
		return ansi.Truncate(line, m.width, "")
	}

	msg := m.cmdMsg
	danger := m.cmdMsgDanger
	if msg == "" {
		msg = m.statusMsg
		danger = false
	}
	if msg == "" {
		return ""
	}
	msg = runewidth.Truncate(msg, m.width, "")
	switch {
	case danger:
		return dangerStyle.Render(msg)
	case msg == insertBanner:
		return modeMsgStyle.Render(msg)
	default:
		return msg
	}
}

// styleCell re-renders the rune at a cell index with the given style,
// appending a styled blank when the cursor sits past the end of the
// text.
func styleCell(s string, at int, style lipgloss.Style) string {
	if at < 0 {
		return s
	}
	runes := []rune(s)
	if at >= len(runes) {
		return s + style.Render(" ")
	}
	return string(runes[:at]) + style.Render(string(runes[at])) + string(runes[at+1:])
}
