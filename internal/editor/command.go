package editor

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/oolong/internal/buffer"
	"github.com/willibrandon/oolong/internal/logger"
)

// execute runs an ex-style command line and returns tea.Quit when the
// command ends the session. The line is recorded in the command
// history before interpretation, so mistyped commands can be recalled
// and fixed.
func (m *Model) execute(cmdline string) tea.Cmd {
	if cmdline == "" {
		return nil
	}
	m.hist.Record(cmdline)
	logger.Debug("Executing command", "command", cmdline)

	verb, arg, _ := strings.Cut(cmdline, " ")
	switch {
	case verb == "q" && arg == "":
		if m.buf.Dirty() > 0 {
			m.setDanger("unsaved changes, use q! to force")
			return nil
		}
		m.quitting = true
		return tea.Quit

	case verb == "q!" && arg == "":
		m.quitting = true
		return tea.Quit

	case verb == "w":
		m.save(arg)
		return nil

	case verb == "wq":
		if m.save(arg) {
			m.quitting = true
			return tea.Quit
		}
		return nil

	default:
		m.setDanger(fmt.Sprintf("unknown command '%s'", cmdline))
		return nil
	}
}

// save writes the buffer to disk, rebinding it to a new name first
// when one is given. It reports whether the write succeeded; on
// failure the buffer stays dirty and a danger message carries the
// underlying error.
func (m *Model) save(name string) bool {
	if name != "" {
		m.buf.SetFilename(name)
	}
	n, err := m.buf.Save(m.cfg.Editor.Backup)
	if err != nil {
		if errors.Is(err, buffer.ErrNoFilename) {
			m.setDanger("no file name specified")
		} else {
			m.setDanger(fmt.Sprintf("write failed: %v", err))
			logger.Error("Write failed", "path", m.buf.Filename(), "error", err)
		}
		return false
	}
	m.setMessage(fmt.Sprintf("%q %dL, %dB written", m.buf.Filename(), m.buf.LineCount(), n))
	return true
}
