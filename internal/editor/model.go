// Package editor implements the modal editing core: a Bubble Tea model
// that owns the buffer, cursor, viewport, and mode state, and renders
// the text area with its status bar and message line.
package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.design/x/clipboard"

	"github.com/willibrandon/oolong/internal/buffer"
	"github.com/willibrandon/oolong/internal/config"
	"github.com/willibrandon/oolong/internal/history"
	"github.com/willibrandon/oolong/internal/logger"
	"github.com/willibrandon/oolong/internal/metrics"
)

// Mode identifies the editing mode. The set is closed: every dispatch
// site switches exhaustively over these three values.
type Mode int

const (
	// ModeNormal interprets keys as motions and operators.
	ModeNormal Mode = iota
	// ModeInsert inserts typed characters into the buffer.
	ModeInsert
	// ModeCommand edits an ex-style command on the message line.
	ModeCommand
)

// String returns the conventional upper-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

const insertBanner = "-- INSERT --"

// Cursor is a buffer-space position: Row indexes lines and Col indexes
// runes within the line's raw text.
type Cursor struct {
	Row int
	Col int
}

// Model is the Bubble Tea model for the editor.
type Model struct {
	buf    *buffer.Buffer
	cfg    *config.Config
	hist   *history.Manager
	frames *metrics.FrameTimer
	keys   KeyMap

	cursor    Cursor
	rx        int // rendered column of the cursor
	rowOffset int
	colOffset int

	width      int
	height     int
	textHeight int

	mode    Mode
	pending rune // armed prefix key, 0 when none

	cmd      []rune // command line text, without the leading ':'
	cmdx     int    // command cursor, 1..len(cmd)+1
	cmdStash string // live command text parked while browsing history

	statusMsg    string
	cmdMsg       string
	cmdMsgDanger bool

	yank        string // yanked text; a leading '\n' marks a whole line
	clipboardOK bool

	version  string
	quitting bool
}

// New builds an editor model around the given buffer. The system
// clipboard is wired up best-effort; without one, yank and paste fall
// back to the internal register.
func New(buf *buffer.Buffer, cfg *config.Config, hist *history.Manager, version string) *Model {
	m := &Model{
		buf:       buf,
		cfg:       cfg,
		hist:      hist,
		frames:    metrics.NewFrameTimer(),
		keys:      DefaultKeyMap(),
		cmdx:      1,
		version:   version,
		statusMsg: "HELP: i = insert | :w = save | :q = quit | Ctrl-Q = force quit",
	}
	if err := clipboard.Init(); err != nil {
		logger.Debug("System clipboard unavailable", "error", err)
	} else {
		m.clipboardOK = true
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Every key event lands here; the
// viewport offsets are recomputed once after dispatch so rendering
// always sees a visible cursor.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textHeight = msg.Height - 2
		if m.textHeight < 1 {
			m.textHeight = 1
		}
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch m.mode {
		case ModeNormal:
			cmd = m.updateNormal(msg)
		case ModeInsert:
			cmd = m.updateInsert(msg)
		case ModeCommand:
			cmd = m.updateCommand(msg)
		}
		m.scroll()
		return m, cmd
	}
	return m, nil
}

func (m *Model) enterInsert() {
	m.mode = ModeInsert
	m.cmdMsg = ""
	m.cmdMsgDanger = false
	m.statusMsg = insertBanner
	logger.Debug("Mode change", "mode", m.mode)
}

// exitInsert returns to normal mode. The cursor steps one column left
// because insert mode's one-past-end position is not legal in normal
// mode.
func (m *Model) exitInsert() {
	m.mode = ModeNormal
	m.statusMsg = ""
	if m.cursor.Col > 0 {
		m.cursor.Col--
	}
	m.clampCursor()
	logger.Debug("Mode change", "mode", m.mode)
}

// enterCommand opens a fresh command line and clears any messages left
// over from earlier commands.
func (m *Model) enterCommand() {
	m.mode = ModeCommand
	m.cmd = m.cmd[:0]
	m.cmdx = 1
	m.cmdStash = ""
	m.statusMsg = ""
	m.cmdMsg = ""
	m.cmdMsgDanger = false
	m.hist.ResetNavigation()
	logger.Debug("Mode change", "mode", m.mode)
}

func (m *Model) exitCommand() {
	m.mode = ModeNormal
	m.cmd = m.cmd[:0]
	m.cmdx = 1
	m.hist.ResetNavigation()
	logger.Debug("Mode change", "mode", m.mode)
}

func (m *Model) setMessage(text string) {
	m.cmdMsg = text
	m.cmdMsgDanger = false
}

func (m *Model) setDanger(text string) {
	m.cmdMsg = text
	m.cmdMsgDanger = true
}

// Position returns the cursor's buffer-space row and column.
func (m *Model) Position() (row, col int) {
	return m.cursor.Row, m.cursor.Col
}

// SetPosition moves the cursor, clamping to the buffer. Callers use it
// to restore the previous session's position before the program runs.
func (m *Model) SetPosition(row, col int) {
	m.cursor.Row = row
	m.cursor.Col = col
	m.clampCursor()
}

// Buffer returns the underlying text buffer.
func (m *Model) Buffer() *buffer.Buffer {
	return m.buf
}

// Mode returns the current editing mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// FrameStats returns the frame timer, for end-of-session reporting.
func (m *Model) FrameStats() *metrics.FrameTimer {
	return m.frames
}

// Quitting reports whether a quit command or key ended the session.
func (m *Model) Quitting() bool {
	return m.quitting
}
