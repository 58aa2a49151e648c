package ptytest

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/hinshun/vt10x"
)

// Term couples a PTY with a vt10x terminal emulator. A background reader
// pumps program output into the emulated screen so tests can poll what a
// user would actually see, cursor-addressed redraws and all.
type Term struct {
	pty PTY

	mu sync.Mutex
	vt vt10x.Terminal

	done chan struct{}
}

// NewTerm starts pumping pty output into an emulated screen. cols and
// rows should match the Winsize the command was started with.
func NewTerm(pty PTY, cols, rows int) *Term {
	t := &Term{
		pty:  pty,
		vt:   vt10x.New(vt10x.WithSize(cols, rows)),
		done: make(chan struct{}),
	}
	go t.pump()
	return t
}

func (t *Term) pump() {
	defer close(t.done)
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			t.mu.Lock()
			t.vt.Write(buf[:n])
			t.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes s to the program as if typed at the keyboard.
func (t *Term) Send(s string) {
	t.pty.Write([]byte(s))
}

// Screen returns the emulated screen as newline-joined rows.
func (t *Term) Screen() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vt.String()
}

// Line returns row y of the screen with trailing blanks trimmed.
func (t *Term) Line(y int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var buf bytes.Buffer
	cols, _ := t.vt.Size()
	for x := 0; x < cols; x++ {
		buf.WriteRune(t.vt.Cell(x, y).Char)
	}
	return strings.TrimRight(buf.String(), " ")
}

// WaitFor polls the screen until it contains the given text or the
// timeout elapses.
func (t *Term) WaitFor(contains string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(t.Screen(), contains) {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

// WaitForLine polls row y until it contains the given text or the
// timeout elapses.
func (t *Term) WaitForLine(y int, contains string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(t.Line(y), contains) {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

// Close tears down the PTY and waits briefly for the reader to drain.
func (t *Term) Close() {
	t.pty.Close()
	select {
	case <-t.done:
	case <-time.After(time.Second):
	}
}
