// Package ptytest runs the editor binary under a real pseudo-terminal so
// integration tests can assert against the rendered screen rather than the
// raw escape-sequence stream. Unix systems get a classic PTY pair via
// creack/pty; Windows goes through ConPTY.
package ptytest

import (
	"io"
	"os/exec"
)

// Winsize describes the terminal size in character cells.
type Winsize struct {
	Rows uint16
	Cols uint16
}

// PTY is the controlling side of a pseudo-terminal running a command.
// Writes reach the program as keyboard input; reads return its output.
type PTY interface {
	io.ReadWriteCloser

	// Setsize resizes the terminal, delivering SIGWINCH where supported.
	Setsize(size *Winsize) error
}

// Start launches cmd under a new PTY. The caller owns the PTY and the
// command: close the PTY and reap the process when done.
func Start(cmd *exec.Cmd) (PTY, error) {
	return startPTY(cmd)
}

// StartWithSize launches cmd under a PTY sized before the program draws
// its first frame, so tests see a deterministic layout.
func StartWithSize(cmd *exec.Cmd, size *Winsize) (PTY, error) {
	p, err := startPTY(cmd)
	if err != nil {
		return nil, err
	}
	if size != nil {
		if err := p.Setsize(size); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}
