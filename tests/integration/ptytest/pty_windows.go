//go:build windows

package ptytest

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/charmbracelet/x/conpty"
)

// windowsPTY adapts a ConPTY handle to the PTY interface.
type windowsPTY struct {
	cpty   *conpty.ConPty
	handle uintptr
}

func startPTY(cmd *exec.Cmd) (PTY, error) {
	// ConPTY requires a size at creation time. Callers that care resize
	// immediately through StartWithSize.
	cpty, err := conpty.New(80, 24, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create ConPTY: %w", err)
	}

	args := cmd.Args
	if len(args) == 0 {
		args = []string{cmd.Path}
	}

	procAttr := &syscall.ProcAttr{
		Dir: cmd.Dir,
		Env: cmd.Env,
	}
	_, handle, err := cpty.Spawn(cmd.Path, args, procAttr)
	if err != nil {
		cpty.Close()
		return nil, fmt.Errorf("failed to spawn process: %w", err)
	}

	return &windowsPTY{cpty: cpty, handle: handle}, nil
}

func (p *windowsPTY) Read(b []byte) (int, error) {
	return p.cpty.Read(b)
}

func (p *windowsPTY) Write(b []byte) (int, error) {
	return p.cpty.Write(b)
}

func (p *windowsPTY) Close() error {
	return p.cpty.Close()
}

func (p *windowsPTY) Setsize(size *Winsize) error {
	return p.cpty.Resize(int(size.Cols), int(size.Rows))
}
