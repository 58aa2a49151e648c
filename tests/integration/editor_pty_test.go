package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/willibrandon/oolong/tests/integration/ptytest"
)

// These tests drive the real oolong binary under a pseudo-terminal and
// assert against the screen a vt10x emulator reconstructs from its
// output. They cover the paths unit tests cannot: terminal bring-up,
// raw-mode input, and state persisted between separate processes.

var (
	buildOnce sync.Once
	buildErr  error
	editorBin string
)

// buildEditor compiles the oolong binary once per test run.
func buildEditor(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "oolong-bin")
		if err != nil {
			buildErr = err
			return
		}
		editorBin = filepath.Join(dir, "oolong")
		if runtime.GOOS == "windows" {
			editorBin += ".exe"
		}
		cmd := exec.Command("go", "build", "-o", editorBin, "../../cmd/oolong")
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build failed: %v\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatalf("Failed to build editor: %v", buildErr)
	}
	return editorBin
}

// startEditor launches the editor in an 80x24 PTY with config, history,
// and session state confined to home. Tests that exercise persistence
// reuse the same home across runs.
func startEditor(t *testing.T, home string, args ...string) (*ptytest.Term, *exec.Cmd) {
	t.Helper()

	cmd := exec.Command(buildEditor(t), args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
	)

	p, err := ptytest.StartWithSize(cmd, &ptytest.Winsize{Rows: 24, Cols: 80})
	require.NoError(t, err, "start editor under PTY")

	term := ptytest.NewTerm(p, 80, 24)
	t.Cleanup(func() {
		term.Close()
		cmd.Process.Kill()
		cmd.Wait()
	})
	return term, cmd
}

// typeKeys sends each keystroke as a separate write with a short pause,
// so runes meant for different modes never coalesce into one input
// event. Escape in particular must land alone or the parser reads the
// following byte as an alt-modified key.
func typeKeys(term *ptytest.Term, keys ...string) {
	for _, k := range keys {
		term.Send(k)
		time.Sleep(50 * time.Millisecond)
	}
}

// waitLineEquals polls screen row y until its trimmed content is exactly
// want. Exact matching matters on the message row, where the startup help
// text contains ":q" and ":w" as substrings.
func waitLineEquals(t *testing.T, term *ptytest.Term, y int, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if term.Line(y) == want {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("Line %d never became %q, screen:\n%s", y, want, term.Screen())
}

// waitExit fails the test if the editor process does not finish cleanly
// within the timeout.
func waitExit(t *testing.T, cmd *exec.Cmd, timeout time.Duration) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err, "editor exit status")
	case <-time.After(timeout):
		t.Fatalf("Editor did not exit within %v", timeout)
	}
}

func TestEditorShowsBannerOnStartup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	term, cmd := startEditor(t, t.TempDir())

	// The banner centers in the 22 text rows, so it lands on row 11.
	require.True(t, term.WaitForLine(11, "Oolong editor -- version", 10*time.Second),
		"expected welcome banner, screen:\n%s", term.Screen())
	require.True(t, term.WaitFor("No name", 5*time.Second),
		"expected unnamed buffer in status bar, screen:\n%s", term.Screen())
	require.True(t, term.WaitFor("HELP: i = insert", 5*time.Second),
		"expected startup help message, screen:\n%s", term.Screen())

	// Ctrl+Q force quits from any mode.
	term.Send("\x11")
	waitExit(t, cmd, 10*time.Second)
}

func TestEditorTypeSaveQuit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "notes.txt")
	term, cmd := startEditor(t, t.TempDir(), path)

	require.True(t, term.WaitFor("notes.txt", 10*time.Second),
		"expected filename in status bar, screen:\n%s", term.Screen())

	typeKeys(term, "i")
	require.True(t, term.WaitFor("-- INSERT --", 5*time.Second),
		"expected insert banner, screen:\n%s", term.Screen())

	term.Send("hello, world")
	require.True(t, term.WaitFor("hello, world", 5*time.Second),
		"expected typed text on screen, screen:\n%s", term.Screen())

	typeKeys(term, "\x1b", ":", "wq", "\r")
	waitExit(t, cmd, 10*time.Second)

	data, err := os.ReadFile(path)
	require.NoError(t, err, "saved file should exist")
	require.Equal(t, "hello, world", string(data))
}

func TestEditorDirtyQuitGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "guarded.txt")
	term, cmd := startEditor(t, t.TempDir(), path)

	require.True(t, term.WaitFor("guarded.txt", 10*time.Second),
		"expected filename in status bar, screen:\n%s", term.Screen())

	typeKeys(term, "i")
	term.Send("x")
	require.True(t, term.WaitFor("[+]", 5*time.Second),
		"expected dirty marker, screen:\n%s", term.Screen())

	typeKeys(term, "\x1b", ":", "q", "\r")
	require.True(t, term.WaitForLine(23, "unsaved changes, use q! to force", 5*time.Second),
		"expected quit to be blocked on the message row, screen:\n%s", term.Screen())

	typeKeys(term, ":", "q!", "\r")
	waitExit(t, cmd, 10*time.Second)

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "discarded buffer must not reach disk")
}

func TestEditorOpensExistingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\ndefgh\n"), 0644))

	term, _ := startEditor(t, t.TempDir(), path)

	require.True(t, term.WaitFor("defgh", 10*time.Second),
		"expected file contents on screen, screen:\n%s", term.Screen())
	require.True(t, term.WaitFor("2 lines", 5*time.Second),
		"expected line count in status bar, screen:\n%s", term.Screen())
	require.True(t, term.WaitFor("1:1/1", 5*time.Second),
		"expected initial cursor position, screen:\n%s", term.Screen())

	// Move to row 2, column 3 and watch the position indicator follow.
	typeKeys(term, "j", "l", "l")
	require.True(t, term.WaitFor("2:3/3", 5*time.Second),
		"expected position indicator to track cursor, screen:\n%s", term.Screen())
}

func TestEditorRestoresLastPosition(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	home := t.TempDir()
	path := filepath.Join(t.TempDir(), "revisit.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))

	// First visit: move to the last line and quit cleanly.
	term, cmd := startEditor(t, home, path)
	require.True(t, term.WaitFor("revisit.txt", 10*time.Second),
		"expected filename in status bar, screen:\n%s", term.Screen())
	typeKeys(term, "j", "j")
	require.True(t, term.WaitFor("3:1/1", 5*time.Second),
		"expected cursor on line 3, screen:\n%s", term.Screen())
	typeKeys(term, ":", "q", "\r")
	waitExit(t, cmd, 10*time.Second)

	// Second visit with the same home picks up where we left off.
	term, _ = startEditor(t, home, path)
	require.True(t, term.WaitFor("3:1/1", 10*time.Second),
		"expected restored cursor position, screen:\n%s", term.Screen())
}

func TestEditorCommandHistoryPersists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	home := t.TempDir()
	path := filepath.Join(t.TempDir(), "hist.txt")
	require.NoError(t, os.WriteFile(path, []byte("content\n"), 0644))

	term, cmd := startEditor(t, home, path)
	require.True(t, term.WaitFor("hist.txt", 10*time.Second),
		"expected filename in status bar, screen:\n%s", term.Screen())
	typeKeys(term, ":", "w", "\r")
	require.True(t, term.WaitFor("written", 5*time.Second),
		"expected write confirmation, screen:\n%s", term.Screen())
	typeKeys(term, ":", "q", "\r")
	waitExit(t, cmd, 10*time.Second)

	// A fresh process recalls the previous session's commands, newest
	// first, on the up arrow. Row 23 is the command line.
	term, _ = startEditor(t, home, path)
	require.True(t, term.WaitFor("hist.txt", 10*time.Second),
		"expected filename in status bar, screen:\n%s", term.Screen())
	typeKeys(term, ":")
	term.Send("\x1b[A")
	waitLineEquals(t, term, 23, ":q", 5*time.Second)
	term.Send("\x1b[A")
	waitLineEquals(t, term, 23, ":w", 5*time.Second)
}
