package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQuitOnCleanBuffer(t *testing.T) {
	m := newTestModel(t)
	press(m, ":")
	typeString(m, "q")
	press(m, "enter")
	if !m.Quitting() {
		t.Error(":q on a clean buffer should quit")
	}
}

func TestQuitGatedOnDirtyBuffer(t *testing.T) {
	m := newTestModel(t)
	press(m, "i")
	typeString(m, "x")
	press(m, "esc", ":")
	typeString(m, "q")
	press(m, "enter")

	if m.Quitting() {
		t.Fatal(":q with unsaved changes must not quit")
	}
	if m.cmdMsg != "unsaved changes, use q! to force" {
		t.Errorf("message = %q, want the q! hint", m.cmdMsg)
	}
	if !m.cmdMsgDanger {
		t.Error("refusal should be a danger message")
	}
	if m.Mode() != ModeNormal {
		t.Errorf("mode = %v, want NORMAL", m.Mode())
	}

	press(m, ":")
	typeString(m, "q!")
	press(m, "enter")
	if !m.Quitting() {
		t.Error(":q! must quit regardless of unsaved changes")
	}
}

func TestWriteNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	m := newTestModel(t)
	press(m, "i")
	typeString(m, "hello")
	press(m, "esc", ":")
	typeString(m, "w "+path)
	press(m, "enter")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("file = %q, want %q", data, "hello")
	}
	if m.Buffer().Dirty() != 0 {
		t.Errorf("dirty = %d, want 0 after save", m.Buffer().Dirty())
	}
	if m.cmdMsgDanger {
		t.Errorf("unexpected danger message: %q", m.cmdMsg)
	}
	if !strings.Contains(m.cmdMsg, "5B written") {
		t.Errorf("message = %q, want byte count report", m.cmdMsg)
	}
	if m.Quitting() {
		t.Error(":w must not quit")
	}
}

func TestWriteWithoutFilename(t *testing.T) {
	m := newTestModel(t)
	press(m, "i")
	typeString(m, "x")
	press(m, "esc", ":")
	typeString(m, "w")
	press(m, "enter")

	if m.cmdMsg != "no file name specified" {
		t.Errorf("message = %q, want missing-name error", m.cmdMsg)
	}
	if !m.cmdMsgDanger {
		t.Error("missing name should be a danger message")
	}
	if m.Buffer().Dirty() == 0 {
		t.Error("failed save must keep the buffer dirty")
	}
}

func TestWriteRebindsFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renamed.txt")
	m := newTestModel(t, "data")
	press(m, ":")
	typeString(m, "w "+path)
	press(m, "enter")

	if got := m.Buffer().Filename(); got != path {
		t.Errorf("filename = %q, want %q", got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("file = %q, want %q", data, "data")
	}
}

func TestWriteQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	m := newTestModel(t)
	press(m, "i")
	typeString(m, "hi")
	press(m, "esc", ":")
	typeString(m, "wq "+path)
	press(m, "enter")

	if !m.Quitting() {
		t.Error(":wq with a good path should quit")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("file = %q, want %q", data, "hi")
	}
}

func TestWriteQuitAbortsOnFailedWrite(t *testing.T) {
	m := newTestModel(t)
	press(m, "i")
	typeString(m, "x")
	press(m, "esc", ":")
	typeString(m, "wq")
	press(m, "enter")

	if m.Quitting() {
		t.Error(":wq with a failed write must not quit")
	}
	if m.cmdMsg != "no file name specified" {
		t.Errorf("message = %q, want missing-name error", m.cmdMsg)
	}
}

func TestWriteFailureSurfacesError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "out.txt")
	m := newTestModel(t)
	press(m, "i")
	typeString(m, "x")
	press(m, "esc", ":")
	typeString(m, "w "+bad)
	press(m, "enter")

	if !m.cmdMsgDanger {
		t.Fatal("failed write should raise a danger message")
	}
	if !strings.Contains(m.cmdMsg, "write failed") {
		t.Errorf("message = %q, want underlying error", m.cmdMsg)
	}
	if m.Buffer().Dirty() == 0 {
		t.Error("failed write must keep the buffer dirty")
	}
}

func TestUnknownCommand(t *testing.T) {
	m := newTestModel(t)
	press(m, ":")
	typeString(m, "frobnicate now")
	press(m, "enter")

	if m.cmdMsg != "unknown command 'frobnicate now'" {
		t.Errorf("message = %q, want unknown-command error", m.cmdMsg)
	}
	if !m.cmdMsgDanger {
		t.Error("unknown command should be a danger message")
	}
}

func TestQuitWithArgumentIsUnknown(t *testing.T) {
	m := newTestModel(t)
	press(m, ":")
	typeString(m, "q extra")
	press(m, "enter")

	if m.Quitting() {
		t.Error("'q extra' must not quit")
	}
	if m.cmdMsg != "unknown command 'q extra'" {
		t.Errorf("message = %q, want unknown-command error", m.cmdMsg)
	}
}

func TestEmptyCommandIsNoop(t *testing.T) {
	m := newTestModel(t)
	press(m, ":", "enter")

	if m.Quitting() {
		t.Error("empty command must not quit")
	}
	if m.cmdMsg != "" {
		t.Errorf("message = %q, want none", m.cmdMsg)
	}
	if m.Mode() != ModeNormal {
		t.Errorf("mode = %v, want NORMAL", m.Mode())
	}
}

func TestCommandsAreRecordedInHistory(t *testing.T) {
	m := newTestModel(t)
	press(m, ":")
	typeString(m, "nope")
	press(m, "enter")

	if m.hist.Len() != 1 {
		t.Errorf("history length = %d, want 1", m.hist.Len())
	}
}
