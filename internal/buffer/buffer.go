// Package buffer implements line-oriented text storage with tab-aware rendering.
package buffer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/willibrandon/oolong/internal/logger"
)

// ErrNoFilename is returned by Save when the buffer has no file association.
var ErrNoFilename = errors.New("no file name specified")

// backupSuffix is appended to the target path for compressed backups.
const backupSuffix = ".bak.lz4"

// line holds one row of text plus its screen-ready form.
// The render is rebuilt whenever the raw content changes.
type line struct {
	raw    []rune
	render string
}

// rerender recomputes the screen form, expanding tabs to spaces.
func (l *line) rerender(tabStop int) {
	l.render = expandTabs(l.raw, tabStop)
}

// expandTabs replaces each tab with at least one space, padding to the
// next multiple of tabStop. All other runes pass through unchanged.
func expandTabs(raw []rune, tabStop int) string {
	var sb strings.Builder
	col := 0
	for _, r := range raw {
		if r == '\t' {
			sb.WriteByte(' ')
			col++
			for col%tabStop != 0 {
				sb.WriteByte(' ')
				col++
			}
		} else {
			sb.WriteRune(r)
			col++
		}
	}
	return sb.String()
}

// Buffer is the in-memory document: an ordered list of lines plus the
// file association and change tracking. A buffer always contains at
// least one line, possibly empty.
type Buffer struct {
	lines    []line
	filename string
	tabStop  int
	dirty    int
	diskSize int64
}

// New creates an empty buffer with no file association.
func New(tabStop int) *Buffer {
	b := &Buffer{
		lines:   []line{{}},
		tabStop: tabStop,
	}
	b.lines[0].rerender(tabStop)
	return b
}

// Load reads the file at path into a new buffer.
// A missing file yields an empty buffer bound to that path, so saving
// later creates it.
func Load(path string, tabStop int) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b := New(tabStop)
			b.filename = path
			return b, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	b := &Buffer{
		filename: path,
		tabStop:  tabStop,
		diskSize: int64(len(data)),
	}

	text := string(data)
	// A trailing terminator ends the last line rather than opening a new one.
	text = strings.TrimSuffix(text, "\n")
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		l := line{raw: []rune(raw)}
		l.rerender(tabStop)
		b.lines = append(b.lines, l)
	}

	return b, nil
}

// LineCount returns the number of lines in the buffer. Always >= 1.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Raw returns the unexpanded content of the line at row. Passing a row
// outside the buffer is a caller bug and panics on the bounds check, as
// do the other read accessors.
func (b *Buffer) Raw(row int) string {
	return string(b.lines[row].raw)
}

// LineRunes returns the raw runes of the line at row.
// The returned slice is shared with the buffer; callers must not modify it.
func (b *Buffer) LineRunes(row int) []rune {
	return b.lines[row].raw
}

// Rendered returns the tab-expanded form of the line at row.
func (b *Buffer) Rendered(row int) string {
	return b.lines[row].render
}

// LineLen returns the rune count of the line at row.
func (b *Buffer) LineLen(row int) int {
	return len(b.lines[row].raw)
}

// RenderCol converts a raw column on row to its rendered column,
// accounting for tab expansion left of the position.
func (b *Buffer) RenderCol(row, col int) int {
	raw := b.lines[row].raw
	rx := 0
	for i := 0; i < col && i < len(raw); i++ {
		if raw[i] == '\t' {
			rx += (b.tabStop - 1) - (rx % b.tabStop)
		}
		rx++
	}
	return rx
}

// TabStop returns the configured tab width.
func (b *Buffer) TabStop() int {
	return b.tabStop
}

// Filename returns the associated file path, or "" for an unnamed buffer.
func (b *Buffer) Filename() string {
	return b.filename
}

// SetFilename binds the buffer to a file path for subsequent saves.
func (b *Buffer) SetFilename(name string) {
	b.filename = name
}

// Dirty returns how many mutations have occurred since the last save.
func (b *Buffer) Dirty() int {
	return b.dirty
}

// DiskSize returns the byte size of the buffer's file as of the last
// load or save, or 0 for a buffer that has never touched disk.
func (b *Buffer) DiskSize() int64 {
	return b.diskSize
}

// Contents returns the whole buffer joined with newlines, exactly as
// Save writes it.
func (b *Buffer) Contents() string {
	raws := make([]string, len(b.lines))
	for i := range b.lines {
		raws[i] = string(b.lines[i].raw)
	}
	return strings.Join(raws, "\n")
}

// InsertLine inserts a new line with the given content at index at.
// at may equal LineCount to append. Does nothing if at is out of range.
func (b *Buffer) InsertLine(at int, content string) {
	if at < 0 || at > len(b.lines) {
		return
	}
	l := line{raw: []rune(content)}
	l.rerender(b.tabStop)
	b.lines = slices.Insert(b.lines, at, l)
	b.dirty++
}

// DeleteLine removes the line at row and returns its raw content.
// The last remaining line is cleared instead of removed, so the buffer
// never becomes empty. Returns "" if row is out of bounds.
func (b *Buffer) DeleteLine(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	removed := string(b.lines[row].raw)

	// Keep at least one line in the buffer
	if len(b.lines) > 1 {
		b.lines = slices.Delete(b.lines, row, row+1)
	} else {
		b.lines[0].raw = nil
		b.lines[0].rerender(b.tabStop)
	}
	b.dirty++
	return removed
}

// InsertChar inserts ch into the line at row before column col.
// col may equal the line length to append. Does nothing if the
// position is out of range.
func (b *Buffer) InsertChar(row, col int, ch rune) {
	if row < 0 || row >= len(b.lines) {
		return
	}
	l := &b.lines[row]
	if col < 0 || col > len(l.raw) {
		return
	}
	l.raw = slices.Insert(l.raw, col, ch)
	l.rerender(b.tabStop)
	b.dirty++
}

// DeleteChar removes the rune at column col of the line at row.
// Does nothing if the position is out of range.
func (b *Buffer) DeleteChar(row, col int) {
	if row < 0 || row >= len(b.lines) {
		return
	}
	l := &b.lines[row]
	if col < 0 || col >= len(l.raw) {
		return
	}
	l.raw = slices.Delete(l.raw, col, col+1)
	l.rerender(b.tabStop)
	b.dirty++
}

// InsertText inserts text at the given position. Multiline text splits
// the line at the insertion point: the first part joins the text before
// col, middle parts become whole lines, and the last part joins the
// text after col.
func (b *Buffer) InsertText(row, col int, text string) {
	if row < 0 || row >= len(b.lines) {
		return
	}
	l := &b.lines[row]
	if col < 0 || col > len(l.raw) {
		return
	}

	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		l.raw = slices.Insert(l.raw, col, []rune(text)...)
		l.rerender(b.tabStop)
		b.dirty++
		return
	}

	rest := string(l.raw[col:])
	l.raw = append(l.raw[:col:col], []rune(parts[0])...)
	l.rerender(b.tabStop)

	insertPos := row + 1
	for i := 1; i < len(parts)-1; i++ {
		nl := line{raw: []rune(parts[i])}
		nl.rerender(b.tabStop)
		b.lines = slices.Insert(b.lines, insertPos, nl)
		insertPos++
	}
	last := line{raw: []rune(parts[len(parts)-1] + rest)}
	last.rerender(b.tabStop)
	b.lines = slices.Insert(b.lines, insertPos, last)
	b.dirty++
}

// SplitLine breaks the line at row into two at column col. The text
// from col onward moves to a new line at row+1.
func (b *Buffer) SplitLine(row, col int) {
	if row < 0 || row >= len(b.lines) {
		return
	}
	l := &b.lines[row]
	if col < 0 || col > len(l.raw) {
		return
	}
	rest := string(l.raw[col:])
	l.raw = l.raw[:col]
	l.rerender(b.tabStop)

	nl := line{raw: []rune(rest)}
	nl.rerender(b.tabStop)
	b.lines = slices.Insert(b.lines, row+1, nl)
	b.dirty++
}

// JoinWithPrevious appends the line at row to the line above it and
// removes it. Returns the column on the merged line where the two
// halves meet, which is where the cursor belongs after a join.
func (b *Buffer) JoinWithPrevious(row int) int {
	if row <= 0 || row >= len(b.lines) {
		return 0
	}
	prev := &b.lines[row-1]
	joinCol := len(prev.raw)
	prev.raw = append(prev.raw, b.lines[row].raw...)
	prev.rerender(b.tabStop)
	b.lines = slices.Delete(b.lines, row, row+1)
	b.dirty++
	return joinCol
}

// Save writes the buffer to its associated file, joining lines with
// "\n", and returns the number of bytes written. The dirty counter
// resets only on success. With withBackup set, the previous on-disk
// content is preserved as an lz4-compressed sibling before the write.
func (b *Buffer) Save(withBackup bool) (int, error) {
	if b.filename == "" {
		return 0, ErrNoFilename
	}

	if withBackup {
		if err := writeBackup(b.filename); err != nil {
			logger.Warn("Backup failed, continuing with save", "path", b.filename, "error", err)
		}
	}

	data := []byte(b.Contents())
	if err := os.WriteFile(b.filename, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", b.filename, err)
	}

	b.dirty = 0
	b.diskSize = int64(len(data))
	logger.Debug("Buffer saved", "path", b.filename, "bytes", len(data))
	return len(data), nil
}

// writeBackup compresses the current on-disk content of path to
// path + ".bak.lz4". A path that does not exist yet needs no backup.
func writeBackup(path string) error {
	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + backupSuffix)
	if err != nil {
		return err
	}
	defer dst.Close()

	zw := lz4.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		return err
	}
	return zw.Close()
}
