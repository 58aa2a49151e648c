package session

import (
	"fmt"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := newStoreAt(filepath.Join(t.TempDir(), "session.yaml"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func TestStore_RecordAndLookup(t *testing.T) {
	s := testStore(t)

	if err := s.Record("/tmp/notes.txt", 12, 4); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	row, col, ok := s.Lookup("/tmp/notes.txt")
	if !ok {
		t.Fatal("Lookup should find a recorded file")
	}
	if row != 12 || col != 4 {
		t.Errorf("expected position 12:4, got %d:%d", row, col)
	}
}

func TestStore_LookupUnknownFile(t *testing.T) {
	s := testStore(t)

	if _, _, ok := s.Lookup("/tmp/never-seen.txt"); ok {
		t.Error("Lookup of an unknown file should report not found")
	}
}

func TestStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	s, err := newStoreAt(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Record("/tmp/kept.txt", 7, 0); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	s2, err := newStoreAt(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}

	row, _, ok := s2.Lookup("/tmp/kept.txt")
	if !ok || row != 7 {
		t.Errorf("reopened store should keep position, ok=%v row=%d", ok, row)
	}
}

func TestStore_OverwritesPosition(t *testing.T) {
	s := testStore(t)

	if err := s.Record("/tmp/doc.txt", 1, 1); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record("/tmp/doc.txt", 42, 3); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	row, col, ok := s.Lookup("/tmp/doc.txt")
	if !ok || row != 42 || col != 3 {
		t.Errorf("latest position should win, got ok=%v %d:%d", ok, row, col)
	}
}

func TestStore_PrunesOldest(t *testing.T) {
	s := testStore(t)

	for i := 0; i < maxPositions+10; i++ {
		path := fmt.Sprintf("/tmp/file-%03d.txt", i)
		if err := s.Record(path, i, 0); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	if len(s.positions) > maxPositions {
		t.Errorf("store should prune to %d entries, has %d", maxPositions, len(s.positions))
	}

	// The newest entry must survive
	if _, _, ok := s.Lookup(fmt.Sprintf("/tmp/file-%03d.txt", maxPositions+9)); !ok {
		t.Error("newest entry should survive pruning")
	}
}
