// Package session persists per-file cursor positions between editor runs.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// maxPositions caps how many files the session file remembers.
const maxPositions = 100

// filePosition is one remembered cursor location.
type filePosition struct {
	Path    string    `yaml:"path"`
	Row     int       `yaml:"row"`
	Col     int       `yaml:"col"`
	SavedAt time.Time `yaml:"saved_at"`
}

// sessionFile represents the YAML file structure for stored positions.
type sessionFile struct {
	Version   int            `yaml:"version"`
	Positions []filePosition `yaml:"positions"`
}

// Store manages last-position state with YAML persistence.
type Store struct {
	positions map[string]filePosition
	filePath  string
}

// NewStore creates a session store.
// Positions are stored in <user config dir>/oolong/session.yaml
func NewStore() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	oolongDir := filepath.Join(configDir, "oolong")
	if err := os.MkdirAll(oolongDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return newStoreAt(filepath.Join(oolongDir, "session.yaml"))
}

func newStoreAt(path string) (*Store, error) {
	s := &Store{
		positions: make(map[string]filePosition),
		filePath:  path,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load session file: %w", err)
	}

	return s, nil
}

// load reads positions from the YAML file.
func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file sessionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	s.positions = make(map[string]filePosition)
	for _, pos := range file.Positions {
		s.positions[pos.Path] = pos
	}

	return nil
}

// save writes positions to the YAML file.
func (s *Store) save() error {
	positions := make([]filePosition, 0, len(s.positions))
	for _, pos := range s.positions {
		positions = append(positions, pos)
	}

	// Sort by path for consistent ordering
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Path < positions[j].Path
	})

	file := sessionFile{
		Version:   1,
		Positions: positions,
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Lookup returns the remembered cursor position for a file.
func (s *Store) Lookup(path string) (row, col int, ok bool) {
	pos, ok := s.positions[canonical(path)]
	if !ok {
		return 0, 0, false
	}
	return pos.Row, pos.Col, true
}

// Record remembers the cursor position for a file and persists it.
// The oldest entries are dropped once the store is full.
func (s *Store) Record(path string, row, col int) error {
	key := canonical(path)
	s.positions[key] = filePosition{
		Path:    key,
		Row:     row,
		Col:     col,
		SavedAt: time.Now(),
	}

	if len(s.positions) > maxPositions {
		s.prune()
	}

	return s.save()
}

// prune drops the oldest entries until the store fits maxPositions.
func (s *Store) prune() {
	positions := make([]filePosition, 0, len(s.positions))
	for _, pos := range s.positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].SavedAt.After(positions[j].SavedAt)
	})

	for _, pos := range positions[maxPositions:] {
		delete(s.positions, pos.Path)
	}
}

// canonical normalizes a file path so the same file maps to one key.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
