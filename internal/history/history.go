// Package history manages command-line history with an in-memory cache
// backed by SQLite.
package history

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/willibrandon/oolong/internal/config"
	"github.com/willibrandon/oolong/internal/logger"
	"github.com/willibrandon/oolong/internal/storage/sqlite"
)

// Manager manages command history. When the database is unavailable the
// manager degrades to in-memory history for the session.
type Manager struct {
	db           *sqlite.DB
	store        *sqlite.HistoryStore
	cache        []string // oldest first, newest last for navigation
	currentIndex int      // current position in history (-1 = not browsing)
	maxEntries   int
}

// NewManager creates a history manager from configuration. An empty
// path places the database at <user config dir>/oolong/history.db.
// Failure to open the database is not fatal.
func NewManager(cfg config.HistoryConfig) *Manager {
	hm := &Manager{
		currentIndex: -1,
		maxEntries:   cfg.MaxEntries,
	}
	if hm.maxEntries <= 0 {
		hm.maxEntries = 1000
	}
	if !cfg.Enabled {
		return hm
	}

	path := cfg.Path
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logger.Warn("Cannot resolve config directory, history is in-memory only", "error", err)
			return hm
		}
		path = filepath.Join(configDir, "oolong", "history.db")
	}

	db, err := sqlite.Open(path)
	if err != nil {
		logger.Warn("History database unavailable, history is in-memory only", "path", path, "error", err)
		return hm
	}

	hm.db = db
	hm.store = sqlite.NewHistoryStore(db)
	hm.loadCache()
	if n, err := hm.store.Count(); err == nil {
		logger.Debug("Command history loaded", "path", db.Path(), "entries", n)
	}
	return hm
}

// loadCache loads recent history entries from SQLite into the in-memory cache.
func (hm *Manager) loadCache() {
	if hm.store == nil {
		return
	}

	entries, err := hm.store.GetRecent(hm.maxEntries)
	if err != nil {
		logger.Warn("Failed to load command history", "error", err)
		return
	}

	// Reverse order so oldest is first, newest is last for navigation
	hm.cache = make([]string, len(entries))
	for i, entry := range entries {
		hm.cache[len(entries)-1-i] = entry.Command
	}
}

// Record adds a command to history with shell-style deduplication: a
// command already present moves to the top instead of duplicating.
// Navigation resets to the live position.
func (hm *Manager) Record(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	if hm.store != nil {
		if err := hm.store.Add(command, hm.maxEntries); err != nil {
			logger.Warn("Failed to record command", "command", command, "error", err)
		}
		hm.loadCache()
	} else {
		if i := slices.Index(hm.cache, command); i >= 0 {
			hm.cache = slices.Delete(hm.cache, i, i+1)
		}
		hm.cache = append(hm.cache, command)
		if len(hm.cache) > hm.maxEntries {
			hm.cache = hm.cache[len(hm.cache)-hm.maxEntries:]
		}
	}

	hm.currentIndex = -1
}

// Previous returns the previous command in history.
// Returns empty string if history is empty.
func (hm *Manager) Previous() string {
	if len(hm.cache) == 0 {
		return ""
	}

	if hm.currentIndex == -1 {
		// Start from the end (most recent)
		hm.currentIndex = len(hm.cache) - 1
	} else if hm.currentIndex > 0 {
		hm.currentIndex--
	}

	return hm.cache[hm.currentIndex]
}

// Next returns the next command in history (more recent).
// Past the end it returns empty string and stops browsing, so the
// caller can restore whatever was being typed.
func (hm *Manager) Next() string {
	if len(hm.cache) == 0 || hm.currentIndex == -1 {
		return ""
	}

	if hm.currentIndex < len(hm.cache)-1 {
		hm.currentIndex++
		return hm.cache[hm.currentIndex]
	}

	hm.currentIndex = -1
	return ""
}

// ResetNavigation resets the history navigation position.
func (hm *Manager) ResetNavigation() {
	hm.currentIndex = -1
}

// IsBrowsing returns true if currently navigating history.
func (hm *Manager) IsBrowsing() bool {
	return hm.currentIndex >= 0
}

// Len returns the number of entries in the cache.
func (hm *Manager) Len() int {
	return len(hm.cache)
}

// Persistent reports whether history is backed by the database.
func (hm *Manager) Persistent() bool {
	return hm.store != nil
}

// Close releases the underlying database, if any.
func (hm *Manager) Close() error {
	if hm.db != nil {
		return hm.db.Close()
	}
	return nil
}
