package sqlite

import (
	"strings"
	"time"
)

// HistoryEntry represents one recorded command line.
type HistoryEntry struct {
	ID        int64
	Command   string
	EnteredAt time.Time
}

// HistoryStore provides access to persisted command-line history.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new history store.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add records a command, keeping at most maxEntries rows.
// If the command already exists, it updates the timestamp (moves to top).
// Otherwise, it inserts a new entry.
func (s *HistoryStore) Add(command string, maxEntries int) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	now := time.Now()

	// Shell-style history: if the command exists, update it (move to top)
	// Otherwise insert new entry
	result, err := s.db.conn.Exec(`
		UPDATE command_history
		SET entered_at = ?
		WHERE command = ?
	`, now, command)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		_, err = s.db.conn.Exec(`
			INSERT INTO command_history (command, entered_at)
			VALUES (?, ?)
		`, command, now)
		if err != nil {
			return err
		}
	}

	// Cleanup old entries
	_, _ = s.db.conn.Exec(`
		DELETE FROM command_history
		WHERE id NOT IN (
			SELECT id FROM command_history
			ORDER BY entered_at DESC, id DESC
			LIMIT ?
		)
	`, maxEntries)

	return nil
}

// GetRecent returns the most recent history entries, newest first.
func (s *HistoryStore) GetRecent(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.conn.Query(`
		SELECT id, command, entered_at
		FROM command_history
		ORDER BY entered_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.Command, &entry.EnteredAt); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Count returns the total number of history entries.
func (s *HistoryStore) Count() (int, error) {
	var count int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM command_history").Scan(&count)
	return count, err
}
