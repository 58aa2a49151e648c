package sqlite

// initSchema creates the database schema if it doesn't exist.
func (db *DB) initSchema() error {
	schema := `
	-- Command-line history table
	CREATE TABLE IF NOT EXISTS command_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		entered_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Index for recency walks
	CREATE INDEX IF NOT EXISTS idx_command_history_entered_at ON command_history(entered_at DESC);
	`

	_, err := db.conn.Exec(schema)
	return err
}
