package sqlstore

import (
	"database/sql"
)

// Dialect defines the database-specific parts of the SQL settings store.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) (string, error)

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// CreateSettingsTableQuery returns the SQL creating the settings table
	CreateSettingsTableQuery() string

	// UpsertSettingsQuery inserts or replaces a full settings row
	UpsertSettingsQuery() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For MySQL
	URL string
}

// selectSettingsQuery and updateProgressQuery are portable across dialects.
const (
	selectSettingsQuery = `
		SELECT player_id, number_of_choices, regions, number_of_guesses,
		       progress, question_queue, updated_at
		FROM quiz_settings
		WHERE player_id = ?
	`

	updateProgressQuery = `
		UPDATE quiz_settings
		SET progress = ?, question_queue = ?, updated_at = ?
		WHERE player_id = ?
	`
)
