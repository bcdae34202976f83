package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// DSN creates the parent directory of the database file if needed.
func (d *SQLiteDialect) DSN(config DialectConfig) (string, error) {
	if config.Path == "" {
		return "", errors.New("sqlite path is empty")
	}
	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
	}
	return config.Path, nil
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// A single writer avoids SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}

	return nil
}

func (d *SQLiteDialect) CreateSettingsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS quiz_settings (
			player_id         INTEGER PRIMARY KEY,
			number_of_choices INTEGER NOT NULL,
			regions           TEXT NOT NULL,
			number_of_guesses INTEGER NOT NULL,
			progress          TEXT NOT NULL DEFAULT '',
			question_queue    TEXT NOT NULL DEFAULT '',
			updated_at        DATETIME NOT NULL
		);
	`
}

func (d *SQLiteDialect) UpsertSettingsQuery() string {
	return `
		INSERT INTO quiz_settings (player_id, number_of_choices, regions, number_of_guesses, progress, question_queue, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			number_of_choices = excluded.number_of_choices,
			regions = excluded.regions,
			number_of_guesses = excluded.number_of_guesses,
			progress = excluded.progress,
			question_queue = excluded.question_queue,
			updated_at = excluded.updated_at
	`
}
