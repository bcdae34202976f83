package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN forces parseTime so DATETIME columns scan into time.Time.
func (d *MySQLDialect) DSN(config DialectConfig) (string, error) {
	cfg, err := mysql.ParseDSN(config.URL)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true // report matched rather than changed rows on UPDATE
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	// Configure connection pool for MySQL
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) CreateSettingsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS quiz_settings (
			player_id         BIGINT PRIMARY KEY,
			number_of_choices INT NOT NULL,
			regions           TEXT NOT NULL,
			number_of_guesses INT NOT NULL,
			progress          TEXT NOT NULL,
			question_queue    TEXT NOT NULL,
			updated_at        DATETIME(6) NOT NULL
		);
	`
}

func (d *MySQLDialect) UpsertSettingsQuery() string {
	return "INSERT INTO quiz_settings (player_id, number_of_choices, regions, number_of_guesses, progress, question_queue, updated_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE number_of_choices = VALUES(number_of_choices), regions = VALUES(regions), " +
		"number_of_guesses = VALUES(number_of_guesses), progress = VALUES(progress), " +
		"question_queue = VALUES(question_queue), updated_at = VALUES(updated_at)"
}
