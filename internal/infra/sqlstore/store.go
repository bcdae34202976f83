package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

// SettingsStore keeps player settings in a single SQL table,
// with list columns flattened to comma separated text.
type SettingsStore struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database and creates the settings table.
func Open(ctx context.Context, dialect Dialect, config DialectConfig) (*SettingsStore, error) {
	dsn, err := dialect.DSN(config)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply dialect-specific configuration
	if err := dialect.ConfigureConnection(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	if _, err := db.ExecContext(ctx, dialect.CreateSettingsTableQuery()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return &SettingsStore{db: db, dialect: dialect}, nil
}

// Close closes the database connection
func (s *SettingsStore) Close() error {
	return s.db.Close()
}

// Get retrieves the settings of a player.
func (s *SettingsStore) Get(ctx context.Context, playerID int64) (*entities.PlayerSettings, error) {
	var (
		settings entities.PlayerSettings
		regions  string
		queue    string
	)

	err := s.db.QueryRowContext(ctx, selectSettingsQuery, playerID).Scan(
		&settings.PlayerID,
		&settings.Config.Choices,
		&regions,
		&settings.Config.MaxGuesses,
		&settings.Progress,
		&queue,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Config.Regions = repository.SplitRegions(regions)
	settings.Queue = repository.SplitQueue(queue)

	return &settings, nil
}

// Save inserts or replaces the settings row of a player.
func (s *SettingsStore) Save(ctx context.Context, settings *entities.PlayerSettings) error {
	_, err := s.db.ExecContext(ctx, s.dialect.UpsertSettingsQuery(),
		settings.PlayerID,
		settings.Config.Choices,
		repository.JoinRegions(settings.Config.Regions),
		settings.Config.MaxGuesses,
		settings.Progress,
		repository.JoinQueue(settings.Queue),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// SaveProgress updates the in-flight quiz of a player.
func (s *SettingsStore) SaveProgress(ctx context.Context, playerID int64, progress string, queue []entities.FlagID) error {
	res, err := s.db.ExecContext(ctx, updateProgressQuery,
		progress,
		repository.JoinQueue(queue),
		time.Now().UTC(),
		playerID,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if n == 0 {
		return repository.ErrSettingsNotFound
	}

	return nil
}
