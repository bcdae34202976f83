package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

const foreignKeyViolation = "23503"

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// SettingsRepository provides access to player settings and quiz progress in the database.
type SettingsRepository struct {
	db postgres.DBTX
	tx TxRunner
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX, tx TxRunner) *SettingsRepository {
	return &SettingsRepository{db: db, tx: tx}
}

// EnsureSchema creates the tables used by the repository.
func (r *SettingsRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS quiz_settings (
			player_id         BIGINT PRIMARY KEY,
			number_of_choices INT NOT NULL,
			regions           TEXT[] NOT NULL,
			number_of_guesses INT NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS quiz_progress (
			player_id      BIGINT PRIMARY KEY REFERENCES quiz_settings (player_id) ON DELETE CASCADE,
			progress       TEXT NOT NULL DEFAULT '',
			question_queue TEXT[] NOT NULL DEFAULT '{}',
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

// Get retrieves settings and progress for a player.
// Returns repository.ErrSettingsNotFound if the player has no settings.
func (r *SettingsRepository) Get(ctx context.Context, playerID int64) (*entities.PlayerSettings, error) {
	query := `
		SELECT s.player_id, s.number_of_choices, s.regions, s.number_of_guesses,
		       COALESCE(p.progress, ''), COALESCE(p.question_queue, '{}'),
		       GREATEST(s.updated_at, COALESCE(p.updated_at, s.updated_at))
		FROM quiz_settings s
		LEFT JOIN quiz_progress p ON p.player_id = s.player_id
		WHERE s.player_id = $1
	`

	var (
		settings entities.PlayerSettings
		queue    []string
	)
	err := r.db.QueryRow(ctx, query, playerID).Scan(
		&settings.PlayerID,
		&settings.Config.Choices,
		&settings.Config.Regions,
		&settings.Config.MaxGuesses,
		&settings.Progress,
		&queue,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Queue = make([]entities.FlagID, len(queue))
	for i, id := range queue {
		settings.Queue[i] = entities.FlagID(id)
	}

	return &settings, nil
}

// Save upserts settings and progress in one transaction.
func (r *SettingsRepository) Save(ctx context.Context, settings *entities.PlayerSettings) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO quiz_settings (player_id, number_of_choices, regions, number_of_guesses, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (player_id) DO UPDATE
			SET number_of_choices = EXCLUDED.number_of_choices,
			    regions = EXCLUDED.regions,
			    number_of_guesses = EXCLUDED.number_of_guesses,
			    updated_at = NOW()
		`

		_, err := tx.Exec(ctx, query,
			settings.PlayerID,
			settings.Config.Choices,
			settings.Config.Regions,
			settings.Config.MaxGuesses,
		)
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}

		return upsertProgress(ctx, tx, settings.PlayerID, settings.Progress, settings.Queue)
	})
}

// SaveProgress updates only the in-flight quiz of a player.
func (r *SettingsRepository) SaveProgress(ctx context.Context, playerID int64, progress string, queue []entities.FlagID) error {
	return upsertProgress(ctx, r.db, playerID, progress, queue)
}

func upsertProgress(ctx context.Context, db postgres.DBTX, playerID int64, progress string, queue []entities.FlagID) error {
	query := `
		INSERT INTO quiz_progress (player_id, progress, question_queue, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (player_id) DO UPDATE
		SET progress = EXCLUDED.progress,
		    question_queue = EXCLUDED.question_queue,
		    updated_at = NOW()
	`

	ids := make([]string, len(queue))
	for i, id := range queue {
		ids[i] = string(id)
	}

	if _, err := db.Exec(ctx, query, playerID, progress, ids); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return repository.ErrSettingsNotFound
		}
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}
