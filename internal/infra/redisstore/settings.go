package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

const settingsKeyPrefix = "flagquiz:player:"

// Hash fields, one string value per preference.
const (
	fieldChoices   = "numberOfChoices"
	fieldRegions   = "regionsToInclude"
	fieldGuesses   = "numberOfGuesses"
	fieldProgress  = "currentQuestionProgress"
	fieldQueue     = "questionQueue"
	fieldUpdatedAt = "updatedAt"
)

// saveProgressScript updates the progress fields only when the hash exists.
var saveProgressScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2], ARGV[3], ARGV[4], ARGV[5], ARGV[6])
return 1
`)

// SettingsRepository persists player settings as a redis hash of strings.
type SettingsRepository struct {
	client *redis.Client
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(client *redis.Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

func settingsKey(playerID int64) string {
	return settingsKeyPrefix + strconv.FormatInt(playerID, 10)
}

// Get returns the settings of a player, or repository.ErrSettingsNotFound.
func (r *SettingsRepository) Get(ctx context.Context, playerID int64) (*entities.PlayerSettings, error) {
	fields, err := r.client.HGetAll(ctx, settingsKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if _, ok := fields[fieldChoices]; !ok {
		return nil, repository.ErrSettingsNotFound
	}

	choices, err := cast.ToIntE(fields[fieldChoices])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fieldChoices, err)
	}

	guesses, err := cast.ToIntE(fields[fieldGuesses])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fieldGuesses, err)
	}

	settings := &entities.PlayerSettings{
		PlayerID: playerID,
		Config: entities.QuizConfig{
			Regions:    repository.SplitRegions(fields[fieldRegions]),
			Choices:    choices,
			MaxGuesses: guesses,
		},
		Progress: fields[fieldProgress],
		Queue:    repository.SplitQueue(fields[fieldQueue]),
	}

	if ts, ok := fields[fieldUpdatedAt]; ok {
		settings.UpdatedAt, err = cast.ToTimeE(ts)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", fieldUpdatedAt, err)
		}
	}

	return settings, nil
}

// Save writes every field of the settings.
func (r *SettingsRepository) Save(ctx context.Context, settings *entities.PlayerSettings) error {
	err := r.client.HSet(ctx, settingsKey(settings.PlayerID),
		fieldChoices, cast.ToString(settings.Config.Choices),
		fieldRegions, repository.JoinRegions(settings.Config.Regions),
		fieldGuesses, cast.ToString(settings.Config.MaxGuesses),
		fieldProgress, settings.Progress,
		fieldQueue, repository.JoinQueue(settings.Queue),
		fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// SaveProgress updates the in-flight quiz of a player.
func (r *SettingsRepository) SaveProgress(ctx context.Context, playerID int64, progress string, queue []entities.FlagID) error {
	n, err := saveProgressScript.Run(ctx, r.client, []string{settingsKey(playerID)},
		fieldProgress, progress,
		fieldQueue, repository.JoinQueue(queue),
		fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("save progress: %w", err)
	}
	if n == 0 {
		return repository.ErrSettingsNotFound
	}

	return nil
}
