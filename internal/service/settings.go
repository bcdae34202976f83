package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

type SettingsRepository interface {
	Get(ctx context.Context, playerID int64) (*entities.PlayerSettings, error)
	Save(ctx context.Context, settings *entities.PlayerSettings) error
}

type SettingsService struct {
	repository    SettingsRepository
	defaults      entities.QuizConfig
	defaultRegion string
}

func NewSettingsService(repository SettingsRepository, defaults entities.QuizConfig, defaultRegion string) *SettingsService {
	return &SettingsService{
		repository:    repository,
		defaults:      defaults,
		defaultRegion: defaultRegion,
	}
}

// GetOrCreate returns the player's settings, creating defaults on first use.
func (s *SettingsService) GetOrCreate(ctx context.Context, playerID int64) (*entities.PlayerSettings, error) {
	settings, err := s.repository.Get(ctx, playerID)
	if err == nil {
		return s.repair(settings)
	}
	if !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, err
	}

	config, _, err := s.defaults.Normalize(s.defaultRegion)
	if err != nil {
		return nil, fmt.Errorf("default settings: %w", err)
	}

	settings = entities.NewPlayerSettings(playerID, config)
	if err := s.repository.Save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// repair normalizes a stored config. Values missing from a partial record
// fall back to the defaults.
func (s *SettingsService) repair(settings *entities.PlayerSettings) (*entities.PlayerSettings, error) {
	stored := settings.Config
	if !slices.Contains(entities.ChoiceOptions, stored.Choices) {
		stored.Choices = s.defaults.Choices
	}
	if stored.MaxGuesses < 1 {
		stored.MaxGuesses = s.defaults.MaxGuesses
	}

	config, _, err := stored.Normalize(s.defaultRegion)
	if err != nil {
		return nil, fmt.Errorf("stored settings of %d: %w", settings.PlayerID, err)
	}

	settings.Config = config
	return settings, nil
}

// SetChoices changes the number of answer buttons.
func (s *SettingsService) SetChoices(ctx context.Context, playerID int64, choices int) (entities.ConfigDiff, []entities.Notice, error) {
	return s.apply(ctx, playerID, func(c *entities.QuizConfig) {
		c.Choices = choices
	})
}

// SetMaxGuesses changes the number of guesses allowed per question.
func (s *SettingsService) SetMaxGuesses(ctx context.Context, playerID int64, guesses int) (entities.ConfigDiff, []entities.Notice, error) {
	return s.apply(ctx, playerID, func(c *entities.QuizConfig) {
		c.MaxGuesses = guesses
	})
}

// ToggleRegion enables or disables a region.
func (s *SettingsService) ToggleRegion(ctx context.Context, playerID int64, region string) (entities.ConfigDiff, []entities.Notice, error) {
	return s.apply(ctx, playerID, func(c *entities.QuizConfig) {
		if i := slices.Index(c.Regions, region); i >= 0 {
			c.Regions = slices.Delete(c.Regions, i, i+1)
		} else {
			c.Regions = append(c.Regions, region)
		}
	})
}

// apply mutates a copy of the stored config, normalizes and saves it.
// A change that invalidates the running quiz also clears its progress.
func (s *SettingsService) apply(
	ctx context.Context,
	playerID int64,
	mutate func(c *entities.QuizConfig),
) (entities.ConfigDiff, []entities.Notice, error) {
	settings, err := s.GetOrCreate(ctx, playerID)
	if err != nil {
		return entities.ConfigDiff{}, nil, err
	}

	old := settings.Config
	next := entities.QuizConfig{
		Regions:    slices.Clone(old.Regions),
		Choices:    old.Choices,
		MaxGuesses: old.MaxGuesses,
	}
	mutate(&next)

	next, notices, err := next.Normalize(s.defaultRegion)
	if err != nil {
		return entities.ConfigDiff{}, nil, err
	}

	diff := entities.ConfigDiff{Old: old, New: next}

	settings.Config = next
	settings.UpdatedAt = time.Now()
	if diff.ResetsQuiz() {
		settings.Progress = ""
		settings.Queue = nil
	}

	if err := s.repository.Save(ctx, settings); err != nil {
		return entities.ConfigDiff{}, nil, err
	}

	return diff, notices, nil
}
