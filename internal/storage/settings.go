package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

// SettingsStorage provides in-memory storage for player settings by player ID.
type SettingsStorage struct {
	mu       sync.RWMutex
	settings map[int64]entities.PlayerSettings
}

// NewSettingsStorage creates a new SettingsStorage.
func NewSettingsStorage() *SettingsStorage {
	return &SettingsStorage{
		settings: make(map[int64]entities.PlayerSettings),
	}
}

// Get retrieves a copy of the settings for a given player ID.
func (s *SettingsStorage) Get(_ context.Context, playerID int64) (*entities.PlayerSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, ok := s.settings[playerID]
	if !ok {
		return nil, repository.ErrSettingsNotFound
	}

	return clone(ps), nil
}

// Save stores the settings, replacing any previous record.
func (s *SettingsStorage) Save(_ context.Context, settings *entities.PlayerSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.PlayerID] = *clone(*settings)
	return nil
}

// SaveProgress updates the in-flight quiz of a player.
func (s *SettingsStorage) SaveProgress(_ context.Context, playerID int64, progress string, queue []entities.FlagID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.settings[playerID]
	if !ok {
		return repository.ErrSettingsNotFound
	}

	ps.Progress = progress
	ps.Queue = slices.Clone(queue)
	ps.UpdatedAt = time.Now()
	s.settings[playerID] = ps

	return nil
}

func clone(ps entities.PlayerSettings) *entities.PlayerSettings {
	ps.Config.Regions = slices.Clone(ps.Config.Regions)
	ps.Queue = slices.Clone(ps.Queue)
	return &ps
}
