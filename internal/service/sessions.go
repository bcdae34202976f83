package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

type PlayerSettingsProvider interface {
	GetOrCreate(ctx context.Context, playerID int64) (*entities.PlayerSettings, error)
}

// ControllerFactory builds the controller of a player.
type ControllerFactory func(playerID int64, config entities.QuizConfig) *QuizController

// NewControllerFactory returns a factory wiring controllers to the catalog
// and the progress store, each with its own random source.
func NewControllerFactory(length int, catalog FlagLister, repo ProgressRepo, logger *zap.Logger) ControllerFactory {
	return func(playerID int64, config entities.QuizConfig) *QuizController {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano() ^ playerID))
		return NewQuizController(playerID, length, config, catalog, repo, rnd, logger)
	}
}

type sessionEntry struct {
	controller *QuizController
	lastSeen   time.Time
}

// SessionRegistry keeps one quiz controller per player in memory.
// Every controller persists its state, so evicted players resume
// transparently on their next action.
type SessionRegistry struct {
	mu       sync.Mutex
	entries  map[int64]*sessionEntry
	settings PlayerSettingsProvider
	factory  ControllerFactory
	idleTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionRegistry(
	settings PlayerSettingsProvider,
	factory ControllerFactory,
	idleTTL time.Duration,
	logger *zap.Logger,
) *SessionRegistry {
	return &SessionRegistry{
		entries:  make(map[int64]*sessionEntry),
		settings: settings,
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Controller returns the player's controller, resuming the persisted quiz
// when the player is not in memory.
func (r *SessionRegistry) Controller(ctx context.Context, playerID int64) (*QuizController, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[playerID]; ok {
		e.lastSeen = r.now()
		return e.controller, nil
	}

	settings, err := r.settings.GetOrCreate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	ctrl := r.factory(playerID, settings.Config)
	if _, err := ctrl.Resume(ctx); err != nil {
		return nil, fmt.Errorf("resume quiz: %w", err)
	}

	r.entries[playerID] = &sessionEntry{controller: ctrl, lastSeen: r.now()}
	return ctrl, nil
}

// Reconfigure forwards a settings change to a loaded controller. Players
// not in memory pick the new settings up on resume.
func (r *SessionRegistry) Reconfigure(ctx context.Context, playerID int64, diff entities.ConfigDiff) ([]entities.Notice, error) {
	r.mu.Lock()
	e, ok := r.entries[playerID]
	r.mu.Unlock()

	if !ok {
		if diff.ResetsQuiz() {
			return []entities.Notice{entities.NoticeQuizRestarted}, nil
		}
		return nil, nil
	}

	notices, err := e.controller.OnConfigChanged(ctx, diff)
	if err != nil {
		// Drop the controller so the next action retries from the store.
		r.forget(playerID)
		return nil, err
	}
	return notices, nil
}

func (r *SessionRegistry) forget(playerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, playerID)
}

// EvictIdle drops controllers untouched for longer than the idle TTL.
func (r *SessionRegistry) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}

	return evicted
}

// Len returns the number of controllers in memory.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Start schedules idle eviction until ctx is done.
func (r *SessionRegistry) Start(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		if n := r.EvictIdle(); n > 0 {
			r.logger.Info("evicted idle quiz sessions",
				zap.Int("evicted", n),
				zap.Int("remaining", r.Len()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule eviction: %w", err)
	}

	c.Start()
	r.logger.Info("session eviction scheduled", zap.String("spec", spec))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		r.logger.Info("session eviction stopped")
	}()

	return nil
}
