package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/storage"
)

func newTestRegistry(t *testing.T, ttl time.Duration) (*SessionRegistry, *SettingsService) {
	t.Helper()

	store := storage.NewSettingsStorage()
	catalog := newTestCatalog(t, map[string]int{"Asia": 12, "Europe": 12})
	settings := NewSettingsService(store,
		entities.QuizConfig{Regions: []string{"Asia", "Europe"}, Choices: 4, MaxGuesses: 2},
		"Europe",
	)
	factory := NewControllerFactory(entities.DefaultQuizLength, catalog, store, zap.NewNop())

	return NewSessionRegistry(settings, factory, ttl, zap.NewNop()), settings
}

func TestSessionRegistryController(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, time.Minute)

	first, err := r.Controller(ctx, testPlayer)
	if err != nil {
		t.Fatalf("Controller() unexpected error: %v", err)
	}
	if first.Session() == nil || !first.Session().HasActiveQuestion() {
		t.Fatal("new player has no question loaded")
	}

	second, err := r.Controller(ctx, testPlayer)
	if err != nil {
		t.Fatalf("Controller() unexpected error: %v", err)
	}
	if first != second {
		t.Error("Controller() built a second controller for a loaded player")
	}

	if _, err := r.Controller(ctx, testPlayer+1); err != nil {
		t.Fatalf("Controller() unexpected error: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestSessionRegistryEvictIdle(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, 10*time.Minute)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	ctrl, err := r.Controller(ctx, testPlayer)
	if err != nil {
		t.Fatalf("Controller() unexpected error: %v", err)
	}
	if _, err := ctrl.SubmitGuess(ctx, wrongChoice(t, ctrl.Session())); err != nil {
		t.Fatalf("SubmitGuess() unexpected error: %v", err)
	}
	before := ctrl.Session()

	now = now.Add(5 * time.Minute)
	if n := r.EvictIdle(); n != 0 {
		t.Fatalf("EvictIdle() = %d before the TTL", n)
	}

	now = now.Add(11 * time.Minute)
	if n := r.EvictIdle(); n != 1 {
		t.Fatalf("EvictIdle() = %d, want 1", n)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after eviction", r.Len())
	}

	resumed, err := r.Controller(ctx, testPlayer)
	if err != nil {
		t.Fatalf("Controller() unexpected error: %v", err)
	}
	if resumed == ctrl {
		t.Fatal("evicted controller returned")
	}

	s := resumed.Session()
	if s.Current != before.Current || s.TotalGuesses != 1 || !slices.Equal(s.Queue, before.Queue) {
		t.Errorf("resumed session = %+v, want %+v", s, before)
	}
}

func TestSessionRegistryReconfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("player not loaded", func(t *testing.T) {
		r, settings := newTestRegistry(t, time.Minute)

		diff, _, err := settings.SetChoices(ctx, testPlayer, 2)
		if err != nil {
			t.Fatalf("SetChoices() unexpected error: %v", err)
		}
		notices, err := r.Reconfigure(ctx, testPlayer, diff)
		if err != nil {
			t.Fatalf("Reconfigure() unexpected error: %v", err)
		}
		if !slices.Equal(notices, []entities.Notice{entities.NoticeQuizRestarted}) {
			t.Errorf("notices = %v", notices)
		}

		diff, _, err = settings.SetMaxGuesses(ctx, testPlayer, 1)
		if err != nil {
			t.Fatalf("SetMaxGuesses() unexpected error: %v", err)
		}
		if notices, err := r.Reconfigure(ctx, testPlayer, diff); err != nil || len(notices) != 0 {
			t.Errorf("Reconfigure() = %v, %v; want no notices", notices, err)
		}
		if r.Len() != 0 {
			t.Error("Reconfigure() loaded a controller")
		}
	})

	t.Run("player loaded", func(t *testing.T) {
		r, settings := newTestRegistry(t, time.Minute)

		ctrl, err := r.Controller(ctx, testPlayer)
		if err != nil {
			t.Fatalf("Controller() unexpected error: %v", err)
		}

		diff, _, err := settings.SetChoices(ctx, testPlayer, 6)
		if err != nil {
			t.Fatalf("SetChoices() unexpected error: %v", err)
		}
		notices, err := r.Reconfigure(ctx, testPlayer, diff)
		if err != nil {
			t.Fatalf("Reconfigure() unexpected error: %v", err)
		}
		if !slices.Equal(notices, []entities.Notice{entities.NoticeQuizRestarted}) {
			t.Errorf("notices = %v", notices)
		}
		if got := len(ctrl.Session().Choices); got != 6 {
			t.Errorf("len(Choices) = %d, want 6", got)
		}
		if ctrl.Config().Choices != 6 {
			t.Errorf("controller config not updated: %+v", ctrl.Config())
		}
	})
}

func TestSessionRegistryStart(t *testing.T) {
	r, _ := newTestRegistry(t, time.Minute)

	if err := r.Start(context.Background(), "not a cron spec"); err == nil {
		t.Error("Start() accepted an invalid spec")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.Start(ctx, "@every 1h"); err != nil {
		t.Errorf("Start() unexpected error: %v", err)
	}
}
