package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

func openTestStore(t *testing.T) *SettingsStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db", "flagquiz.db")
	s, err := Open(context.Background(), NewSQLiteDialect(), DialectConfig{Path: path})
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSettingsStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.Get(ctx, 7); !errors.Is(err, repository.ErrSettingsNotFound) {
		t.Fatalf("Get() error = %v, want ErrSettingsNotFound", err)
	}
	if err := s.SaveProgress(ctx, 7, "p", nil); !errors.Is(err, repository.ErrSettingsNotFound) {
		t.Fatalf("SaveProgress() error = %v, want ErrSettingsNotFound", err)
	}

	settings := entities.NewPlayerSettings(7, entities.QuizConfig{
		Regions:    []string{"Asia", "North_America"},
		Choices:    6,
		MaxGuesses: 3,
	})
	if err := s.Save(ctx, settings); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got.PlayerID != 7 || got.Config.Choices != 6 || got.Config.MaxGuesses != 3 {
		t.Errorf("Get() = %+v", got)
	}
	if !slices.Equal(got.Config.Regions, []string{"Asia", "North_America"}) {
		t.Errorf("Regions = %v", got.Config.Regions)
	}
	if got.Progress != "" || len(got.Queue) != 0 {
		t.Errorf("new record has progress %q %v", got.Progress, got.Queue)
	}

	progress := "Asia-Japan,Japan:T,China:F,QuestionNum:2,CorrectAnswers:1,NumCurrentGuess:1,TotalGuess:4"
	queue := []entities.FlagID{"Asia-India", "North_America-United_States"}
	if err := s.SaveProgress(ctx, 7, progress, queue); err != nil {
		t.Fatalf("SaveProgress() unexpected error: %v", err)
	}

	// Saving identical values still reports the row as found.
	if err := s.SaveProgress(ctx, 7, progress, queue); err != nil {
		t.Fatalf("repeated SaveProgress() unexpected error: %v", err)
	}

	got, err = s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got.Progress != progress || !slices.Equal(got.Queue, queue) {
		t.Errorf("progress = %q, queue = %v", got.Progress, got.Queue)
	}

	got.Config.Choices = 2
	got.Progress = ""
	got.Queue = nil
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("Save() update unexpected error: %v", err)
	}

	updated, err := s.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if updated.Config.Choices != 2 || updated.Progress != "" || len(updated.Queue) != 0 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestDialects(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		driver  string
		upsert  string
	}{
		{"sqlite", NewSQLiteDialect(), "sqlite3", "ON CONFLICT"},
		{"mysql", NewMySQLDialect(), "mysql", "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %q, want %q", got, tt.driver)
			}
			if !strings.Contains(tt.dialect.UpsertSettingsQuery(), tt.upsert) {
				t.Errorf("UpsertSettingsQuery() lacks %q", tt.upsert)
			}
			if !strings.Contains(tt.dialect.CreateSettingsTableQuery(), "quiz_settings") {
				t.Error("CreateSettingsTableQuery() does not create quiz_settings")
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	d := NewMySQLDialect()

	dsn, err := d.DSN(DialectConfig{URL: "quiz:secret@tcp(localhost:3306)/flagquiz"})
	if err != nil {
		t.Fatalf("DSN() unexpected error: %v", err)
	}
	for _, want := range []string{"parseTime=true", "clientFoundRows=true"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN() = %q, missing %q", dsn, want)
		}
	}

	if _, err := d.DSN(DialectConfig{URL: "not a dsn"}); err == nil {
		t.Error("DSN() accepted an invalid url")
	}
}

func TestSQLiteDSNRequiresPath(t *testing.T) {
	if _, err := NewSQLiteDialect().DSN(DialectConfig{}); err == nil {
		t.Error("DSN() accepted an empty path")
	}
}
