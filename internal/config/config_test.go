package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.TelegramAPIToken != "token" {
		t.Errorf("TelegramAPIToken = %q", cfg.TelegramAPIToken)
	}
	if cfg.Quiz.Length != 10 || cfg.Quiz.DefaultChoices != 4 || cfg.Quiz.DefaultRegion != "North_America" {
		t.Errorf("Quiz = %+v", cfg.Quiz)
	}
	if len(cfg.Quiz.DefaultRegions) == 0 {
		t.Error("no default regions")
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, DriverMemory)
	}
	if cfg.Sessions.IdleTTL != 30*time.Minute {
		t.Errorf("Sessions.IdleTTL = %v", cfg.Sessions.IdleTTL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing token",
			env:     map[string]string{"TELEGRAM_API_TOKEN": ""},
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"TELEGRAM_API_TOKEN": "token", "STORE_DRIVER": DriverPostgres, "DATABASE_URL": ""},
			wantErr: ErrMissingEnvironmentVariables,
		},
		{
			name:    "redis without address",
			env:     map[string]string{"TELEGRAM_API_TOKEN": "token", "STORE_DRIVER": DriverRedis, "REDIS_ADDR": ""},
			wantErr: ErrMissingEnvironmentVariables,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := Load(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("TELEGRAM_API_TOKEN", "token")
		t.Setenv("STORE_DRIVER", "cassandra")

		if _, err := Load(); err == nil {
			t.Error("Load() accepted an unknown driver")
		}
	})
}
