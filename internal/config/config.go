package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`        // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`          // Telegram API token loaded from environment
	AssetsDir        string   `mapstructure:"assets_dir"` // root of the <region>/<region>-<country>.png tree
	Quiz             Quiz     `mapstructure:"quiz"`       // quiz defaults
	Store            Store    `mapstructure:"store"`      // settings store selection
	DB               DB       `mapstructure:"database"`   // database configuration section
	Redis            Redis    `mapstructure:"redis"`      // redis configuration section
	Sessions         Sessions `mapstructure:"sessions"`   // in-memory session housekeeping
}

// Quiz contains the defaults applied to new players.
type Quiz struct {
	Length         int      `mapstructure:"length"`          // questions per quiz
	DefaultRegion  string   `mapstructure:"default_region"`  // fallback when a player clears every region
	DefaultRegions []string `mapstructure:"default_regions"` // regions enabled for new players
	DefaultChoices int      `mapstructure:"default_choices"` // answer buttons for new players
	DefaultGuesses int      `mapstructure:"default_guesses"` // guesses per question for new players
}

// Store selects the settings store backend.
type Store struct {
	Driver     string `mapstructure:"driver"`      // memory, postgres, sqlite, mysql or redis
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis contains redis connection parameters.
type Redis struct {
	Addr     string `mapstructure:"-"`  // host:port loaded from environment
	Password string `mapstructure:"-"`  // loaded from environment
	DB       int    `mapstructure:"db"` // logical database number
}

// Sessions controls eviction of idle in-memory quiz controllers.
type Sessions struct {
	IdleTTL   time.Duration `mapstructure:"idle_ttl"`   // evict controllers untouched for this long
	SweepSpec string        `mapstructure:"sweep_spec"` // cron spec of the eviction job
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, the variables may come from the environment.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("assets_dir", "assets/flags")
	v.SetDefault("quiz.length", 10)
	v.SetDefault("quiz.default_region", "North_America")
	v.SetDefault("quiz.default_regions", []string{"Africa", "Asia", "Europe", "North_America", "Oceania", "South_America"})
	v.SetDefault("quiz.default_choices", 4)
	v.SetDefault("quiz.default_guesses", 4)
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.sqlite_path", "data/flagquiz.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.db", 0)
	v.SetDefault("sessions.idle_ttl", "30m")
	v.SetDefault("sessions.sweep_spec", "@every 5m")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Addr = v.GetString("redis_addr")
	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres, DriverMySQL:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return ErrMissingEnvironmentVariables
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	if c.Quiz.Length < 1 {
		return fmt.Errorf("quiz length must be positive, got %d", c.Quiz.Length)
	}

	return nil
}
