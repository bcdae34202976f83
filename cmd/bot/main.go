package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/config"
	"github.com/aliskhannn/flag-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/flag-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/flag-quiz-bot/internal/infra/redisstore"
	"github.com/aliskhannn/flag-quiz-bot/internal/infra/sqlstore"
	"github.com/aliskhannn/flag-quiz-bot/internal/logger"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
	"github.com/aliskhannn/flag-quiz-bot/internal/service"
	"github.com/aliskhannn/flag-quiz-bot/internal/storage"
)

// settingsStore is implemented by every store driver.
type settingsStore interface {
	service.SettingsRepository
	service.ProgressRepo
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "quiz",
			Description: "Continue the quiz",
		},
		{
			Command:     "reset",
			Description: "Start a new quiz",
		},
		{
			Command:     "score",
			Description: "Show quiz statistics",
		},
		{
			Command:     "settings",
			Description: "Choices, guesses and regions",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env == "local"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog := repository.NewOSFlagCatalog(cfg.AssetsDir, lg)
	regions, err := catalog.Regions(ctx)
	if err != nil {
		lg.Fatal("failed to read flag catalog", zap.String("dir", cfg.AssetsDir), zap.Error(err))
	}
	lg.Info("flag catalog loaded", zap.Strings("regions", regions))

	store, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open settings store",
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err),
		)
	}
	defer closeStore()

	defaults := entities.QuizConfig{
		Regions:    cfg.Quiz.DefaultRegions,
		Choices:    cfg.Quiz.DefaultChoices,
		MaxGuesses: cfg.Quiz.DefaultGuesses,
	}
	settingsService := service.NewSettingsService(store, defaults, cfg.Quiz.DefaultRegion)

	factory := service.NewControllerFactory(cfg.Quiz.Length, catalog, store, lg)
	sessions := service.NewSessionRegistry(settingsService, factory, cfg.Sessions.IdleTTL, lg)
	if err := sessions.Start(ctx, cfg.Sessions.SweepSpec); err != nil {
		lg.Fatal("failed to start session eviction", zap.Error(err))
	}

	handler := telegram.NewHandler(
		bot,
		lg,
		catalog,
		settingsService,
		sessions,
	)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error("handler stopped", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}

// openStore connects the configured settings store.
func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (settingsStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		repo := pgrepo.NewSettingsRepository(pool, postgres.NewTransactor(pool))
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return repo, pool.Close, nil

	case config.DriverSQLite, config.DriverMySQL:
		var dialect sqlstore.Dialect = sqlstore.NewSQLiteDialect()
		if cfg.Store.Driver == config.DriverMySQL {
			dialect = sqlstore.NewMySQLDialect()
		}

		s, err := sqlstore.Open(ctx, dialect, sqlstore.DialectConfig{
			Path: cfg.Store.SQLitePath,
			URL:  cfg.DB.URL,
		})
		if err != nil {
			return nil, nil, err
		}

		return s, func() {
			if err := s.Close(); err != nil {
				lg.Warn("failed to close settings store", zap.Error(err))
			}
		}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}

		return redisstore.NewSettingsRepository(client), func() { _ = client.Close() }, nil

	default:
		lg.Warn("using in-memory settings store, progress is lost on restart")
		return storage.NewSettingsStorage(), func() {}, nil
	}
}
