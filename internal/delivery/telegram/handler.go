package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/service"
)

type FlagSource interface {
	Regions(ctx context.Context) ([]string, error)
	ReadFlag(ctx context.Context, id entities.FlagID) ([]byte, error)
}

type SettingsService interface {
	GetOrCreate(ctx context.Context, playerID int64) (*entities.PlayerSettings, error)
	SetChoices(ctx context.Context, playerID int64, choices int) (entities.ConfigDiff, []entities.Notice, error)
	SetMaxGuesses(ctx context.Context, playerID int64, guesses int) (entities.ConfigDiff, []entities.Notice, error)
	ToggleRegion(ctx context.Context, playerID int64, region string) (entities.ConfigDiff, []entities.Notice, error)
}

type SessionRegistry interface {
	Controller(ctx context.Context, playerID int64) (*service.QuizController, error)
	Reconfigure(ctx context.Context, playerID int64, diff entities.ConfigDiff) ([]entities.Notice, error)
}

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	flags           FlagSource
	settingsService SettingsService
	sessions        SessionRegistry
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	flags FlagSource,
	settingsService SettingsService,
	sessions SessionRegistry,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		flags:           flags,
		settingsService: settingsService,
		sessions:        sessions,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.send(newHTMLMessage(chatID, msgUseButtons))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.send(newHTMLMessage(chatID, msgWelcome))
		_ = h.withErrorHandling(h.handleQuiz())(ctx, chatID)

	case "quiz":
		_ = h.withErrorHandling(h.handleQuiz())(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling(h.handleReset())(ctx, chatID)

	case "score":
		_ = h.withErrorHandling(h.handleScore())(ctx, chatID)

	case "settings":
		_ = h.withErrorHandling(h.handleSettings())(ctx, chatID)

	case "help":
		_ = h.send(newHTMLMessage(chatID, msgHelp))

	default:
		_ = h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// request is send for API calls that do not return a message.
func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Error("telegram request failed",
			zap.Error(err),
		)
	}
}
