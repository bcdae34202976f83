package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

// handleSettings shows the settings menu.
func (h *Handler) handleSettings() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.GetOrCreate(ctx, chatID)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}

		msg := newHTMLMessage(chatID, formatSettings(settings.Config))
		msg.ReplyMarkup = buildSettingsKeyboard()
		return h.send(msg)
	}
}

// handleSettingsAction handles every button of the settings screens.
func (h *Handler) handleSettingsAction(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) error {
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	settings, err := h.settingsService.GetOrCreate(ctx, chatID)
	if err != nil {
		h.answerCallback(cb, "")
		return fmt.Errorf("get settings: %w", err)
	}
	config := settings.Config

	sub := data.param(0)
	value := data.param(1)

	// A bare sub-action opens the corresponding screen.
	if value == "" {
		h.answerCallback(cb, "")

		var keyboard tgbotapi.InlineKeyboardMarkup
		switch sub {
		case settingsMenu:
			keyboard = buildSettingsKeyboard()
		case settingsChoices:
			keyboard = buildChoicesSettingsKeyboard(config.Choices)
		case settingsGuesses:
			keyboard = buildGuessesSettingsKeyboard(config)
		case settingsRegion:
			regions, err := h.flags.Regions(ctx)
			if err != nil {
				return fmt.Errorf("list regions: %w", err)
			}
			keyboard = buildRegionsKeyboard(regions, config)
		default:
			return fmt.Errorf("unknown settings action %q", data.Raw)
		}

		h.editSettings(chatID, messageID, config, keyboard)
		return nil
	}

	var (
		diff    entities.ConfigDiff
		notices []entities.Notice
	)

	switch sub {
	case settingsChoices:
		n, ok := data.intParam(1)
		if !ok {
			h.answerCallback(cb, "")
			return fmt.Errorf("malformed settings callback %q", data.Raw)
		}
		diff, notices, err = h.settingsService.SetChoices(ctx, chatID, n)

	case settingsGuesses:
		n, ok := data.intParam(1)
		if !ok {
			h.answerCallback(cb, "")
			return fmt.Errorf("malformed settings callback %q", data.Raw)
		}
		diff, notices, err = h.settingsService.SetMaxGuesses(ctx, chatID, n)

	case settingsRegion:
		diff, notices, err = h.settingsService.ToggleRegion(ctx, chatID, value)

	default:
		h.answerCallback(cb, "")
		return fmt.Errorf("unknown settings action %q", data.Raw)
	}

	if err != nil {
		if errors.Is(err, entities.ErrInvalidChoices) {
			h.answerCallback(cb, msgInvalidSettings)
			return nil
		}
		h.answerCallback(cb, "")
		return fmt.Errorf("update settings: %w", err)
	}
	h.answerCallback(cb, "")

	quizNotices, err := h.sessions.Reconfigure(ctx, chatID, diff)
	if err != nil {
		if !isNotEnoughFlags(err) {
			return fmt.Errorf("reconfigure quiz: %w", err)
		}
		h.logger.Info("quiz cannot run with new settings",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgNotEnoughFlags)
	}
	notices = append(notices, quizNotices...)

	var keyboard tgbotapi.InlineKeyboardMarkup
	switch sub {
	case settingsChoices:
		keyboard = buildChoicesSettingsKeyboard(diff.New.Choices)
	case settingsGuesses:
		keyboard = buildGuessesSettingsKeyboard(diff.New)
	case settingsRegion:
		regions, err := h.flags.Regions(ctx)
		if err != nil {
			return fmt.Errorf("list regions: %w", err)
		}
		keyboard = buildRegionsKeyboard(regions, diff.New)
	}

	h.editSettings(chatID, messageID, diff.New, keyboard)
	h.sendNotices(chatID, notices)

	return nil
}

func (h *Handler) editSettings(chatID int64, messageID int, config entities.QuizConfig, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, formatSettings(config), keyboard)
	edit.ParseMode = tgbotapi.ModeHTML
	h.request(edit)
}

// sendNotices sends each distinct notice once.
func (h *Handler) sendNotices(chatID int64, notices []entities.Notice) {
	seen := make(map[entities.Notice]bool, len(notices))
	for _, n := range notices {
		if seen[n] {
			continue
		}
		seen[n] = true

		if text := formatNotice(n); text != "" {
			_ = h.send(newHTMLMessage(chatID, text))
		}
	}
}
