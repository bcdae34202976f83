package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var err error
	switch data.Action {
	case actionGuess:
		err = h.handleGuess(ctx, cb, data)
	case actionQuiz:
		err = h.handleQuizAction(ctx, cb, data)
	case actionSettings:
		err = h.handleSettingsAction(ctx, cb, data)
	case actionNoop:
		h.answerCallback(cb, "")
	default:
		h.logger.Warn("unknown callback action",
			zap.String("data", cb.Data),
		)
		h.answerCallback(cb, "")
	}

	if err != nil {
		h.logger.Error("callback handling failed",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
	}
}

// answerCallback stops the loading indicator on the pressed button.
// Each callback must be answered exactly once.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	h.request(tgbotapi.NewCallback(cb.ID, text))
}
