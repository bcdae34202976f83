package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/service"
)

// handleQuiz continues the running quiz or shows the results of a finished one.
func (h *Handler) handleQuiz() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ctrl, ok, err := h.controller(ctx, chatID)
		if err != nil || !ok {
			return err
		}

		return h.advance(ctx, chatID, ctrl)
	}
}

// handleReset throws the running quiz away and starts over.
func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ctrl, ok, err := h.controller(ctx, chatID)
		if err != nil || !ok {
			return err
		}

		if _, err := ctrl.StartNewQuiz(ctx); err != nil {
			if isNotEnoughFlags(err) {
				h.sendError(chatID, msgNotEnoughFlags)
				return nil
			}
			return fmt.Errorf("start new quiz: %w", err)
		}

		return h.showQuestion(ctx, chatID, ctrl.Session())
	}
}

// handleScore reports the statistics of the running quiz.
func (h *Handler) handleScore() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ctrl, ok, err := h.controller(ctx, chatID)
		if err != nil || !ok {
			return err
		}

		if ctrl.IsComplete() {
			return h.showSummary(chatID, ctrl)
		}

		return h.send(newHTMLMessage(chatID, formatStatus(ctrl.Session())))
	}
}

// controller loads the player's controller. ok is false when the player
// was already told why no quiz can run.
func (h *Handler) controller(ctx context.Context, chatID int64) (*service.QuizController, bool, error) {
	ctrl, err := h.sessions.Controller(ctx, chatID)
	if err != nil {
		if isNotEnoughFlags(err) {
			h.sendError(chatID, msgNotEnoughFlags)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load quiz: %w", err)
	}
	return ctrl, true, nil
}

// advance shows whatever the quiz is waiting for.
func (h *Handler) advance(ctx context.Context, chatID int64, ctrl *service.QuizController) error {
	if ctrl.IsComplete() {
		return h.showSummary(chatID, ctrl)
	}

	s := ctrl.Session()
	if s.HasActiveQuestion() {
		return h.showQuestion(ctx, chatID, s)
	}

	if _, _, err := ctrl.LoadNextQuestion(ctx); err != nil {
		return fmt.Errorf("load next question: %w", err)
	}

	return h.showQuestion(ctx, chatID, ctrl.Session())
}

// handleGuess processes a tap on one of the answer buttons.
func (h *Handler) handleGuess(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) error {
	chatID := cb.Message.Chat.ID

	questionNumber, ok1 := data.intParam(0)
	choiceIndex, ok2 := data.intParam(1)
	if !ok1 || !ok2 {
		h.answerCallback(cb, "")
		return fmt.Errorf("malformed guess callback %q", data.Raw)
	}

	ctrl, ok, err := h.controller(ctx, chatID)
	if err != nil || !ok {
		h.answerCallback(cb, "")
		return err
	}

	s := ctrl.Session()
	if s == nil || !s.HasActiveQuestion() || s.QuestionNumber != questionNumber ||
		choiceIndex < 0 || choiceIndex >= len(s.Choices) {
		h.answerCallback(cb, msgQuestionClosed)
		return nil
	}

	guessed := s.Choices[choiceIndex].Name
	result, err := ctrl.SubmitGuess(ctx, guessed)
	if err != nil {
		if errors.Is(err, service.ErrChoiceEliminated) {
			h.answerCallback(cb, msgChoiceEliminated)
			return nil
		}
		h.answerCallback(cb, "")
		return fmt.Errorf("submit guess: %w", err)
	}

	s = ctrl.Session()

	if !result.Outcome.Terminal() {
		h.answerCallback(cb, msgIncorrect)
		h.request(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, buildChoicesKeyboard(s)))
		h.showEliminated(ctx, chatID, entities.FlagIDFromName(s.Current.Region(), guessed))
		return nil
	}

	h.answerCallback(cb, "")
	h.request(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, buildAnsweredKeyboard(s)))

	return h.showDetail(chatID, result, s)
}

// handleQuizAction handles the navigation buttons of the detail and summary views.
func (h *Handler) handleQuizAction(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) error {
	h.answerCallback(cb, "")
	chatID := cb.Message.Chat.ID

	// Drop the button so the view cannot be advanced twice.
	h.request(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}))

	switch data.param(0) {
	case quizNext:
		return h.handleQuiz()(ctx, chatID)
	case quizReset:
		return h.handleReset()(ctx, chatID)
	default:
		return fmt.Errorf("unknown quiz action %q", data.Raw)
	}
}

func (h *Handler) showQuestion(ctx context.Context, chatID int64, s *entities.QuizSession) error {
	caption := formatQuestionCaption(s)
	keyboard := buildChoicesKeyboard(s)

	data, err := h.flags.ReadFlag(ctx, s.Current)
	if err != nil {
		h.logger.Error("failed to read flag image",
			zap.String("flag", s.Current.String()),
			zap.Error(err),
		)

		msg := newHTMLMessage(chatID, msgNoImage+"\n\n"+caption)
		msg.ReplyMarkup = keyboard
		return h.send(msg)
	}

	photo := newFlagPhoto(chatID, s.Current, data, caption)
	photo.ReplyMarkup = keyboard
	return h.send(photo)
}

// showEliminated shows the flag of the country the player wrongly picked.
func (h *Handler) showEliminated(ctx context.Context, chatID int64, id entities.FlagID) {
	data, err := h.flags.ReadFlag(ctx, id)
	if err != nil {
		h.logger.Debug("no image for eliminated choice",
			zap.String("flag", id.String()),
			zap.Error(err),
		)
		_ = h.send(newHTMLMessage(chatID, formatEliminated(id.CountryName())))
		return
	}

	_ = h.send(newFlagPhoto(chatID, id, data, formatEliminated(id.CountryName())))
}

func (h *Handler) showDetail(chatID int64, r entities.GuessResult, s *entities.QuizSession) error {
	msg := newHTMLMessage(chatID, formatDetail(r, s))
	msg.ReplyMarkup = buildDetailKeyboard(s.IsComplete())
	return h.send(msg)
}

func (h *Handler) showSummary(chatID int64, ctrl *service.QuizController) error {
	msg := newHTMLMessage(chatID, formatScore(ctrl.FinalScore(), ctrl.Session().Length))
	msg.ReplyMarkup = buildSummaryKeyboard()
	return h.send(msg)
}

func isNotEnoughFlags(err error) bool {
	return errors.Is(err, service.ErrInsufficientCandidates) ||
		errors.Is(err, service.ErrInsufficientChoices)
}
