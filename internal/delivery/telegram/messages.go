// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

const (
	msgWelcome = "👋 <b>Flag Quiz</b>\n\nGuess the country of each flag. " +
		"Tap an answer below the picture; wrong answers are crossed out.\n\n" +
		"/settings - choices, guesses and regions"
	msgHelp = "/quiz - continue or start a quiz\n" +
		"/reset - start a new quiz\n" +
		"/score - current quiz statistics\n" +
		"/settings - choices, guesses and regions"
	msgUnknownCommand    = "Unknown command. See /help."
	msgUseButtons        = "Use the buttons under the flag to answer, or /quiz to continue."
	msgInternalError     = "Something went wrong. Please try again later."
	msgNotEnoughFlags    = "The selected regions do not have enough flags for a quiz.\nEnable more regions or fewer choices in /settings."
	msgQuestionClosed    = "This question is already closed."
	msgChoiceEliminated  = "Already eliminated."
	msgIncorrect         = "Incorrect!"
	msgNoImage           = "🏳 (flag image unavailable)"
	msgDefaultRegion     = "At least one region must be selected. The default region was selected for you."
	msgGuessesClamped    = "The number of guesses must not exceed the number of choices.\nSetting the number of guesses to the number of choices."
	msgQuizRestarted     = "Settings changed, restarting the quiz. Use /quiz to play."
	msgInvalidSettings   = "This value is not allowed."
	msgSettingsTitle     = "⚙️ <b>Settings</b>"
	msgButtonNext        = "Next flag ▶️"
	msgButtonResults     = "Show results 🏁"
	msgButtonReset       = "🔄 Reset quiz"
	msgButtonSettingsTop = "⬅️ Back"
)

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newFlagPhoto creates a photo message of a flag with an HTML caption.
func newFlagPhoto(chatID int64, id entities.FlagID, data []byte, caption string) tgbotapi.PhotoConfig {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: string(id) + ".png", Bytes: data})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	return photo
}

// regionLabel turns a region token into display text.
func regionLabel(region string) string {
	return strings.ReplaceAll(region, "_", " ")
}

// formatQuestionCaption renders "Question x of N".
func formatQuestionCaption(s *entities.QuizSession) string {
	return fmt.Sprintf("<b>Question %d of %d</b>\nWhich country does this flag belong to?",
		s.QuestionNumber+1, s.Length)
}

// formatEliminated renders the caption of a wrongly guessed flag.
func formatEliminated(name string) string {
	return fmt.Sprintf("❌ %s\nThat was the flag of <b>%s</b>.", msgIncorrect, html.EscapeString(name))
}

// formatDetail renders the detail view shown after a terminal answer.
func formatDetail(r entities.GuessResult, s *entities.QuizSession) string {
	var sb strings.Builder

	if r.Outcome == entities.OutcomeCorrect {
		sb.WriteString("✅ <b>Correct!</b>\n\n")
	} else {
		sb.WriteString("⛔ <b>Out of guesses.</b>\n\n")
	}

	fmt.Fprintf(&sb, "<b>Country:</b> %s\n<b>Region:</b> %s\n\n",
		html.EscapeString(r.Country()),
		html.EscapeString(regionLabel(r.Region())),
	)
	fmt.Fprintf(&sb, "%d of %d answered, %d correct", s.QuestionNumber, s.Length, s.CorrectAnswers)

	return sb.String()
}

// formatScore renders the end-of-quiz summary.
func formatScore(score entities.Score, length int) string {
	return fmt.Sprintf(
		"🏁 <b>Quiz finished!</b>\n\n%d guesses, %.02f%% correct\n%d of %d flags identified",
		score.TotalGuesses,
		score.Percent(length),
		score.CorrectAnswers,
		length,
	)
}

// formatStatus renders the statistics of a running quiz.
func formatStatus(s *entities.QuizSession) string {
	return fmt.Sprintf(
		"📊 <b>Current quiz</b>\n\nAnswered: %d of %d\nCorrect: %d\nGuesses: %d",
		s.QuestionNumber, s.Length, s.CorrectAnswers, s.TotalGuesses,
	)
}

// formatSettings renders the settings screen.
func formatSettings(c entities.QuizConfig) string {
	regions := make([]string, len(c.Regions))
	for i, r := range c.Regions {
		regions[i] = html.EscapeString(regionLabel(r))
	}

	return fmt.Sprintf(
		"%s\n\n🔢 Choices: %d\n🎯 Guesses per flag: %d\n🌍 Regions: %s",
		msgSettingsTitle,
		c.Choices,
		c.MaxGuesses,
		strings.Join(regions, ", "),
	)
}

// formatNotice maps a notice to its user-facing text.
func formatNotice(n entities.Notice) string {
	switch n {
	case entities.NoticeDefaultRegion:
		return msgDefaultRegion
	case entities.NoticeGuessesClamped:
		return msgGuessesClamped
	case entities.NoticeQuizRestarted:
		return msgQuizRestarted
	default:
		return ""
	}
}
