package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

const choicesPerRow = 2

// buildChoicesKeyboard renders the answer buttons of the current question.
// Eliminated choices stay in place but do nothing.
func buildChoicesKeyboard(s *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, c := range s.Choices {
		btn := tgbotapi.NewInlineKeyboardButtonData(c.Name, buildGuessCallback(s.QuestionNumber, i))
		if !c.Live {
			btn = tgbotapi.NewInlineKeyboardButtonData("✖ "+c.Name, buildNoopCallback())
		}

		row = append(row, btn)
		if len(row) == choicesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildAnsweredKeyboard replaces the choices once the question is closed.
func buildAnsweredKeyboard(s *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range s.Choices {
		label := c.Name
		if c.Name == s.Current.CountryName() {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildNoopCallback()),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildDetailKeyboard offers the way forward after a terminal answer.
func buildDetailKeyboard(complete bool) tgbotapi.InlineKeyboardMarkup {
	label := msgButtonNext
	if complete {
		label = msgButtonResults
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizNextCallback()),
		),
	)
}

// buildSummaryKeyboard offers a new quiz.
func buildSummaryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msgButtonReset, buildQuizResetCallback()),
		),
	)
}

// buildSettingsKeyboard renders the top-level settings menu.
func buildSettingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔢 Choices", buildSettingsCallback(settingsChoices)),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Guesses", buildSettingsCallback(settingsGuesses)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Regions", buildSettingsCallback(settingsRegion)),
		),
	)
}

// buildChoicesSettingsKeyboard lists the allowed numbers of choices.
func buildChoicesSettingsKeyboard(current int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, n := range entities.ChoiceOptions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			markSelected(strconv.Itoa(n), n == current),
			buildSettingsCallback(settingsChoices, strconv.Itoa(n)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(row, backRow())
}

// buildGuessesSettingsKeyboard lists guess limits up to the number of choices.
func buildGuessesSettingsKeyboard(config entities.QuizConfig) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for n := 1; n <= config.Choices; n++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			markSelected(strconv.Itoa(n), n == config.MaxGuesses),
			buildSettingsCallback(settingsGuesses, strconv.Itoa(n)),
		))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow())

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildRegionsKeyboard lists every region of the catalog with its state.
func buildRegionsKeyboard(all []string, config entities.QuizConfig) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, region := range all {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				markSelected(regionLabel(region), config.HasRegion(region)),
				buildSettingsCallback(settingsRegion, region),
			),
		))
	}
	rows = append(rows, backRow())

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(msgButtonSettingsTop, buildSettingsCallback(settingsMenu)),
	)
}

func markSelected(label string, selected bool) string {
	if selected {
		return fmt.Sprintf("✅ %s", label)
	}
	return label
}
