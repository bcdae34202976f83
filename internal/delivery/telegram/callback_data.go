package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionGuess    = "guess"
	actionQuiz     = "quiz"
	actionSettings = "settings"
	actionNoop     = "noop"
)

// Quiz sub-actions.
const (
	quizNext  = "next"
	quizReset = "reset"
)

// Settings sub-actions.
const (
	settingsMenu    = "menu"
	settingsChoices = "choices"
	settingsGuesses = "guesses"
	settingsRegion  = "region"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	return n, err == nil
}

// buildGuessCallback builds callback data for picking a choice of a question.
// The question number lets stale keyboards be detected.
func buildGuessCallback(questionNumber, choiceIndex int) string {
	return callbackData{
		Action: actionGuess,
		Params: []string{
			strconv.Itoa(questionNumber),
			strconv.Itoa(choiceIndex),
		},
	}.encode()
}

// buildQuizNextCallback builds callback data for leaving the detail view.
func buildQuizNextCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizNext},
	}.encode()
}

// buildQuizResetCallback builds callback data for starting over.
func buildQuizResetCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizReset},
	}.encode()
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionSettings,
		Params: params,
	}.encode()
}

func buildNoopCallback() string {
	return actionNoop
}
