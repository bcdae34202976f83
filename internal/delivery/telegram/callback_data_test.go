package telegram

import (
	"testing"
)

func TestCallbackDataRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		action string
		params []string
	}{
		{"guess", buildGuessCallback(3, 1), actionGuess, []string{"3", "1"}},
		{"next", buildQuizNextCallback(), actionQuiz, []string{quizNext}},
		{"reset", buildQuizResetCallback(), actionQuiz, []string{quizReset}},
		{"settings menu", buildSettingsCallback(settingsMenu), actionSettings, []string{settingsMenu}},
		{"region toggle", buildSettingsCallback(settingsRegion, "North_America"), actionSettings, []string{settingsRegion, "North_America"}},
		{"noop", buildNoopCallback(), actionNoop, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.data) > 64 {
				t.Errorf("callback data %q exceeds Telegram's 64 byte limit", tt.data)
			}

			cd := decodeCallback(tt.data)
			if cd.Action != tt.action {
				t.Errorf("Action = %q, want %q", cd.Action, tt.action)
			}
			if len(cd.Params) != len(tt.params) {
				t.Fatalf("Params = %v, want %v", cd.Params, tt.params)
			}
			for i, p := range tt.params {
				if cd.param(i) != p {
					t.Errorf("param(%d) = %q, want %q", i, cd.param(i), p)
				}
			}
			if cd.Raw != tt.data {
				t.Errorf("Raw = %q", cd.Raw)
			}
		})
	}
}

func TestCallbackDataParams(t *testing.T) {
	cd := decodeCallback(buildGuessCallback(9, 7))

	if n, ok := cd.intParam(0); !ok || n != 9 {
		t.Errorf("intParam(0) = %d, %v", n, ok)
	}
	if n, ok := cd.intParam(1); !ok || n != 7 {
		t.Errorf("intParam(1) = %d, %v", n, ok)
	}
	if _, ok := cd.intParam(2); ok {
		t.Error("intParam(2) of a missing param reported ok")
	}
	if cd.param(-1) != "" || cd.param(5) != "" {
		t.Error("out of range param is not empty")
	}

	if _, ok := decodeCallback("guess:x:1").intParam(0); ok {
		t.Error("non numeric param parsed")
	}
}
