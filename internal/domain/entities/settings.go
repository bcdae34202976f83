package entities

import (
	"errors"
	"slices"
	"time"
)

var ErrInvalidChoices = errors.New("invalid number of choices")

// ChoiceOptions lists the supported numbers of answer buttons.
var ChoiceOptions = []int{2, 4, 6, 8}

// Notice is a one-shot message produced when settings are corrected
// or a quiz is restarted.
type Notice string

const (
	NoticeDefaultRegion  Notice = "default_region"  // regions were cleared, fallback region selected
	NoticeGuessesClamped Notice = "guesses_clamped" // max guesses lowered to number of choices
	NoticeQuizRestarted  Notice = "quiz_restarted"  // quiz was discarded and started over
)

// QuizConfig holds the options that shape a quiz.
type QuizConfig struct {
	Regions    []string // enabled regions, never empty after Normalize
	Choices    int      // answer buttons per question
	MaxGuesses int      // guesses allowed per question, at most Choices
}

// Normalize returns a copy of c with policy corrections applied,
// along with notices describing what was corrected.
func (c QuizConfig) Normalize(defaultRegion string) (QuizConfig, []Notice, error) {
	if !slices.Contains(ChoiceOptions, c.Choices) {
		return c, nil, ErrInvalidChoices
	}

	var notices []Notice
	out := QuizConfig{
		Regions:    slices.Clone(c.Regions),
		Choices:    c.Choices,
		MaxGuesses: c.MaxGuesses,
	}

	if len(out.Regions) == 0 {
		out.Regions = []string{defaultRegion}
		notices = append(notices, NoticeDefaultRegion)
	}
	slices.Sort(out.Regions)
	out.Regions = slices.Compact(out.Regions)

	if out.MaxGuesses > out.Choices {
		out.MaxGuesses = out.Choices
		notices = append(notices, NoticeGuessesClamped)
	}
	if out.MaxGuesses < 1 {
		out.MaxGuesses = 1
	}

	return out, notices, nil
}

// HasRegion reports whether region is enabled.
func (c QuizConfig) HasRegion(region string) bool {
	return slices.Contains(c.Regions, region)
}

// ConfigDiff describes a settings change between two configurations.
type ConfigDiff struct {
	Old QuizConfig
	New QuizConfig
}

// ResetsQuiz reports whether the change invalidates the running quiz.
func (d ConfigDiff) ResetsQuiz() bool {
	return d.Old.Choices != d.New.Choices || !slices.Equal(d.Old.Regions, d.New.Regions)
}

// PlayerSettings is the persisted record of one player (chat).
type PlayerSettings struct {
	PlayerID  int64
	Config    QuizConfig
	Progress  string   // encoded in-flight question, empty when there is none
	Queue     []FlagID // questions not yet asked, current one excluded
	UpdatedAt time.Time
}

// NewPlayerSettings creates settings with default values.
func NewPlayerSettings(playerID int64, defaults QuizConfig) *PlayerSettings {
	return &PlayerSettings{
		PlayerID: playerID,
		Config: QuizConfig{
			Regions:    slices.Clone(defaults.Regions),
			Choices:    defaults.Choices,
			MaxGuesses: defaults.MaxGuesses,
		},
		UpdatedAt: time.Now(),
	}
}
