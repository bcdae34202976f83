package entities

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultQuizLength is the number of questions in one quiz.
const DefaultQuizLength = 10

// Choice is one answer button of the current question.
type Choice struct {
	Name string // country display name
	Live bool   // false once guessed and found wrong
}

// QuizSession represents the state of a single quiz for a player.
type QuizSession struct {
	ID                  uuid.UUID // log correlation only, not persisted
	Length              int       // number of questions in the quiz
	Queue               []FlagID  // remaining questions, consumed front to back
	Current             FlagID    // question on screen, empty until loaded
	Choices             []Choice  // displayed choices of the current question
	GuessesThisQuestion int       // guesses made on the current question
	TotalGuesses        int       // guesses made in the whole quiz
	CorrectAnswers      int       // questions answered correctly
	QuestionNumber      int       // questions finished, in [0, Length]
	Answered            bool      // current question reached a terminal outcome
	StartedAt           time.Time
}

// NewQuizSession creates a session over the given question queue.
func NewQuizSession(queue []FlagID) *QuizSession {
	return &QuizSession{
		ID:        uuid.New(),
		Length:    len(queue),
		Queue:     slices.Clone(queue),
		StartedAt: time.Now(),
	}
}

// IsComplete reports whether every question has been finished.
func (qs *QuizSession) IsComplete() bool {
	return qs.QuestionNumber == qs.Length
}

// HasActiveQuestion reports whether the current question accepts guesses.
func (qs *QuizSession) HasActiveQuestion() bool {
	return qs.Current != "" && !qs.Answered
}

// ChoiceIndex returns the index of the displayed choice with the given name.
func (qs *QuizSession) ChoiceIndex(name string) int {
	return slices.IndexFunc(qs.Choices, func(c Choice) bool { return c.Name == name })
}

// Clone returns a deep copy safe to hand to renderers.
func (qs *QuizSession) Clone() *QuizSession {
	c := *qs
	c.Queue = slices.Clone(qs.Queue)
	c.Choices = slices.Clone(qs.Choices)
	return &c
}

// GuessOutcome is the result category of a single guess.
type GuessOutcome int

const (
	OutcomeIncorrect GuessOutcome = iota
	OutcomeCorrect
	OutcomeExhaustedMaxGuesses
)

func (o GuessOutcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeExhaustedMaxGuesses:
		return "exhausted"
	default:
		return "incorrect"
	}
}

// Terminal reports whether the outcome finishes the current question.
func (o GuessOutcome) Terminal() bool {
	return o != OutcomeIncorrect
}

// GuessResult is handed to the UI after a guess.
type GuessResult struct {
	Outcome GuessOutcome
	Answer  FlagID // correct flag of the question
	Guess   string // name the player picked
}

// Region of the answered question.
func (r GuessResult) Region() string { return r.Answer.Region() }

// Country display name of the answered question.
func (r GuessResult) Country() string { return r.Answer.CountryName() }

// Score summarizes a finished quiz.
type Score struct {
	TotalGuesses    int
	CorrectAnswers  int
	AccuracyPer1000 float64 // 1000 / TotalGuesses, 0 when there were no guesses
}

// NewScore computes the final score from the guess totals.
func NewScore(totalGuesses, correctAnswers int) Score {
	s := Score{TotalGuesses: totalGuesses, CorrectAnswers: correctAnswers}
	if totalGuesses > 0 {
		s.AccuracyPer1000 = 1000 / float64(totalGuesses)
	}
	return s
}

// Percent returns length / TotalGuesses as a percentage, 100 for a quiz of
// length questions answered without a wrong guess.
func (s Score) Percent(length int) float64 {
	if s.TotalGuesses == 0 {
		return 0
	}
	return 100 * float64(length) / float64(s.TotalGuesses)
}
