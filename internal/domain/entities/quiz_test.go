package entities

import "testing"

func TestNewScore(t *testing.T) {
	tests := []struct {
		name           string
		totalGuesses   int
		correctAnswers int
		want           float64
	}{
		{"no guesses", 0, 0, 0},
		{"perfect quiz", 10, 10, 100},
		{"five guesses", 5, 5, 200},
		{"twenty guesses", 20, 8, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScore(tt.totalGuesses, tt.correctAnswers)
			if s.AccuracyPer1000 != tt.want {
				t.Errorf("AccuracyPer1000 = %v, want %v", s.AccuracyPer1000, tt.want)
			}
			if s.TotalGuesses != tt.totalGuesses || s.CorrectAnswers != tt.correctAnswers {
				t.Errorf("score = %+v", s)
			}
		})
	}
}

func TestScorePercent(t *testing.T) {
	tests := []struct {
		name   string
		score  Score
		length int
		want   float64
	}{
		{"default length matches per mille", NewScore(10, 10), DefaultQuizLength, 100},
		{"perfect long quiz", NewScore(20, 20), 20, 100},
		{"perfect short quiz", NewScore(5, 5), 5, 100},
		{"half the guesses wrong", NewScore(10, 3), 5, 50},
		{"no guesses", NewScore(0, 0), 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.score.Percent(tt.length); got != tt.want {
				t.Errorf("Percent(%d) = %v, want %v", tt.length, got, tt.want)
			}
		})
	}
}

func TestQuizSessionState(t *testing.T) {
	s := NewQuizSession([]FlagID{"Europe-France", "Europe-Spain"})

	if s.Length != 2 {
		t.Fatalf("Length = %d, want 2", s.Length)
	}
	if s.IsComplete() {
		t.Error("new session reported complete")
	}
	if s.HasActiveQuestion() {
		t.Error("new session reported an active question")
	}

	s.Current = "Europe-France"
	s.Choices = []Choice{{Name: "Spain", Live: true}, {Name: "France", Live: true}}
	if !s.HasActiveQuestion() {
		t.Error("loaded question not active")
	}
	if got := s.ChoiceIndex("France"); got != 1 {
		t.Errorf("ChoiceIndex(France) = %d, want 1", got)
	}
	if got := s.ChoiceIndex("Italy"); got != -1 {
		t.Errorf("ChoiceIndex(Italy) = %d, want -1", got)
	}

	c := s.Clone()
	c.Choices[0].Live = false
	c.Queue[0] = "Europe-Italy"
	if !s.Choices[0].Live || s.Queue[0] != "Europe-France" {
		t.Error("Clone shares slices with the original")
	}

	s.Answered = true
	s.QuestionNumber = 2
	if s.HasActiveQuestion() {
		t.Error("answered question still active")
	}
	if !s.IsComplete() {
		t.Error("session not complete at QuestionNumber == Length")
	}
}

func TestGuessOutcomeTerminal(t *testing.T) {
	if OutcomeIncorrect.Terminal() {
		t.Error("incorrect must not be terminal")
	}
	if !OutcomeCorrect.Terminal() || !OutcomeExhaustedMaxGuesses.Terminal() {
		t.Error("correct and exhausted must be terminal")
	}
}
