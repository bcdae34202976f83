package entities

// ProgressVersion is the only wire version of the persisted progress record.
const ProgressVersion = 1

// Progress is the persisted snapshot of the in-flight question.
// The remaining queue is stored next to it, see PlayerSettings.
type Progress struct {
	Version         int
	Correct         FlagID
	Choices         []Choice
	QuestionNum     int
	CorrectAnswers  int
	NumCurrentGuess int
	TotalGuess      int
}

// ProgressFromSession captures the fields of s that survive a restart.
func ProgressFromSession(s *QuizSession) Progress {
	choices := make([]Choice, len(s.Choices))
	copy(choices, s.Choices)

	return Progress{
		Version:         ProgressVersion,
		Correct:         s.Current,
		Choices:         choices,
		QuestionNum:     s.QuestionNumber,
		CorrectAnswers:  s.CorrectAnswers,
		NumCurrentGuess: s.GuessesThisQuestion,
		TotalGuess:      s.TotalGuesses,
	}
}
