package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

var ErrMalformedProgress = errors.New("malformed progress record")

// Progress record layout:
//
//	<flag>,<name>:T,<name>:F,...,QuestionNum:n,CorrectAnswers:n,NumCurrentGuess:n,TotalGuess:n
const (
	fieldSep  = ","
	valueSep  = ":"
	liveMark  = "T"
	spentMark = "F"

	keyQuestionNum     = "QuestionNum"
	keyCorrectAnswers  = "CorrectAnswers"
	keyNumCurrentGuess = "NumCurrentGuess"
	keyTotalGuess      = "TotalGuess"
)

var counterKeys = [...]string{keyQuestionNum, keyCorrectAnswers, keyNumCurrentGuess, keyTotalGuess}

// EncodeProgress renders p in the persisted progress format.
func EncodeProgress(p entities.Progress) string {
	var sb strings.Builder
	sb.WriteString(string(p.Correct))

	for _, c := range p.Choices {
		mark := liveMark
		if !c.Live {
			mark = spentMark
		}
		sb.WriteString(fieldSep + c.Name + valueSep + mark)
	}

	counters := [...]int{p.QuestionNum, p.CorrectAnswers, p.NumCurrentGuess, p.TotalGuess}
	for i, key := range counterKeys {
		sb.WriteString(fieldSep + key + valueSep + strconv.Itoa(counters[i]))
	}

	return sb.String()
}

// DecodeProgress parses a record produced by EncodeProgress.
// Any deviation from the format yields ErrMalformedProgress.
func DecodeProgress(s string) (entities.Progress, error) {
	fields := strings.Split(s, fieldSep)
	if len(fields) < 1+len(counterKeys) {
		return entities.Progress{}, fmt.Errorf("%w: %d fields", ErrMalformedProgress, len(fields))
	}

	correct, err := entities.ParseFlagID(fields[0])
	if err != nil {
		return entities.Progress{}, fmt.Errorf("%w: flag %q", ErrMalformedProgress, fields[0])
	}

	tail := fields[len(fields)-len(counterKeys):]
	var counters [len(counterKeys)]int
	for i, key := range counterKeys {
		n, err := parseCounter(tail[i], key)
		if err != nil {
			return entities.Progress{}, err
		}
		counters[i] = n
	}

	choiceFields := fields[1 : len(fields)-len(counterKeys)]
	choices := make([]entities.Choice, 0, len(choiceFields))
	for _, f := range choiceFields {
		c, err := parseChoice(f)
		if err != nil {
			return entities.Progress{}, err
		}
		choices = append(choices, c)
	}

	return entities.Progress{
		Version:         entities.ProgressVersion,
		Correct:         correct,
		Choices:         choices,
		QuestionNum:     counters[0],
		CorrectAnswers:  counters[1],
		NumCurrentGuess: counters[2],
		TotalGuess:      counters[3],
	}, nil
}

func parseCounter(field, key string) (int, error) {
	k, v, ok := strings.Cut(field, valueSep)
	if !ok || k != key {
		return 0, fmt.Errorf("%w: expected %s, got %q", ErrMalformedProgress, key, field)
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s value %q", ErrMalformedProgress, key, v)
	}

	return n, nil
}

func parseChoice(field string) (entities.Choice, error) {
	i := strings.LastIndex(field, valueSep)
	if i <= 0 {
		return entities.Choice{}, fmt.Errorf("%w: choice %q", ErrMalformedProgress, field)
	}

	name, mark := field[:i], field[i+1:]
	switch mark {
	case liveMark:
		return entities.Choice{Name: name, Live: true}, nil
	case spentMark:
		return entities.Choice{Name: name, Live: false}, nil
	default:
		return entities.Choice{}, fmt.Errorf("%w: choice %q", ErrMalformedProgress, field)
	}
}
