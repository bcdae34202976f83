package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

var ErrInsufficientChoices = errors.New("not enough flags in region for answer choices")

// OptionGenerator generates multiple choice options for quiz questions.
type OptionGenerator struct {
	rnd *rand.Rand
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(rnd *rand.Rand) *OptionGenerator {
	return &OptionGenerator{
		rnd: rnd,
	}
}

// Generate returns count distinct flags of the correct flag's region with
// correct placed at a uniformly random position. Distractors are drawn
// without replacement from pool, which is left untouched.
func (g *OptionGenerator) Generate(
	correct entities.FlagID,
	pool []entities.FlagID,
	count int,
) ([]entities.FlagID, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count %d", ErrInsufficientChoices, count)
	}

	wrongOptions, err := g.generateWrongOptions(correct, pool, count-1)
	if err != nil {
		return nil, err
	}

	// Randomly place the correct answer
	correctIndex := g.rnd.Intn(count)

	options := make([]entities.FlagID, count)
	wrongIdx := 0
	for i := range options {
		if i == correctIndex {
			options[i] = correct
		} else {
			options[i] = wrongOptions[wrongIdx]
			wrongIdx++
		}
	}

	return options, nil
}

// generateWrongOptions picks count same-region flags different from correct.
func (g *OptionGenerator) generateWrongOptions(correct entities.FlagID, pool []entities.FlagID, count int) ([]entities.FlagID, error) {
	region := correct.Region()
	used := map[entities.FlagID]bool{correct: true}

	candidates := make([]entities.FlagID, 0, len(pool))
	for _, id := range pool {
		if id.Region() != region || used[id] {
			continue
		}
		used[id] = true
		candidates = append(candidates, id)
	}

	if len(candidates) < count {
		return nil, fmt.Errorf("%w: region %s has %d distractors, need %d",
			ErrInsufficientChoices, region, len(candidates), count)
	}

	g.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	return candidates[:count], nil
}
