package service

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

func testPool() []entities.FlagID {
	return []entities.FlagID{
		"Europe-France", "Europe-Spain", "Europe-Italy", "Europe-Germany",
		"Europe-Poland", "Europe-Portugal",
		"Asia-Japan", "Asia-China", "Asia-India", "Asia-Nepal",
	}
}

func TestOptionGeneratorGenerate(t *testing.T) {
	g := NewOptionGenerator(rand.New(rand.NewSource(1)))
	pool := testPool()
	orig := slices.Clone(pool)

	for _, count := range []int{1, 2, 4, 6} {
		options, err := g.Generate("Europe-Spain", pool, count)
		if err != nil {
			t.Fatalf("Generate(count=%d) unexpected error: %v", count, err)
		}
		if len(options) != count {
			t.Fatalf("len(options) = %d, want %d", len(options), count)
		}

		seen := map[entities.FlagID]bool{}
		correct := 0
		for _, id := range options {
			if seen[id] {
				t.Errorf("duplicate option %s in %v", id, options)
			}
			seen[id] = true
			if id.Region() != "Europe" {
				t.Errorf("option %s outside the correct region", id)
			}
			if id == "Europe-Spain" {
				correct++
			}
		}
		if correct != 1 {
			t.Errorf("correct answer appears %d times in %v", correct, options)
		}
	}

	if !slices.Equal(pool, orig) {
		t.Errorf("pool was mutated: %v", pool)
	}
}

func TestOptionGeneratorInsufficient(t *testing.T) {
	g := NewOptionGenerator(rand.New(rand.NewSource(1)))

	tests := []struct {
		name  string
		count int
	}{
		{"more than region holds", 6},
		{"zero", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Asia has four flags, so at most three distractors.
			if _, err := g.Generate("Asia-Japan", testPool(), tt.count); !errors.Is(err, ErrInsufficientChoices) {
				t.Errorf("Generate(count=%d) error = %v, want ErrInsufficientChoices", tt.count, err)
			}
		})
	}
}

func TestOptionGeneratorPositionCoverage(t *testing.T) {
	g := NewOptionGenerator(rand.New(rand.NewSource(7)))
	hits := make([]int, 4)

	for i := 0; i < 400; i++ {
		options, err := g.Generate("Asia-Japan", testPool(), 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hits[slices.Index(options, "Asia-Japan")]++
	}

	for pos, n := range hits {
		if n == 0 {
			t.Errorf("correct answer never placed at position %d: %v", pos, hits)
		}
	}
}
