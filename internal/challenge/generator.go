// Package challenge generates the daily challenge mix.
package challenge

import (
	"math/rand"
	"sync"

	"github.com/yukikurage/stride-league-api/internal/models"
)

// Tier describes how many challenges of a difficulty are generated and their length range in km.
type Tier struct {
	Difficulty models.Difficulty
	Count      int
	MinLength  int
	MaxLength  int
}

// DailyMix is the fixed daily distribution: 2 easy, 2 medium, 1 hard.
var DailyMix = []Tier{
	{Difficulty: models.DifficultyEasy, Count: 2, MinLength: 1, MaxLength: 3},
	{Difficulty: models.DifficultyMedium, Count: 2, MinLength: 4, MaxLength: 7},
	{Difficulty: models.DifficultyHard, Count: 1, MinLength: 8, MaxLength: 10},
}

var basePoints = map[models.Difficulty]int{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 20,
	models.DifficultyHard:   30,
}

// Spec is a generated challenge before it is persisted.
type Spec struct {
	Difficulty    models.Difficulty
	Length        int
	EarningPoints int
}

// Points returns base(difficulty) + length*4.
func Points(length int, difficulty models.Difficulty) int {
	return basePoints[difficulty] + length*4
}

// Generator draws challenge lengths from a random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator using rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Daily returns one day's worth of challenges following DailyMix.
func (g *Generator) Daily() []Spec {
	g.mu.Lock()
	defer g.mu.Unlock()

	specs := make([]Spec, 0, 5)
	for _, tier := range DailyMix {
		for i := 0; i < tier.Count; i++ {
			length := tier.MinLength + g.rng.Intn(tier.MaxLength-tier.MinLength+1)
			specs = append(specs, Spec{
				Difficulty:    tier.Difficulty,
				Length:        length,
				EarningPoints: Points(length, tier.Difficulty),
			})
		}
	}
	return specs
}
