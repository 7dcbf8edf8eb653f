package dice

import (
	"iter"
	rand "math/rand/v2"

	"github.com/lox/crapsdice/internal/randutil"
)

// Source produces rolls one at a time.
type Source interface {
	Next() Roll
}

// WeightedSource throws two independent dice sharing one weighted face table.
type WeightedSource struct {
	die *randutil.Die
	rng *rand.Rand
}

// NewWeightedSource builds a source from per-face weights and a seed.
func NewWeightedSource(weights [6]float64, seed int64) (*WeightedSource, error) {
	die, err := randutil.NewDie(weights)
	if err != nil {
		return nil, err
	}
	return &WeightedSource{die: die, rng: randutil.New(seed)}, nil
}

// NewFairSource builds a source of fair dice.
func NewFairSource(seed int64) *WeightedSource {
	s, err := NewWeightedSource(randutil.FairDieWeights, seed)
	if err != nil {
		panic(err)
	}
	return s
}

// Next throws the dice.
func (s *WeightedSource) Next() Roll {
	return Roll{D1: s.die.Roll(s.rng), D2: s.die.Roll(s.rng)}
}

// Take returns a sequence of n rolls drawn from src.
func Take(src Source, n int) iter.Seq[Roll] {
	return func(yield func(Roll) bool) {
		for i := 0; i < n; i++ {
			if !yield(src.Next()) {
				return
			}
		}
	}
}
