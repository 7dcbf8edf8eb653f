package randutil

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"sort"
)

// FairDieWeights gives every face the same chance.
var FairDieWeights = [6]float64{1, 1, 1, 1, 1, 1}

// FairSumWeights is the distribution of the sum of two fair dice, 2..12.
var FairSumWeights = [11]float64{1, 2, 3, 4, 5, 6, 5, 4, 3, 2, 1}

var errNoWeight = errors.New("weights must contain at least one positive value")

// Weighted draws indexes with probability proportional to their weight.
type Weighted struct {
	cumulative []float64
}

// NewWeighted validates weights and precomputes the cumulative table.
func NewWeighted(weights []float64) (*Weighted, error) {
	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %d is %v: must be a finite non-negative number", i, w)
		}
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return nil, errNoWeight
	}
	return &Weighted{cumulative: cum}, nil
}

// Pick returns an index in [0, len(weights)).
func (w *Weighted) Pick(rng *rand.Rand) int {
	total := w.cumulative[len(w.cumulative)-1]
	x := rng.Float64() * total
	i := sort.Search(len(w.cumulative), func(i int) bool { return w.cumulative[i] > x })
	if i == len(w.cumulative) {
		i--
	}
	return i
}

// Die picks die faces (1..6) using per-face weights.
type Die struct {
	w *Weighted
}

// NewDie builds a weighted die.
func NewDie(weights [6]float64) (*Die, error) {
	w, err := NewWeighted(weights[:])
	if err != nil {
		return nil, fmt.Errorf("die weights: %w", err)
	}
	return &Die{w: w}, nil
}

// Roll returns a face in [1,6].
func (d *Die) Roll(rng *rand.Rand) int {
	return d.w.Pick(rng) + 1
}

// Sum picks pre-summed outcomes (2..12) using 11 weights.
type Sum struct {
	w *Weighted
}

// NewSum builds a weighted two-dice sum picker.
func NewSum(weights [11]float64) (*Sum, error) {
	w, err := NewWeighted(weights[:])
	if err != nil {
		return nil, fmt.Errorf("sum weights: %w", err)
	}
	return &Sum{w: w}, nil
}

// Roll returns a value in [2,12].
func (s *Sum) Roll(rng *rand.Rand) int {
	return s.w.Pick(rng) + 2
}
