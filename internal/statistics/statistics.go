package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Net          float64 // Bankroll change over the game
	Seed         int64   // RNG seed for this game (for replay)
	Rolls        int     // Rolls played
	BetsPlaced   int     // Bets accepted by the table
	BetsRejected int     // Bets the table refused
	Errors       int     // Strategy statements that failed
}

// Statistics tracks bankroll outcomes across simulated games
type Statistics struct {
	Games  int
	SumNet float64
	// Sum of squares for variance calculation
	SumNet2 float64
	// Store all values for median/percentile calculation
	Values []float64

	Winners  int     // Games that finished ahead
	Losers   int     // Games that finished behind
	WinNet   float64 // Net from winning games
	LossNet  float64 // Net from losing and even games
	AllNet   float64 // Total net for sanity check
	MaxWin   float64
	MaxLoss  float64
	Rolls    int
	Placed   int
	Rejected int
	Errors   int
}

// Mean returns the arithmetic mean bankroll change per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumNet / float64(s.Games)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	net := result.Net
	s.Games++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	if net > 0 {
		s.Winners++
		s.WinNet += net
	} else {
		if net < 0 {
			s.Losers++
		}
		s.LossNet += net
	}
	s.AllNet += net

	if net > s.MaxWin {
		s.MaxWin = net
	}
	if net < s.MaxLoss {
		s.MaxLoss = net
	}

	s.Rolls += result.Rolls
	s.Placed += result.BetsPlaced
	s.Rejected += result.BetsRejected
	s.Errors += result.Errors
}

// Merge folds the results of another run into s
func (s *Statistics) Merge(o *Statistics) {
	s.Games += o.Games
	s.SumNet += o.SumNet
	s.SumNet2 += o.SumNet2
	s.Values = append(s.Values, o.Values...)
	s.Winners += o.Winners
	s.Losers += o.Losers
	s.WinNet += o.WinNet
	s.LossNet += o.LossNet
	s.AllNet += o.AllNet
	s.MaxWin = max(s.MaxWin, o.MaxWin)
	s.MaxLoss = min(s.MaxLoss, o.MaxLoss)
	s.Rolls += o.Rolls
	s.Placed += o.Placed
	s.Rejected += o.Rejected
	s.Errors += o.Errors
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// RollsPerGame returns the mean game length
func (s *Statistics) RollsPerGame() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rolls) / float64(s.Games)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.WinNet-s.LossNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, WinNet=%.6f, LossNet=%.6f",
			s.AllNet, s.WinNet, s.LossNet)
	}

	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	if s.Winners+s.Losers > s.Games {
		return fmt.Errorf("winners (%d) and losers (%d) exceed total games (%d)", s.Winners, s.Losers, s.Games)
	}

	return nil
}
