package statistics

import (
	"math"
	"strings"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.Percentile(0.5) != 0 {
		t.Errorf("Expected percentile of 0 for empty stats, got %f", stats.Percentile(0.5))
	}
	if stats.RollsPerGame() != 0 {
		t.Errorf("Expected 0 rolls per game for empty stats, got %f", stats.RollsPerGame())
	}
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}

	results := []GameResult{
		{Net: 10, Rolls: 4, BetsPlaced: 2},
		{Net: -20, Rolls: 10, BetsPlaced: 5, BetsRejected: 1},
		{Net: 30, Rolls: 6, BetsPlaced: 3},
		{Net: 0, Rolls: 2, BetsPlaced: 1, Errors: 2},
		{Net: -10, Rolls: 8, BetsPlaced: 4},
	}
	for _, result := range results {
		stats.Add(result)
	}

	expectedMean := (10.0 - 20.0 + 30.0 + 0.0 - 10.0) / 5.0
	if math.Abs(stats.Mean()-expectedMean) > 1e-9 {
		t.Errorf("Expected mean of %f, got %f", expectedMean, stats.Mean())
	}
	// sorted values: -20, -10, 0, 10, 30
	if stats.Median() != 0.0 {
		t.Errorf("Expected median of 0.0, got %f", stats.Median())
	}
	if stats.Winners != 2 || stats.Losers != 2 {
		t.Errorf("Expected 2 winners and 2 losers, got %d and %d", stats.Winners, stats.Losers)
	}
	if stats.MaxWin != 30 || stats.MaxLoss != -20 {
		t.Errorf("Expected extremes 30/-20, got %f/%f", stats.MaxWin, stats.MaxLoss)
	}
	if stats.RollsPerGame() != 6 {
		t.Errorf("Expected 6 rolls per game, got %f", stats.RollsPerGame())
	}
	if stats.Placed != 15 || stats.Rejected != 1 || stats.Errors != 2 {
		t.Errorf("Unexpected bet counters: placed %d rejected %d errors %d", stats.Placed, stats.Rejected, stats.Errors)
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Expected ledger to be balanced")
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 5; i++ {
		stats.Add(GameResult{Net: float64(i)})
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}

	for _, test := range tests {
		result := stats.Percentile(test.percentile)
		if math.Abs(result-test.expected) > 1e-9 {
			t.Errorf("Percentile %.2f: expected %f, got %f", test.percentile, test.expected, result)
		}
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}

	// [1, 3, 5] has sample variance 4
	for _, v := range []float64{1, 3, 5} {
		stats.Add(GameResult{Net: v})
	}

	if math.Abs(stats.Variance()-4.0) > 1e-9 {
		t.Errorf("Expected variance of 4, got %f", stats.Variance())
	}
	if math.Abs(stats.StdDev()-2.0) > 1e-9 {
		t.Errorf("Expected stddev of 2, got %f", stats.StdDev())
	}

	low, high := stats.ConfidenceInterval95()
	if math.Abs((low+high)/2-stats.Mean()) > 1e-9 {
		t.Errorf("Confidence interval not symmetric around mean. Low: %f, High: %f", low, high)
	}
	if high-low <= 0 {
		t.Errorf("Confidence interval should be positive width, got %f", high-low)
	}
}

func TestStatistics_Merge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	for i, v := range []float64{5, -5, 12.5, -30, 0, 7} {
		r := GameResult{Net: v, Rolls: i + 1, BetsPlaced: 1}
		all.Add(r)
		if i%2 == 0 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}

	a.Merge(b)
	if a.Games != all.Games || a.Winners != all.Winners || a.Losers != all.Losers {
		t.Errorf("Merged counts differ: %+v vs %+v", a, all)
	}
	if math.Abs(a.Mean()-all.Mean()) > 1e-9 || math.Abs(a.Variance()-all.Variance()) > 1e-9 {
		t.Errorf("Merged moments differ: mean %f/%f variance %f/%f", a.Mean(), all.Mean(), a.Variance(), all.Variance())
	}
	if a.Median() != all.Median() || a.MaxLoss != all.MaxLoss || a.MaxWin != all.MaxWin {
		t.Errorf("Merged order statistics differ")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Expected merged stats to validate, got %v", err)
	}
}

func TestStatistics_Validate_LedgerMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Games = 1
	stats.Values = []float64{1.0}
	stats.AllNet = 1.0
	stats.WinNet = 0.5
	stats.LossNet = 0.6

	err := stats.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail with ledger mismatch")
	}
	if !strings.Contains(err.Error(), "ledger mismatch") {
		t.Errorf("Expected ledger mismatch error, got: %v", err)
	}
}

func TestStatistics_Validate_InvalidGamesCount(t *testing.T) {
	stats := &Statistics{}

	err := stats.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail with invalid games count")
	}
	if !strings.Contains(err.Error(), "invalid games count") {
		t.Errorf("Expected invalid games count error, got: %v", err)
	}
}

func TestStatistics_Validate_ValuesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Games = 2
	stats.Values = []float64{1.0}
	stats.AllNet = 1.0
	stats.WinNet = 1.0

	err := stats.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail with values array mismatch")
	}
	if !strings.Contains(err.Error(), "values array length") {
		t.Errorf("Expected values array length error, got: %v", err)
	}
}

func TestStatistics_Validate_TooManyWinners(t *testing.T) {
	stats := &Statistics{}
	stats.Games = 2
	stats.Values = []float64{1.0, 1.0}
	stats.AllNet = 2.0
	stats.WinNet = 2.0
	stats.Winners = 2
	stats.Losers = 1

	err := stats.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail with too many winners")
	}
	if !strings.Contains(err.Error(), "exceed total games") {
		t.Errorf("Expected too many winners error, got: %v", err)
	}
}
