package statistics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/lox/crapsdice/internal/rollevent"
)

// ErrNoSevens is returned by RSR when no seven was rolled.
var ErrNoSevens = errors.New("no sevens rolled")

// Points counts point outcomes keyed by point number.
type Points struct {
	Won         map[int]int64 `json:"won"`
	Lost        map[int]int64 `json:"lost"`
	Established map[int]int64 `json:"established"`
}

// NumRolls counts rolls overall and while a point was on.
type NumRolls struct {
	Overall int64 `json:"overall"`
	Point   int64 `json:"point"`
}

// RollStats aggregates a stream of roll events. Every field is a plain
// counter, so stats from independent runs combine by addition.
type RollStats struct {
	Counts     map[int]int64 `json:"counts"`
	CountsHard map[int]int64 `json:"counts_hard"`
	Points     Points        `json:"points"`
	Craps      map[int]int64 `json:"craps"`
	Naturals   map[int]int64 `json:"naturals"`
	CountsDice map[int]int64 `json:"counts_dice"`
	// CountsPairs is keyed by the low die then the high die.
	CountsPairs map[int]map[int]int64 `json:"counts_pairs"`
	NumRolls    NumRolls              `json:"num_rolls"`
}

func zeroed(keys ...int) map[int]int64 {
	m := make(map[int]int64, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// NewRollStats returns stats with every counter present and zero.
func NewRollStats() *RollStats {
	s := &RollStats{}
	s.normalize()
	return s
}

// normalize fills in any missing counters, e.g. after decoding a sparse
// record.
func (s *RollStats) normalize() {
	fill := func(m *map[int]int64, keys []int) {
		if *m == nil {
			*m = make(map[int]int64, len(keys))
		}
		for _, k := range keys {
			if _, ok := (*m)[k]; !ok {
				(*m)[k] = 0
			}
		}
	}
	fill(&s.Counts, span(2, 12))
	fill(&s.CountsHard, []int{4, 6, 8, 10})
	fill(&s.Points.Won, rollevent.PointNumbers)
	fill(&s.Points.Lost, rollevent.PointNumbers)
	fill(&s.Points.Established, rollevent.PointNumbers)
	fill(&s.Craps, []int{2, 3, 12})
	fill(&s.Naturals, []int{7, 11})
	fill(&s.CountsDice, span(1, 6))
	if s.CountsPairs == nil {
		s.CountsPairs = make(map[int]map[int]int64, 6)
	}
	for lo := 1; lo <= 6; lo++ {
		row := s.CountsPairs[lo]
		fill(&row, span(lo, 6))
		s.CountsPairs[lo] = row
	}
}

// Add records one event.
func (s *RollStats) Add(ev rollevent.RollEvent) {
	if s.Counts == nil {
		s.normalize()
	}
	v := ev.Value()
	s.NumRolls.Overall++
	switch ev.Kind {
	case rollevent.Roll:
		s.NumRolls.Point++
	case rollevent.PointWon:
		s.NumRolls.Point++
		s.Points.Won[int(ev.Point)]++
	case rollevent.PointLost:
		s.NumRolls.Point++
		s.Points.Lost[int(ev.Point)]++
	case rollevent.PointEstablished:
		s.Points.Established[int(ev.Point)]++
	case rollevent.Craps:
		s.Craps[v]++
	case rollevent.Natural:
		s.Naturals[v]++
	}
	if ev.Dice.IsHard() {
		s.CountsHard[v]++
	}
	s.Counts[v]++
	faces := ev.Dice.Faces()
	s.CountsDice[faces[0]]++
	s.CountsDice[faces[1]]++
	lo, hi := min(faces[0], faces[1]), max(faces[0], faces[1])
	s.CountsPairs[lo][hi]++
}

// FromEvents consumes events until the stream ends or fails. On failure
// the stats gathered so far are returned with the error.
func FromEvents(events iter.Seq2[rollevent.RollEvent, error]) (*RollStats, error) {
	s := NewRollStats()
	for ev, err := range events {
		if err != nil {
			return s, err
		}
		s.Add(ev)
	}
	return s, nil
}

// Merge adds every counter of o into s.
func (s *RollStats) Merge(o *RollStats) *RollStats {
	s.normalize()
	add := func(dst, src map[int]int64) {
		for k, v := range src {
			dst[k] += v
		}
	}
	add(s.Counts, o.Counts)
	add(s.CountsHard, o.CountsHard)
	add(s.Points.Won, o.Points.Won)
	add(s.Points.Lost, o.Points.Lost)
	add(s.Points.Established, o.Points.Established)
	add(s.Craps, o.Craps)
	add(s.Naturals, o.Naturals)
	add(s.CountsDice, o.CountsDice)
	for lo, row := range o.CountsPairs {
		if s.CountsPairs[lo] == nil {
			s.CountsPairs[lo] = make(map[int]int64)
		}
		add(s.CountsPairs[lo], row)
	}
	s.NumRolls.Overall += o.NumRolls.Overall
	s.NumRolls.Point += o.NumRolls.Point
	return s
}

// Combine sums any number of stats into a new value; the inputs are left
// alone. Combine is associative and commutative.
func Combine(stats ...*RollStats) *RollStats {
	out := NewRollStats()
	for _, s := range stats {
		out.Merge(s)
	}
	return out
}

// Clone returns a deep copy.
func (s *RollStats) Clone() *RollStats {
	return Combine(s)
}

// RSR is the rolls to sevens ratio. With pointOnly only rolls made while a
// point was on count, and the sevens are the points lost.
func (s *RollStats) RSR(pointOnly bool) (float64, error) {
	rolls, sevens := s.NumRolls.Overall, s.Counts[7]
	if pointOnly {
		rolls, sevens = s.NumRolls.Point, 0
		for _, n := range s.Points.Lost {
			sevens += n
		}
	}
	if sevens == 0 {
		return 0, ErrNoSevens
	}
	return float64(rolls) / float64(sevens), nil
}

// DieWeights returns the observed face counts as generator weights.
func (s *RollStats) DieWeights() [6]float64 {
	var w [6]float64
	for face := 1; face <= 6; face++ {
		w[face-1] = float64(s.CountsDice[face])
	}
	return w
}

// ReadRollStats decodes one JSON stats record.
func ReadRollStats(r io.Reader) (*RollStats, error) {
	s := &RollStats{}
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode statistics: %w", err)
	}
	s.normalize()
	return s, nil
}

// WriteJSON writes s as a single line of JSON.
func (s *RollStats) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(s)
}
