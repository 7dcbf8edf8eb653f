// Package dice models a pair of craps dice and the plain-text roll series
// format used to record them.
package dice

import (
	"fmt"
	"strconv"
)

// Roll is a single throw of two dice. Faces are always in [1,6]; use New to
// construct a validated value.
type Roll struct {
	D1 int
	D2 int
}

// New returns the roll for the given faces or an ImpossibleDieValueError.
func New(d1, d2 int) (Roll, error) {
	if !ValidFace(d1) {
		return Roll{}, &ImpossibleDieValueError{Value: d1}
	}
	if !ValidFace(d2) {
		return Roll{}, &ImpossibleDieValueError{Value: d2}
	}
	return Roll{D1: d1, D2: d2}, nil
}

// MustNew is New for faces known to be valid (tests, tables).
func MustNew(d1, d2 int) Roll {
	r, err := New(d1, d2)
	if err != nil {
		panic(err)
	}
	return r
}

// ValidFace reports whether f is a possible die face.
func ValidFace(f int) bool {
	return f >= 1 && f <= 6
}

// Value returns the sum of both faces.
func (r Roll) Value() int {
	return r.D1 + r.D2
}

// IsHard reports whether the roll is a hardway: equal faces on 4, 6, 8 or 10.
func (r Roll) IsHard() bool {
	if r.D1 != r.D2 {
		return false
	}
	switch r.Value() {
	case 4, 6, 8, 10:
		return true
	}
	return false
}

// Faces returns the dice as a two element array.
func (r Roll) Faces() [2]int {
	return [2]int{r.D1, r.D2}
}

// String renders the roll the way roll series files store it, e.g. "34".
func (r Roll) String() string {
	return strconv.Itoa(r.D1) + strconv.Itoa(r.D2)
}

// GoString helps test failure output.
func (r Roll) GoString() string {
	return fmt.Sprintf("dice.Roll{%d,%d}", r.D1, r.D2)
}

// All returns the 36 ordered face combinations.
func All() []Roll {
	out := make([]Roll, 0, 36)
	for i := 1; i <= 6; i++ {
		for j := 1; j <= 6; j++ {
			out = append(out, Roll{D1: i, D2: j})
		}
	}
	return out
}

// ForValue returns one roll summing to v, preferring unequal faces.
func ForValue(v int) Roll {
	if v < 2 || v > 12 {
		panic(fmt.Sprintf("dice: impossible roll value %d", v))
	}
	if v > 6 {
		return Roll{D1: 6, D2: v - 6}
	}
	return Roll{D1: v - 1, D2: 1}
}
