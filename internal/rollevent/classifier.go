package rollevent

import (
	"iter"

	"github.com/lox/crapsdice/internal/dice"
)

// Classifier applies the come-out/point rules to one roll at a time. It holds
// nothing but the current point, so it can be stopped and resumed at any roll
// boundary.
type Classifier struct {
	point Point
}

// NewClassifier starts a classifier at the given point (NoPoint for a fresh
// come-out).
func NewClassifier(start Point) *Classifier {
	if start != NoPoint && !IsPointNumber(int(start)) {
		panic("rollevent: invalid starting point")
	}
	return &Classifier{point: start}
}

// Point returns the point after the last classified roll.
func (c *Classifier) Point() Point { return c.point }

// Next classifies r and advances the point.
func (c *Classifier) Next(r dice.Roll) RollEvent {
	ev, next := Transition(c.point, r)
	c.point = next
	return ev
}

// Transition is the pure rule: given the current point and a roll it returns
// the event and the following point.
func Transition(point Point, r dice.Roll) (RollEvent, Point) {
	s := r.Value()
	if point == NoPoint {
		switch {
		case s == 7 || s == 11:
			return RollEvent{Kind: Natural, Dice: r}, NoPoint
		case s == 2 || s == 3 || s == 12:
			return RollEvent{Kind: Craps, Dice: r}, NoPoint
		default:
			p := Point(s)
			return RollEvent{Kind: PointEstablished, Dice: r, Point: p}, p
		}
	}
	switch s {
	case 7:
		return RollEvent{Kind: PointLost, Dice: r, Point: point}, NoPoint
	case int(point):
		return RollEvent{Kind: PointWon, Dice: r, Point: point}, NoPoint
	}
	return RollEvent{Kind: Roll, Dice: r}, point
}

// Classify lazily converts a roll stream into events. Errors from the input
// are passed through and end the sequence; events already yielded remain
// valid.
func Classify(rolls iter.Seq2[dice.Roll, error], start Point) iter.Seq2[RollEvent, error] {
	return func(yield func(RollEvent, error) bool) {
		c := NewClassifier(start)
		for r, err := range rolls {
			if err != nil {
				yield(RollEvent{}, err)
				return
			}
			if !dice.ValidFace(r.D1) || !dice.ValidFace(r.D2) {
				bad := r.D1
				if dice.ValidFace(bad) {
					bad = r.D2
				}
				yield(RollEvent{}, &dice.ImpossibleDieValueError{Value: bad})
				return
			}
			if !yield(c.Next(r), nil) {
				return
			}
		}
	}
}
