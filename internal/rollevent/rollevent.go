// Package rollevent turns a stream of dice rolls into typed craps events,
// tracking the point between rolls.
package rollevent

import (
	"fmt"

	"github.com/lox/crapsdice/internal/dice"
)

// Point is the number a shooter must repeat. The zero value means the table
// is on the come-out roll.
type Point int

// NoPoint is the come-out state.
const NoPoint Point = 0

// PointNumbers are the values that establish a point, ascending.
var PointNumbers = []int{4, 5, 6, 8, 9, 10}

// IsPointNumber reports whether v can be a point.
func IsPointNumber(v int) bool {
	switch v {
	case 4, 5, 6, 8, 9, 10:
		return true
	}
	return false
}

// IsOn reports whether a point is established.
func (p Point) IsOn() bool { return p != NoPoint }

func (p Point) String() string {
	if p == NoPoint {
		return "off"
	}
	return fmt.Sprintf("%d", int(p))
}

// Kind identifies what a roll meant for the game.
type Kind int

const (
	Natural Kind = iota + 1
	Craps
	PointEstablished
	PointWon
	PointLost
	Roll
)

func (k Kind) String() string {
	switch k {
	case Natural:
		return "natural"
	case Craps:
		return "craps"
	case PointEstablished:
		return "point_established"
	case PointWon:
		return "point_won"
	case PointLost:
		return "point_lost"
	case Roll:
		return "roll"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPoint reports whether the kind is one of the three point events.
func (k Kind) IsPoint() bool {
	return k == PointEstablished || k == PointWon || k == PointLost
}

// RollEvent is one classified roll. Point is set for the point kinds only and
// is the point in play: the new point when established, the old point when
// won or lost.
type RollEvent struct {
	Kind  Kind
	Dice  dice.Roll
	Point Point
}

// Value is the sum of the dice.
func (e RollEvent) Value() int { return e.Dice.Value() }

// IsEstablished reports a point established by this roll.
func (e RollEvent) IsEstablished() bool { return e.Kind == PointEstablished }

// IsWon reports the point being made by this roll.
func (e RollEvent) IsWon() bool { return e.Kind == PointWon }

// IsLost reports a seven-out on this roll.
func (e RollEvent) IsLost() bool { return e.Kind == PointLost }

func (e RollEvent) String() string {
	if e.Kind.IsPoint() {
		return fmt.Sprintf("%s<%d> %s", e.Kind, int(e.Point), e.Dice)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Dice)
}
