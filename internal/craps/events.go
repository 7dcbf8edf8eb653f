package craps

import (
	"fmt"
	"math/big"
	"time"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
)

// EventType represents a game event type with type safety
type EventType string

// Events produced while resolving a roll.
const (
	EventTypeBetWon       EventType = "bet_won"
	EventTypeBetLost      EventType = "bet_lost"
	EventTypeBetPush      EventType = "bet_push"
	EventTypeBetConverted EventType = "bet_converted"
	EventTypePoint        EventType = "point"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything the engine reports back from a roll or placement.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	String() string
}

// BetWonEvent pays Amount plus the returned stake.
type BetWonEvent struct {
	Bet       Bet
	Roll      dice.Roll
	Amount    *big.Rat
	timestamp time.Time
}

func (e BetWonEvent) EventType() EventType { return EventTypeBetWon }
func (e BetWonEvent) Timestamp() time.Time { return e.timestamp }
func (e BetWonEvent) String() string {
	return fmt.Sprintf("%s won %s on %s", e.Bet, FormatAmount(e.Amount), e.Roll)
}

// BetLostEvent removes the bet without payment.
type BetLostEvent struct {
	Bet       Bet
	Roll      dice.Roll
	timestamp time.Time
}

func (e BetLostEvent) EventType() EventType { return EventTypeBetLost }
func (e BetLostEvent) Timestamp() time.Time { return e.timestamp }
func (e BetLostEvent) String() string       { return fmt.Sprintf("%s lost on %s", e.Bet, e.Roll) }

// BetPushEvent returns the stake.
type BetPushEvent struct {
	Bet       Bet
	Roll      dice.Roll
	timestamp time.Time
}

func (e BetPushEvent) EventType() EventType { return EventTypeBetPush }
func (e BetPushEvent) Timestamp() time.Time { return e.timestamp }
func (e BetPushEvent) String() string       { return fmt.Sprintf("%s pushed on %s", e.Bet, e.Roll) }

// BetConvertedEvent reports a come bet traveling to its own point.
type BetConvertedEvent struct {
	From      Bet
	To        Bet
	timestamp time.Time
}

func (e BetConvertedEvent) EventType() EventType { return EventTypeBetConverted }
func (e BetConvertedEvent) Timestamp() time.Time { return e.timestamp }
func (e BetConvertedEvent) String() string       { return fmt.Sprintf("%s traveled to %d", e.From, e.To.Number) }

// PointEvent wraps a point transition of the table.
type PointEvent struct {
	Event     rollevent.RollEvent
	timestamp time.Time
}

func (e PointEvent) EventType() EventType { return EventTypePoint }
func (e PointEvent) Timestamp() time.Time { return e.timestamp }
func (e PointEvent) String() string       { return e.Event.String() }
