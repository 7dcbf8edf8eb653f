package craps

import (
	"io"
	"math/big"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
)

// TableRules are the house options that change payouts.
type TableRules struct {
	FieldTwo    int64
	FieldTwelve int64
}

// DefaultTableRules pays double on field 2 and 12.
func DefaultTableRules() TableRules {
	return TableRules{FieldTwo: DefaultFieldMultiplier, FieldTwelve: DefaultFieldMultiplier}
}

// Options configures a Game.
type Options struct {
	// Bankroll is the starting balance; nil means zero.
	Bankroll *big.Rat
	Rules    TableRules
	// Point resumes a table that already has a point on.
	Point  rollevent.Point
	Clock  quartz.Clock
	Logger *log.Logger
}

// Game owns the bankroll, the active bets and the table point for a single
// player. It is not safe for concurrent use.
type Game struct {
	bankroll   *big.Rat
	rules      TableRules
	classifier *rollevent.Classifier
	bets       []Bet
	nextID     int
	rolls      []dice.Roll
	points     []dice.Roll
	pointStart int
	clock      quartz.Clock
	logger     *log.Logger
}

// NewGame creates a game in the given starting state.
func NewGame(opts Options) *Game {
	bankroll := new(big.Rat)
	if opts.Bankroll != nil {
		bankroll.Set(opts.Bankroll)
	}
	rules := opts.Rules
	if rules.FieldTwo == 0 {
		rules.FieldTwo = DefaultFieldMultiplier
	}
	if rules.FieldTwelve == 0 {
		rules.FieldTwelve = DefaultFieldMultiplier
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		bankroll:   bankroll,
		rules:      rules,
		classifier: rollevent.NewClassifier(opts.Point),
		nextID:     1,
		clock:      clock,
		logger:     logger,
	}
}

// Bankroll returns a copy of the current balance.
func (g *Game) Bankroll() *big.Rat {
	return new(big.Rat).Set(g.bankroll)
}

// Point returns the table point, NoPoint during the come-out.
func (g *Game) Point() rollevent.Point {
	return g.classifier.Point()
}

// Rules returns the table rules in effect.
func (g *Game) Rules() TableRules {
	return g.rules
}

// Bets returns a copy of the active bets in placement order.
func (g *Game) Bets() []Bet {
	return slices.Clone(g.bets)
}

// HasBet reports whether an active bet matches kind, number and dont. For
// come bets a zero number matches regardless of travel point.
func (g *Game) HasBet(kind Kind, number int, dont bool) bool {
	return slices.ContainsFunc(g.bets, betMatcher(kind, number, dont))
}

func betMatcher(kind Kind, number int, dont bool) func(Bet) bool {
	return func(b Bet) bool {
		if b.Kind != kind || b.Dont != dont {
			return false
		}
		if number == 0 && (kind == Come || kind == DontCome) {
			return true
		}
		return b.Number == number
	}
}

// PlaceBet validates b against the table state, debits the stake and puts
// the bet on the table. The placed bet, with its assigned ID, is returned.
// A rejected bet leaves the game untouched.
func (g *Game) PlaceBet(b Bet) (Bet, error) {
	if b.Amount == nil || b.Amount.Sign() <= 0 {
		return Bet{}, &IllegalBetError{Bet: b, Reason: "amount must be positive"}
	}
	if err := b.validateNumber(); err != nil {
		return Bet{}, err
	}
	if b.IsContract() && !b.Working {
		return Bet{}, &IllegalBetChangeError{Bet: b}
	}

	point := g.Point()
	switch b.Kind {
	case Pass, DontPass:
		if point.IsOn() {
			return Bet{}, &IllegalBetError{Bet: b, Reason: "line bets are only taken on the come-out"}
		}
	case Come, DontCome:
		if !point.IsOn() {
			return Bet{}, &IllegalBetError{Bet: b, Reason: "come bets need a point"}
		}
		if b.Number != 0 {
			return Bet{}, &IllegalBetError{Bet: b, Reason: "come bet already traveled"}
		}
	case Field:
		if b.FieldTwo == 0 {
			b.FieldTwo = g.rules.FieldTwo
		}
		if b.FieldTwelve == 0 {
			b.FieldTwelve = g.rules.FieldTwelve
		}
	}

	b.Amount = new(big.Rat).Set(b.Amount)
	b.ID = g.nextID
	g.nextID++
	g.bankroll.Sub(g.bankroll, b.Amount)
	g.bets = append(g.bets, b)

	g.logger.Debug("bet placed", "bet", b, "bankroll", FormatAmount(g.bankroll))
	return b, nil
}

// SetWorking turns the bet with the given ID on or off.
func (g *Game) SetWorking(id int, working bool) error {
	i := slices.IndexFunc(g.bets, func(b Bet) bool { return b.ID == id })
	if i < 0 {
		return ErrUnknownBet
	}
	return g.bets[i].SetWorking(working)
}

// Roll resolves one roll against the table: pushes first, then wins and
// losses of working bets, then come bets traveling, and finally the point
// transition. The produced events are returned in that order.
func (g *Game) Roll(r dice.Roll) []GameEvent {
	now := g.clock.Now()
	point := g.Point()
	var events []GameEvent

	remaining := g.bets[:0]
	for _, b := range g.bets {
		if b.IsPush(r, point) {
			g.bankroll.Add(g.bankroll, b.Amount)
			events = append(events, BetPushEvent{Bet: b, Roll: r, timestamp: now})
			continue
		}
		remaining = append(remaining, b)
	}
	g.bets = remaining

	remaining = g.bets[:0]
	for _, b := range g.bets {
		switch {
		case !b.Working:
			remaining = append(remaining, b)
		case b.IsLoser(r, point):
			events = append(events, BetLostEvent{Bet: b, Roll: r, timestamp: now})
		case b.IsWinner(r, point):
			win := b.WinAmount(r)
			g.bankroll.Add(g.bankroll, b.Amount)
			g.bankroll.Add(g.bankroll, win)
			events = append(events, BetWonEvent{Bet: b, Roll: r, Amount: win, timestamp: now})
		default:
			remaining = append(remaining, b)
		}
	}
	g.bets = remaining

	if rollevent.IsPointNumber(r.Value()) {
		for i, b := range g.bets {
			if (b.Kind == Come || b.Kind == DontCome) && b.Working && b.Number == 0 {
				to := b
				to.Number = r.Value()
				g.bets[i] = to
				events = append(events, BetConvertedEvent{From: b, To: to, timestamp: now})
			}
		}
	}

	ev := g.classifier.Next(r)
	g.rolls = append(g.rolls, r)
	switch {
	case ev.IsEstablished():
		g.points = append(g.points, r)
		g.pointStart = len(g.rolls)
	case ev.IsWon(), ev.IsLost():
		g.pointStart = len(g.rolls)
	}
	if ev.Kind.IsPoint() {
		events = append(events, PointEvent{Event: ev, timestamp: now})
	}

	for _, e := range events {
		g.logger.Debug("roll resolved", "roll", r, "event", e.EventType(), "detail", e.String())
	}
	return events
}

// EngineState is a read-only snapshot of the game handed to strategies.
type EngineState struct {
	Bankroll *big.Rat
	Point    rollevent.Point
	// Rolls is every roll seen, oldest first.
	Rolls []dice.Roll
	// Points holds the rolls that established a point, oldest first.
	Points []dice.Roll
	// SincePoint holds the rolls after the current point was established.
	// It is empty during the come-out.
	SincePoint []dice.Roll
	Bets       []Bet
}

// State snapshots the game. The slices are copies.
func (g *Game) State() EngineState {
	s := EngineState{
		Bankroll: g.Bankroll(),
		Point:    g.Point(),
		Rolls:    slices.Clone(g.rolls),
		Points:   slices.Clone(g.points),
		Bets:     g.Bets(),
	}
	if s.Point.IsOn() {
		s.SincePoint = slices.Clone(g.rolls[g.pointStart:])
	}
	return s
}

// HasBet reports whether the snapshot holds an active bet matching kind,
// number and dont.
func (s EngineState) HasBet(kind Kind, number int, dont bool) bool {
	return slices.ContainsFunc(s.Bets, betMatcher(kind, number, dont))
}
