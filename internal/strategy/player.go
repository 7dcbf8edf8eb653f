package strategy

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/crapsdice/internal/craps"
	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/stratlang"
)

// Player drives a craps.Game with a strategy: before every roll the
// program is evaluated and the bets it asks for are placed.
type Player struct {
	strategy *Strategy
	eval     *stratlang.Evaluator
	game     *craps.Game
	logger   *log.Logger
}

// Turn is what happened when the strategy was consulted before a roll.
type Turn struct {
	Placed []craps.Bet
	// Errors holds evaluation failures and rejected bets. None of them stop
	// the game.
	Errors []error
}

// NewPlayer binds a strategy to a game. Each player keeps its own
// variables, so players must not share a game.
func NewPlayer(s *Strategy, g *craps.Game, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		strategy: s,
		eval:     stratlang.NewEvaluator(),
		game:     g,
		logger:   logger.WithPrefix("strategy"),
	}
}

// Game returns the game the player is betting on.
func (p *Player) Game() *craps.Game { return p.game }

// Strategy returns the strategy the player follows.
func (p *Player) Strategy() *Strategy { return p.strategy }

// BeforeRoll evaluates the strategy against the current table and places
// the resulting bets in order. Illegal bets are reported and skipped.
func (p *Player) BeforeRoll() Turn {
	bets, errs := p.eval.Eval(p.strategy.Program, p.game.State())
	turn := Turn{Errors: errs}
	for _, b := range bets {
		placed, err := p.game.PlaceBet(b)
		if err != nil {
			p.logger.Debug("bet rejected", "strategy", p.strategy.Name, "bet", b, "error", err)
			turn.Errors = append(turn.Errors, err)
			continue
		}
		turn.Placed = append(turn.Placed, placed)
	}
	for _, err := range errs {
		p.logger.Debug("statement failed", "strategy", p.strategy.Name, "error", err)
	}
	return turn
}

// Roll resolves r on the game.
func (p *Player) Roll(r dice.Roll) []craps.GameEvent {
	return p.game.Roll(r)
}

// Play consults the strategy and then resolves r.
func (p *Player) Play(r dice.Roll) (Turn, []craps.GameEvent) {
	turn := p.BeforeRoll()
	return turn, p.Roll(r)
}
