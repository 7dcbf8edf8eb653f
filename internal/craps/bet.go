package craps

import (
	"fmt"
	"math/big"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
)

// Kind is the closed set of wagers the engine understands.
type Kind int

const (
	Pass Kind = iota + 1
	DontPass
	Come
	DontCome
	Field
	Place
	HardWay
	Odds
)

// Kinds lists every bet kind in declaration order.
var Kinds = []Kind{Pass, DontPass, Come, DontCome, Field, Place, HardWay, Odds}

func (k Kind) String() string {
	switch k {
	case Pass:
		return "Pass"
	case DontPass:
		return "DontPass"
	case Come:
		return "Come"
	case DontCome:
		return "DontCome"
	case Field:
		return "Field"
	case Place:
		return "Place"
	case HardWay:
		return "HardWay"
	case Odds:
		return "Odds"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContract reports whether bets of this kind can never be turned off.
func (k Kind) IsContract() bool {
	return behaviourOf(k).contract
}

// Bet is a single wager. Amount is treated as immutable and may be shared
// between copies of the same bet.
//
// Number depends on the kind: the placed number for Place and HardWay, the
// point for Odds, and the travel point of a Come/DontCome bet (0 until it
// travels). Dont marks lay odds. FieldTwo and FieldTwelve are the field
// multipliers for 2 and 12; zero means the table default.
type Bet struct {
	ID          int
	Kind        Kind
	Amount      *big.Rat
	Working     bool
	Number      int
	Dont        bool
	FieldTwo    int64
	FieldTwelve int64
}

// DefaultFieldMultiplier is what the field pays on 2 and 12 unless the table
// says otherwise.
const DefaultFieldMultiplier = 2

// Amount is a convenience for whole-unit stakes.
func Amount(n int64) *big.Rat {
	return big.NewRat(n, 1)
}

func newBet(kind Kind, amount *big.Rat) Bet {
	return Bet{Kind: kind, Amount: amount, Working: true}
}

// NewPass returns a pass line bet.
func NewPass(amount *big.Rat) Bet { return newBet(Pass, amount) }

// NewDontPass returns a don't pass bet.
func NewDontPass(amount *big.Rat) Bet { return newBet(DontPass, amount) }

// NewCome returns a come bet that has not traveled yet.
func NewCome(amount *big.Rat) Bet { return newBet(Come, amount) }

// NewDontCome returns a don't come bet that has not traveled yet.
func NewDontCome(amount *big.Rat) Bet { return newBet(DontCome, amount) }

// NewField returns a one-roll field bet paying the table's multipliers.
func NewField(amount *big.Rat) Bet { return newBet(Field, amount) }

// NewPlace returns a place bet on n.
func NewPlace(n int, amount *big.Rat) (Bet, error) {
	b := newBet(Place, amount)
	b.Number = n
	return b, b.validateNumber()
}

// NewHardWay returns a hardway bet on n.
func NewHardWay(n int, amount *big.Rat) (Bet, error) {
	b := newBet(HardWay, amount)
	b.Number = n
	return b, b.validateNumber()
}

// NewOdds returns a free odds bet on point; dont lays the odds instead.
func NewOdds(point int, dont bool, amount *big.Rat) (Bet, error) {
	b := newBet(Odds, amount)
	b.Number = point
	b.Dont = dont
	return b, b.validateNumber()
}

// WithFieldPays returns a copy of a field bet with explicit 2 and 12
// multipliers.
func (b Bet) WithFieldPays(two, twelve int64) Bet {
	b.FieldTwo = two
	b.FieldTwelve = twelve
	return b
}

// IsContract reports whether the bet can never be turned off.
func (b Bet) IsContract() bool { return b.Kind.IsContract() }

// SetWorking turns the bet on or off. Contract bets refuse.
func (b *Bet) SetWorking(working bool) error {
	if b.IsContract() {
		return &IllegalBetChangeError{Bet: *b}
	}
	b.Working = working
	return nil
}

// IsWinner reports whether roll wins the bet given the table point.
func (b Bet) IsWinner(roll dice.Roll, point rollevent.Point) bool {
	return behaviourOf(b.Kind).wins(b, roll, point)
}

// IsLoser reports whether roll loses the bet given the table point.
func (b Bet) IsLoser(roll dice.Roll, point rollevent.Point) bool {
	return behaviourOf(b.Kind).loses(b, roll, point)
}

// IsPush reports whether the bet is returned on this roll.
func (b Bet) IsPush(roll dice.Roll, point rollevent.Point) bool {
	return behaviourOf(b.Kind).pushes(b, roll, point)
}

// WinAmount returns the winnings (excluding the returned stake) if roll wins.
func (b Bet) WinAmount(roll dice.Roll) *big.Rat {
	ratio := behaviourOf(b.Kind).ratio(b, roll)
	return new(big.Rat).Mul(b.Amount, ratio)
}

// Equal compares bets ignoring the engine-assigned ID.
func (b Bet) Equal(o Bet) bool {
	if b.Kind != o.Kind || b.Working != o.Working || b.Number != o.Number || b.Dont != o.Dont {
		return false
	}
	if b.FieldTwo != o.FieldTwo || b.FieldTwelve != o.FieldTwelve {
		return false
	}
	if b.Amount == nil || o.Amount == nil {
		return b.Amount == o.Amount
	}
	return b.Amount.Cmp(o.Amount) == 0
}

func (b Bet) String() string {
	name := b.Kind.String()
	switch b.Kind {
	case Place, HardWay:
		name = fmt.Sprintf("%s%d", name, b.Number)
	case Odds:
		if b.Dont {
			name = "Dont" + name
		}
		name = fmt.Sprintf("%s%d", name, b.Number)
	case Come, DontCome:
		if b.Number != 0 {
			name = fmt.Sprintf("%s%d", name, b.Number)
		}
	}
	state := "on"
	if !b.Working {
		state = "off"
	}
	return fmt.Sprintf("Bet<%s %s %s>", name, FormatAmount(b.Amount), state)
}

// FormatAmount renders a rational amount, exactly when it is whole.
func FormatAmount(r *big.Rat) string {
	if r == nil {
		return "0"
	}
	if r.IsInt() {
		return r.Num().String()
	}
	return r.FloatString(2)
}

func (b Bet) validateNumber() error {
	switch b.Kind {
	case Place, Odds:
		if !rollevent.IsPointNumber(b.Number) {
			return &IllegalBetError{Bet: b, Reason: fmt.Sprintf("%d is not a point number", b.Number)}
		}
	case HardWay:
		switch b.Number {
		case 4, 6, 8, 10:
		default:
			return &IllegalBetError{Bet: b, Reason: fmt.Sprintf("%d has no hardway", b.Number)}
		}
	case Come, DontCome:
		if b.Number != 0 && !rollevent.IsPointNumber(b.Number) {
			return &IllegalBetError{Bet: b, Reason: fmt.Sprintf("%d is not a point number", b.Number)}
		}
	case Pass, DontPass, Field:
		if b.Number != 0 {
			return &IllegalBetError{Bet: b, Reason: "bet takes no number"}
		}
	default:
		return &IllegalBetError{Bet: b, Reason: "unknown bet kind"}
	}
	return nil
}
