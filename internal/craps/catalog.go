package craps

import (
	"math/big"

	"github.com/lox/crapsdice/internal/dice"
	"github.com/lox/crapsdice/internal/rollevent"
)

type rule func(b Bet, r dice.Roll, point rollevent.Point) bool

type behaviour struct {
	contract bool
	wins     rule
	loses    rule
	pushes   rule
	ratio    func(b Bet, r dice.Roll) *big.Rat
}

var (
	evenMoney = big.NewRat(1, 1)
	never     = func(Bet, dice.Roll, rollevent.Point) bool { return false }
)

var placeRatio = map[int]*big.Rat{
	4: big.NewRat(9, 5), 10: big.NewRat(9, 5),
	5: big.NewRat(7, 5), 9: big.NewRat(7, 5),
	6: big.NewRat(7, 6), 8: big.NewRat(7, 6),
}

var hardRatio = map[int]*big.Rat{
	4: big.NewRat(7, 1), 10: big.NewRat(7, 1),
	6: big.NewRat(9, 1), 8: big.NewRat(9, 1),
}

var takeOddsRatio = map[int]*big.Rat{
	4: big.NewRat(2, 1), 10: big.NewRat(2, 1),
	5: big.NewRat(3, 2), 9: big.NewRat(3, 2),
	6: big.NewRat(6, 5), 8: big.NewRat(6, 5),
}

var layOddsRatio = map[int]*big.Rat{
	4: big.NewRat(1, 2), 10: big.NewRat(1, 2),
	5: big.NewRat(2, 3), 9: big.NewRat(2, 3),
	6: big.NewRat(5, 6), 8: big.NewRat(5, 6),
}

// Come-out rules shared by the line bets and by come bets that have not
// traveled yet.
func comeOutWins(v int) bool       { return v == 7 || v == 11 }
func comeOutLoses(v int) bool      { return v == 2 || v == 3 || v == 12 }
func dontComeOutWins(v int) bool   { return v == 2 || v == 3 }
func dontComeOutLoses(v int) bool  { return v == 7 || v == 11 }
func fieldWins(v int) bool         { return v != 5 && v != 6 && v != 7 && v != 8 }
func pointBetWins(n, v int) bool   { return v == n }
func pointBetLoses(_, v int) bool  { return v == 7 }
func dontPointWins(_, v int) bool  { return v == 7 }
func dontPointLoses(n, v int) bool { return v == n }

var catalog = map[Kind]behaviour{
	Pass: {
		contract: true,
		wins: func(_ Bet, r dice.Roll, p rollevent.Point) bool {
			if !p.IsOn() {
				return comeOutWins(r.Value())
			}
			return pointBetWins(int(p), r.Value())
		},
		loses: func(_ Bet, r dice.Roll, p rollevent.Point) bool {
			if !p.IsOn() {
				return comeOutLoses(r.Value())
			}
			return pointBetLoses(int(p), r.Value())
		},
		pushes: never,
		ratio:  func(Bet, dice.Roll) *big.Rat { return evenMoney },
	},
	DontPass: {
		contract: true,
		wins: func(_ Bet, r dice.Roll, p rollevent.Point) bool {
			if !p.IsOn() {
				return dontComeOutWins(r.Value())
			}
			return dontPointWins(int(p), r.Value())
		},
		loses: func(_ Bet, r dice.Roll, p rollevent.Point) bool {
			if !p.IsOn() {
				return dontComeOutLoses(r.Value())
			}
			return dontPointLoses(int(p), r.Value())
		},
		pushes: func(_ Bet, r dice.Roll, p rollevent.Point) bool {
			return !p.IsOn() && r.Value() == 12
		},
		ratio: func(Bet, dice.Roll) *big.Rat { return evenMoney },
	},
	Come: {
		contract: true,
		wins: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			if b.Number == 0 {
				return comeOutWins(r.Value())
			}
			return pointBetWins(b.Number, r.Value())
		},
		loses: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			if b.Number == 0 {
				return comeOutLoses(r.Value())
			}
			return pointBetLoses(b.Number, r.Value())
		},
		pushes: never,
		ratio:  func(Bet, dice.Roll) *big.Rat { return evenMoney },
	},
	DontCome: {
		contract: true,
		wins: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			if b.Number == 0 {
				return dontComeOutWins(r.Value())
			}
			return dontPointWins(b.Number, r.Value())
		},
		loses: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			if b.Number == 0 {
				return dontComeOutLoses(r.Value())
			}
			return dontPointLoses(b.Number, r.Value())
		},
		pushes: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			return b.Number == 0 && r.Value() == 12
		},
		ratio: func(Bet, dice.Roll) *big.Rat { return evenMoney },
	},
	Field: {
		contract: true,
		wins: func(_ Bet, r dice.Roll, _ rollevent.Point) bool {
			return fieldWins(r.Value())
		},
		loses: func(_ Bet, r dice.Roll, _ rollevent.Point) bool {
			return !fieldWins(r.Value())
		},
		pushes: never,
		ratio: func(b Bet, r dice.Roll) *big.Rat {
			switch r.Value() {
			case 2:
				return big.NewRat(fieldMultiplier(b.FieldTwo), 1)
			case 12:
				return big.NewRat(fieldMultiplier(b.FieldTwelve), 1)
			}
			return evenMoney
		},
	},
	Place: {
		wins: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			return pointBetWins(b.Number, r.Value())
		},
		loses: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			return pointBetLoses(b.Number, r.Value())
		},
		pushes: never,
		ratio:  func(b Bet, _ dice.Roll) *big.Rat { return placeRatio[b.Number] },
	},
	HardWay: {
		wins: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			return r.Value() == b.Number && r.IsHard()
		},
		loses: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			return r.Value() == 7 || (r.Value() == b.Number && !r.IsHard())
		},
		pushes: never,
		ratio:  func(b Bet, _ dice.Roll) *big.Rat { return hardRatio[b.Number] },
	},
	Odds: {
		wins: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			if b.Dont {
				return dontPointWins(b.Number, r.Value())
			}
			return pointBetWins(b.Number, r.Value())
		},
		loses: func(b Bet, r dice.Roll, _ rollevent.Point) bool {
			if b.Dont {
				return dontPointLoses(b.Number, r.Value())
			}
			return pointBetLoses(b.Number, r.Value())
		},
		// Odds that are off during the come-out come back instead of
		// resolving.
		pushes: func(b Bet, r dice.Roll, p rollevent.Point) bool {
			if b.Working || p.IsOn() {
				return false
			}
			if b.Dont {
				return r.Value() == b.Number
			}
			return r.Value() == 7
		},
		ratio: func(b Bet, _ dice.Roll) *big.Rat {
			if b.Dont {
				return layOddsRatio[b.Number]
			}
			return takeOddsRatio[b.Number]
		},
	},
}

func fieldMultiplier(m int64) int64 {
	if m == 0 {
		return DefaultFieldMultiplier
	}
	return m
}

func behaviourOf(k Kind) behaviour {
	b, ok := catalog[k]
	if !ok {
		return behaviour{wins: never, loses: never, pushes: never, ratio: func(Bet, dice.Roll) *big.Rat { return new(big.Rat) }}
	}
	return b
}
