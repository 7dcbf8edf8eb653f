package craps

import (
	"errors"
	"fmt"
)

// ErrUnknownBet is returned when a bet ID is not on the table.
var ErrUnknownBet = errors.New("unknown bet")

// IllegalBetError reports a bet that cannot be placed in the current state.
type IllegalBetError struct {
	Bet    Bet
	Reason string
}

func (e *IllegalBetError) Error() string {
	return fmt.Sprintf("illegal bet %s: %s", e.Bet, e.Reason)
}

// IllegalBetChangeError reports an attempt to turn a contract bet off.
type IllegalBetChangeError struct {
	Bet Bet
}

func (e *IllegalBetChangeError) Error() string {
	return fmt.Sprintf("cannot change working state of contract bet %s", e.Bet)
}
