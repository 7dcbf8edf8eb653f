// Package craps implements the bet catalog and the single-player game
// engine.
//
// A Game owns a bankroll, the bets on the table and the table point. Every
// roll is resolved in a fixed order:
//
//  1. bets that push under the current phase are returned,
//  2. working bets are checked for a loss and then for a win,
//  3. working come and don't come bets without a point travel to the
//     rolled number,
//  4. the table point advances using the rollevent classifier.
//
// Stakes leave the bankroll when a bet is placed. A win returns the stake
// plus the winnings; winnings are exact rationals.
package craps
