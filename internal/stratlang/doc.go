// Package stratlang implements the craps strategy language.
//
// A strategy is a list of statements re-run before every roll:
//
//	# press the field after a loss
//	if last roll == 7 then make bet field 10 done
//	if point is not 0 and has bet place point then done
//	else make bet place 6 12 done
//	set seen to length of rolls done
//
// Compile turns source into an immutable Program, rejecting input that
// does not lex, does not parse, names impossible bet numbers or exceeds
// the complexity cap. An Evaluator then walks the program against a
// craps.EngineState and returns the bets it asks for. The language has
// no loops and no recursion, so every evaluation finishes.
//
// There is no unary minus; subtraction is spelled minus.
package stratlang
