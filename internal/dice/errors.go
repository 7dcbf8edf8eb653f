package dice

import "fmt"

// ImpossibleDieValueError is returned for a face outside [1,6].
type ImpossibleDieValueError struct {
	Value int
}

func (e *ImpossibleDieValueError) Error() string {
	return fmt.Sprintf("impossible die value %d", e.Value)
}

// IncompleteRollSeriesError is returned when a series ends on half a roll.
type IncompleteRollSeriesError struct {
	Face int
}

func (e *IncompleteRollSeriesError) Error() string {
	return fmt.Sprintf("incomplete roll series: dangling die %d", e.Face)
}

// ParseError reports a non-digit character in a roll series.
type ParseError struct {
	Line int
	Char rune
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: unexpected character %q in roll series", e.Line, e.Char)
}
