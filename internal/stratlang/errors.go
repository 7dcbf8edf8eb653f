package stratlang

import (
	"fmt"
	"strings"
)

// LexError reports input that no token matches.
type LexError struct {
	Offset int
	Text   string
}

func (e *LexError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("unrecognised input at offset %d", e.Offset)
	}
	return fmt.Sprintf("unrecognised input %q at offset %d", e.Text, e.Offset)
}

// SyntaxError reports tokens that do not fit the grammar.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// InvalidValueError reports a value outside its allowed set, such as place
// 7 or last 0 rolls.
type InvalidValueError struct {
	Value   int64
	Allowed string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %d, allowed: %s", e.Value, e.Allowed)
}

// StrategyTooComplexError aborts compilation once the complexity counter
// passes the configured maximum.
type StrategyTooComplexError struct {
	Reached int
	Max     int
}

func (e *StrategyTooComplexError) Error() string {
	return fmt.Sprintf("strategy too complex: reached %d, max %d", e.Reached, e.Max)
}

// EvalError is a runtime failure of a single statement. The remaining
// statements still run.
type EvalError struct {
	Node Node
	Msg  string
	Err  error
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString("evaluating ")
	if e.Node != nil {
		b.WriteString(e.Node.String())
	} else {
		b.WriteString("statement")
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EvalError) Unwrap() error { return e.Err }

func evalErrorf(n Node, format string, args ...any) *EvalError {
	return &EvalError{Node: n, Msg: fmt.Sprintf(format, args...)}
}
