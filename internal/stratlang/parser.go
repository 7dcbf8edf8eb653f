package stratlang

import (
	"fmt"
	"strconv"

	"github.com/lox/crapsdice/internal/craps"
)

var comparisonOps = map[string]Op{
	"==":     OpEq,
	"!=":     OpNe,
	"<":      OpLt,
	"<=":     OpLe,
	">":      OpGt,
	">=":     OpGe,
	"is":     OpEq,
	"is not": OpNe,
}

var listIDs = map[string]ListID{
	"rolls":                         ListRolls,
	"roll":                          ListRolls,
	"points":                        ListPoints,
	"rolls since point established": ListSincePoint,
}

// builtinVars cannot be assigned to.
var builtinVars = map[string]bool{
	"point":    true,
	"bankroll": true,
}

type parser struct {
	toks       []token
	pos        int
	complexity int
	max        int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) at(kind tokenKind, text string) bool {
	t := p.peek()
	return t.kind == kind && t.text == text
}

func (p *parser) accept(kind tokenKind, text string) bool {
	if p.at(kind, text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, text string) error {
	if p.accept(kind, text) {
		return nil
	}
	return p.unexpected(fmt.Sprintf("expected %q", text))
}

func (p *parser) unexpected(want string) error {
	t := p.peek()
	if t.kind == tokEOF {
		return &SyntaxError{Offset: t.offset, Msg: want + ", got end of input"}
	}
	return &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("%s, got %s %q", want, t.kind, t.text)}
}

// count charges one unit of complexity for n.
func (p *parser) count(n Node) (Node, error) {
	p.complexity++
	if p.max > 0 && p.complexity > p.max {
		return nil, &StrategyTooComplexError{Reached: p.complexity, Max: p.max}
	}
	return n, nil
}

func (p *parser) parseProgram() ([]Node, error) {
	var stmts []Node
	for p.peek().kind != tokEOF {
		n, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	return stmts, nil
}

func (p *parser) parseBlock() (Node, error) {
	if !p.accept(tokPunct, "{") {
		return p.parseStmt()
	}
	block := &Block{}
	for !p.accept(tokPunct, "}") {
		if p.peek().kind == tokEOF {
			return nil, p.unexpected(`expected "}"`)
		}
		n, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, n)
	}
	return block, nil
}

func (p *parser) parseStmt() (Node, error) {
	switch {
	case p.accept(tokKeyword, "if"):
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokKeyword, "then"); err != nil {
			return nil, err
		}
		then, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		n := &CondOp{Cond: cond, Then: then}
		if p.accept(tokKeyword, "else") {
			if n.Else, err = p.parseBlock(); err != nil {
				return nil, err
			}
		}
		return n, nil

	case p.accept(tokKeyword, "set"):
		name := p.peek()
		if name.kind == tokKeyword && builtinVars[name.text] {
			return nil, &SyntaxError{Offset: name.offset, Msg: fmt.Sprintf("cannot assign to %s", name.text)}
		}
		if name.kind != tokIdent {
			return nil, p.unexpected("expected variable name")
		}
		p.next()
		if err := p.expect(tokKeyword, "to"); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokKeyword, "done"); err != nil {
			return nil, err
		}
		return &AssignOp{Name: name.text, Expr: expr}, nil

	case p.accept(tokKeyword, "done"):
		return &Empty{}, nil
	}

	expr, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokKeyword, "done"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseCond() (Node, error) {
	left, err := p.parseConj()
	if err != nil {
		return nil, err
	}
	for p.accept(tokKeyword, "or") || p.accept(tokOp, "||") {
		right, err := p.parseConj()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseConj() (Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.accept(tokKeyword, "and") || p.accept(tokOp, "&&") {
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAtom() (Node, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokOp && t.kind != tokKeyword {
		return left, nil
	}
	op, ok := comparisonOps[t.text]
	if !ok {
		return left, nil
	}
	p.next()
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &BinOp{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch {
		case p.accept(tokOp, "+"):
			op = OpAdd
		case p.accept(tokKeyword, "minus"):
			op = OpSub
		default:
			return left, nil
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch {
		case p.accept(tokOp, "*"):
			op = OpMul
		case p.accept(tokOp, "/"):
			op = OpDiv
		default:
			return left, nil
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.peek()
	switch t.kind {
	case tokInt:
		p.next()
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("integer %s out of range", t.text)}
		}
		return p.count(&IntLit{Value: v})

	case tokFloat:
		p.next()
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("bad float %s", t.text)}
		}
		return p.count(&FloatLit{Value: v})

	case tokIdent:
		p.next()
		return p.count(&VarRef{Name: t.text})

	case tokPunct:
		if !p.accept(tokPunct, "(") {
			break
		}
		n, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokPunct, ")"); err != nil {
			return nil, err
		}
		return n, nil

	case tokList:
		return nil, &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("%s must be read with last or length of", t.text)}

	case tokKeyword:
		switch t.text {
		case "true", "false":
			p.next()
			return p.count(&BoolLit{Value: t.text == "true"})
		case "point", "bankroll":
			p.next()
			return p.count(&VarRef{Name: t.text})
		case "last":
			p.next()
			return p.parseTail()
		case "length of", "number of":
			p.next()
			list, err := p.parseList()
			if err != nil {
				return nil, err
			}
			return p.count(&LenOp{List: list})
		case "has":
			p.next()
			if err := p.expect(tokKeyword, "bet"); err != nil {
				return nil, err
			}
			spec, err := p.parseBetSpec()
			if err != nil {
				return nil, err
			}
			return p.count(&HasBet{Bet: spec})
		case "make":
			p.next()
			return p.parseMakeBet()
		}
	}
	return nil, p.unexpected("expected expression")
}

func (p *parser) parseList() (ListID, error) {
	t := p.peek()
	if t.kind != tokList {
		return 0, p.unexpected("expected rolls, points or rolls since point established")
	}
	p.next()
	return listIDs[t.text], nil
}

func (p *parser) parseTail() (Node, error) {
	n := int64(1)
	if t := p.peek(); t.kind == tokInt {
		p.next()
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil || v < 1 {
			return nil, &InvalidValueError{Value: v, Allowed: "positive integers"}
		}
		n = v
	}
	list, err := p.parseList()
	if err != nil {
		return nil, err
	}
	return p.count(&TailOp{List: list, N: int(n)})
}

func (p *parser) parseMakeBet() (Node, error) {
	if err := p.expect(tokKeyword, "bet"); err != nil {
		return nil, err
	}
	spec, err := p.parseBetSpec()
	if err != nil {
		return nil, err
	}
	amount, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n := &MakeBet{Bet: spec, Amount: amount}
	n.Off = p.accept(tokKeyword, "off")
	return p.count(n)
}

func (p *parser) parseBetSpec() (BetSpec, error) {
	var spec BetSpec
	dont := p.accept(tokKeyword, "dont")
	t := p.peek()
	if t.kind != tokKeyword {
		return spec, p.unexpected("expected bet kind")
	}
	switch t.text {
	case "pass":
		spec.Kind = craps.Pass
		if dont {
			spec.Kind = craps.DontPass
		}
	case "come":
		spec.Kind = craps.Come
		if dont {
			spec.Kind = craps.DontCome
		}
	case "odds":
		spec.Kind = craps.Odds
		spec.Dont = dont
	case "field", "place", "hard":
		if dont {
			return spec, &SyntaxError{Offset: t.offset, Msg: fmt.Sprintf("there is no dont %s bet", t.text)}
		}
		spec.Kind = map[string]craps.Kind{"field": craps.Field, "place": craps.Place, "hard": craps.HardWay}[t.text]
	default:
		return spec, p.unexpected("expected bet kind")
	}
	p.next()

	if !betTakesNumber(spec.Kind) {
		return spec, nil
	}
	num, err := p.parsePrimary()
	if err != nil {
		return spec, err
	}
	if lit, ok := num.(*IntLit); ok {
		if err := validateBetNumber(spec.Kind, lit.Value); err != nil {
			return spec, err
		}
	}
	spec.Number = num
	return spec, nil
}

func betTakesNumber(k craps.Kind) bool {
	return k == craps.Place || k == craps.HardWay || k == craps.Odds
}

// validateBetNumber checks the number of a place, hard or odds bet.
func validateBetNumber(k craps.Kind, n int64) error {
	switch k {
	case craps.HardWay:
		switch n {
		case 4, 6, 8, 10:
			return nil
		}
		return &InvalidValueError{Value: n, Allowed: "4, 6, 8, 10"}
	default:
		switch n {
		case 4, 5, 6, 8, 9, 10:
			return nil
		}
		return &InvalidValueError{Value: n, Allowed: "4, 5, 6, 8, 9, 10"}
	}
}
