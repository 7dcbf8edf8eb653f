package stratlang

import "strings"

// Options bound compilation.
type Options struct {
	// MaxComplexity caps the complexity counter. Zero or less means no cap.
	MaxComplexity int
}

// DefaultMaxComplexity is the cap used by the command line tools.
const DefaultMaxComplexity = 1000

// Program is a compiled strategy. It is immutable and safe to share
// between goroutines; each game needs its own Evaluator.
type Program struct {
	stmts      []Node
	complexity int
}

// Compile lexes and parses src. Lexing, syntax, value and complexity
// failures all surface here, before anything is evaluated.
func Compile(src string, opts Options) (*Program, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, max: opts.MaxComplexity}
	stmts, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return &Program{stmts: stmts, complexity: p.complexity}, nil
}

// Statements returns the top-level statements.
func (p *Program) Statements() []Node { return p.stmts }

// Complexity is the value the complexity counter reached.
func (p *Program) Complexity() int { return p.complexity }

// String renders the program in canonical form; compiling the result
// yields the same tree.
func (p *Program) String() string {
	parts := make([]string, len(p.stmts))
	for i, s := range p.stmts {
		parts[i] = statementString(s)
	}
	return strings.Join(parts, "\n")
}
