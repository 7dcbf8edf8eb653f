package stratlang

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Rules are tried in order, so multi-word list names and keywords come
// before the single words they start with.
var lexerDef = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Float", Pattern: `\d*\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "List", Pattern: `(?:rolls\s+since\s+point\s+established|rolls|roll|points)\b`},
	{Name: "Keyword", Pattern: `(?:length\s+of|number\s+of|is\s+not|if|then|else|done|and|or|last|set|to|make|has|bet|dont|pass|come|field|place|hard|odds|off|true|false|minus|is|point|bankroll)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Op", Pattern: `==|!=|>=|<=|&&|\|\||[<>+*/]`},
	{Name: "Punct", Pattern: `[{}()]`},
})

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokList
	tokKeyword
	tokIdent
	tokOp
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokList:
		return "list"
	case tokKeyword:
		return "keyword"
	case tokIdent:
		return "identifier"
	case tokOp:
		return "operator"
	case tokPunct:
		return "punctuation"
	}
	return "token"
}

type token struct {
	kind   tokenKind
	text   string
	offset int
}

var tokenKinds = func() map[lexer.TokenType]tokenKind {
	symbols := lexerDef.Symbols()
	return map[lexer.TokenType]tokenKind{
		symbols["Int"]:     tokInt,
		symbols["Float"]:   tokFloat,
		symbols["List"]:    tokList,
		symbols["Keyword"]: tokKeyword,
		symbols["Ident"]:   tokIdent,
		symbols["Op"]:      tokOp,
		symbols["Punct"]:   tokPunct,
	}
}()

// tokenize splits src into tokens, dropping whitespace and comments. Words
// inside multi-word tokens are normalised to single spaces. The result
// always ends with an EOF token.
func tokenize(src string) ([]token, error) {
	lex, err := lexerDef.LexString("", src)
	if err != nil {
		return nil, lexError(src, err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, lexError(src, err)
	}

	toks := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() {
			toks = append(toks, token{kind: tokEOF, offset: t.Pos.Offset})
			continue
		}
		kind, ok := tokenKinds[t.Type]
		if !ok {
			continue
		}
		text := t.Value
		if kind == tokList || kind == tokKeyword {
			text = strings.Join(strings.Fields(text), " ")
		}
		toks = append(toks, token{kind: kind, text: text, offset: t.Pos.Offset})
	}
	if len(toks) == 0 || toks[len(toks)-1].kind != tokEOF {
		toks = append(toks, token{kind: tokEOF, offset: len(src)})
	}
	return toks, nil
}

func lexError(src string, err error) error {
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return &LexError{Offset: lerr.Pos.Offset, Text: snippet(src, lerr.Pos.Offset)}
	}
	return &LexError{Offset: 0, Text: snippet(src, 0)}
}

func snippet(src string, offset int) string {
	if offset < 0 || offset >= len(src) {
		return ""
	}
	rest := src[offset:]
	if i := strings.IndexAny(rest, " \t\r\n"); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) > 16 {
		rest = rest[:16]
	}
	return rest
}
