package driver

import (
	"github.com/nihei9/lilac/driver/lexer"
)

type VToken interface {
	// TerminalID returns a terminal number. An invalid token returns 0, which matches no terminal.
	TerminalID() int

	// KindName returns a kind name given by a token source.
	KindName() string

	Lexeme() []byte

	EOF() bool

	Invalid() bool

	// Position returns a 0-based row and column.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	kindName   string
	lexeme     []byte
	row        int
	col        int
	eof        bool
	invalid    bool
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) KindName() string {
	return t.kindName
}

func (t *vToken) Lexeme() []byte {
	return t.lexeme
}

func (t *vToken) EOF() bool {
	return t.eof
}

func (t *vToken) Invalid() bool {
	return t.invalid
}

func (t *vToken) Position() (int, int) {
	return t.row, t.col
}

type tokenStream struct {
	lex            *lexer.Lexer
	gram           Grammar
	kindToTerminal map[string]string
}

// NewTokenStream adapts a lexer to the parser. kindToTerminal maps a lexical kind name to a terminal name
// of the grammar. A kind missing from the map, or mapped to an unknown terminal, yields an invalid token.
func NewTokenStream(gram Grammar, lex *lexer.Lexer, kindToTerminal map[string]string) TokenStream {
	return &tokenStream{
		lex:            lex,
		gram:           gram,
		kindToTerminal: kindToTerminal,
	}
}

func (s *tokenStream) Next() (VToken, error) {
	tok, err := s.lex.Next()
	if err != nil {
		return nil, err
	}

	vtok := &vToken{
		kindName: tok.Kind,
		lexeme:   tok.Lexeme,
		row:      tok.Row,
		col:      tok.Col,
		eof:      tok.EOF,
		invalid:  tok.Invalid,
	}
	switch {
	case tok.EOF:
		vtok.terminalID = s.gram.EOF()
	case tok.Invalid:
	default:
		if term, ok := s.kindToTerminal[tok.Kind]; ok {
			vtok.terminalID, _ = s.gram.TerminalNumber(term)
		}
		vtok.invalid = vtok.terminalID == 0
	}
	return vtok, nil
}

// Token is an element of an in-memory token sequence. Row and Col are 0-based.
type Token struct {
	Terminal string
	Lexeme   string
	Row      int
	Col      int
}

type sliceTokenStream struct {
	gram Grammar
	toks []*Token
	pos  int
}

// NewSliceTokenStream returns a token stream reading toks followed by the end marker.
func NewSliceTokenStream(gram Grammar, toks []*Token) TokenStream {
	return &sliceTokenStream{
		gram: gram,
		toks: toks,
	}
}

func (s *sliceTokenStream) Next() (VToken, error) {
	if s.pos >= len(s.toks) {
		row, col := 0, 0
		if len(s.toks) > 0 {
			last := s.toks[len(s.toks)-1]
			row, col = last.Row, last.Col+len([]rune(last.Lexeme))
		}
		return &vToken{
			terminalID: s.gram.EOF(),
			row:        row,
			col:        col,
			eof:        true,
		}, nil
	}

	tok := s.toks[s.pos]
	s.pos++
	term, ok := s.gram.TerminalNumber(tok.Terminal)
	return &vToken{
		terminalID: term,
		kindName:   tok.Terminal,
		lexeme:     []byte(tok.Lexeme),
		row:        tok.Row,
		col:        tok.Col,
		invalid:    !ok || term == s.gram.EOF(),
	}, nil
}
