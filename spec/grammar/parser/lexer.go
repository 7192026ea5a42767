package parser

import (
	"io"
	"strings"
	"sync"

	"github.com/nihei9/lilac/driver/lexer"
)

type tokenKind string

const (
	tokenKindNonTerminal = tokenKind("non-terminal")
	tokenKindTerminal    = tokenKind("terminal")
	tokenKindArrow       = tokenKind("->")
	tokenKindEpsilon     = tokenKind("#")
	tokenKindNewline     = tokenKind("newline")
	tokenKindEOF         = tokenKind("eof")
	tokenKindInvalid     = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

var lexEntries = []*lexer.Entry{
	{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
	{Kind: "newline", Pattern: `\u{000D}?\u{000A}`},
	{Kind: "line_comment", Pattern: `//[^\u{000A}]*`},
	{Kind: "arrow", Pattern: `->`},
	{Kind: "epsilon", Pattern: `#`},
	{Kind: "terminal", Pattern: `\[[^\]\u{000A}]+\]`},
	{Kind: "non_terminal", Pattern: `<[^>\u{000A}]+>`},
	{Kind: "unclosed_terminal", Pattern: `\[[^\]\u{000A}]*`},
	{Kind: "unclosed_non_terminal", Pattern: `<[^>\u{000A}]*`},
}

var (
	lexSpecOnce sync.Once
	lexSpec     *lexer.Spec
	lexSpecErr  error
)

func compiledLexSpec() (*lexer.Spec, error) {
	lexSpecOnce.Do(func() {
		lexSpec, lexSpecErr = lexer.Compile("grammar_description", lexEntries, "white_space", "line_comment")
	})
	return lexSpec, lexSpecErr
}

type lex struct {
	d *lexer.Lexer
}

func newLexer(src io.Reader) (*lex, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := lexer.NewLexer(s, src)
	if err != nil {
		return nil, err
	}
	return &lex{
		d: d,
	}, nil
}

func (l *lex) next() (*token, error) {
	tok, err := l.d.Next()
	if err != nil {
		return nil, err
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	switch {
	case tok.EOF:
		return &token{kind: tokenKindEOF, pos: pos}, nil
	case tok.Invalid:
		return &token{kind: tokenKindInvalid, text: tok.Text(), pos: pos}, nil
	}

	switch tok.Kind {
	case "newline":
		return &token{kind: tokenKindNewline, pos: pos}, nil
	case "arrow":
		return &token{kind: tokenKindArrow, pos: pos}, nil
	case "epsilon":
		return &token{kind: tokenKindEpsilon, pos: pos}, nil
	case "terminal":
		text := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(tok.Text(), "["), "]"))
		if text == "#" {
			return &token{kind: tokenKindEpsilon, pos: pos}, nil
		}
		return &token{kind: tokenKindTerminal, text: text, pos: pos}, nil
	case "non_terminal":
		text := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(tok.Text(), "<"), ">"))
		return &token{kind: tokenKindNonTerminal, text: text, pos: pos}, nil
	case "unclosed_terminal":
		return nil, &lexError{cause: synErrUnclosedTerminal, text: tok.Text(), pos: pos}
	case "unclosed_non_terminal":
		return nil, &lexError{cause: synErrUnclosedNonTerm, text: tok.Text(), pos: pos}
	}
	return &token{kind: tokenKindInvalid, text: tok.Text(), pos: pos}, nil
}

type lexError struct {
	cause *SyntaxError
	text  string
	pos   Position
}

func (e *lexError) Error() string {
	return e.cause.Error()
}
