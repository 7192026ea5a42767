// Package lang defines the teaching language: its LL(1) grammar, its lexical specification, and the
// signatures of its standard library.
package lang

import (
	_ "embed"
	"sync"

	"github.com/nihei9/lilac/driver/lexer"
)

// Grammar is the grammar description of the language.
//
//go:embed grammar.txt
var Grammar string

// StdLib lists the built-in functions, one `returnType name paramType...` signature per line.
//
//go:embed stdlib.txt
var StdLib string

// Non-terminal and terminal names the compiler refers to by name.
const (
	NonTerminalInitValue = "init_value"
	TerminalLParen       = "("
)

// Hint is a note attached to the diagnostic reported when NonTerminal meets Terminal.
type Hint struct {
	NonTerminal string
	Terminal    string
	Note        string
}

// ErrorHints are the notes the parser attaches to known mistakes. A declaration initializer meeting `(`
// means the source defines a function inside a block.
var ErrorHints = []*Hint{
	{
		NonTerminal: NonTerminalInitValue,
		Terminal:    TerminalLParen,
		Note:        "nested function definitions are not allowed",
	},
}

var keywords = []string{
	"int",
	"bool",
	"char",
	"void",
	"struct",
	"if",
	"else",
	"while",
	"return",
	"put",
	"get",
	"true",
	"false",
}

type operator struct {
	kind string
	text string
}

// Operators and punctuation. The longest match wins, so `==` is never read as two `=`.
var operators = []*operator{
	{kind: "eq", text: "=="},
	{kind: "le", text: "<="},
	{kind: "ge", text: ">="},
	{kind: "lt", text: "<"},
	{kind: "gt", text: ">"},
	{kind: "assign", text: "="},
	{kind: "and_and", text: "&&"},
	{kind: "or_or", text: "||"},
	{kind: "amp", text: "&"},
	{kind: "pipe", text: "|"},
	{kind: "plus", text: "+"},
	{kind: "minus", text: "-"},
	{kind: "star", text: "*"},
	{kind: "slash", text: "/"},
	{kind: "l_paren", text: "("},
	{kind: "r_paren", text: ")"},
	{kind: "l_brace", text: "{"},
	{kind: "r_brace", text: "}"},
	{kind: "semicolon", text: ";"},
	{kind: "comma", text: ","},
	{kind: "dot", text: "."},
}

// SkipKinds are the kinds that never reach the parser.
var SkipKinds = []string{
	"white_space",
	"line_comment",
	"block_comment",
}

// LexEntries returns the lexical specification. Keywords precede `id` so that they win over identifiers
// of the same length.
func LexEntries() []*lexer.Entry {
	entries := []*lexer.Entry{
		{Kind: "white_space", Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`},
		{Kind: "line_comment", Pattern: `//[^\u{000A}]*`},
		{Kind: "block_comment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
	}
	for _, kw := range keywords {
		entries = append(entries, &lexer.Entry{
			Kind:    "kw_" + kw,
			Pattern: kw,
		})
	}
	entries = append(entries,
		&lexer.Entry{Kind: "id", Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		&lexer.Entry{Kind: "num", Pattern: `[0-9]+`},
		&lexer.Entry{Kind: "character", Pattern: `'([^'\\\u{000A}]|\\[nt0\\'])'`},
	)
	for _, op := range operators {
		entries = append(entries, &lexer.Entry{
			Kind:    op.kind,
			Pattern: lexer.EscapePattern(op.text),
		})
	}
	return entries
}

// KindToTerminal maps a lexical kind name to a terminal of Grammar.
var KindToTerminal = func() map[string]string {
	m := map[string]string{
		"id":        "id",
		"num":       "num",
		"character": "character",
	}
	for _, kw := range keywords {
		m["kw_"+kw] = kw
	}
	for _, op := range operators {
		m[op.kind] = op.text
	}
	return m
}()

var (
	lexSpecOnce sync.Once
	lexSpec     *lexer.Spec
	lexSpecErr  error
)

// LexSpec returns the compiled lexical specification. It is compiled once per process.
func LexSpec() (*lexer.Spec, error) {
	lexSpecOnce.Do(func() {
		lexSpec, lexSpecErr = lexer.Compile("lilac", LexEntries(), SkipKinds...)
	})
	return lexSpec, lexSpecErr
}
