package lang

import (
	"io"
	"strings"
	"sync"

	"github.com/nihei9/lilac/driver"
	"github.com/nihei9/lilac/driver/lexer"
	"github.com/nihei9/lilac/grammar"
	spec "github.com/nihei9/lilac/spec/grammar"
	"github.com/nihei9/lilac/spec/grammar/parser"
)

// CompileGrammar compiles a grammar description. Without grammar.EnableReporting, the report is non-nil only
// when the grammar has conflicts.
func CompileGrammar(name, src string, opts ...grammar.CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	ast, err := parser.Parse(strings.NewReader(src))
	if err != nil {
		return nil, nil, err
	}
	b := grammar.GrammarBuilder{
		AST:  ast,
		Name: name,
	}
	g, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return grammar.Compile(g, opts...)
}

var (
	gramOnce sync.Once
	gram     driver.Grammar
	gramErr  error
)

// LoadGrammar returns the compiled language grammar. It is compiled once per process.
func LoadGrammar() (driver.Grammar, error) {
	gramOnce.Do(func() {
		var cg *spec.CompiledGrammar
		cg, _, gramErr = CompileGrammar("lilac", Grammar)
		if gramErr != nil {
			return
		}
		gram = driver.NewGrammar(cg)
	})
	return gram, gramErr
}

// NewParser returns a parser reading src with the language's lexical specification. When gram is nil,
// the parser uses the language grammar. ErrorHints are registered before opts.
func NewParser(gram driver.Grammar, src io.Reader, opts ...driver.ParserOption) (*driver.Parser, error) {
	if gram == nil {
		g, err := LoadGrammar()
		if err != nil {
			return nil, err
		}
		gram = g
	}

	s, err := LexSpec()
	if err != nil {
		return nil, err
	}
	l, err := lexer.NewLexer(s, src)
	if err != nil {
		return nil, err
	}

	var parserOpts []driver.ParserOption
	for _, h := range ErrorHints {
		if !hasSymbols(gram, h) {
			continue
		}
		parserOpts = append(parserOpts, driver.ErrorHint(h.NonTerminal, h.Terminal, h.Note))
	}
	parserOpts = append(parserOpts, opts...)

	return driver.NewParser(driver.NewTokenStream(gram, l, KindToTerminal), gram, parserOpts...)
}

// hasSymbols reports whether a grammar knows both symbols of a hint. A user-supplied grammar may not.
func hasSymbols(gram driver.Grammar, h *Hint) bool {
	if _, ok := gram.NonTerminalNumber(h.NonTerminal); !ok {
		return false
	}
	_, ok := gram.TerminalNumber(h.Terminal)
	return ok
}
