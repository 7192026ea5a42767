package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/lilac/spec/grammar/parser"
)

func buildTestGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := parser.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol

// newTestSymbolGenerator resolves `[t]` to a terminal, `<N>` to a non-terminal, and `$` to the end marker.
func newTestSymbolGenerator(t *testing.T, symTab *symbolTable) testSymbolGenerator {
	return func(text string) symbol {
		t.Helper()

		if text == SymbolNameEOF {
			return symbolEOF
		}
		var sym symbol
		var ok bool
		switch {
		case strings.HasPrefix(text, "["):
			sym, ok = symTab.text2Term[strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")]
		case strings.HasPrefix(text, "<"):
			sym, ok = symTab.text2NonTerm[strings.TrimSuffix(strings.TrimPrefix(text, "<"), ">")]
		}
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

func testSymbols(t *testing.T, actual []symbol, expected []string, genSym testSymbolGenerator) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Fatalf("unexpected symbol count; want: %v, got: %v", expected, actual)
	}
	want := map[symbol]struct{}{}
	for _, text := range expected {
		want[genSym(text)] = struct{}{}
	}
	for _, sym := range actual {
		if _, ok := want[sym]; !ok {
			t.Fatalf("unexpected symbol; want: %v, got: %v", expected, actual)
		}
	}
}

// An expression grammar with the left recursion removed.
const exprGrammar = `
<expr>-><term><expr_tail>
<expr_tail>->[+]<term><expr_tail>
<expr_tail>->#
<term>-><factor><term_tail>
<term_tail>->[*]<factor><term_tail>
<term_tail>->#
<factor>->[(]<expr>[)]
<factor>->[id]
`
