package grammar

import "testing"

func TestSymbolTable(t *testing.T) {
	tab := newSymbolTable()
	tab.registerStartSymbol("expr")
	for _, text := range []string{"expr_tail", "term", "factor"} {
		if _, err := tab.registerNonTerminalSymbol(text); err != nil {
			t.Fatal(err)
		}
	}
	for _, text := range []string{"id", "+", "*", "(", ")"} {
		if _, err := tab.registerTerminalSymbol(text); err != nil {
			t.Fatal(err)
		}
	}
	// Registering the same text twice yields the same symbol.
	plus1, _ := tab.registerTerminalSymbol("+")
	plus2, _ := tab.registerTerminalSymbol("+")
	if plus1 != plus2 {
		t.Fatalf("a text must map to one symbol; got: %v and %v", plus1, plus2)
	}

	tests := []struct {
		text          string
		terminal      bool
		num           int
		isStart       bool
		isEOF         bool
		isNonTerminal bool
		isTerminal    bool
	}{
		{text: "expr", num: 1, isStart: true, isNonTerminal: true},
		{text: "expr_tail", num: 2, isNonTerminal: true},
		{text: "factor", num: 4, isNonTerminal: true},
		{text: SymbolNameEOF, terminal: true, num: 1, isEOF: true, isTerminal: true},
		{text: "id", terminal: true, num: 2, isTerminal: true},
		{text: ")", terminal: true, num: 6, isTerminal: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var sym symbol
			var ok bool
			if tt.terminal {
				sym, ok = tab.text2Term[tt.text]
			} else {
				sym, ok = tab.text2NonTerm[tt.text]
			}
			if !ok {
				t.Fatalf("symbol was not found")
			}
			if sym.num().Int() != tt.num {
				t.Fatalf("unexpected number; want: %v, got: %v", tt.num, sym.num())
			}
			if sym.isNil() || sym.isStart() != tt.isStart || sym.isEOF() != tt.isEOF ||
				sym.isNonTerminal() != tt.isNonTerminal || sym.isTerminal() != tt.isTerminal {
				t.Fatalf("unexpected kind: %v", sym)
			}
			if text := tab.toText(sym); text != tt.text {
				t.Fatalf("unexpected text; want: %v, got: %v", tt.text, text)
			}
		})
	}

	terms := tab.terminalSymbols()
	if len(terms) != 6 || terms[0] != symbolEOF {
		t.Fatalf("unexpected terminals: %v", terms)
	}
	nonTerms := tab.nonTerminalSymbols()
	if len(nonTerms) != 4 || nonTerms[0] != symbolStart {
		t.Fatalf("unexpected non-terminals: %v", nonTerms)
	}
	if !symbolNil.isNil() || symbolNil.isTerminal() || symbolNil.isNonTerminal() {
		t.Fatalf("the nil symbol must be neither a terminal nor a non-terminal")
	}
}
