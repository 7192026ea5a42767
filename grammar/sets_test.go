package grammar

import (
	"testing"
)

func TestGenSets(t *testing.T) {
	type sets struct {
		nullable []string
		first    map[string][]string
		follow   map[string][]string
	}

	tests := []struct {
		caption string
		src     string
		sets    sets
	}{
		{
			caption: "an expression grammar",
			src:     exprGrammar,
			sets: sets{
				nullable: []string{"<expr_tail>", "<term_tail>"},
				first: map[string][]string{
					"<expr>":      {"[(]", "[id]"},
					"<expr_tail>": {"[+]"},
					"<term>":      {"[(]", "[id]"},
					"<term_tail>": {"[*]"},
					"<factor>":    {"[(]", "[id]"},
				},
				follow: map[string][]string{
					"<expr>":      {"$", "[)]"},
					"<expr_tail>": {"$", "[)]"},
					"<term>":      {"$", "[)]", "[+]"},
					"<term_tail>": {"$", "[)]", "[+]"},
					"<factor>":    {"$", "[)]", "[+]", "[*]"},
				},
			},
		},
		{
			caption: "a right-recursive list with the empty production",
			src: `
<s>-><a>
<a>->[id]<a>
<a>->#
`,
			sets: sets{
				nullable: []string{"<s>", "<a>"},
				first: map[string][]string{
					"<s>": {"[id]"},
					"<a>": {"[id]"},
				},
				follow: map[string][]string{
					"<s>": {"$"},
					"<a>": {"$"},
				},
			},
		},
		{
			caption: "nullability propagates through a chain of non-terminals",
			src: `
<s>-><a><b>[c]
<a>-><b>
<b>->#
<b>->[d]
`,
			sets: sets{
				nullable: []string{"<a>", "<b>"},
				first: map[string][]string{
					"<s>": {"[c]", "[d]"},
					"<a>": {"[d]"},
					"<b>": {"[d]"},
				},
				follow: map[string][]string{
					"<s>": {"$"},
					"<a>": {"[c]", "[d]"},
					"<b>": {"[c]", "[d]"},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildTestGrammar(t, tt.src)
			genSym := newTestSymbolGenerator(t, gram.symbolTable)

			s, err := genSets(gram)
			if err != nil {
				t.Fatal(err)
			}

			testSymbols(t, s.nullable.symbols(gram.symbolTable), tt.sets.nullable, genSym)
			for text, expected := range tt.sets.first {
				sym := genSym(text)
				e := s.first.findBySymbol(sym)
				if e == nil {
					t.Fatalf("FIRST entry was not found: %v", text)
				}
				if e.empty != s.nullable.contains(sym) {
					t.Fatalf("the empty flag of FIRST(%v) must agree with NULLABLE", text)
				}
				testSymbols(t, e.sortedSymbols(), expected, genSym)
			}
			for text, expected := range tt.sets.follow {
				e, err := s.follow.find(genSym(text))
				if err != nil {
					t.Fatal(err)
				}
				testSymbols(t, e.sortedSymbols(), expected, genSym)
			}
		})
	}
}

func TestGenSets_Monotonic(t *testing.T) {
	gram := buildTestGrammar(t, exprGrammar)
	s, err := genSets(gram)
	if err != nil {
		t.Fatal(err)
	}

	// Every FIRST(A) must contain FIRST of each production's RHS when the RHS is not nullable.
	for _, prod := range gram.productionSet.getAllProductions() {
		fst, err := s.first.find(prod, 0)
		if err != nil {
			t.Fatal(err)
		}
		lhs := s.first.findBySymbol(prod.lhs)
		for sym := range fst.symbols {
			if _, ok := lhs.symbols[sym]; !ok {
				t.Fatalf("FIRST(%v) lacks %v", prod.lhs, sym)
			}
		}
	}

	// Recomputing the sets yields the same result.
	s2, err := genSets(gram)
	if err != nil {
		t.Fatal(err)
	}
	for sym, e := range s.follow.set {
		e2, _ := s2.follow.find(sym)
		if len(e.sortedSymbols()) != len(e2.sortedSymbols()) {
			t.Fatalf("FOLLOW(%v) differs between runs", sym)
		}
	}
}
