package grammar

import (
	"testing"
)

func TestGenAnalysisTable(t *testing.T) {
	type expectedCell struct {
		nonTerminal string
		terminal    string
		prods       []int
		synch       bool
	}

	tests := []struct {
		caption   string
		src       string
		cells     []expectedCell
		conflicts int
	}{
		{
			caption: "an expression grammar is LL(1)",
			src:     exprGrammar,
			cells: []expectedCell{
				{nonTerminal: "<expr>", terminal: "[(]", prods: []int{0}},
				{nonTerminal: "<expr>", terminal: "[id]", prods: []int{0}},
				{nonTerminal: "<expr>", terminal: "[)]", synch: true},
				{nonTerminal: "<expr>", terminal: "$", synch: true},
				{nonTerminal: "<expr>", terminal: "[+]"},
				{nonTerminal: "<expr_tail>", terminal: "[+]", prods: []int{1}},
				{nonTerminal: "<expr_tail>", terminal: "[)]", prods: []int{2}},
				{nonTerminal: "<expr_tail>", terminal: "$", prods: []int{2}},
				{nonTerminal: "<term>", terminal: "[+]", synch: true},
				{nonTerminal: "<term_tail>", terminal: "[+]", prods: []int{5}},
				{nonTerminal: "<term_tail>", terminal: "[*]", prods: []int{4}},
				{nonTerminal: "<factor>", terminal: "[(]", prods: []int{6}},
				{nonTerminal: "<factor>", terminal: "[id]", prods: []int{7}},
				{nonTerminal: "<factor>", terminal: "[*]", synch: true},
			},
		},
		{
			caption: "a right-recursive list",
			src: `
<s>-><a>
<a>->[id]<a>
<a>->#
`,
			cells: []expectedCell{
				{nonTerminal: "<s>", terminal: "[id]", prods: []int{0}},
				{nonTerminal: "<s>", terminal: "$", prods: []int{0}},
				{nonTerminal: "<a>", terminal: "[id]", prods: []int{1}},
				{nonTerminal: "<a>", terminal: "$", prods: []int{2}},
			},
		},
		{
			caption: "a common prefix makes a conflict",
			src: `
<s>->[a][b]
<s>->[a][c]
`,
			cells: []expectedCell{
				{nonTerminal: "<s>", terminal: "[a]", prods: []int{0, 1}},
				{nonTerminal: "<s>", terminal: "$", synch: true},
			},
			conflicts: 1,
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
			tab, err := genAnalysisTable(gram.symbolTable, gram.productionSet, s.firstStar, s.follow)
			if err != nil {
				t.Fatal(err)
			}

			for _, expected := range tt.cells {
				c := tab.cell(genSym(expected.nonTerminal), genSym(expected.terminal))
				if len(c.prods) != len(expected.prods) {
					t.Fatalf("unexpected productions in [%v, %v]; want: %v, got: %v", expected.nonTerminal, expected.terminal, expected.prods, c.prods)
				}
				for i, p := range c.prods {
					if p.Int() != expected.prods[i] {
						t.Fatalf("unexpected productions in [%v, %v]; want: %v, got: %v", expected.nonTerminal, expected.terminal, expected.prods, c.prods)
					}
				}
				if c.synch != expected.synch {
					t.Fatalf("unexpected synch flag in [%v, %v]; want: %v, got: %v", expected.nonTerminal, expected.terminal, expected.synch, c.synch)
				}
			}
			if len(tab.conflicts) != tt.conflicts {
				t.Fatalf("unexpected conflict count; want: %v, got: %v", tt.conflicts, len(tab.conflicts))
			}
		})
	}
}

func TestCellEntry(t *testing.T) {
	c := &cell{}
	if typ, _ := c.entry().describe(); typ != CellTypeError {
		t.Fatalf("an empty cell must be an error entry; got: %v", typ)
	}
	c.synch = true
	if typ, _ := c.entry().describe(); typ != CellTypeSynch {
		t.Fatalf("unexpected cell type; want: %v, got: %v", CellTypeSynch, typ)
	}
	c.addProduction(3)
	c.addProduction(1)
	c.addProduction(3)
	typ, prod := c.entry().describe()
	if typ != CellTypeProduction || prod != 1 {
		t.Fatalf("a multi-entry cell must resolve to the lowest production; got: %v %v", typ, prod)
	}
	if len(c.prods) != 2 {
		t.Fatalf("a cell must not hold the same production twice: %v", c.prods)
	}
}
