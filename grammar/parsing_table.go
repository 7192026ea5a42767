package grammar

import (
	"sort"
)

type CellType string

const (
	CellTypeProduction = CellType("production")
	CellTypeSynch      = CellType("synch")
	CellTypeError      = CellType("error")
)

// cellEntry is the compiled form of a cell: 0 means an error, -1 means synch, and p+1 means production p.
type cellEntry int

const (
	cellEntryEmpty = cellEntry(0)
	cellEntrySynch = cellEntry(-1)
)

func newProductionCellEntry(prod productionNum) cellEntry {
	return cellEntry(prod + 1)
}

func (e cellEntry) describe() (CellType, productionNum) {
	switch {
	case e == cellEntryEmpty:
		return CellTypeError, 0
	case e == cellEntrySynch:
		return CellTypeSynch, 0
	}
	return CellTypeProduction, productionNum(e - 1)
}

// cell is an entry of the analysis table. An LL(1) grammar has at most one production in each cell.
type cell struct {
	prods []productionNum
	synch bool
}

func (c *cell) addProduction(prod productionNum) {
	for _, p := range c.prods {
		if p == prod {
			return
		}
	}
	c.prods = append(c.prods, prod)
	sort.Slice(c.prods, func(i, j int) bool {
		return c.prods[i] < c.prods[j]
	})
}

func (c *cell) isEmpty() bool {
	return len(c.prods) == 0 && !c.synch
}

// entry resolves a multi-entry cell to the production with the lowest number.
func (c *cell) entry() cellEntry {
	if len(c.prods) > 0 {
		return newProductionCellEntry(c.prods[0])
	}
	if c.synch {
		return cellEntrySynch
	}
	return cellEntryEmpty
}

type conflict struct {
	nonTerminal symbol
	terminal    symbol
	prods       []productionNum
}

// analysisTable is indexed by non-terminal number and terminal number.
type analysisTable struct {
	nonTerminalCount int
	terminalCount    int
	cells            []*cell
	conflicts        []*conflict
}

func newAnalysisTable(nonTerminalCount, terminalCount int) *analysisTable {
	cells := make([]*cell, nonTerminalCount*terminalCount)
	for i := range cells {
		cells[i] = &cell{}
	}
	return &analysisTable{
		nonTerminalCount: nonTerminalCount,
		terminalCount:    terminalCount,
		cells:            cells,
	}
}

func (t *analysisTable) cell(nonTerm, term symbol) *cell {
	return t.cells[nonTerm.num().Int()*t.terminalCount+term.num().Int()]
}

// entries returns the compiled cells in row-major order.
func (t *analysisTable) entries() []int {
	entries := make([]int, len(t.cells))
	for i, c := range t.cells {
		entries[i] = int(c.entry())
	}
	return entries
}

// firstStarSet holds FIRST*(p) of every production p: FIRST of its RHS, plus FOLLOW of its LHS when
// the RHS derives the empty string.
type firstStarSet struct {
	set []*followEntry
}

func (fs *firstStarSet) find(prod productionNum) *followEntry {
	return fs.set[prod]
}

func genFirstStarSet(prods *productionSet, first *firstSet, follow *followSet) (*firstStarSet, error) {
	fs := &firstStarSet{
		set: make([]*followEntry, len(prods.getAllProductions())),
	}
	for _, prod := range prods.getAllProductions() {
		fst, err := first.find(prod, 0)
		if err != nil {
			return nil, err
		}
		e := newFollowEntry()
		e.merge(fst, nil)
		if fst.empty {
			flw, err := follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			e.merge(nil, flw)
		}
		fs.set[prod.num] = e
	}
	return fs, nil
}

// genAnalysisTable puts each production p into the cells [LHS(p), t] for every t in FIRST*(p). Afterwards,
// every still-empty cell [A, t] with t in FOLLOW(A) becomes a synch entry.
func genAnalysisTable(symTab *symbolTable, prods *productionSet, firstStar *firstStarSet, follow *followSet) (*analysisTable, error) {
	tab := newAnalysisTable(len(symTab.nonTermTexts), len(symTab.termTexts))

	for _, prod := range prods.getAllProductions() {
		for _, term := range firstStar.find(prod.num).sortedSymbols() {
			tab.cell(prod.lhs, term).addProduction(prod.num)
		}
	}

	for _, nonTerm := range symTab.nonTerminalSymbols() {
		flw, err := follow.find(nonTerm)
		if err != nil {
			return nil, err
		}
		for _, term := range flw.sortedSymbols() {
			c := tab.cell(nonTerm, term)
			if c.isEmpty() {
				c.synch = true
			}
		}
	}

	for _, nonTerm := range symTab.nonTerminalSymbols() {
		for _, term := range symTab.terminalSymbols() {
			c := tab.cell(nonTerm, term)
			if len(c.prods) > 1 {
				tab.conflicts = append(tab.conflicts, &conflict{
					nonTerminal: nonTerm,
					terminal:    term,
					prods:       c.prods,
				})
			}
		}
	}

	return tab, nil
}
