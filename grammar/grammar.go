package grammar

import (
	"fmt"

	"github.com/nihei9/lilac/compressor"
	verr "github.com/nihei9/lilac/error"
	spec "github.com/nihei9/lilac/spec/grammar"
	"github.com/nihei9/lilac/spec/grammar/parser"
)

// Grammar is a validated context-free grammar. The LHS of the first production is the start symbol.
type Grammar struct {
	name          string
	symbolTable   *symbolTable
	productionSet *productionSet
}

type GrammarBuilder struct {
	AST  *parser.RootNode
	Name string

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.AST == nil || len(b.AST.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: semErrNoProduction,
			},
		}
	}

	symTab, err := b.genSymbolTable(b.AST)
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	prods, err := b.genProductionSet(b.AST, symTab)
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	b.checkUnusedProductions(prods)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return &Grammar{
		name:          b.Name,
		symbolTable:   symTab,
		productionSet: prods,
	}, nil
}

func (b *GrammarBuilder) genSymbolTable(root *parser.RootNode) (*symbolTable, error) {
	symTab := newSymbolTable()

	defined := map[string]struct{}{}
	for _, prod := range root.Productions {
		defined[prod.LHS] = struct{}{}
	}

	symTab.registerStartSymbol(root.Productions[0].LHS)
	for _, prod := range root.Productions {
		if _, err := symTab.registerNonTerminalSymbol(prod.LHS); err != nil {
			return nil, err
		}
		for _, elem := range prod.RHS {
			if !elem.Terminal {
				if _, ok := defined[elem.Name]; !ok {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrUndefinedSym,
						Detail: fmt.Sprintf("<%v>", elem.Name),
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					continue
				}
				if _, err := symTab.registerNonTerminalSymbol(elem.Name); err != nil {
					return nil, err
				}
				continue
			}

			if elem.Name == SymbolNameEOF {
				b.errs = append(b.errs, &verr.SpecError{
					Cause: semErrReservedEOF,
					Row:   elem.Pos.Row,
					Col:   elem.Pos.Col,
				})
				continue
			}
			if _, ok := defined[elem.Name]; ok {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateName,
					Detail: fmt.Sprintf("[%v]", elem.Name),
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
				continue
			}
			if _, err := symTab.registerTerminalSymbol(elem.Name); err != nil {
				return nil, err
			}
		}
	}

	return symTab, nil
}

func (b *GrammarBuilder) genProductionSet(root *parser.RootNode, symTab *symbolTable) (*productionSet, error) {
	prods := newProductionSet()
	for _, p := range root.Productions {
		lhs := symTab.text2NonTerm[p.LHS]
		rhs := make([]symbol, 0, len(p.RHS))
		for _, elem := range p.RHS {
			if elem.Terminal {
				rhs = append(rhs, symTab.text2Term[elem.Name])
			} else {
				rhs = append(rhs, symTab.text2NonTerm[elem.Name])
			}
		}

		prod, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(prod) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateProduction,
				Detail: p.LHS,
				Row:    p.Pos.Row,
				Col:    p.Pos.Col,
			})
		}
	}
	return prods, nil
}

// checkUnusedProductions reports non-terminals that the start symbol never derives.
func (b *GrammarBuilder) checkUnusedProductions(prods *productionSet) {
	reached := map[symbol]struct{}{
		symbolStart: {},
	}
	queue := []symbol{symbolStart}
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		ps, _ := prods.findByLHS(sym)
		for _, prod := range ps {
			for _, s := range prod.rhs {
				if !s.isNonTerminal() {
					continue
				}
				if _, ok := reached[s]; ok {
					continue
				}
				reached[s] = struct{}{}
				queue = append(queue, s)
			}
		}
	}

	for i, p := range b.AST.Productions {
		prod, _ := prods.findByNum(productionNum(i))
		if prod == nil {
			continue
		}
		if _, ok := reached[prod.lhs]; ok {
			continue
		}
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrUnusedProduction,
			Detail: fmt.Sprintf("<%v>", p.LHS),
			Row:    p.Pos.Row,
			Col:    p.Pos.Col,
		})
	}
}

type compileConfig struct {
	report bool
}

type CompileOption func(config *compileConfig)

// EnableReporting makes Compile return a report containing the sets and the cells of the analysis table.
func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.report = true
	}
}

// Compile computes the NULLABLE, FIRST, FOLLOW, and FIRST* sets and the analysis table. A cell that receives
// two or more productions is a conflict. Compile keeps the production with the lowest number and reports
// the conflict rather than failing, so the report is returned whenever a conflict exists.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	sets, err := genSets(gram)
	if err != nil {
		return nil, nil, err
	}

	symTab := gram.symbolTable
	tab, err := genAnalysisTable(symTab, gram.productionSet, sets.firstStar, sets.follow)
	if err != nil {
		return nil, nil, err
	}

	orig, err := compressor.NewOriginalTable(tab.entries(), tab.terminalCount)
	if err != nil {
		return nil, nil, err
	}
	comp := compressor.NewRowDisplacementTable(int(cellEntryEmpty))
	if err := comp.Compress(orig); err != nil {
		return nil, nil, err
	}

	prods := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(prods))
	rhsSyms := make([][]int, len(prods))
	for i, prod := range prods {
		lhsSyms[i] = prod.lhs.num().Int()
		rhsSyms[i] = encodeSymbols(prod.rhs)
	}

	cg := &spec.CompiledGrammar{
		Name: gram.name,
		Syntactic: &spec.SyntacticSpec{
			Terminals:        symTab.termTexts,
			TerminalCount:    len(symTab.termTexts),
			NonTerminals:     symTab.nonTermTexts,
			NonTerminalCount: len(symTab.nonTermTexts),
			StartSymbol:      symbolStart.num().Int(),
			EOFSymbol:        symbolEOF.num().Int(),
			LHSSymbols:       lhsSyms,
			RHSSymbols:       rhsSyms,
			Table: &spec.AnalysisTable{
				OriginalRowCount: comp.OriginalRowCount,
				OriginalColCount: comp.OriginalColCount,
				EmptyValue:       comp.EmptyValue,
				Entries:          comp.Entries,
				Bounds:           comp.Bounds,
				RowDisplacement:  comp.RowDisplacement,
			},
		},
	}

	if !config.report && len(tab.conflicts) == 0 {
		return cg, nil, nil
	}

	return cg, genReport(gram, sets, tab), nil
}

type grammarSets struct {
	nullable  *nullableSet
	first     *firstSet
	follow    *followSet
	firstStar *firstStarSet
}

func genSets(gram *Grammar) (*grammarSets, error) {
	nullable := genNullableSet(gram.productionSet)
	first, err := genFirstSet(gram.productionSet, nullable)
	if err != nil {
		return nil, err
	}
	follow, err := genFollowSet(gram.productionSet, first)
	if err != nil {
		return nil, err
	}
	firstStar, err := genFirstStarSet(gram.productionSet, first, follow)
	if err != nil {
		return nil, err
	}
	return &grammarSets{
		nullable:  nullable,
		first:     first,
		follow:    follow,
		firstStar: firstStar,
	}, nil
}

func encodeSymbols(syms []symbol) []int {
	enc := make([]int, len(syms))
	for i, sym := range syms {
		enc[i] = encodeSymbol(sym)
	}
	return enc
}

func encodeSymbol(sym symbol) int {
	if sym.isNonTerminal() {
		return -sym.num().Int()
	}
	return sym.num().Int()
}

func genReport(gram *Grammar, sets *grammarSets, tab *analysisTable) *spec.Report {
	symTab := gram.symbolTable

	var terms []*spec.Terminal
	for _, sym := range symTab.terminalSymbols() {
		terms = append(terms, &spec.Terminal{
			Number: sym.num().Int(),
			Name:   symTab.toText(sym),
		})
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range symTab.nonTerminalSymbols() {
		nt := &spec.NonTerminal{
			Number:   sym.num().Int(),
			Name:     symTab.toText(sym),
			Nullable: sets.nullable.contains(sym),
		}
		if fst := sets.first.findBySymbol(sym); fst != nil {
			nt.First = encodeSymbols(fst.sortedSymbols())
		}
		if flw, err := sets.follow.find(sym); err == nil {
			nt.Follow = encodeSymbols(flw.sortedSymbols())
		}
		nonTerms = append(nonTerms, nt)
	}

	var prods []*spec.Production
	for _, prod := range gram.productionSet.getAllProductions() {
		prods = append(prods, &spec.Production{
			Number:    prod.num.Int(),
			LHS:       prod.lhs.num().Int(),
			RHS:       encodeSymbols(prod.rhs),
			FirstStar: encodeSymbols(sets.firstStar.find(prod.num).sortedSymbols()),
		})
	}

	var cells []*spec.Cell
	for _, nonTerm := range symTab.nonTerminalSymbols() {
		for _, term := range symTab.terminalSymbols() {
			c := tab.cell(nonTerm, term)
			if c.isEmpty() {
				continue
			}
			ps := make([]int, len(c.prods))
			for i, p := range c.prods {
				ps[i] = p.Int()
			}
			cells = append(cells, &spec.Cell{
				NonTerminal: nonTerm.num().Int(),
				Terminal:    term.num().Int(),
				Productions: ps,
				Synch:       c.synch,
			})
		}
	}

	var conflicts []*spec.Conflict
	for _, con := range tab.conflicts {
		ps := make([]int, len(con.prods))
		for i, p := range con.prods {
			ps[i] = p.Int()
		}
		_, adopted := (&cell{prods: con.prods}).entry().describe()
		conflicts = append(conflicts, &spec.Conflict{
			NonTerminal:       con.nonTerminal.num().Int(),
			Terminal:          con.terminal.num().Int(),
			Productions:       ps,
			AdoptedProduction: adopted.Int(),
		})
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		Cells:        cells,
		Conflicts:    conflicts,
	}
}
